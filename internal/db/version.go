package db

import (
	"github.com/L1malucas/smarted-sub000/internal/db/migrations"
)

// SchemaVersion returns the number of SQL migration files, which equals the
// current schema version, reported by the version endpoint.
func SchemaVersion() int {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return 0
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() {
			count++
		}
	}

	return count
}
