package config

// Version is the server binary version.
// Set at build time via: -ldflags "-X github.com/L1malucas/smarted-sub000/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
