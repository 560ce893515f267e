package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/L1malucas/smarted-sub000/client"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query and prune the audit log (admin only)",
	}
	cmd.AddCommand(auditQueryCmd())
	cmd.AddCommand(auditPurgeCmd())
	return cmd
}

func auditQueryCmd() *cobra.Command {
	var (
		action     string
		actor      string
		resourceID string
		since      string
		failed     bool
		limit      int
		offset     int
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query audit log entries",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.AuditQueryOptions{
				Action:     action,
				Actor:      actor,
				ResourceID: resourceID,
				Limit:      limit,
				Offset:     offset,
			}
			if since != "" {
				t, err := time.Parse(time.RFC3339, since)
				if err != nil {
					fatal("parse --since (want RFC3339)", err)
				}
				opts.Since = &t
			}
			if failed {
				success := false
				opts.Success = &success
			}
			entries, _, err := apiClient.Audit.Query(context.Background(), opts)
			if err != nil {
				fatal("query audit", err)
			}
			if flagFmt == "table" {
				headers := []string{"TIME", "ACTION", "ACTOR", "RESOURCE", "OK"}
				var rows [][]string
				for _, e := range entries {
					rows = append(rows, []string{
						e.CreatedAt.Format(time.RFC3339),
						e.Action, e.Actor, e.ResourceID,
						fmt.Sprintf("%t", e.Success),
					})
				}
				formatTable(headers, rows)
				return
			}
			output(entries, "")
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "Filter by action (e.g. share_link.resolve)")
	cmd.Flags().StringVar(&actor, "actor", "", "Filter by actor (user ID or \"public\")")
	cmd.Flags().StringVar(&resourceID, "resource", "", "Filter by resource ID")
	cmd.Flags().StringVar(&since, "since", "", "Only entries after this RFC3339 timestamp")
	cmd.Flags().BoolVar(&failed, "failed", false, "Only failed attempts")
	cmd.Flags().IntVar(&limit, "limit", 50, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func auditPurgeCmd() *cobra.Command {
	var retentionDays int
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete audit entries older than the retention window",
		Run: func(cmd *cobra.Command, args []string) {
			deleted, err := apiClient.Audit.Purge(context.Background(), retentionDays)
			if err != nil {
				fatal("purge audit", err)
			}
			fmt.Printf("deleted %d entries older than %d days\n", deleted, retentionDays)
		},
	}
	cmd.Flags().IntVar(&retentionDays, "retention-days", 90, "Keep entries newer than this many days")
	return cmd
}
