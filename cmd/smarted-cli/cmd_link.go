package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/L1malucas/smarted-sub000/client"
)

func newLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Manage share links",
	}
	cmd.AddCommand(linkCreateCmd())
	cmd.AddCommand(linkListCmd())
	cmd.AddCommand(linkUpdateCmd())
	cmd.AddCommand(linkDeactivateCmd())
	cmd.AddCommand(linkDeleteCmd())
	return cmd
}

func linkCreateCmd() *cobra.Command {
	var (
		resourceType string
		resourceName string
		expiresIn    int
		maxViews     int
		password     string
	)
	cmd := &cobra.Command{
		Use:   "create <resource-id>",
		Short: "Issue a share link for a resource",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateLinkRequest{
				ResourceType: resourceType,
				ResourceID:   args[0],
				ResourceName: resourceName,
				Password:     password,
			}
			if expiresIn > 0 {
				exp := time.Now().AddDate(0, 0, expiresIn)
				req.ExpiresAt = &exp
			}
			if maxViews > 0 {
				req.MaxViews = &maxViews
			}
			link, err := apiClient.Links.Create(context.Background(), req)
			if err != nil {
				fatal("create link", err)
			}
			output(link, link.Token)
		},
	}
	cmd.Flags().StringVar(&resourceType, "type", "job", "Resource type: job|candidate_report|dashboard")
	cmd.Flags().StringVar(&resourceName, "name", "", "Display name for the shared resource")
	cmd.Flags().IntVar(&expiresIn, "expires-in", 0, "Expiration in days (0 uses tenant default)")
	cmd.Flags().IntVar(&maxViews, "max-views", 0, "View limit (0 uses tenant default)")
	cmd.Flags().StringVar(&password, "password", "", "Password gate for the link")
	cmd.MarkFlagRequired("name") //nolint:errcheck
	return cmd
}

func linkListCmd() *cobra.Command {
	var (
		resourceType string
		resourceID   string
		activeOnly   bool
		limit        int
		offset       int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List share links",
		Run: func(cmd *cobra.Command, args []string) {
			if limit < 0 || offset < 0 {
				fmt.Fprintf(os.Stderr, "Error: --limit and --offset must be non-negative\n")
				os.Exit(1)
			}
			opts := &client.ListLinkOptions{
				ResourceType: resourceType,
				ResourceID:   resourceID,
				Limit:        limit,
				Offset:       offset,
			}
			if activeOnly {
				active := true
				opts.IsActive = &active
			}
			links, _, err := apiClient.Links.List(context.Background(), opts)
			if err != nil {
				fatal("list links", err)
			}
			if flagFmt == "table" {
				headers := []string{"TOKEN", "TYPE", "RESOURCE", "VIEWS", "ACTIVE", "EXPIRES"}
				var rows [][]string
				for _, l := range links {
					expires := "never"
					if l.ExpiresAt != nil {
						expires = l.ExpiresAt.Format("2006-01-02")
					}
					views := fmt.Sprintf("%d", l.ViewsCount)
					if l.MaxViews != nil {
						views = fmt.Sprintf("%d/%d", l.ViewsCount, *l.MaxViews)
					}
					rows = append(rows, []string{
						l.Token, l.ResourceType, l.ResourceName, views,
						fmt.Sprintf("%t", l.IsActive), expires,
					})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, l := range links {
					fmt.Println(l.Token)
				}
				return
			}
			output(links, "")
		},
	}
	cmd.Flags().StringVar(&resourceType, "type", "", "Filter by resource type")
	cmd.Flags().StringVar(&resourceID, "resource", "", "Filter by resource ID")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active links")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func linkUpdateCmd() *cobra.Command {
	var (
		expiresIn      int
		maxViews       int
		password       string
		removePassword bool
	)
	cmd := &cobra.Command{
		Use:   "update <token>",
		Short: "Update a share link",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateLinkRequest{}
			if cmd.Flags().Changed("expires-in") {
				exp := time.Now().AddDate(0, 0, expiresIn)
				req.ExpiresAt = &exp
			}
			if cmd.Flags().Changed("max-views") {
				req.MaxViews = &maxViews
			}
			if removePassword {
				empty := ""
				req.Password = &empty
			} else if password != "" {
				req.Password = &password
			}
			link, err := apiClient.Links.Update(context.Background(), args[0], req)
			if err != nil {
				fatal("update link", err)
			}
			output(link, link.Token)
		},
	}
	cmd.Flags().IntVar(&expiresIn, "expires-in", 0, "New expiration in days from now")
	cmd.Flags().IntVar(&maxViews, "max-views", 0, "New view limit")
	cmd.Flags().StringVar(&password, "password", "", "Replace the password gate")
	cmd.Flags().BoolVar(&removePassword, "remove-password", false, "Remove the password gate")
	return cmd
}

func linkDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <token>",
		Short: "Deactivate a share link immediately",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			link, err := apiClient.Links.Deactivate(context.Background(), args[0])
			if err != nil {
				fatal("deactivate link", err)
			}
			output(link, link.Token)
		},
	}
}

func linkDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <token>",
		Short: "Delete a share link",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Links.Delete(context.Background(), args[0]); err != nil {
				fatal("delete link", err)
			}
			fmt.Println("deleted")
		},
	}
}
