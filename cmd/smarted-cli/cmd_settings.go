package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/L1malucas/smarted-sub000/client"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage tenant sharing policy",
	}
	cmd.AddCommand(settingsGetCmd())
	cmd.AddCommand(settingsSetCmd())
	return cmd
}

func settingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the tenant's sharing settings",
		Run: func(cmd *cobra.Command, args []string) {
			settings, err := apiClient.Settings.Get(context.Background())
			if err != nil {
				fatal("get settings", err)
			}
			if flagFmt == "table" {
				formatTable(
					[]string{"SETTING", "VALUE"},
					[][]string{
						{"default_link_expiration_days", fmt.Sprintf("%d", settings.DefaultLinkExpirationDays)},
						{"require_password_for_public_links", fmt.Sprintf("%t", settings.RequirePasswordForPublicLinks)},
						{"allow_public_link_sharing", fmt.Sprintf("%t", settings.AllowPublicLinkSharing)},
						{"max_link_views", fmt.Sprintf("%d", settings.MaxLinkViews)},
						{"max_users_per_tenant", fmt.Sprintf("%d", settings.MaxUsersPerTenant)},
					},
				)
				return
			}
			output(settings, "")
		},
	}
}

func settingsSetCmd() *cobra.Command {
	var (
		expirationDays  int
		requirePassword bool
		allowSharing    bool
		maxViews        int
		maxUsers        int
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update sharing settings (admin only)",
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateSettingsRequest{}
			if cmd.Flags().Changed("expiration-days") {
				req.DefaultLinkExpirationDays = &expirationDays
			}
			if cmd.Flags().Changed("require-password") {
				req.RequirePasswordForPublicLinks = &requirePassword
			}
			if cmd.Flags().Changed("allow-sharing") {
				req.AllowPublicLinkSharing = &allowSharing
			}
			if cmd.Flags().Changed("max-views") {
				req.MaxLinkViews = &maxViews
			}
			if cmd.Flags().Changed("max-users") {
				req.MaxUsersPerTenant = &maxUsers
			}
			settings, err := apiClient.Settings.Update(context.Background(), req)
			if err != nil {
				fatal("update settings", err)
			}
			output(settings, "")
		},
	}
	cmd.Flags().IntVar(&expirationDays, "expiration-days", 0, "Default link expiration in days (0 = never)")
	cmd.Flags().BoolVar(&requirePassword, "require-password", false, "Require passwords on new public links")
	cmd.Flags().BoolVar(&allowSharing, "allow-sharing", true, "Allow public link sharing")
	cmd.Flags().IntVar(&maxViews, "max-views", 0, "Default view limit for new links (0 = unlimited)")
	cmd.Flags().IntVar(&maxUsers, "max-users", 0, "Maximum users per tenant")
	return cmd
}
