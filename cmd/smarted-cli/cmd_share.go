package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Resolve public share links",
	}
	cmd.AddCommand(shareResolveCmd())
	return cmd
}

func shareResolveCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "resolve <token>",
		Short: "Resolve a share link and print the shared resource",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			shared, err := apiClient.Share.Resolve(context.Background(), args[0], password)
			if err != nil {
				fatal("resolve link", err)
			}
			output(shared, shared.Link.Token)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password for protected links")
	return cmd
}
