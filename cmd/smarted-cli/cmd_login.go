package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var (
		password string
		save     bool
	)
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Exchange credentials for a token pair",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if password == "" {
				fmt.Fprint(os.Stderr, "Password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					fatal("read password", err)
				}
				password = strings.TrimSpace(line)
			}

			pair, err := apiClient.Auth.Login(context.Background(), args[0], password)
			if err != nil {
				fatal("login", err)
			}

			if save {
				cfgPath, err := saveToken(flagURL, pair.AccessToken)
				if err != nil {
					fatal("save token", err)
				}
				fmt.Fprintf(os.Stderr, "Token saved to %s\n", cfgPath)
			}

			output(pair, pair.AccessToken)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted if omitted)")
	cmd.Flags().BoolVar(&save, "save", false, "Store the access token in the active profile")
	return cmd
}
