package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/scenemap/scenemap/pkg/config"
	"github.com/scenemap/scenemap/pkg/runner/login"
)

func addLogin(topLevel *cobra.Command) {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a session token",
		Example: `
scenemap login -u guest -p guest
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			s := login.Login{
				Server:   cfg.Server,
				Username: username,
				Password: password,
			}
			return s.Do(context.Background())
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "guest", "Account username.")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password.")
	_ = cmd.MarkFlagRequired("password")

	topLevel.AddCommand(cmd)
}
