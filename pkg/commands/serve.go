package commands

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scenemap/scenemap/pkg/commands/options"
	"github.com/scenemap/scenemap/pkg/config"
	"github.com/scenemap/scenemap/pkg/runner/serve"
)

func addServe(topLevel *cobra.Command) {
	so := &options.ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the backend the clients talk to",
		Example: `
scenemap serve --secret change-me
scenemap serve --secret change-me --allow-reorder
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			path := so.Path
			if path == "" {
				path = filepath.Join(cfg.Path, "server")
			}
			s := serve.Serve{
				Addr:         so.Addr,
				Path:         path,
				Secret:       so.Secret,
				AllowReorder: so.AllowReorder,
			}
			return s.Do(context.Background())
		},
	}

	options.AddServeArgs(cmd, so)
	_ = cmd.MarkFlagRequired("secret")

	topLevel.AddCommand(cmd)
}
