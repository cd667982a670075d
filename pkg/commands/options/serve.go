package options

import (
	"github.com/spf13/cobra"
)

// ServeOptions configures the built-in backend.
type ServeOptions struct {
	Addr         string
	Path         string
	Secret       string
	AllowReorder bool
}

// AddServeArgs wires server flags on the provided command.
func AddServeArgs(cmd *cobra.Command, o *ServeOptions) {
	cmd.Flags().StringVar(&o.Addr, "addr", ":8844", "Listen address.")
	cmd.Flags().StringVar(&o.Path, "path", "", "Storage path, defaults to the configured store path.")
	cmd.Flags().StringVar(&o.Secret, "secret", "", "Token signing secret.")
	cmd.Flags().BoolVar(&o.AllowReorder, "allow-reorder", false,
		"Enable the favorites reorder endpoint.")
}
