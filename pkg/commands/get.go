package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/scenemap/scenemap/pkg/commands/options"
	"github.com/scenemap/scenemap/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "get [favorites|courses]",
		Short: "get favorites and courses",
		Example: `
scenemap get
scenemap get favorites
scenemap get courses --show-id
`,
		ValidArgs: []string{"favorites", "courses"},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			s := get.Get{
				ShowID:  io.ShowID,
				Service: svc,
			}
			if len(args) == 1 {
				s.Favorites = args[0] == "favorites"
				s.Courses = args[0] == "courses"
			}
			return s.Do(context.Background())
		},
	}

	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
