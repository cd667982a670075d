package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

var (
	oo = &base.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "scenemap",
		Short: base.Wrap80("Filming location favorites and courses on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addLogin(topLevel)
	addGet(topLevel)
	addFav(topLevel)
	addCourse(topLevel)
	addServe(topLevel)
	addUI(topLevel)
	addVersion(topLevel)
}
