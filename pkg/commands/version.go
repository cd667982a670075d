package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

func addVersion(topLevel *cobra.Command) {
	shortened := false
	version := "dev"
	commit := "none"
	date := "unknown"
	output := "json"
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the scenemap build version.",
		Example: `
scenemap version
scenemap version --short
scenemap version -o yaml
`,
		Run: func(_ *cobra.Command, _ []string) {
			resp := goversion.FuncWithOutput(shortened, version, commit, date, output)
			fmt.Print(resp)
		},
	}

	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Version number only, no commit or build date.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format, 'yaml' or 'json'.")

	topLevel.AddCommand(cmd)
}
