package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/scenemap/scenemap/pkg/commands/options"
	"github.com/scenemap/scenemap/pkg/runner/fav"
)

func addFav(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage the favorites set",
		Example: `
scenemap fav add --id loc-42 --title "Han River Bridge"
scenemap fav rm loc-42
scenemap fav order loc-42 loc-7 loc-13
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addFavAdd(cmd)
	addFavRm(cmd)
	addFavOrder(cmd)

	topLevel.AddCommand(cmd)
}

func addFavAdd(topLevel *cobra.Command) {
	so := &options.SpotOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a spot to favorites",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			s := fav.Add{Spot: so.Record(), Service: svc}
			return s.Do(context.Background())
		},
	}

	options.AddSpotArgs(cmd, so)
	_ = cmd.MarkFlagRequired("id")

	topLevel.AddCommand(cmd)
}

func addFavRm(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a spot from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			s := fav.Remove{ID: args[0], Service: svc}
			return s.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}

func addFavOrder(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "order <id> [id...]",
		Short: "Record the favorites display order",
		Long: "Record the given display order locally and push it to the " +
			"server when supported. Ids not mentioned keep their relative " +
			"order after the mentioned ones.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("at least one id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			s := fav.Order{IDs: args, Service: svc}
			return s.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
