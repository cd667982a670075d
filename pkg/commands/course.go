package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/scenemap/scenemap/pkg/commands/options"
	coursepkg "github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/place"
	"github.com/scenemap/scenemap/pkg/runner/courses"
)

func addCourse(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage courses",
		Example: `
scenemap course save --title "Day One" loc-42 loc-7
scenemap course rm 1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed
scenemap course spot rm --course 1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed loc-7
scenemap course spot order --course 1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed loc-7 loc-42
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addCourseSave(cmd)
	addCourseRm(cmd)
	addCourseSpot(cmd)

	topLevel.AddCommand(cmd)
}

func addCourseSave(topLevel *cobra.Command) {
	co := &options.CourseOptions{}

	cmd := &cobra.Command{
		Use:   "save <spot-id> [spot-id...]",
		Short: "Create a course from spot ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			spots := make([]place.Record, 0, len(args))
			for _, id := range args {
				spots = append(spots, place.Record{ID: id})
			}
			s := courses.Save{
				Draft: coursepkg.Course{
					Title: co.Title,
					Notes: co.Notes,
					Spots: spots,
				},
				Service: svc,
			}
			return s.Do(context.Background())
		},
	}

	options.AddCourseDraftArgs(cmd, co)
	_ = cmd.MarkFlagRequired("title")

	topLevel.AddCommand(cmd)
}

func addCourseRm(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "rm <course-id>",
		Short: "Delete a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			s := courses.Remove{ID: args[0], Service: svc}
			return s.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}

func addCourseSpot(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "spot",
		Short: "Manage the spots of a course",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addCourseSpotRm(cmd)
	addCourseSpotOrder(cmd)

	topLevel.AddCommand(cmd)
}

func addCourseSpotRm(topLevel *cobra.Command) {
	co := &options.CourseOptions{}

	cmd := &cobra.Command{
		Use:   "rm <spot-id>",
		Short: "Remove a spot from a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			s := courses.SpotRemove{
				CourseID:  co.Course,
				SpotID:    args[0],
				Confirmed: co.Confirm,
				Service:   svc,
			}
			return s.Do(context.Background())
		},
	}

	options.AddCourseArgs(cmd, co)
	options.AddConfirmArg(cmd, co)
	_ = cmd.MarkFlagRequired("course")

	topLevel.AddCommand(cmd)
}

func addCourseSpotOrder(topLevel *cobra.Command) {
	co := &options.CourseOptions{}

	cmd := &cobra.Command{
		Use:   "order <spot-id> [spot-id...]",
		Short: "Record a course's spot display order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			s := courses.SpotOrder{
				CourseID: co.Course,
				IDs:      args,
				Service:  svc,
			}
			return s.Do(context.Background())
		},
	}

	options.AddCourseArgs(cmd, co)
	_ = cmd.MarkFlagRequired("course")

	topLevel.AddCommand(cmd)
}
