package options

import (
	"github.com/spf13/cobra"
)

// CourseOptions captures common course selection flags.
type CourseOptions struct {
	Course  string
	Title   string
	Notes   string
	Confirm bool
}

// AddCourseArgs wires the course id flag on the provided command.
func AddCourseArgs(cmd *cobra.Command, o *CourseOptions) {
	cmd.Flags().StringVarP(&o.Course, "course", "c", "",
		"Specify the course id.")
}

// AddCourseDraftArgs wires title and notes flags for creating a course.
func AddCourseDraftArgs(cmd *cobra.Command, o *CourseOptions) {
	cmd.Flags().StringVarP(&o.Title, "title", "t", "", "Course title.")
	cmd.Flags().StringVar(&o.Notes, "notes", "", "Course notes.")
}

// AddConfirmArg wires the destructive-operation confirmation flag.
func AddConfirmArg(cmd *cobra.Command, o *CourseOptions) {
	cmd.Flags().BoolVar(&o.Confirm, "confirm", false,
		"Confirm deleting the course when its last spot is removed.")
}
