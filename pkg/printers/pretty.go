package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/place"
)

type PrettyPrint struct {
	ShowID bool
}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" spot")
	default:
		_, _ = c.Println(" spots")
	}
}

// Favorites prints the favorites set in display order.
func (pp *PrettyPrint) Favorites(items []place.Record) {
	if len(items) == 0 {
		pp.none()
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	if pp.ShowID {
		tbl.AddRow(bold("ID"), bold("#"), bold("Title"), bold("Address"))
	} else {
		tbl.AddRow(bold("#"), bold("Title"), bold("Address"))
	}
	for i, r := range items {
		if pp.ShowID {
			tbl.AddRow(faint(r.ID), i+1, r.Title, r.Address)
		} else {
			tbl.AddRow(i+1, r.Title, r.Address)
		}
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Courses prints each course with its spots in display order.
func (pp *PrettyPrint) Courses(cs []course.Course) {
	if len(cs) == 0 {
		pp.none()
		return
	}

	for _, c := range cs {
		pp.TitleWithCount(c.Title, len(c.Spots))
		if pp.ShowID {
			_, _ = color.New(color.FgHiYellow, color.Italic, color.Faint).Println(c.ID)
		}
		if c.Notes != "" {
			_, _ = color.New(color.Faint).Println(c.Notes)
		}

		tbl := uitable.New()
		tbl.Separator = "  "
		for i, r := range c.Spots {
			title := r.Title
			if title == "" {
				title = r.ID
			}
			tbl.AddRow(fmt.Sprintf("%d.", i+1), title, faint(r.Address))
		}
		_, _ = fmt.Fprintln(color.Output, tbl)
	}
}

// Route prints a course's spots as a single line, the order the map
// draws the polyline in.
func (pp *PrettyPrint) Route(c course.Course) {
	names := make([]string, 0, len(c.Spots))
	for _, r := range c.Spots {
		if r.Title != "" {
			names = append(names, r.Title)
			continue
		}
		names = append(names, r.ID)
	}
	_, _ = fmt.Fprintln(color.Output, strings.Join(names, " -> "))
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Print(" none\n\n")
}

func bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}

func faint(s string) string {
	return color.New(color.Faint).Sprint(s)
}
