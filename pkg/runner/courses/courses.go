// Package courses holds the course mutations behind the course
// subcommands.
package courses

import (
	"context"
	"errors"
	"fmt"

	"github.com/scenemap/scenemap/pkg/app"
	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/engine"
)

type Save struct {
	Draft   course.Course
	Service *app.Service
}

func (n *Save) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not save, no service")
	}
	if err := n.Service.SignIn(ctx); err != nil {
		return err
	}
	saved, err := n.Service.Coordinator.SaveDraft(ctx, n.Draft)
	if err != nil {
		return err
	}
	fmt.Printf("saved %s (%s)\n", saved.Title, saved.ID)
	return nil
}

type Remove struct {
	ID      string
	Service *app.Service
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not remove, no service")
	}
	if err := n.Service.SignIn(ctx); err != nil {
		return err
	}
	if err := n.Service.Coordinator.DeleteCourse(ctx, n.ID); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", n.ID)
	return nil
}

type SpotRemove struct {
	CourseID  string
	SpotID    string
	Confirmed bool
	Service   *app.Service
}

func (n *SpotRemove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not remove, no service")
	}
	if err := n.Service.SignIn(ctx); err != nil {
		return err
	}
	err := n.Service.Coordinator.RemoveCourseSpot(ctx, n.CourseID, n.SpotID, n.Confirmed)
	if errors.Is(err, engine.ErrLastSpot) {
		return errors.New("removing the last spot deletes the course; re-run with --confirm")
	}
	return err
}

type SpotOrder struct {
	CourseID string
	IDs      []string
	Service  *app.Service
}

func (n *SpotOrder) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not reorder, no service")
	}
	if err := n.Service.SignIn(ctx); err != nil {
		return err
	}
	return n.Service.Coordinator.ReorderCourseSpots(ctx, n.CourseID, n.IDs)
}
