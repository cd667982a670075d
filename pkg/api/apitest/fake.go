// Package apitest provides an in-memory api.Client for tests.
package apitest

import (
	"context"
	"fmt"
	"sync"

	"github.com/scenemap/scenemap/pkg/api"
	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/place"
)

// Fake implements api.Client against in-memory state. Zero value is ready to
// use. Failures are injected per operation name: ListFavorites, AddFavorite,
// RemoveFavorite, ReorderFavorites, ListCourses, SaveCourse, DeleteCourse.
type Fake struct {
	mu sync.Mutex

	Favorites []place.Record
	Courses   []course.Course

	// Fail returns the injected error for every call of that operation
	// until cleared.
	Fail map[string]error

	// FailOnce is consumed by the first call of the operation.
	FailOnce map[string]error

	// Calls records operation names in invocation order.
	Calls []string

	nextID int
}

var _ api.Client = (*Fake)(nil)

func (f *Fake) fail(op string) error {
	f.Calls = append(f.Calls, op)
	if err, ok := f.FailOnce[op]; ok {
		delete(f.FailOnce, op)
		return err
	}
	if err, ok := f.Fail[op]; ok {
		return err
	}
	return nil
}

// CallCount returns how many times op was invoked.
func (f *Fake) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *Fake) ListFavorites(ctx context.Context) ([]place.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListFavorites"); err != nil {
		return nil, err
	}
	return place.Clone(f.Favorites), nil
}

func (f *Fake) AddFavorite(ctx context.Context, r place.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("AddFavorite"); err != nil {
		return err
	}
	for _, have := range f.Favorites {
		if have.ID == r.ID {
			return nil // dup, still ok
		}
	}
	f.Favorites = append(f.Favorites, r)
	return nil
}

func (f *Fake) RemoveFavorite(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("RemoveFavorite"); err != nil {
		return err
	}
	kept := f.Favorites[:0]
	for _, have := range f.Favorites {
		if have.ID != id {
			kept = append(kept, have)
		}
	}
	f.Favorites = kept
	return nil
}

func (f *Fake) ReorderFavorites(ctx context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ReorderFavorites"); err != nil {
		return err
	}
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	ordered := place.Clone(f.Favorites)
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			pi, iok := pos[ordered[i].ID]
			pj, jok := pos[ordered[j].ID]
			if iok && jok && pj < pi {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}
	f.Favorites = ordered
	return nil
}

func (f *Fake) ListCourses(ctx context.Context) ([]course.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListCourses"); err != nil {
		return nil, err
	}
	return course.CloneAll(f.Courses), nil
}

func (f *Fake) SaveCourse(ctx context.Context, c course.Course) (course.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("SaveCourse"); err != nil {
		return course.Course{}, err
	}
	if c.ID != "" {
		for i, have := range f.Courses {
			if have.ID == c.ID {
				f.Courses[i] = c.Clone()
				return c.Clone(), nil
			}
		}
		return course.Course{}, api.ErrNotFound
	}
	f.nextID++
	saved := c.Clone()
	saved.ID = fmt.Sprintf("c%d", f.nextID)
	f.Courses = append(f.Courses, saved.Clone())
	return saved, nil
}

func (f *Fake) DeleteCourse(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DeleteCourse"); err != nil {
		return err
	}
	kept := f.Courses[:0]
	for _, have := range f.Courses {
		if have.ID != id {
			kept = append(kept, have)
		}
	}
	f.Courses = kept
	return nil
}
