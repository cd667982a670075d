// Package collections holds the in-memory authority for a session's
// favorites and courses. It performs no network I/O; mutations arrive
// pre-validated from the engine, and views read clone-on-read snapshots.
package collections

import (
	"sync"

	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/place"
)

// Snapshot is a read-only copy of the store state.
type Snapshot struct {
	Favorites []place.Record
	Courses   []course.Course
}

// Store is the single in-memory cache for one signed-in session. Favorites
// keep insertion order as the base order; display order comes from the
// order overlay. Courses keep server-declared spot order as base order.
type Store struct {
	mu        sync.RWMutex
	favorites []place.Record
	courses   []course.Course
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{}
}

// SeedFavorites replaces the favorites set, deduplicating by id
// (last-seen wins).
func (s *Store) SeedFavorites(items []place.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = place.Dedupe(items)
}

// SeedCourses replaces the course list as fetched.
func (s *Store) SeedCourses(items []course.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = course.CloneAll(items)
}

// Clear empties the store, used on sign-out and unrecoverable load
// failure.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = nil
	s.courses = nil
}

// Snapshot returns a deep copy safe for views.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Favorites: place.Clone(s.favorites),
		Courses:   course.CloneAll(s.courses),
	}
}

// Restore rewinds the store to a previously captured snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = place.Clone(snap.Favorites)
	s.courses = course.CloneAll(snap.Courses)
}

// Favorite looks a favorite up by id.
func (s *Store) Favorite(id string) (place.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.favorites {
		if r.ID == id {
			return r, true
		}
	}
	return place.Record{}, false
}

// SetFavorite adds or removes a favorite in memory and reports whether
// membership changed.
func (s *Store) SetFavorite(r place.Record, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, have := range s.favorites {
		if have.ID != r.ID {
			continue
		}
		if add {
			s.favorites[i] = r // refresh the cached snapshot
			return false
		}
		s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
		return true
	}
	if !add {
		return false
	}
	s.favorites = append(s.favorites, r)
	return true
}

// Course looks a course up by id.
func (s *Store) Course(id string) (course.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.courses {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return course.Course{}, false
}

// InsertCourse puts a course at the head of the list, the position newly
// saved courses occupy.
func (s *Store) InsertCourse(c course.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = append([]course.Course{c.Clone()}, s.courses...)
}

// ReplaceCourse swaps the course with oldID for the given course, keeping
// list position. When oldID is absent the course is inserted at the head.
func (s *Store) ReplaceCourse(oldID string, c course.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, have := range s.courses {
		if have.ID == oldID {
			s.courses[i] = c.Clone()
			return
		}
	}
	s.courses = append([]course.Course{c.Clone()}, s.courses...)
}

// RemoveCourse drops a course by id and reports whether it was present.
func (s *Store) RemoveCourse(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, have := range s.courses {
		if have.ID == id {
			s.courses = append(s.courses[:i], s.courses[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveCourseSpot drops a single spot from a course and reports whether
// anything changed.
func (s *Store) RemoveCourseSpot(courseID, spotID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, have := range s.courses {
		if have.ID != courseID {
			continue
		}
		if !have.HasSpot(spotID) {
			return false
		}
		s.courses[i] = have.WithoutSpot(spotID)
		return true
	}
	return false
}
