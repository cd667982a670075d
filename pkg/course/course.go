// Package course defines user-authored routes of places.
package course

import (
	"errors"
	"strings"

	"github.com/scenemap/scenemap/pkg/place"
)

// Course is an ordered route of places. A Course with an empty ID is a draft
// being assembled client-side; it has not been persisted and is invisible to
// other surfaces until saved.
type Course struct {
	ID      string         `json:"id,omitempty"`
	Title   string         `json:"title"`
	Notes   string         `json:"notes,omitempty"`
	Spots   []place.Record `json:"spots"`
	Created string         `json:"created_at,omitempty"`
	Updated string         `json:"updated_at,omitempty"`
}

// Draft reports whether the course has not been persisted yet.
func (c Course) Draft() bool {
	return c.ID == ""
}

// Key returns the collection key used for locking and order overlays.
func (c Course) Key() string {
	return Key(c.ID)
}

// Key builds the collection key for a course id.
func Key(id string) string {
	return "course:" + id
}

// SpotIDs returns the spot ids in their base (server-declared) order.
func (c Course) SpotIDs() []string {
	return place.IDs(c.Spots)
}

// HasSpot reports whether a spot id is part of the course.
func (c Course) HasSpot(id string) bool {
	for _, s := range c.Spots {
		if s.ID == id {
			return true
		}
	}
	return false
}

// WithoutSpot returns a copy of the course with the given spot removed.
func (c Course) WithoutSpot(id string) Course {
	out := c.Clone()
	spots := out.Spots[:0]
	for _, s := range out.Spots {
		if s.ID != id {
			spots = append(spots, s)
		}
	}
	out.Spots = spots
	return out
}

// Clone returns a deep copy.
func (c Course) Clone() Course {
	out := c
	out.Spots = place.Clone(c.Spots)
	return out
}

// CloneAll deep-copies a course list.
func CloneAll(courses []Course) []Course {
	if len(courses) == 0 {
		return nil
	}
	out := make([]Course, len(courses))
	for i, c := range courses {
		out[i] = c.Clone()
	}
	return out
}

// Validate checks the course is saveable: a title and at least one spot.
func (c Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("course: title required")
	}
	if len(c.Spots) == 0 {
		return errors.New("course: at least one spot required")
	}
	for _, s := range c.Spots {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}
