// Package place defines the immutable place snapshot shared by favorites,
// courses, and map payloads.
package place

import (
	"errors"
	"fmt"
	"math"
)

// Record is the last-seen snapshot of a place. Identity is ID; the server is
// the source of truth for display fields, but clients keep the snapshot so
// they can render optimistically before confirmation.
type Record struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Address string  `json:"addr"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Validate reports whether the record can be stored or sent to the server.
func (r Record) Validate() error {
	if r.ID == "" {
		return errors.New("place: id required")
	}
	if !finite(r.Lat) || !finite(r.Lng) {
		return fmt.Errorf("place: %s has non-finite coordinates", r.ID)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Dedupe collapses duplicate ids, keeping the position of the first
// occurrence and the fields of the last.
func Dedupe(items []Record) []Record {
	out := make([]Record, 0, len(items))
	at := make(map[string]int, len(items))
	for _, r := range items {
		if i, ok := at[r.ID]; ok {
			out[i] = r
			continue
		}
		at[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}

// IDs returns the record ids in order.
func IDs(items []Record) []string {
	ids := make([]string, len(items))
	for i, r := range items {
		ids[i] = r.ID
	}
	return ids
}

// Clone returns a copy of the slice safe to hand to views.
func Clone(items []Record) []Record {
	if len(items) == 0 {
		return nil
	}
	out := make([]Record, len(items))
	copy(out, items)
	return out
}
