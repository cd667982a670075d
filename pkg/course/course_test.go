package course

import (
	"testing"

	"github.com/scenemap/scenemap/pkg/place"
)

func sample() Course {
	return Course{
		ID:    "c1",
		Title: "Seoul drama tour",
		Spots: []place.Record{
			{ID: "p1", Title: "Namsan Tower", Lat: 37.55, Lng: 126.98},
			{ID: "p2", Title: "Bukchon Village", Lat: 37.58, Lng: 126.98},
		},
	}
}

func TestDraft(t *testing.T) {
	c := sample()
	if c.Draft() {
		t.Fatal("persisted course reported as draft")
	}
	c.ID = ""
	if !c.Draft() {
		t.Fatal("course without id should be a draft")
	}
}

func TestKey(t *testing.T) {
	if got := sample().Key(); got != "course:c1" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestWithoutSpot(t *testing.T) {
	c := sample()
	got := c.WithoutSpot("p1")
	if len(got.Spots) != 1 || got.Spots[0].ID != "p2" {
		t.Fatalf("unexpected spots after removal: %+v", got.Spots)
	}
	// Original must be untouched.
	if len(c.Spots) != 2 {
		t.Fatalf("original course mutated: %+v", c.Spots)
	}
}

func TestValidate(t *testing.T) {
	c := sample()
	if err := c.Validate(); err != nil {
		t.Fatalf("valid course rejected: %v", err)
	}
	c.Spots = nil
	if err := c.Validate(); err == nil {
		t.Fatal("course with no spots must fail validation")
	}
	c = sample()
	c.Title = "  "
	if err := c.Validate(); err == nil {
		t.Fatal("untitled course must fail validation")
	}
}
