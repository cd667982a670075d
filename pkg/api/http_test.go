package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/place"
)

func TestListFavoritesDecodesEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/favorites" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ok":    true,
			"items": []place.Record{{ID: "a", Title: "Alpha", Address: "1 Main St"}},
		})
	}))
	defer ts.Close()

	client := &HTTP{Base: ts.URL, Token: "tok"}
	items, err := client.ListFavorites(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Address != "1 Main St" {
		t.Fatalf("items = %+v", items)
	}
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthenticated},
		{http.StatusForbidden, ErrUnauthenticated},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusMethodNotAllowed, ErrUnsupported},
		{http.StatusNotImplemented, ErrUnsupported},
	}
	for _, tt := range tests {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		client := &HTTP{Base: ts.URL}
		err := client.ReorderFavorites(context.Background(), []string{"a"})
		ts.Close()
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: err = %v, want %v", tt.status, err, tt.want)
		}
	}
}

func TestBodyErrorCodeMapping(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "unsupported"})
	}))
	defer ts.Close()

	client := &HTTP{Base: ts.URL}
	err := client.ReorderFavorites(context.Background(), []string{"a"})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestSaveCourseMergesAssignedID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Older backends answer with just the id.
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "id": "c9"})
	}))
	defer ts.Close()

	client := &HTTP{Base: ts.URL}
	in := course.Course{Title: "Day One", Spots: []place.Record{{ID: "s1"}}}
	saved, err := client.SaveCourse(context.Background(), in)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID != "c9" || saved.Title != "Day One" || len(saved.Spots) != 1 {
		t.Fatalf("saved = %+v", saved)
	}
}

func TestSaveCoursePrefersFullCourse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"id":     "c9",
			"course": course.Course{ID: "c9", Title: "Server Title"},
		})
	}))
	defer ts.Close()

	client := &HTTP{Base: ts.URL}
	saved, err := client.SaveCourse(context.Background(), course.Course{Title: "Local Title"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Title != "Server Title" {
		t.Fatalf("saved = %+v", saved)
	}
}
