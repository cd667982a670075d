package server

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/scenemap/scenemap/pkg/api"
	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/place"
)

func newTestServer(t *testing.T, allowReorder bool) *httptest.Server {
	t.Helper()
	s := New(Options{
		Path:         t.TempDir(),
		Secret:       "test-secret",
		AllowReorder: allowReorder,
	})
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

func signIn(t *testing.T, base string) *api.HTTP {
	t.Helper()
	token, err := api.Login(context.Background(), base, "guest", "guest")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return &api.HTTP{Base: base, Token: token}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	ts := newTestServer(t, false)
	_, err := api.Login(context.Background(), ts.URL, "guest", "wrong")
	if !errors.Is(err, api.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestRequestsWithoutTokenRejected(t *testing.T) {
	ts := newTestServer(t, false)
	client := &api.HTTP{Base: ts.URL}
	_, err := client.ListFavorites(context.Background())
	if !errors.Is(err, api.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestFavoritesRoundTrip(t *testing.T) {
	ts := newTestServer(t, false)
	client := signIn(t, ts.URL)
	ctx := context.Background()

	if err := client.AddFavorite(ctx, place.Record{ID: "a", Title: "Alpha", Lat: 1, Lng: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := client.AddFavorite(ctx, place.Record{ID: "b", Title: "Beta"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Duplicate add is reported ok.
	if err := client.AddFavorite(ctx, place.Record{ID: "a", Title: "Alpha"}); err != nil {
		t.Fatalf("dup add: %v", err)
	}

	items, err := client.ListFavorites(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != "a" || items[0].Lat != 1 {
		t.Fatalf("items = %+v", items)
	}

	if err := client.RemoveFavorite(ctx, "a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	// Removing an absent id is still ok.
	if err := client.RemoveFavorite(ctx, "a"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	items, err = client.ListFavorites(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != "b" {
		t.Fatalf("items = %+v", items)
	}
}

func TestReorderDisabledAnswersMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, false)
	client := signIn(t, ts.URL)
	err := client.ReorderFavorites(context.Background(), []string{"b", "a"})
	if !errors.Is(err, api.ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestReorderEnabledPersistsOrder(t *testing.T) {
	ts := newTestServer(t, true)
	client := signIn(t, ts.URL)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := client.AddFavorite(ctx, place.Record{ID: id}); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	if err := client.ReorderFavorites(ctx, []string{"c", "a"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	items, err := client.ListFavorites(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{items[0].ID, items[1].ID, items[2].ID}
	if got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Fatalf("order = %v", got)
	}
}

func TestCourseLifecycle(t *testing.T) {
	ts := newTestServer(t, false)
	client := signIn(t, ts.URL)
	ctx := context.Background()

	saved, err := client.SaveCourse(ctx, course.Course{
		Title: "Day One",
		Spots: []place.Record{{ID: "s1"}, {ID: "s2"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if saved.ID == "" || saved.Created == "" {
		t.Fatalf("saved = %+v", saved)
	}

	saved.Title = "Day One, revised"
	updated, err := client.SaveCourse(ctx, saved)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != saved.ID || updated.Created != saved.Created {
		t.Fatalf("updated = %+v", updated)
	}

	items, err := client.ListCourses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Day One, revised" {
		t.Fatalf("items = %+v", items)
	}

	if err := client.DeleteCourse(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, err = client.ListCourses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %+v", items)
	}
}

func TestUpdateMissingCourseIsNotFound(t *testing.T) {
	ts := newTestServer(t, false)
	client := signIn(t, ts.URL)
	_, err := client.SaveCourse(context.Background(), course.Course{ID: "missing", Title: "x"})
	if !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAccountsAreIsolated(t *testing.T) {
	s := New(Options{
		Path:   t.TempDir(),
		Secret: "test-secret",
		Users:  map[string]string{"alice": "pw1", "bob": "pw2"},
	})
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	ctx := context.Background()

	aliceToken, err := api.Login(ctx, ts.URL, "alice", "pw1")
	if err != nil {
		t.Fatalf("alice login: %v", err)
	}
	bobToken, err := api.Login(ctx, ts.URL, "bob", "pw2")
	if err != nil {
		t.Fatalf("bob login: %v", err)
	}
	alice := &api.HTTP{Base: ts.URL, Token: aliceToken}
	bob := &api.HTTP{Base: ts.URL, Token: bobToken}

	if err := alice.AddFavorite(ctx, place.Record{ID: "a"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	items, err := bob.ListFavorites(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("bob sees alice's favorites: %+v", items)
	}
}
