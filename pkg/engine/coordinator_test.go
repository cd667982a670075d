package engine

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/scenemap/scenemap/pkg/api"
	"github.com/scenemap/scenemap/pkg/api/apitest"
	"github.com/scenemap/scenemap/pkg/collections"
	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/order"
	"github.com/scenemap/scenemap/pkg/place"
)

type noticeRecorder struct {
	mu    sync.Mutex
	texts []string
}

func (r *noticeRecorder) Notice(text string) {
	r.mu.Lock()
	r.texts = append(r.texts, text)
	r.mu.Unlock()
}

func (r *noticeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.texts)
}

func newTestCoordinator(t *testing.T, fake *apitest.Fake) (*Coordinator, *collections.Store, *order.Overlay) {
	t.Helper()
	store := collections.NewStore()
	overlay := order.Open(t.TempDir(), "tester", nil)
	return New(fake, store, overlay), store, overlay
}

func TestAddFavoriteIdempotent(t *testing.T) {
	fake := &apitest.Fake{}
	c, store, _ := newTestCoordinator(t, fake)
	ctx := context.Background()
	p := place.Record{ID: "p1", Title: "X", Lat: 1, Lng: 1}

	if err := c.AddFavorite(ctx, p); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := c.AddFavorite(ctx, p); err != nil {
		t.Fatalf("second add must also succeed: %v", err)
	}
	if got := fake.CallCount("AddFavorite"); got != 1 {
		t.Fatalf("redundant network round trip: AddFavorite called %d times", got)
	}
	if snap := store.Snapshot(); len(snap.Favorites) != 1 {
		t.Fatalf("membership changed: %+v", snap.Favorites)
	}
}

func TestRemoveFavoriteRollbackOnFailure(t *testing.T) {
	fake := &apitest.Fake{
		Favorites: []place.Record{{ID: "A"}, {ID: "B"}},
		Fail:      map[string]error{"RemoveFavorite": errors.New("remote down")},
	}
	notices := &noticeRecorder{}
	c, store, _ := newTestCoordinator(t, fake)
	c.Notices = notices
	store.SeedFavorites(fake.Favorites)

	err := c.RemoveFavorite(context.Background(), "A")
	if err == nil {
		t.Fatal("expected failure")
	}
	snap := store.Snapshot()
	if got := place.IDs(snap.Favorites); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("state must equal pre-mutation snapshot, got %v", got)
	}
	if notices.count() != 1 {
		t.Fatalf("expected one failure notice, got %d", notices.count())
	}
}

func TestRemoveFavoriteAbsentIsNoop(t *testing.T) {
	fake := &apitest.Fake{}
	c, _, _ := newTestCoordinator(t, fake)

	if err := c.RemoveFavorite(context.Background(), "ghost"); err != nil {
		t.Fatalf("removing a non-member must succeed: %v", err)
	}
	if got := fake.CallCount("RemoveFavorite"); got != 0 {
		t.Fatalf("no network call expected, got %d", got)
	}
}

func TestRemoveFavoriteRemoteNotFoundSucceeds(t *testing.T) {
	fake := &apitest.Fake{Fail: map[string]error{"RemoveFavorite": api.ErrNotFound}}
	c, store, _ := newTestCoordinator(t, fake)
	store.SeedFavorites([]place.Record{{ID: "A"}})

	if err := c.RemoveFavorite(context.Background(), "A"); err != nil {
		t.Fatalf("remote not-found is already satisfied: %v", err)
	}
	if snap := store.Snapshot(); len(snap.Favorites) != 0 {
		t.Fatalf("favorite should stay removed locally: %+v", snap.Favorites)
	}
}

type blockingPersister struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingPersister) PersistOrder(ctx context.Context, key string, ids []string) error {
	b.entered <- struct{}{}
	<-b.release
	return nil
}

func TestSameKeyReorderRejectedNotQueued(t *testing.T) {
	remote := &blockingPersister{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	fake := &apitest.Fake{}
	store := collections.NewStore()
	overlay := order.Open(t.TempDir(), "tester", remote)
	c := New(fake, store, overlay)
	store.SeedCourses([]course.Course{{ID: "42", Spots: []place.Record{{ID: "a"}, {ID: "b"}}}})

	done := make(chan error, 1)
	go func() {
		done <- c.ReorderCourseSpots(context.Background(), "42", []string{"b", "a"})
	}()
	<-remote.entered // first call holds course:42

	if err := c.ReorderCourseSpots(context.Background(), "42", []string{"a", "b"}); !errors.Is(err, ErrBusy) {
		t.Fatalf("second reorder must be rejected synchronously with ErrBusy, got %v", err)
	}

	close(remote.release)
	if err := <-done; err != nil {
		t.Fatalf("first reorder: %v", err)
	}
}

func TestRemoveCourseSpotReadsUnderLock(t *testing.T) {
	remote := &blockingPersister{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	fake := &apitest.Fake{}
	store := collections.NewStore()
	overlay := order.Open(t.TempDir(), "tester", remote)
	c := New(fake, store, overlay)
	store.SeedCourses([]course.Course{{ID: "42", Spots: []place.Record{{ID: "a"}, {ID: "b"}}}})

	done := make(chan error, 1)
	go func() {
		done <- c.ReorderCourseSpots(context.Background(), "42", []string{"b", "a"})
	}()
	<-remote.entered // reorder holds course:42

	// The spot removal must take the lock before it looks at the course,
	// so it fails busy rather than acting on a snapshot it read early.
	if err := c.RemoveCourseSpot(context.Background(), "42", "a", false); !errors.Is(err, ErrBusy) {
		t.Fatalf("removal during in-flight mutation must report ErrBusy, got %v", err)
	}

	close(remote.release)
	if err := <-done; err != nil {
		t.Fatalf("reorder: %v", err)
	}
}

func TestLastSpotRequiresConfirmation(t *testing.T) {
	fake := &apitest.Fake{
		Courses: []course.Course{{ID: "c9", Title: "solo", Spots: []place.Record{{ID: "only"}}}},
	}
	c, store, _ := newTestCoordinator(t, fake)
	store.SeedCourses(fake.Courses)
	ctx := context.Background()

	err := c.RemoveCourseSpot(ctx, "c9", "only", false)
	if !errors.Is(err, ErrLastSpot) {
		t.Fatalf("expected ErrLastSpot, got %v", err)
	}
	if fake.CallCount("SaveCourse") != 0 || fake.CallCount("DeleteCourse") != 0 {
		t.Fatal("nothing may hit the network before confirmation")
	}
	if _, ok := store.Course("c9"); !ok {
		t.Fatal("course must be untouched before confirmation")
	}

	if err := c.RemoveCourseSpot(ctx, "c9", "only", true); err != nil {
		t.Fatalf("confirmed removal: %v", err)
	}
	if _, ok := store.Course("c9"); ok {
		t.Fatal("confirmed removal must delete the whole course")
	}
	if len(fake.Courses) != 0 {
		t.Fatalf("dangling empty course remotely: %+v", fake.Courses)
	}
}

func TestRemoveCourseSpotReplacesCourse(t *testing.T) {
	orig := course.Course{
		ID:    "c42",
		Title: "tour",
		Spots: []place.Record{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}},
	}
	fake := &apitest.Fake{Courses: []course.Course{orig}}
	c, store, overlay := newTestCoordinator(t, fake)
	store.SeedCourses(fake.Courses)
	ctx := context.Background()
	overlay.Set(ctx, course.Key("c42"), []string{"s3", "s1", "s2"})

	if err := c.RemoveCourseSpot(ctx, "c42", "s2", false); err != nil {
		t.Fatalf("remove spot: %v", err)
	}

	snap := store.Snapshot()
	if len(snap.Courses) != 1 {
		t.Fatalf("expected one course, got %+v", snap.Courses)
	}
	got := snap.Courses[0]
	if got.ID == "" || got.ID == "c42" {
		t.Fatalf("store must reference the replacement id, got %q", got.ID)
	}
	if ids := got.SpotIDs(); !reflect.DeepEqual(ids, []string{"s1", "s3"}) {
		t.Fatalf("unexpected spots: %v", ids)
	}
	if len(fake.Courses) != 1 || fake.Courses[0].ID != got.ID {
		t.Fatalf("original must be deleted remotely: %+v", fake.Courses)
	}
	// Recorded order follows the course to its new key.
	if ids := overlay.Get(course.Key(got.ID)); !reflect.DeepEqual(ids, []string{"s3", "s1", "s2"}) {
		t.Fatalf("order not renamed: %v", ids)
	}
}

func TestRemoveCourseSpotCreateFailureRollsBack(t *testing.T) {
	orig := course.Course{ID: "c42", Title: "tour", Spots: []place.Record{{ID: "s1"}, {ID: "s2"}}}
	fake := &apitest.Fake{
		Courses: []course.Course{orig},
		Fail:    map[string]error{"SaveCourse": errors.New("remote down")},
	}
	c, store, _ := newTestCoordinator(t, fake)
	store.SeedCourses(fake.Courses)

	if err := c.RemoveCourseSpot(context.Background(), "c42", "s1", false); err == nil {
		t.Fatal("expected failure")
	}
	got, ok := store.Course("c42")
	if !ok || len(got.Spots) != 2 {
		t.Fatalf("rollback must restore the original course, got %+v ok=%v", got, ok)
	}
	if fake.CallCount("DeleteCourse") != 0 {
		t.Fatal("original must not be deleted when the create failed")
	}
}

func TestRemoveCourseSpotPartialFailureKeepsReplacement(t *testing.T) {
	orig := course.Course{ID: "c42", Title: "tour", Spots: []place.Record{{ID: "s1"}, {ID: "s2"}}}
	fake := &apitest.Fake{
		Courses: []course.Course{orig},
		Fail:    map[string]error{"DeleteCourse": errors.New("remote down")},
	}
	notices := &noticeRecorder{}
	c, store, _ := newTestCoordinator(t, fake)
	c.Notices = notices
	store.SeedCourses(fake.Courses)

	if err := c.RemoveCourseSpot(context.Background(), "c42", "s1", false); err != nil {
		t.Fatalf("partial failure is not an operation failure: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.Courses) != 1 || snap.Courses[0].ID == "c42" {
		t.Fatalf("store must reference the replacement, got %+v", snap.Courses)
	}
	// The documented trade-off: the duplicate stays remotely.
	if len(fake.Courses) != 2 {
		t.Fatalf("expected duplicate to remain remotely, got %+v", fake.Courses)
	}
	if notices.count() != 1 {
		t.Fatalf("partial failure must be reported, notices=%d", notices.count())
	}
}

func TestSaveDraftRequiresSpots(t *testing.T) {
	fake := &apitest.Fake{}
	c, _, _ := newTestCoordinator(t, fake)

	_, err := c.SaveDraft(context.Background(), course.Course{Title: "empty"})
	if !errors.Is(err, ErrEmptyDraft) {
		t.Fatalf("expected ErrEmptyDraft, got %v", err)
	}
}

func TestSaveDraftInsertsAtHead(t *testing.T) {
	fake := &apitest.Fake{Courses: []course.Course{{ID: "old", Title: "older"}}}
	c, store, _ := newTestCoordinator(t, fake)
	store.SeedCourses(fake.Courses)

	created, err := c.SaveDraft(context.Background(), course.Course{
		Title: "fresh",
		Spots: []place.Record{{ID: "s1", Lat: 1, Lng: 1}},
	})
	if err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if created.Draft() {
		t.Fatal("saved course must carry the server-assigned id")
	}
	snap := store.Snapshot()
	if len(snap.Courses) != 2 || snap.Courses[0].ID != created.ID {
		t.Fatalf("saved course must sit at the head, got %+v", snap.Courses)
	}
}

func TestUnauthenticatedRejectedBeforeNetwork(t *testing.T) {
	fake := &apitest.Fake{}
	c, _, _ := newTestCoordinator(t, fake)
	c.Authed = func() bool { return false }

	err := c.AddFavorite(context.Background(), place.Record{ID: "p1"})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if len(fake.Calls) != 0 {
		t.Fatalf("no network calls expected, got %v", fake.Calls)
	}
}

func TestFavoritesEndToEnd(t *testing.T) {
	fake := &apitest.Fake{}
	c, store, overlay := newTestCoordinator(t, fake)
	ctx := context.Background()

	rendered := func() []string {
		snap := store.Snapshot()
		return place.IDs(overlay.Apply(order.Favorites, snap.Favorites))
	}

	if err := c.AddFavorite(ctx, place.Record{ID: "p1", Title: "X", Lat: 1, Lng: 1}); err != nil {
		t.Fatal(err)
	}
	if got := rendered(); !reflect.DeepEqual(got, []string{"p1"}) {
		t.Fatalf("after first add: %v", got)
	}

	if err := c.AddFavorite(ctx, place.Record{ID: "p2", Title: "Y", Lat: 2, Lng: 2}); err != nil {
		t.Fatal(err)
	}
	if got := rendered(); !reflect.DeepEqual(got, []string{"p1", "p2"}) {
		t.Fatalf("after second add: %v", got)
	}

	if err := c.ReorderFavorites(ctx, []string{"p2", "p1"}); err != nil {
		t.Fatal(err)
	}
	if got := rendered(); !reflect.DeepEqual(got, []string{"p2", "p1"}) {
		t.Fatalf("after reorder: %v", got)
	}

	if err := c.RemoveFavorite(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	if got := rendered(); !reflect.DeepEqual(got, []string{"p2"}) {
		t.Fatalf("after remove: %v", got)
	}
	if stored := overlay.Get(order.Favorites); !reflect.DeepEqual(stored, []string{"p2"}) {
		t.Fatalf("overlay entry for p1 must be pruned, got %v", stored)
	}
}
