// Package engine serializes collection mutations: acquire a per-key lock,
// apply the change optimistically, call the remote store, then reconcile
// on success or restore the pre-mutation snapshot on failure. Transport
// errors never escape to views; they only ever observe "state changed" or
// "state unchanged" plus a transient notice.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/scenemap/scenemap/pkg/api"
	"github.com/scenemap/scenemap/pkg/collections"
	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/order"
	"github.com/scenemap/scenemap/pkg/place"
)

var (
	// ErrBusy means a mutation for the same collection key is still in
	// flight. Requests are rejected, never queued; callers surface a
	// "try again" notice.
	ErrBusy = errors.New("engine: collection busy, try again")

	// ErrUnauthenticated rejects mutations without an active session,
	// before any lock is taken.
	ErrUnauthenticated = errors.New("engine: sign in required")

	// ErrLastSpot signals that removing the spot would empty the course.
	// The caller must confirm, after which the whole course is deleted
	// instead.
	ErrLastSpot = errors.New("engine: removing the last spot deletes the course")

	// ErrEmptyDraft rejects saving a draft without spots.
	ErrEmptyDraft = errors.New("engine: course needs at least one spot")
)

// DraftKey is the lock key guarding draft saves.
const DraftKey = "draft"

// Notifier receives transient, dismissable user-facing notices.
type Notifier interface {
	Notice(text string)
}

// NoticeFunc adapts a function to the Notifier interface.
type NoticeFunc func(string)

// Notice implements Notifier.
func (f NoticeFunc) Notice(text string) { f(text) }

// Coordinator owns the mutation locks. Operations on different keys run
// concurrently; a second operation on the same key is rejected with
// ErrBusy while the first is outstanding.
type Coordinator struct {
	client  api.Client
	store   *collections.Store
	overlay *order.Overlay

	// Authed gates every mutation; nil means always signed in.
	Authed func() bool

	// OnChange runs after every observable store change (the projector's
	// notify). Optional.
	OnChange func()

	// Notices receives user-facing failure notices. Optional.
	Notices Notifier

	mu       sync.Mutex
	inflight map[string]bool
}

// New wires a coordinator over its collaborators.
func New(client api.Client, store *collections.Store, overlay *order.Overlay) *Coordinator {
	return &Coordinator{
		client:   client,
		store:    store,
		overlay:  overlay,
		inflight: make(map[string]bool),
	}
}

func (c *Coordinator) acquire(key string) error {
	if c.Authed != nil && !c.Authed() {
		return ErrUnauthenticated
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[key] {
		return fmt.Errorf("%w (%s)", ErrBusy, key)
	}
	c.inflight[key] = true
	return nil
}

func (c *Coordinator) release(key string) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

func (c *Coordinator) changed() {
	if c.OnChange != nil {
		c.OnChange()
	}
}

func (c *Coordinator) notice(text string) {
	if c.Notices != nil {
		c.Notices.Notice(text)
	}
}

// AddFavorite saves a place to the favorites set. Adding an id that is
// already a favorite is a no-op that still succeeds.
func (c *Coordinator) AddFavorite(ctx context.Context, r place.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := c.acquire(order.Favorites); err != nil {
		return err
	}
	defer c.release(order.Favorites)

	if _, ok := c.store.Favorite(r.ID); ok {
		return nil
	}

	snap := c.store.Snapshot()
	c.store.SetFavorite(r, true)
	c.changed()

	if err := c.client.AddFavorite(ctx, r); err != nil {
		c.store.Restore(snap)
		c.changed()
		c.notice("Couldn't save the place. Try again.")
		return fmt.Errorf("engine: add favorite %s: %w", r.ID, err)
	}
	return nil
}

// RemoveFavorite drops a place from the favorites set. Removing an id
// that is not a favorite is a no-op that still succeeds, as is a remote
// not-found.
func (c *Coordinator) RemoveFavorite(ctx context.Context, id string) error {
	if err := c.acquire(order.Favorites); err != nil {
		return err
	}
	defer c.release(order.Favorites)

	if _, ok := c.store.Favorite(id); !ok {
		return nil
	}

	snap := c.store.Snapshot()
	c.store.SetFavorite(place.Record{ID: id}, false)
	c.changed()

	if err := c.client.RemoveFavorite(ctx, id); err != nil && !errors.Is(err, api.ErrNotFound) {
		c.store.Restore(snap)
		c.changed()
		c.notice("Couldn't remove the place. Try again.")
		return fmt.Errorf("engine: remove favorite %s: %w", id, err)
	}
	return nil
}

// ReorderFavorites records a new favorites display order. Persistence is
// delegated to the overlay: the local record always succeeds and the
// backing array is untouched, so there is nothing to roll back.
func (c *Coordinator) ReorderFavorites(ctx context.Context, ids []string) error {
	if err := c.acquire(order.Favorites); err != nil {
		return err
	}
	defer c.release(order.Favorites)

	c.overlay.Set(ctx, order.Favorites, ids)
	c.changed()
	return nil
}

// ReorderCourseSpots records a new display order for one course's spots.
func (c *Coordinator) ReorderCourseSpots(ctx context.Context, courseID string, ids []string) error {
	key := course.Key(courseID)
	if err := c.acquire(key); err != nil {
		return err
	}
	defer c.release(key)

	if _, ok := c.store.Course(courseID); !ok {
		return nil // already gone, already satisfied
	}
	c.overlay.Set(ctx, key, ids)
	c.changed()
	return nil
}

// RemoveCourseSpot takes a spot out of a course. The backend has no
// partial update, so the filtered course is created remotely first and
// the original deleted only after the create succeeds; a delete failure
// leaves a remote duplicate, which is reported but not rolled back, and
// the store re-keys to the new id either way.
//
// Removing the last spot would leave an empty course: without confirmed
// it returns ErrLastSpot, with confirmed it deletes the whole course.
func (c *Coordinator) RemoveCourseSpot(ctx context.Context, courseID, spotID string, confirmed bool) error {
	key := course.Key(courseID)
	if err := c.acquire(key); err != nil {
		return err
	}

	// Read the course under the lock so the payload cannot go stale.
	orig, ok := c.store.Course(courseID)
	if !ok || !orig.HasSpot(spotID) {
		c.release(key)
		return nil
	}
	if len(orig.Spots) == 1 {
		// DeleteCourse takes the same key, so hand the lock back first.
		c.release(key)
		if !confirmed {
			return ErrLastSpot
		}
		return c.DeleteCourse(ctx, courseID)
	}
	defer c.release(key)

	snap := c.store.Snapshot()
	c.store.RemoveCourseSpot(courseID, spotID)
	c.changed()

	payload := orig.WithoutSpot(spotID)
	payload.ID = "" // create a replacement, never update in place
	created, err := c.client.SaveCourse(ctx, payload)
	if err != nil {
		c.store.Restore(snap)
		c.changed()
		c.notice("Couldn't update the course. Try again.")
		return fmt.Errorf("engine: replace course %s: %w", courseID, err)
	}

	if err := c.client.DeleteCourse(ctx, courseID); err != nil && !errors.Is(err, api.ErrNotFound) {
		// The replacement exists, the original lingers. Keep the new
		// course visible and report the duplicate.
		fmt.Fprintf(os.Stderr, "engine: delete original course %s after replacement %s: %v\n",
			courseID, created.ID, err)
		c.notice("Course updated, but the old copy could not be removed.")
	}

	c.store.ReplaceCourse(courseID, created)
	c.overlay.Rename(key, created.Key())
	c.changed()
	return nil
}

// SaveDraft persists a draft course and returns the stored course with
// its server-assigned id. The result is inserted at the head of the
// course list; the caller discards the draft.
func (c *Coordinator) SaveDraft(ctx context.Context, draft course.Course) (course.Course, error) {
	if len(draft.Spots) == 0 {
		return course.Course{}, ErrEmptyDraft
	}
	if err := c.acquire(DraftKey); err != nil {
		return course.Course{}, err
	}
	defer c.release(DraftKey)

	payload := draft.Clone()
	payload.ID = ""
	created, err := c.client.SaveCourse(ctx, payload)
	if err != nil {
		c.notice("Couldn't save the course. Try again.")
		return course.Course{}, fmt.Errorf("engine: save draft: %w", err)
	}

	c.store.InsertCourse(created)
	c.changed()
	return created, nil
}

// DeleteCourse removes a whole course. A course unknown locally or
// remotely counts as already deleted.
func (c *Coordinator) DeleteCourse(ctx context.Context, courseID string) error {
	key := course.Key(courseID)
	if err := c.acquire(key); err != nil {
		return err
	}
	defer c.release(key)

	if _, ok := c.store.Course(courseID); !ok {
		return nil
	}

	snap := c.store.Snapshot()
	c.store.RemoveCourse(courseID)
	c.changed()

	if err := c.client.DeleteCourse(ctx, courseID); err != nil && !errors.Is(err, api.ErrNotFound) {
		c.store.Restore(snap)
		c.changed()
		c.notice("Couldn't delete the course. Try again.")
		return fmt.Errorf("engine: delete course %s: %w", courseID, err)
	}

	c.overlay.Clear(key)
	return nil
}
