// Package app wires the session together: remote client, in-memory
// store, order overlay, mutation coordinator, and view projector. UIs
// and CLIs share this layer instead of talking to the pieces directly.
package app

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/scenemap/scenemap/pkg/api"
	"github.com/scenemap/scenemap/pkg/collections"
	"github.com/scenemap/scenemap/pkg/config"
	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/engine"
	"github.com/scenemap/scenemap/pkg/order"
	"github.com/scenemap/scenemap/pkg/place"
	"github.com/scenemap/scenemap/pkg/projector"
)

// Service owns one account session. Sign-in loads both collections,
// sign-out drops them; responses from a previous session are discarded
// rather than seeded into the next one.
type Service struct {
	client api.Client

	Store       *collections.Store
	Overlay     *order.Overlay
	Coordinator *engine.Coordinator
	Projector   *projector.Projector

	mu     sync.Mutex
	authed bool
	epoch  int
}

// New builds a session service over the given remote client. The
// overlay persists under cfg.Path keyed by cfg.Account so local order
// survives restarts per account.
func New(cfg *config.Config, client api.Client) *Service {
	s := &Service{client: client}
	s.Store = collections.NewStore()
	s.Overlay = order.Open(cfg.Path, cfg.Account, remoteOrder{client: client})
	s.Coordinator = engine.New(client, s.Store, s.Overlay)
	s.Projector = projector.New(s.Store, s.Overlay)

	s.Coordinator.Authed = s.Authed
	s.Coordinator.OnChange = s.Projector.Notify
	return s
}

// remoteOrder adapts the api client into the overlay's persister. Only
// the favorites set has a server-side order endpoint; course orders are
// local-only, reported as unsupported so the overlay downgrades them
// immediately instead of retrying.
type remoteOrder struct {
	client api.Client
}

func (r remoteOrder) PersistOrder(ctx context.Context, key string, ids []string) error {
	if key == order.Favorites {
		return r.client.ReorderFavorites(ctx, ids)
	}
	return api.ErrUnsupported
}

// Authed reports whether a session is active.
func (s *Service) Authed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authed
}

// SignIn opens a session and loads both collections. A failed initial
// load tears the session back down; the caller gets the error and an
// unauthenticated, empty service.
func (s *Service) SignIn(ctx context.Context) error {
	s.mu.Lock()
	s.authed = true
	s.epoch++
	s.mu.Unlock()
	if err := s.Load(ctx); err != nil {
		s.SignOut()
		return err
	}
	return nil
}

// SignOut closes the session and clears the store. In-flight loads
// started before this point will find their epoch stale and discard
// their responses.
func (s *Service) SignOut() {
	s.mu.Lock()
	s.authed = false
	s.epoch++
	s.mu.Unlock()
	s.Store.Clear()
	s.Projector.Notify()
}

// Load fetches favorites and courses concurrently and seeds the store.
// A response that lands after sign-out (or a newer sign-in) is dropped.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	var (
		favorites []place.Record
		courses   []course.Course
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		favorites, err = s.client.ListFavorites(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = s.client.ListCourses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	stale := s.epoch != epoch
	s.mu.Unlock()
	if stale {
		return nil
	}

	s.Store.SeedFavorites(favorites)
	s.Store.SeedCourses(courses)
	s.Projector.Notify()
	return nil
}

// Watch surfaces local order-record changes, typically from another
// process writing the same store.
func (s *Service) Watch(ctx context.Context) (<-chan order.Event, error) {
	return s.Overlay.Watch(ctx)
}
