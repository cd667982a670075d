// Package projector fans collection state out to every registered view
// surface. Views re-derive their rendering purely from the projected
// model; they never read or write the store during a mutation, which
// keeps every surface consistent within one synchronous notification
// pass.
package projector

import (
	"sync"

	"github.com/scenemap/scenemap/pkg/collections"
	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/order"
	"github.com/scenemap/scenemap/pkg/place"
)

// Marker is what the map layer consumes to place a pin.
type Marker struct {
	ID    string
	Lat   float64
	Lng   float64
	Title string
}

// Model is the overlay-applied view of the session's collections.
type Model struct {
	// Favorites in display order (overlay applied).
	Favorites []place.Record
	// Courses as stored; each course's spots are in display order.
	Courses []course.Course
	// Markers for the favorites set, in display order.
	Markers []Marker
	// Routes maps course id to its polyline in display order.
	Routes map[string][]Marker
}

// View is a render surface: primary panel, compact panel, map-marker
// layer. Render is called synchronously on every change with a model the
// view may keep.
type View interface {
	Render(m Model)
}

// ViewFunc adapts a function to View.
type ViewFunc func(Model)

// Render implements View.
func (f ViewFunc) Render(m Model) { f(m) }

// Projector builds models from the store and overlay and pushes them to
// registered views in registration order.
type Projector struct {
	store   *collections.Store
	overlay *order.Overlay

	mu    sync.Mutex
	views []View
}

// New wires a projector over the session's store and overlay.
func New(store *collections.Store, overlay *order.Overlay) *Projector {
	return &Projector{store: store, overlay: overlay}
}

// Register adds a view and immediately renders the current state into it.
func (p *Projector) Register(v View) {
	p.mu.Lock()
	p.views = append(p.views, v)
	p.mu.Unlock()
	v.Render(p.Model())
}

// Notify rebuilds the model once and delivers it synchronously to every
// view. Mutation completion order is notification order.
func (p *Projector) Notify() {
	m := p.Model()
	p.mu.Lock()
	views := append([]View(nil), p.views...)
	p.mu.Unlock()
	for _, v := range views {
		v.Render(m)
	}
}

// Model assembles the current overlay-applied projection.
func (p *Projector) Model() Model {
	snap := p.store.Snapshot()

	favorites := p.overlay.Apply(order.Favorites, snap.Favorites)

	courses := make([]course.Course, len(snap.Courses))
	routes := make(map[string][]Marker, len(snap.Courses))
	for i, c := range snap.Courses {
		c.Spots = p.overlay.Apply(c.Key(), c.Spots)
		courses[i] = c
		routes[c.ID] = markers(c.Spots)
	}

	return Model{
		Favorites: favorites,
		Courses:   courses,
		Markers:   markers(favorites),
		Routes:    routes,
	}
}

func markers(items []place.Record) []Marker {
	out := make([]Marker, len(items))
	for i, r := range items {
		out[i] = Marker{ID: r.ID, Lat: r.Lat, Lng: r.Lng, Title: r.Title}
	}
	return out
}
