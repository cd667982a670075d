// Package drag converts a continuous pointer gesture over an ordered list
// into a committed reorder. The state machine is rendering-agnostic: it is
// fed abstract pointer events plus row geometry, and emits data (preview
// and final orders), never touching any presentation or the store.
package drag

import (
	"errors"
	"fmt"
	"time"
)

// State of a drag session.
type State int

const (
	Idle State = iota
	Armed
	Dragging
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Kind classifies how a gesture resolved.
type Kind int

const (
	// None means the gesture resolved without any action.
	None Kind = iota
	// Tap is a press/release under the movement threshold within the tap
	// window; callers treat it as a plain click on Index.
	Tap
	// Commit carries the final observed order to persist.
	Commit
	// Cancel carries the original order to revert any visual preview.
	Cancel
)

// Result is how a gesture resolved.
type Result struct {
	Kind  Kind
	Key   string
	Index int      // pressed row, for taps
	Order []string // final order for Commit, original order for Cancel
}

// Geometry describes the list rows as rendered: uniform rows starting at
// Top. Candidate insertion positions are computed against sibling row
// midpoints.
type Geometry struct {
	Top       int
	RowHeight int
}

// Config tunes gesture classification.
type Config struct {
	// Threshold is the movement (in cells/pixels, Chebyshev distance)
	// that turns a press into a drag.
	Threshold int
	// TapWindow is the longest press still counted as a tap; movement
	// past the threshold after the window never starts a drag.
	TapWindow time.Duration
}

// DefaultConfig matches list rows in a terminal.
var DefaultConfig = Config{Threshold: 2, TapWindow: 500 * time.Millisecond}

// ErrActive rejects a press while another session is dragging.
var ErrActive = errors.New("drag: a drag session is already active")

// Input is the single entry point for pointer events; it guarantees at
// most one session exists and that every started gesture resolves to a
// Commit, Cancel, Tap, or None.
type Input struct {
	cfg     Config
	session *session
}

type session struct {
	state    State
	key      string
	geo      Geometry
	original []string
	working  []string
	dragID   string
	index    int
	startX   int
	startY   int
	downAt   time.Time
}

// NewInput returns an input gate with the given config; zero fields fall
// back to DefaultConfig values.
func NewInput(cfg Config) *Input {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultConfig.Threshold
	}
	if cfg.TapWindow <= 0 {
		cfg.TapWindow = DefaultConfig.TapWindow
	}
	return &Input{cfg: cfg}
}

// State reports the current session state, Idle when none exists.
func (in *Input) State() State {
	if in.session == nil {
		return Idle
	}
	return in.session.state
}

// Dragging reports whether a drag is in progress.
func (in *Input) Dragging() bool {
	return in.State() == Dragging
}

// DraggedID returns the id under the pointer while dragging, empty
// otherwise.
func (in *Input) DraggedID() string {
	if in.session == nil || in.session.state != Dragging {
		return ""
	}
	return in.session.dragID
}

// Preview returns the live proposed order while dragging, nil otherwise.
// It is visual-only; nothing is persisted until Release commits.
func (in *Input) Preview() []string {
	if in.session == nil || in.session.state != Dragging {
		return nil
	}
	return append([]string(nil), in.session.working...)
}

// Press arms a session on the row at index of the list identified by key.
// Pressing while another session is dragging is rejected.
func (in *Input) Press(key string, ids []string, index int, geo Geometry, x, y int, at time.Time) error {
	if in.session != nil && in.session.state == Dragging {
		return ErrActive
	}
	if index < 0 || index >= len(ids) {
		return fmt.Errorf("drag: row index %d out of range [0,%d)", index, len(ids))
	}
	if geo.RowHeight <= 0 {
		return errors.New("drag: row height must be positive")
	}
	in.session = &session{
		state:    Armed,
		key:      key,
		geo:      geo,
		original: append([]string(nil), ids...),
		working:  append([]string(nil), ids...),
		dragID:   ids[index],
		index:    index,
		startX:   x,
		startY:   y,
		downAt:   at,
	}
	return nil
}

// Move feeds pointer motion. While dragging it recomputes the candidate
// insertion index from sibling midpoints and returns the updated preview.
func (in *Input) Move(x, y int, at time.Time) (preview []string, dragging bool) {
	s := in.session
	if s == nil {
		return nil, false
	}
	switch s.state {
	case Armed:
		if chebyshev(x-s.startX, y-s.startY) < in.cfg.Threshold {
			return nil, false
		}
		if at.Sub(s.downAt) > in.cfg.TapWindow {
			// Too slow to be a drag, too far to be a tap. The gesture is
			// dead; Release resolves it to None.
			return nil, false
		}
		s.state = Dragging
		s.moveTo(y)
		return append([]string(nil), s.working...), true
	case Dragging:
		s.moveTo(y)
		return append([]string(nil), s.working...), true
	}
	return nil, false
}

// Release resolves the gesture: a commit when dragging, a tap for a quick
// sub-threshold press, None otherwise. The session always ends.
func (in *Input) Release(x, y int, at time.Time) Result {
	s := in.session
	in.session = nil
	if s == nil {
		return Result{Kind: None}
	}
	switch s.state {
	case Dragging:
		s.state = Committed
		return Result{Kind: Commit, Key: s.key, Order: s.working}
	case Armed:
		if chebyshev(x-s.startX, y-s.startY) < in.cfg.Threshold && at.Sub(s.downAt) <= in.cfg.TapWindow {
			return Result{Kind: Tap, Key: s.key, Index: s.index}
		}
	}
	return Result{Kind: None, Key: s.key}
}

// Cancel is the safety net for window blur, pointer leave, and gesture
// interruption: a dragging session reverts to the original order, so the
// list is never left visually reordered but uncommitted.
func (in *Input) Cancel() Result {
	s := in.session
	in.session = nil
	if s == nil {
		return Result{Kind: None}
	}
	if s.state == Dragging {
		s.state = Cancelled
		return Result{Kind: Cancel, Key: s.key, Order: s.original}
	}
	return Result{Kind: None, Key: s.key}
}

// moveTo recomputes the working order for pointer height y: the dragged
// row is inserted before the first sibling whose midpoint lies below the
// pointer, matching how a row slot opens up under the cursor.
func (s *session) moveTo(y int) {
	siblings := make([]string, 0, len(s.working)-1)
	for _, id := range s.original {
		if id != s.dragID {
			siblings = append(siblings, id)
		}
	}
	target := len(siblings)
	for i := range siblings {
		mid := s.geo.Top + i*s.geo.RowHeight + s.geo.RowHeight/2
		if y < mid {
			target = i
			break
		}
	}
	working := make([]string, 0, len(s.original))
	working = append(working, siblings[:target]...)
	working = append(working, s.dragID)
	working = append(working, siblings[target:]...)
	s.working = working
}

func chebyshev(dx, dy int) int {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
