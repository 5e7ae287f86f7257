// Package eventlog defines the normalized input types consumed by the
// analysis pipeline: mouse and keyboard events, grouped into a Session,
// plus the on-disk record stream format used to persist them.
package eventlog

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/vedantwpatil/autozoom/internal/geometry"
)

// MouseKind distinguishes the mouse event kinds the engine cares about.
type MouseKind int

const (
	Move MouseKind = iota
	LeftClick
	RightClick
	DoubleClick
)

// String implements fmt.Stringer.
func (k MouseKind) String() string {
	switch k {
	case LeftClick:
		return "left_click"
	case RightClick:
		return "right_click"
	case DoubleClick:
		return "double_click"
	default:
		return "move"
	}
}

// IsClick reports whether the kind represents a click (any of the three
// click kinds), as opposed to a bare cursor move.
func (k MouseKind) IsClick() bool {
	return k != Move
}

// MouseEvent is a single sampled or reported mouse event.
type MouseEvent struct {
	Kind     MouseKind
	Position geometry.Vec2
	T        float64 // seconds, >= 0
}

// KeyKind distinguishes key-down from key-up.
type KeyKind int

const (
	KeyDown KeyKind = iota
	KeyUp
)

func (k KeyKind) String() string {
	if k == KeyUp {
		return "up"
	}
	return "down"
}

// KeyboardEvent is a single keyboard transition.
type KeyboardEvent struct {
	Kind    KeyKind
	T       float64
	KeyCode uint16
}

// Session holds one recording's full event log plus its duration, the unit
// the rest of the pipeline operates on.
type Session struct {
	ID       uuid.UUID
	Mouse    []MouseEvent
	Keyboard []KeyboardEvent
	Duration float64
}

// New constructs a Session, sorting both event slices by time. It does not
// validate; call Validate to check well-formedness.
func New(mouse []MouseEvent, keyboard []KeyboardEvent, duration float64) Session {
	m := append([]MouseEvent(nil), mouse...)
	k := append([]KeyboardEvent(nil), keyboard...)
	sort.SliceStable(m, func(i, j int) bool { return m[i].T < m[j].T })
	sort.SliceStable(k, func(i, j int) bool { return k[i].T < k[j].T })
	return Session{ID: uuid.New(), Mouse: m, Keyboard: k, Duration: duration}
}

// Validate checks the InvalidInput conditions from the error taxonomy:
// non-monotonic times (already sorted by New, so this only rejects events
// past the session duration), NaN/out-of-range positions, and a negative
// duration. It does not mutate the session; callers wanting auto-clamped
// recovery should use Clamped instead.
func (s Session) Validate() error {
	if s.Duration < 0 {
		return fmt.Errorf("eventlog: negative duration %v", s.Duration)
	}
	for i, e := range s.Mouse {
		if math.IsNaN(e.Position.X) || math.IsNaN(e.Position.Y) {
			return fmt.Errorf("eventlog: mouse event %d has NaN position", i)
		}
		if e.Position.X < 0 || e.Position.X > 1 || e.Position.Y < 0 || e.Position.Y > 1 {
			return fmt.Errorf("eventlog: mouse event %d position %v out of [0,1]^2", i, e.Position)
		}
		if e.T < 0 || e.T > s.Duration {
			return fmt.Errorf("eventlog: mouse event %d time %v outside [0,%v]", i, e.T, s.Duration)
		}
	}
	for i := 1; i < len(s.Mouse); i++ {
		if s.Mouse[i].T < s.Mouse[i-1].T {
			return fmt.Errorf("eventlog: mouse events not monotonic at index %d", i)
		}
	}
	for i, e := range s.Keyboard {
		if e.T < 0 || e.T > s.Duration {
			return fmt.Errorf("eventlog: keyboard event %d time %v outside [0,%v]", i, e.T, s.Duration)
		}
	}
	for i := 1; i < len(s.Keyboard); i++ {
		if s.Keyboard[i].T < s.Keyboard[i-1].T {
			return fmt.Errorf("eventlog: keyboard events not monotonic at index %d", i)
		}
	}
	return nil
}

// Clamped returns a copy of s with every position clamped to [0,1]^2 and
// every timestamp clamped to [0, duration], implementing the local-recovery
// policy from the error-handling design (coerce, don't abort).
func (s Session) Clamped() Session {
	out := Session{ID: s.ID, Duration: s.Duration}
	for _, e := range s.Mouse {
		e.Position = e.Position.Clamp01()
		e.T = geometry.Clamp(e.T, 0, s.Duration)
		out.Mouse = append(out.Mouse, e)
	}
	for _, e := range s.Keyboard {
		e.T = geometry.Clamp(e.T, 0, s.Duration)
		out.Keyboard = append(out.Keyboard, e)
	}
	return out
}

// PositionAt returns the position of the most recent move/click at or
// before t, and false if no such event exists (undefined before the first
// event).
func (s Session) PositionAt(t float64) (geometry.Vec2, bool) {
	idx := sort.Search(len(s.Mouse), func(i int) bool { return s.Mouse[i].T > t })
	if idx == 0 {
		return geometry.Vec2{}, false
	}
	return s.Mouse[idx-1].Position, true
}

// Clicks returns the click-only subset of Mouse, sorted by time (Mouse is
// already sorted, so this is a filter, not a re-sort).
func (s Session) Clicks() []MouseEvent {
	var out []MouseEvent
	for _, e := range s.Mouse {
		if e.Kind.IsClick() {
			out = append(out, e)
		}
	}
	return out
}

// LastKeyboardBefore returns the last keyboard event at or before t, and
// false if there is none.
func (s Session) LastKeyboardBefore(t float64) (KeyboardEvent, bool) {
	idx := sort.Search(len(s.Keyboard), func(i int) bool { return s.Keyboard[i].T > t })
	if idx == 0 {
		return KeyboardEvent{}, false
	}
	return s.Keyboard[idx-1], true
}
