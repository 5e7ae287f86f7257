package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vedantwpatil/autozoom/internal/geometry"
)

// record is the on-disk JSON Lines representation of a single event: one
// self-describing record per line, per the recommended event-log format.
type record struct {
	Type    string  `json:"type"` // "mouse" or "key"
	T       float64 `json:"t"`
	Kind    string  `json:"kind"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	KeyCode uint16  `json:"key_code,omitempty"`
}

// Write serializes a session's events (not its duration or ID) as JSON
// Lines, one record per event, in time-sorted order merged across both
// event kinds.
func Write(w io.Writer, s Session) error {
	enc := json.NewEncoder(w)
	mi, ki := 0, 0
	for mi < len(s.Mouse) || ki < len(s.Keyboard) {
		writeMouse := mi < len(s.Mouse) && (ki >= len(s.Keyboard) || s.Mouse[mi].T <= s.Keyboard[ki].T)
		if writeMouse {
			e := s.Mouse[mi]
			if err := enc.Encode(record{Type: "mouse", T: e.T, Kind: e.Kind.String(), X: e.Position.X, Y: e.Position.Y}); err != nil {
				return fmt.Errorf("eventlog: encode mouse record: %w", err)
			}
			mi++
			continue
		}
		e := s.Keyboard[ki]
		if err := enc.Encode(record{Type: "key", T: e.T, Kind: e.Kind.String(), KeyCode: e.KeyCode}); err != nil {
			return fmt.Errorf("eventlog: encode key record: %w", err)
		}
		ki++
	}
	return nil
}

// Read parses a JSON Lines event stream into a Session of the given
// duration.
func Read(r io.Reader, duration float64) (Session, error) {
	var mouse []MouseEvent
	var keyboard []KeyboardEvent

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return Session{}, fmt.Errorf("eventlog: parse line %d: %w", line, err)
		}
		switch rec.Type {
		case "mouse":
			mouse = append(mouse, MouseEvent{
				Kind:     parseMouseKind(rec.Kind),
				Position: geometry.Vec2{X: rec.X, Y: rec.Y},
				T:        rec.T,
			})
		case "key":
			kind := KeyDown
			if rec.Kind == "up" {
				kind = KeyUp
			}
			keyboard = append(keyboard, KeyboardEvent{Kind: kind, T: rec.T, KeyCode: rec.KeyCode})
		default:
			return Session{}, fmt.Errorf("eventlog: line %d has unknown record type %q", line, rec.Type)
		}
	}
	if err := scanner.Err(); err != nil {
		return Session{}, fmt.Errorf("eventlog: scan: %w", err)
	}
	return New(mouse, keyboard, duration), nil
}

func parseMouseKind(s string) MouseKind {
	switch s {
	case "left_click":
		return LeftClick
	case "right_click":
		return RightClick
	case "double_click":
		return DoubleClick
	default:
		return Move
	}
}
