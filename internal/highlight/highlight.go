// Package highlight computes per-click highlight overlays (pulse/double-ring
// rings drawn around a click) and remaps them into the zoomed viewport, per
// spec.md §4.8.
package highlight

import (
	"github.com/vedantwpatil/autozoom/internal/eventlog"
	"github.com/vedantwpatil/autozoom/internal/geometry"
	"github.com/vedantwpatil/autozoom/internal/timeline"
)

// Style is the visual treatment of a click highlight.
type Style int

const (
	Pulse Style = iota
	DoubleRing
)

func (s Style) String() string {
	if s == DoubleRing {
		return "double_ring"
	}
	return "pulse"
}

// Duration returns how long a highlight of this style stays active after
// its triggering click.
func (s Style) Duration() float64 {
	if s == DoubleRing {
		return 0.45
	}
	return 0.35
}

// Color is an RGBA color in [0,1] per channel, left to the renderer to map
// to its own color space.
type Color struct {
	R, G, B, A float64
}

// DefaultColor is the stock highlight tint (a warm yellow).
var DefaultColor = Color{R: 1, G: 0.85, B: 0.2, A: 0.9}

// Highlight is a single active click overlay at a sampled time, already
// remapped into the current zoom viewport.
type Highlight struct {
	Position    geometry.Vec2 // on-screen normalized, after zoom remap
	Style       Style
	Color       Color
	Progress    float64 // in [0,1]
	RadiusScale float64 // multiply the style's base radius by this
}

// Evaluator tracks the click events that can produce highlights and the
// settings controlling their zoomed appearance.
type Evaluator struct {
	clicks               []eventlog.MouseEvent
	color                Color
	highlightScaleZoomed float64
}

// NewEvaluator builds an Evaluator over a session's clicks. color lets
// callers override the stock tint; pass highlight.DefaultColor for the
// default.
func NewEvaluator(clicks []eventlog.MouseEvent, color Color, highlightScaleWhenZoomed float64) *Evaluator {
	return &Evaluator{clicks: clicks, color: color, highlightScaleZoomed: highlightScaleWhenZoomed}
}

func styleFor(kind eventlog.MouseKind) Style {
	if kind == eventlog.DoubleClick {
		return DoubleRing
	}
	return Pulse
}

// Active returns every highlight alive at time t, remapped into the
// viewport implied by zoom. Highlights whose click position falls outside
// the current zoom crop are omitted (invisible), matching spec.md §4.8's
// "visible iff p ∈ view" rule.
func (e *Evaluator) Active(t float64, zoom timeline.ZoomState) []Highlight {
	var out []Highlight
	view := viewportFor(zoom)
	for _, c := range e.clicks {
		style := styleFor(c.Kind)
		dur := style.Duration()
		if t < c.T || t > c.T+dur {
			continue
		}
		p, ok := remap(c.Position, view, zoom.Scale)
		if !ok {
			continue
		}
		radiusScale := 1.0
		if zoom.Scale > 1.01 {
			radiusScale = e.highlightScaleZoomed
		}
		out = append(out, Highlight{
			Position:    p,
			Style:       style,
			Color:       e.color,
			Progress:    (t - c.T) / dur,
			RadiusScale: radiusScale,
		})
	}
	return out
}

// viewport is the normalized rectangle currently visible on screen, given a
// ZoomState's scale and center.
type viewport struct {
	MinX, MinY, MaxX, MaxY float64
}

func viewportFor(zoom timeline.ZoomState) viewport {
	half := 0.5 / zoom.Scale
	return viewport{
		MinX: zoom.Center.X - half, MaxX: zoom.Center.X + half,
		MinY: zoom.Center.Y - half, MaxY: zoom.Center.Y + half,
	}
}

// remap converts a full-frame normalized point into on-screen normalized
// coordinates inside view, per spec.md §4.8: p' = (p - view.origin) / (1/s).
// Returns ok=false if p falls outside the visible crop.
func remap(p geometry.Vec2, view viewport, scale float64) (geometry.Vec2, bool) {
	if p.X < view.MinX || p.X > view.MaxX || p.Y < view.MinY || p.Y > view.MaxY {
		return geometry.Vec2{}, false
	}
	span := 1.0 / scale
	return geometry.Vec2{
		X: (p.X - view.MinX) / span,
		Y: (p.Y - view.MinY) / span,
	}, true
}
