// Package engine is the public facade spec.md §4.9 describes: build a
// Timeline once from a session and its settings, then sample per-frame
// render parameters from it as many times as the caller's renderer needs.
package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vedantwpatil/autozoom/internal/config"
	"github.com/vedantwpatil/autozoom/internal/eventlog"
	"github.com/vedantwpatil/autozoom/internal/geometry"
	"github.com/vedantwpatil/autozoom/internal/highlight"
	"github.com/vedantwpatil/autozoom/internal/timeline"
)

// RenderedHighlight is one active click overlay at a sampled frame,
// flattened for an external renderer (spec.md §4.9's highlights entry).
type RenderedHighlight struct {
	PositionOnScreenNormalized geometry.Vec2
	Style                      string
	Color                      highlight.Color
	Progress                   float64
	RadiusScale                float64
}

// RenderParams is the per-frame output an external renderer consumes.
type RenderParams struct {
	Scale      float64
	Center     geometry.Vec2
	Phase      string
	Highlights []RenderedHighlight
}

// Engine wraps a built Timeline together with the highlight evaluator
// needed to produce full RenderParams, so repeat sampling at many
// timestamps doesn't repeat the (one-time) build work.
type Engine struct {
	timeline  timeline.Timeline
	session   eventlog.Session
	settings  config.Settings
	highlight *highlight.Evaluator
}

// BuildTimeline runs the full analysis pipeline (click aggregation, zoom
// state machine, keyframe emission) once over session and returns the
// resulting Timeline, implementing spec.md §4.9's build_timeline entry.
func BuildTimeline(session eventlog.Session, settings config.Settings, log zerolog.Logger) (timeline.Timeline, error) {
	b := timeline.NewBuilder(log)
	tl, err := b.Build(session, settings)
	if err != nil {
		return timeline.Timeline{}, fmt.Errorf("engine: build timeline: %w", err)
	}
	return tl, nil
}

// New builds a Timeline over session/settings and returns an Engine ready
// to answer RenderParams queries at arbitrary timestamps.
func New(session eventlog.Session, settings config.Settings, log zerolog.Logger) (*Engine, error) {
	tl, err := BuildTimeline(session, settings, log)
	if err != nil {
		return nil, err
	}
	color := highlight.DefaultColor
	var clicks []eventlog.MouseEvent
	if settings.CursorHighlightEnabled {
		clicks = session.Clicks()
	}
	return &Engine{
		timeline:  tl,
		session:   session,
		settings:  settings,
		highlight: highlight.NewEvaluator(clicks, color, settings.HighlightScaleWhenZoomed),
	}, nil
}

// Timeline returns the Engine's underlying built Timeline, for callers that
// want to export or persist it directly.
func (e *Engine) Timeline() timeline.Timeline {
	return e.timeline
}

// RenderParams samples the Timeline at t and combines it with any
// highlights active at that time, implementing spec.md §4.9's
// render_params entry.
func (e *Engine) RenderParams(t float64) RenderParams {
	state := e.timeline.Sample(t)
	var highlights []RenderedHighlight
	for _, h := range e.highlight.Active(t, state) {
		highlights = append(highlights, RenderedHighlight{
			PositionOnScreenNormalized: h.Position,
			Style:                      h.Style.String(),
			Color:                      h.Color,
			Progress:                   h.Progress,
			RadiusScale:                h.RadiusScale,
		})
	}
	return RenderParams{
		Scale:      state.Scale,
		Center:     state.Center,
		Phase:      state.Phase.String(),
		Highlights: highlights,
	}
}
