package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantwpatil/autozoom/internal/eventlog"
	"github.com/vedantwpatil/autozoom/internal/geometry"
	"github.com/vedantwpatil/autozoom/internal/timeline"
)

func unzoomed() timeline.ZoomState {
	return timeline.ZoomState{Scale: 1, Center: geometry.Vec2{X: 0.5, Y: 0.5}}
}

func TestActiveWithinLifetimeWindow(t *testing.T) {
	e := NewEvaluator([]eventlog.MouseEvent{
		{Kind: eventlog.LeftClick, Position: geometry.Vec2{X: 0.5, Y: 0.5}, T: 1.0},
	}, DefaultColor, 1.4)

	hl := e.Active(1.1, unzoomed())
	require.Len(t, hl, 1)
	assert.InDelta(t, 0.1/Pulse.Duration(), hl[0].Progress, 1e-9)
	assert.Equal(t, Pulse, hl[0].Style)
}

func TestActiveExpiresAfterDuration(t *testing.T) {
	e := NewEvaluator([]eventlog.MouseEvent{
		{Kind: eventlog.LeftClick, Position: geometry.Vec2{X: 0.5, Y: 0.5}, T: 1.0},
	}, DefaultColor, 1.4)

	assert.Empty(t, e.Active(1.0-0.01, unzoomed()))
	assert.Empty(t, e.Active(1.0+Pulse.Duration()+0.01, unzoomed()))
}

func TestDoubleClickGetsDoubleRingStyle(t *testing.T) {
	e := NewEvaluator([]eventlog.MouseEvent{
		{Kind: eventlog.DoubleClick, Position: geometry.Vec2{X: 0.3, Y: 0.3}, T: 2.0},
	}, DefaultColor, 1.4)
	hl := e.Active(2.05, unzoomed())
	require.Len(t, hl, 1)
	assert.Equal(t, DoubleRing, hl[0].Style)
}

func TestHighlightOutsideZoomedViewportIsHidden(t *testing.T) {
	e := NewEvaluator([]eventlog.MouseEvent{
		{Kind: eventlog.LeftClick, Position: geometry.Vec2{X: 0.05, Y: 0.05}, T: 1.0},
	}, DefaultColor, 1.4)

	zoomedOnOppositeCorner := timeline.ZoomState{Scale: 4, Center: geometry.Vec2{X: 0.9, Y: 0.9}}
	assert.Empty(t, e.Active(1.05, zoomedOnOppositeCorner))
}

func TestHighlightInsideZoomedViewportRemapsAndScales(t *testing.T) {
	e := NewEvaluator([]eventlog.MouseEvent{
		{Kind: eventlog.LeftClick, Position: geometry.Vec2{X: 0.5, Y: 0.5}, T: 1.0},
	}, DefaultColor, 1.4)

	zoomedOnClick := timeline.ZoomState{Scale: 2, Center: geometry.Vec2{X: 0.5, Y: 0.5}}
	hl := e.Active(1.05, zoomedOnClick)
	require.Len(t, hl, 1)
	// The click sits exactly at the zoom center, so it remaps to the center
	// of the on-screen viewport too.
	assert.InDelta(t, 0.5, hl[0].Position.X, 1e-9)
	assert.InDelta(t, 0.5, hl[0].Position.Y, 1e-9)
	assert.InDelta(t, 1.4, hl[0].RadiusScale, 1e-9)
}

func TestRadiusScaleIsOneWhenNotZoomed(t *testing.T) {
	e := NewEvaluator([]eventlog.MouseEvent{
		{Kind: eventlog.LeftClick, Position: geometry.Vec2{X: 0.5, Y: 0.5}, T: 1.0},
	}, DefaultColor, 1.4)
	hl := e.Active(1.05, unzoomed())
	require.Len(t, hl, 1)
	assert.InDelta(t, 1.0, hl[0].RadiusScale, 1e-9)
}
