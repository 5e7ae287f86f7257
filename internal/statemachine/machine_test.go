package statemachine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantwpatil/autozoom/internal/aggregator"
	"github.com/vedantwpatil/autozoom/internal/config"
	"github.com/vedantwpatil/autozoom/internal/eventlog"
	"github.com/vedantwpatil/autozoom/internal/geometry"
)

func newMachine() *Machine {
	return NewMachine(config.Default(), zerolog.Nop())
}

func TestIdleStaysIdleWithoutEvents(t *testing.T) {
	m := newMachine()
	m.Tick(5)
	out := m.Evaluate(5)
	assert.Equal(t, Idle, out.Phase)
	assert.InDelta(t, 1.0, out.Scale, 1e-9)
}

// S2: a single centered click eases in, holds, then returns to idle.
func TestSingleCenteredClickEasesInThenHolds(t *testing.T) {
	m := newMachine()
	anchor := aggregator.AnchorPoint{Center: geometry.Vec2{X: 0.5, Y: 0.5}, TStart: 1, TEnd: 1, Score: 1, IsHardTrigger: true, EventCount: 1}
	m.AdvanceAnchor(anchor, 1)
	require.Equal(t, EaseIn, m.Phase())

	m.Tick(1.3)
	out := m.Evaluate(1.3)
	assert.Less(t, out.Scale, config.Default().BaseScale*1.25)

	m.Tick(1.6)
	out = m.Evaluate(1.6)
	assert.Equal(t, Hold, out.Phase)
}

func TestEdgeClickScalesAboveBase(t *testing.T) {
	m := newMachine()
	anchor := aggregator.AnchorPoint{Center: geometry.Vec2{X: 0.05, Y: 0.5}, TStart: 1, TEnd: 1, Score: 1, IsHardTrigger: true, EventCount: 1}
	m.AdvanceAnchor(anchor, 1)
	m.Tick(1.3)
	out := m.Evaluate(1.3)
	assert.Greater(t, out.Scale, config.Default().BaseScale)
}

// S5: large-distance jump goes through zoom-out/pan/zoom-in, and scale
// stays near 1 during the pan leg while the center moves substantially.
func TestLargeDistanceJumpGoesThroughZoomOutPanZoomIn(t *testing.T) {
	m := newMachine()
	a1 := aggregator.AnchorPoint{Center: geometry.Vec2{X: 0.1, Y: 0.1}, TStart: 1, TEnd: 1, Score: 1, IsHardTrigger: true, EventCount: 1}
	m.AdvanceAnchor(a1, 1)
	m.Tick(1.31) // past ease-in
	require.Equal(t, Hold, m.Phase())

	a2 := aggregator.AnchorPoint{Center: geometry.Vec2{X: 0.9, Y: 0.9}, TStart: 3, TEnd: 3, Score: 1, IsHardTrigger: true, EventCount: 1}
	m.AdvanceAnchor(a2, 3)
	require.Equal(t, TransitionZoomOutPanZoomIn, m.Phase())

	for tt := 3.0; tt <= 3.9; tt += 0.05 {
		m.Tick(tt)
		out := m.Evaluate(tt)
		if tt >= 3.4+0.0 && tt <= 3.9 {
			assert.LessOrEqual(t, out.Scale, 1.15, "scale must stay near 1 during pan at t=%v", tt)
		}
	}
}

// S6: keyboard activity within the protection window extends Hold rather
// than interrupting it; the first KeyDown past the buffer triggers EaseOut.
func TestKeyboardProtectionWindowExtendsHold(t *testing.T) {
	m := newMachine()
	anchor := aggregator.AnchorPoint{Center: geometry.Vec2{X: 0.2, Y: 0.2}, TStart: 1, TEnd: 1, Score: 1, IsHardTrigger: true, EventCount: 1}
	m.AdvanceAnchor(anchor, 1)
	m.Tick(1.31)
	require.Equal(t, Hold, m.Phase())

	for _, kt := range []float64{1.5, 2.0, 2.5, 3.0} {
		m.AdvanceKeyboard(eventlog.KeyboardEvent{Kind: eventlog.KeyDown, T: kt}, kt)
		m.Tick(kt)
		assert.Equal(t, Hold, m.Phase(), "typing within the protection window must not interrupt hold")
	}
}

// S7: small, non-merging clicks during Hold do not move the camera before
// hold_min has elapsed.
func TestHoldHysteresisRejectsSmallMovesBeforeHoldMin(t *testing.T) {
	m := newMachine()
	a1 := aggregator.AnchorPoint{Center: geometry.Vec2{X: 0.2, Y: 0.2}, TStart: 1, TEnd: 1, Score: 1, IsHardTrigger: true, EventCount: 1}
	m.AdvanceAnchor(a1, 1)
	m.Tick(1.31)
	require.Equal(t, Hold, m.Phase())
	centerBefore := m.anchorCenter

	a2 := aggregator.AnchorPoint{Center: geometry.Vec2{X: 0.25, Y: 0.22}, TStart: 1.3, TEnd: 1.3, Score: 1, IsHardTrigger: true, EventCount: 1}
	m.AdvanceAnchor(a2, 1.3)
	assert.Equal(t, Hold, m.Phase())
	assert.Equal(t, centerBefore, m.anchorCenter, "camera must not move during hold hysteresis window")
}

// §4.5 rule 5/§4.5.1: once Hold has lasted at least hold_min, the cursor
// leaving the anchor's leave-radius switches the camera to Follow, and the
// follow target stays within the zoomed viewport's bounds.
func TestHoldSwitchesToFollowWhenCursorLeavesAfterHoldMin(t *testing.T) {
	m := newMachine()
	anchor := aggregator.AnchorPoint{Center: geometry.Vec2{X: 0.5, Y: 0.5}, TStart: 1, TEnd: 1, Score: 1, IsHardTrigger: true, EventCount: 1}
	m.AdvanceAnchor(anchor, 1)
	m.Tick(1.31)
	require.Equal(t, Hold, m.Phase())

	tFollow := 1.31 + config.Default().HoldMin + 0.05
	m.AdvanceCursor(geometry.Vec2{X: 0.95, Y: 0.95}, tFollow)
	m.Tick(tFollow)
	require.Equal(t, Follow, m.Phase())

	out := m.Evaluate(tFollow)
	half := 0.5 / out.Scale
	assert.GreaterOrEqual(t, out.Center.X, half-1e-9, "follow center must keep the zoomed viewport inside the frame")
	assert.LessOrEqual(t, out.Center.X, 1-half+1e-9)
	assert.GreaterOrEqual(t, out.Center.Y, half-1e-9)
	assert.LessOrEqual(t, out.Center.Y, 1-half+1e-9)
}

// Leaving the leave-radius before hold_min has elapsed must not switch to
// Follow (the Hold-hysteresis half of rule 5).
func TestHoldDoesNotSwitchToFollowBeforeHoldMin(t *testing.T) {
	m := newMachine()
	anchor := aggregator.AnchorPoint{Center: geometry.Vec2{X: 0.5, Y: 0.5}, TStart: 1, TEnd: 1, Score: 1, IsHardTrigger: true, EventCount: 1}
	m.AdvanceAnchor(anchor, 1)
	m.Tick(1.31)
	require.Equal(t, Hold, m.Phase())

	m.AdvanceCursor(geometry.Vec2{X: 0.95, Y: 0.95}, 1.35)
	assert.Equal(t, Hold, m.Phase(), "hold_min has not elapsed yet, so the camera must stay put")
}

func TestEaseOutReachesScaleOne(t *testing.T) {
	m := newMachine()
	anchor := aggregator.AnchorPoint{Center: geometry.Vec2{X: 0.5, Y: 0.5}, TStart: 1, TEnd: 1, Score: 1, IsHardTrigger: true, EventCount: 1}
	m.AdvanceAnchor(anchor, 1)
	m.Tick(1.31)
	m.Tick(10) // far past idle_timeout
	require.Equal(t, EaseOut, m.Phase())
	out := m.Evaluate(10 + config.Default().EaseOutDuration)
	assert.InDelta(t, 1.0, out.Scale, 1e-6)
}

func TestFinishForcesIdleAtScaleOne(t *testing.T) {
	m := newMachine()
	anchor := aggregator.AnchorPoint{Center: geometry.Vec2{X: 0.5, Y: 0.5}, TStart: 1, TEnd: 1, Score: 1, IsHardTrigger: true, EventCount: 1}
	m.AdvanceAnchor(anchor, 1)
	out := m.Finish(10)
	assert.Equal(t, Idle, out.Phase)
	assert.InDelta(t, 1.0, out.Scale, 1e-9)
}
