// Package statemachine implements the zoom behavior state machine: the
// core decision engine that turns anchor-point arrivals, cursor motion, and
// keyboard activity into a sequence of camera phases (Idle, EaseIn, Hold,
// Follow, Transition, EaseOut).
//
// The machine is pure and single-threaded: Advance* methods fold one
// discrete input at a time, and Evaluate is a pure function of time for
// whatever continuous motion is currently in flight. No method blocks or
// touches a clock; every timestamp comes from the caller.
package statemachine

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/vedantwpatil/autozoom/internal/aggregator"
	"github.com/vedantwpatil/autozoom/internal/attention"
	"github.com/vedantwpatil/autozoom/internal/config"
	"github.com/vedantwpatil/autozoom/internal/dynamicscale"
	"github.com/vedantwpatil/autozoom/internal/easing"
	"github.com/vedantwpatil/autozoom/internal/eventlog"
	"github.com/vedantwpatil/autozoom/internal/geometry"
	"github.com/vedantwpatil/autozoom/internal/spring"
)

// Phase identifies the seven camera phases named by the system overview.
type Phase int

const (
	Idle Phase = iota
	EaseIn
	Hold
	Follow
	TransitionPan
	TransitionZoomOutPanZoomIn
	EaseOut
)

func (p Phase) String() string {
	switch p {
	case EaseIn:
		return "ease_in"
	case Hold:
		return "hold"
	case Follow:
		return "follow"
	case TransitionPan:
		return "transition_pan"
	case TransitionZoomOutPanZoomIn:
		return "transition_zoom_out_pan_zoom_in"
	case EaseOut:
		return "ease_out"
	default:
		return "idle"
	}
}

// Output is the machine's continuous-time read: exactly the fields a
// keyframe needs.
type Output struct {
	Scale  float64
	Center geometry.Vec2
	Phase  Phase
	Easing easing.Kind
}

// segment is a single eased or spring-driven motion leg: a (start,end)
// pair in scale and center, played out over a fixed duration. EaseIn,
// EaseOut, Pan, and each leg of ZoomOut-Pan-ZoomIn are all instances of
// this one shape.
type segment struct {
	phase                  Phase
	startT, duration       float64
	startScale, endScale   float64
	startCenter, endCenter geometry.Vec2
	ease                   easing.Kind
	useSpring              bool
	springX, springY       spring.State
}

func (s segment) endT() float64 {
	return s.startT + s.duration
}

func (s segment) progress(t float64) float64 {
	if s.duration <= 0 {
		return 1
	}
	u := (t - s.startT) / s.duration
	return math.Min(math.Max(u, 0), 1)
}

func (s segment) evaluate(t float64) (scale float64, center geometry.Vec2) {
	u := s.ease.Func()(s.progress(t))
	scale = s.startScale + (s.endScale-s.startScale)*u
	if s.useSpring {
		center = geometry.Vec2{X: s.springX.Value(t), Y: s.springY.Value(t)}
	} else {
		center = s.startCenter.Lerp(s.endCenter, u)
	}
	return
}

// Machine is the stateful fold; NewMachine constructs one per timeline
// build.
type Machine struct {
	settings config.Settings
	log      zerolog.Logger

	phase   Phase
	pending []segment // queued legs for multi-leg transitions
	current *segment  // leg currently playing, nil in Idle/Hold/Follow

	anchorCenter geometry.Vec2 // fixed camera target in Hold/EaseIn
	anchorScale  float64

	holdStart, holdUntil float64
	lastRegionEventT     float64
	currentRegionScore   float64
	isHardTriggerRegion  bool

	followSpringX, followSpringY spring.State
	lastCursor                   geometry.Vec2
	lastCursorT                  float64
	belowVelocitySince           float64
	haveLastCursor               bool

	lastKeyboardT float64
}

// NewMachine returns a machine starting in Idle, configured from settings.
func NewMachine(settings config.Settings, log zerolog.Logger) *Machine {
	return &Machine{settings: settings, log: log, phase: Idle}
}

// Phase returns the machine's current discrete phase.
func (m *Machine) Phase() Phase { return m.phase }

func (m *Machine) springConfig() spring.Config {
	tension, friction, mass := m.settings.Spring.Resolve()
	return spring.Config{Stiffness: tension, Damping: friction, Mass: mass}
}

// AdvanceAnchor folds a newly-arrived AnchorPoint into the machine at time
// t (t == anchor.TStart). Implements transitions 1, 3, and 4.
func (m *Machine) AdvanceAnchor(anchor aggregator.AnchorPoint, t float64) {
	m.lastRegionEventT = t

	targetScale := dynamicscale.Factor(anchor.Center, dynamicscale.Params{
		BaseScale: m.settings.BaseScale, EdgeFactorMin: m.settings.EdgeFactorMin,
		EdgeFactorMax: m.settings.EdgeFactorMax, CornerBoost: m.settings.CornerBoost,
		MaxScale: m.settings.MaxScale, Enabled: m.settings.DynamicScaleEnabled,
	})

	switch m.phase {
	case Idle, EaseOut:
		m.startEaseIn(anchor, targetScale, t)

	case Hold, Follow:
		newRegion := &attention.Region{Center: anchor.Center, Score: anchor.Score, LastUpdate: t, EventCount: anchor.EventCount}
		curRegion := &attention.Region{Center: m.anchorCenter, Score: m.currentRegionScore, LastUpdate: m.lastRegionEventT, EventCount: 0}

		withinMergeRadius := anchor.Center.Distance(m.anchorCenter) <= attentionMergeRadius(m.phase)
		if withinMergeRadius {
			m.extendHold(anchor, t)
			return
		}

		if attention.ShouldInterruptHold(newRegion, curRegion, m.holdStart, t, m.settings.HoldMin, m.settings.TConfirm, anchor.IsHardTrigger) {
			m.startTransition(anchor, targetScale, t)
		}

	default:
		// Mid-transition: a new hard trigger re-targets the current motion
		// rather than queuing behind it, avoiding a visible double-move.
		m.startTransition(anchor, targetScale, t)
	}
}

// attentionMergeRadius returns the hysteresis-adjusted merge radius: once a
// region has been left, re-entering it requires coming within
// merge_radius*0.8 rather than merge_radius, per the determinism rules.
func attentionMergeRadius(p Phase) float64 {
	if p == Follow {
		return 0.08 * 0.8
	}
	return 0.08
}

func (m *Machine) logTransition(from Phase, t float64) {
	m.log.Debug().
		Str("from", from.String()).
		Str("to", m.phase.String()).
		Float64("t", t).
		Msg("zoom state transition")
}

func (m *Machine) startEaseIn(anchor aggregator.AnchorPoint, targetScale, t float64) {
	from := m.phase
	startScale, startCenter := 1.0, geometry.Vec2{X: 0.5, Y: 0.5}
	if m.current != nil {
		startScale, startCenter = m.current.evaluate(t)
	}
	// The target is clamped so the zoomed-in viewport [target±0.5/targetScale]
	// never runs off the frame, per the boundary constraint of 4.5.1.
	target := geometry.ClampViewport(anchor.Center, targetScale)
	m.phase = EaseIn
	m.anchorCenter = target
	m.anchorScale = targetScale
	m.currentRegionScore = anchor.Score
	m.isHardTriggerRegion = anchor.IsHardTrigger
	m.pending = nil
	seg := segment{
		phase: EaseIn, startT: t, duration: m.settings.EaseInDuration,
		startScale: startScale, endScale: targetScale,
		startCenter: startCenter, endCenter: target,
		ease: m.settings.Easing,
	}
	m.current = &seg
	m.logTransition(from, t)
}

func (m *Machine) extendHold(anchor aggregator.AnchorPoint, t float64) {
	m.phase = Hold
	m.current = nil
	m.currentRegionScore += anchor.Score
	extension := m.settings.HoldExtensionPerEvent * float64(anchor.EventCount-1)
	hold := clamp(m.settings.HoldBase+extension, m.settings.HoldMin, m.settings.HoldMax)
	m.holdUntil = math.Max(m.holdUntil, t+hold)
}

func (m *Machine) startTransition(anchor aggregator.AnchorPoint, targetScale, t float64) {
	from := m.phase
	curScale, curCenter := m.anchorScale, m.anchorCenter
	if m.phase == Follow {
		curCenter = geometry.Vec2{X: m.followSpringX.Value(t), Y: m.followSpringY.Value(t)}
		curScale = m.anchorScale
	} else if m.current != nil {
		curScale, curCenter = m.current.evaluate(t)
	} else {
		curCenter = m.anchorCenter
		curScale = m.anchorScale
	}

	// The target is clamped so the zoomed-in viewport never runs off the
	// frame, per the boundary constraint of 4.5.1 (mirrors startEaseIn).
	target := geometry.ClampViewport(anchor.Center, targetScale)
	d := curCenter.Distance(target)
	m.holdStart = t
	m.anchorCenter = target
	m.anchorScale = targetScale
	m.currentRegionScore = anchor.Score
	m.isHardTriggerRegion = anchor.IsHardTrigger

	if d <= m.settings.LargeDistanceThreshold {
		m.phase = TransitionPan
		cfg := m.springConfig()
		seg := segment{
			phase: TransitionPan, startT: t, duration: m.settings.PanDuration,
			startScale: curScale, endScale: targetScale,
			startCenter: curCenter, endCenter: target,
			ease: m.settings.Easing, useSpring: true,
			springX: spring.NewState(cfg, t, curCenter.X, 0, target.X),
			springY: spring.NewState(cfg, t, curCenter.Y, 0, target.Y),
		}
		m.current = &seg
		m.pending = nil
		m.logTransition(from, t)
		return
	}

	m.phase = TransitionZoomOutPanZoomIn
	zoomOut := segment{
		phase: TransitionZoomOutPanZoomIn, startT: t, duration: m.settings.EaseOutDuration,
		// Center ramps back to the midpoint together with scale so the
		// viewport stays inside the frame while zooming out.
		startScale: curScale, endScale: 1, startCenter: curCenter, endCenter: geometry.Vec2{X: 0.5, Y: 0.5},
		ease: m.settings.Easing,
	}
	panT := zoomOut.endT()
	pan := segment{
		phase: TransitionZoomOutPanZoomIn, startT: panT, duration: m.settings.PanDuration,
		startScale: 1, endScale: 1, startCenter: geometry.Vec2{X: 0.5, Y: 0.5}, endCenter: target,
		ease: m.settings.Easing,
	}
	zoomInT := pan.endT()
	zoomIn := segment{
		// Center ramps in from the scale=1 midpoint together with scale,
		// the same shape startEaseIn uses, so the viewport stays inside
		// the frame at every intermediate scale rather than snapping
		// straight to the (possibly off-center) target while still near
		// scale 1.
		phase: TransitionZoomOutPanZoomIn, startT: zoomInT, duration: m.settings.EaseInDuration,
		startScale: 1, endScale: targetScale,
		startCenter: geometry.Vec2{X: 0.5, Y: 0.5}, endCenter: target,
		ease: m.settings.Easing,
	}
	m.current = &zoomOut
	m.pending = []segment{pan, zoomIn}
	m.logTransition(from, t)
}

// AdvanceCursor folds a cursor sample (derived from move events at the
// builder's sampling cadence) into the machine at time t. Implements
// transitions 5 and 6 and the Follow-mode spring retargeting of 4.5.1.
func (m *Machine) AdvanceCursor(pos geometry.Vec2, t float64) {
	var velocity float64
	if m.haveLastCursor && t > m.lastCursorT {
		velocity = pos.Distance(m.lastCursor) / (t - m.lastCursorT)
	}
	m.lastCursor, m.lastCursorT, m.haveLastCursor = pos, t, true

	switch m.phase {
	case Hold:
		if pos.Distance(m.anchorCenter) > followLeaveRadius && (t-m.holdStart) >= m.settings.HoldMin {
			m.enterFollow(pos, t)
		}
	case Follow:
		m.retargetFollow(pos, velocity, t)
		if velocity < followSettleVelocity {
			if m.belowVelocitySince == 0 {
				m.belowVelocitySince = t
			} else if t-m.belowVelocitySince >= followSettleTime {
				m.anchorCenter = geometry.Vec2{X: m.followSpringX.Value(t), Y: m.followSpringY.Value(t)}
				m.holdStart = t
				m.holdUntil = t + m.settings.HoldBase
				from := m.phase
				m.phase = Hold
				m.logTransition(from, t)
			}
		} else {
			m.belowVelocitySince = 0
		}
	}
}

const (
	followLeaveRadius    = 0.03
	followSettleVelocity = 0.05 // normalized units/sec
	followSettleTime     = 0.25
	followLookahead      = 0.1
)

func (m *Machine) enterFollow(pos geometry.Vec2, t float64) {
	from := m.phase
	m.phase = Follow
	m.current = nil
	m.pending = nil
	m.belowVelocitySince = 0
	cfg := m.springConfig()
	target := m.followTarget(pos, geometry.Vec2{})
	m.followSpringX = spring.NewState(cfg, t, m.anchorCenter.X, 0, target.X)
	m.followSpringY = spring.NewState(cfg, t, m.anchorCenter.Y, 0, target.Y)
	m.logTransition(from, t)
}

func (m *Machine) retargetFollow(pos geometry.Vec2, velocity float64, t float64) {
	lookaheadVec := geometry.Vec2{}
	if velocity > 0 && m.haveLastCursor {
		dt := math.Max(t-m.lastCursorT, 1e-6)
		velocityVec := pos.Subtract(m.lastCursor).Scale(1 / dt)
		lookaheadVec = velocityVec.Scale(followLookahead)
	}
	target := m.followTarget(pos, lookaheadVec)
	m.followSpringX = m.followSpringX.Retarget(t, target.X)
	m.followSpringY = m.followSpringY.Retarget(t, target.Y)
}

// followTarget centers the camera on the lookahead-adjusted cursor, clamped
// so the zoomed window stays inside the frame. The follow_edge_margin
// setting is not applied: there is no margin-shrunk safe subrect, and the
// camera re-centers on the cursor rather than moving by the minimum delta.
func (m *Machine) followTarget(cursor, lookahead geometry.Vec2) geometry.Vec2 {
	s := m.anchorScale
	target := cursor.Add(lookahead)
	// Clamp so the camera window itself stays inside [0,1]^2.
	return geometry.ClampViewport(target, s)
}

// AdvanceKeyboard folds a keyboard event into the machine at time t.
// Implements the keyboard-driven zoom-out / protection-window policy of
// transition 7.
func (m *Machine) AdvanceKeyboard(ev eventlog.KeyboardEvent, t float64) {
	// With no earlier keyboard event, the first KeyDown opens the protection
	// window rather than interrupting.
	inProtection := m.lastKeyboardT == 0 || t <= m.lastKeyboardT+m.settings.KeyboardHoldBuffer
	m.lastKeyboardT = t

	if ev.Kind != eventlog.KeyDown {
		return
	}
	if !m.settings.ZoomOutOnKeyboard {
		return
	}
	if inProtection {
		// Typing extends the current Hold rather than interrupting it: the
		// idle timeout restarts from this keystroke.
		if m.phase == Hold {
			m.holdUntil = math.Max(m.holdUntil, t)
			m.lastRegionEventT = math.Max(m.lastRegionEventT, t)
		}
		return
	}
	if m.phase != Idle && m.phase != EaseOut {
		m.startEaseOut(t)
	}
}

// Tick advances time-only bookkeeping at t: idle timeout detection and
// completion of in-flight segments / multi-leg transitions.
func (m *Machine) Tick(t float64) {
	if m.current != nil && t >= m.current.endT() {
		if len(m.pending) > 0 {
			next := m.pending[0]
			m.pending = m.pending[1:]
			m.current = &next
			m.phase = next.phase
		} else {
			switch m.current.phase {
			case EaseIn:
				m.phase = Hold
				m.holdStart = t
				m.holdUntil = t + m.settings.HoldBase
			case EaseOut:
				m.phase = Idle
			default: // end of a Pan/ZoomOutPanZoomIn leg that isn't followed by more legs
				m.phase = Hold
				m.holdStart = t
				m.holdUntil = t + m.settings.HoldBase
			}
			m.current = nil
		}
	}

	switch m.phase {
	case Hold, Follow:
		if t-m.lastRegionEventT > m.settings.IdleTimeout {
			m.startEaseOut(t)
		}
	}
}

func (m *Machine) startEaseOut(t float64) {
	from := m.phase
	curScale, curCenter := m.evaluateCurrent(t)
	m.phase = EaseOut
	m.pending = nil
	// Center ramps back to the midpoint together with scale so the viewport
	// stays inside the frame at every intermediate scale.
	seg := segment{
		phase: EaseOut, startT: t, duration: m.settings.EaseOutDuration,
		startScale: curScale, endScale: 1,
		startCenter: curCenter, endCenter: geometry.Vec2{X: 0.5, Y: 0.5},
		ease: m.settings.Easing,
	}
	m.current = &seg
	m.logTransition(from, t)
}

func (m *Machine) evaluateCurrent(t float64) (float64, geometry.Vec2) {
	switch {
	case m.current != nil:
		return m.current.evaluate(t)
	case m.phase == Follow:
		return m.anchorScale, geometry.Vec2{X: m.followSpringX.Value(t), Y: m.followSpringY.Value(t)}
	case m.phase == Hold:
		return m.anchorScale, m.anchorCenter
	default:
		return 1, geometry.Vec2{X: 0.5, Y: 0.5}
	}
}

// Evaluate is a pure read of the machine's continuous state at time t. It
// does not mutate the machine; call Tick/Advance* first for discrete-time
// bookkeeping, then Evaluate for the sample.
func (m *Machine) Evaluate(t float64) Output {
	scale, center := m.evaluateCurrent(t)
	ek := m.settings.Easing
	if m.current != nil {
		ek = m.current.ease
	}
	return Output{Scale: scale, Center: center.Clamp01(), Phase: m.phase, Easing: ek}
}

// Finish forces the machine into its terminal Idle state at the session's
// end, per the Timeline invariant that the last keyframe returns to
// scale=1.
func (m *Machine) Finish(t float64) Output {
	if m.phase != Idle {
		m.startEaseOut(t)
		m.current.duration = 0 // snap; the terminal keyframe owns t=duration
		m.phase = Idle
		m.current = nil
	}
	return Output{Scale: 1, Center: geometry.Vec2{X: 0.5, Y: 0.5}, Phase: Idle, Easing: m.settings.Easing}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
