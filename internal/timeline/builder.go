package timeline

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/vedantwpatil/autozoom/internal/aggregator"
	"github.com/vedantwpatil/autozoom/internal/config"
	"github.com/vedantwpatil/autozoom/internal/eventlog"
	"github.com/vedantwpatil/autozoom/internal/geometry"
	"github.com/vedantwpatil/autozoom/internal/statemachine"
)

// cadence is the master tick used to drive cursor sampling through the
// state machine (spec default: 30 Hz). At most one keyframe is emitted per
// tick, and only on a phase change or a scale/center change above the
// thresholds below.
const cadence = 1.0 / 30.0

const (
	minScaleDelta  = 0.01
	minCenterDelta = 0.02
)

// Builder drives a statemachine.Machine across a Session's event stream
// and records the resulting Keyframes. Progress is reported through an
// optional callback for long sessions (not part of the core state machine;
// purely an ergonomics addition for callers exporting long recordings).
type Builder struct {
	Log      zerolog.Logger
	Progress func(fracComplete float64)
}

// NewBuilder returns a Builder that logs through log (pass zerolog.Nop()
// for silence).
func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{Log: log}
}

// Build drives the state machine across session and returns the resulting
// Timeline. It implements the InvalidInput / EmptySession / InconsistentSettings
// entries of the error taxonomy: malformed settings or a malformed session
// fail the build; an empty session is not an error and yields a
// single-keyframe Idle timeline.
func (b *Builder) Build(session eventlog.Session, settings config.Settings) (Timeline, error) {
	if err := settings.Validate(); err != nil {
		return Timeline{}, fmt.Errorf("timeline: %w", err)
	}
	if err := session.Validate(); err != nil {
		return Timeline{}, fmt.Errorf("timeline: %w", err)
	}

	if len(session.Mouse) == 0 && len(session.Keyboard) == 0 {
		return Timeline{
			Keyframes: []Keyframe{{T: 0, Scale: 1, Center: midpoint(), Easing: settings.Easing}},
			Duration:  session.Duration,
		}, nil
	}

	if !settings.AutoZoomEnabled {
		return Timeline{
			Keyframes: []Keyframe{
				{T: 0, Scale: 1, Center: midpoint(), Easing: settings.Easing},
				{T: session.Duration, Scale: 1, Center: midpoint(), Easing: settings.Easing},
			},
			Duration: session.Duration,
		}, nil
	}

	anchors := aggregator.Aggregate(session.Clicks(), settings.ClickMergeTime, settings.NormalizedClickMergeDistance())
	machine := statemachine.NewMachine(settings, b.Log)

	var keyframes []Keyframe
	emit := func(t float64, out statemachine.Output) {
		keyframes = append(keyframes, Keyframe{T: t, Scale: out.Scale, Center: out.Center, Easing: out.Easing})
	}
	emit(0, machine.Evaluate(0))

	ai, ki := 0, 0
	lastEmitted := keyframes[0]
	isContinuous := func(p statemachine.Phase) bool {
		switch p {
		case statemachine.EaseIn, statemachine.EaseOut, statemachine.TransitionPan,
			statemachine.TransitionZoomOutPanZoomIn, statemachine.Follow:
			return true
		default:
			return false
		}
	}

	tick := cadence
	for tick < session.Duration {
		for ai < len(anchors) && anchors[ai].TStart <= tick {
			machine.AdvanceAnchor(anchors[ai], anchors[ai].TStart)
			ai++
		}
		for ki < len(session.Keyboard) && session.Keyboard[ki].T <= tick {
			machine.AdvanceKeyboard(session.Keyboard[ki], session.Keyboard[ki].T)
			ki++
		}
		if pos, ok := session.PositionAt(tick); ok {
			machine.AdvanceCursor(pos, tick)
		}
		machine.Tick(tick)
		out := machine.Evaluate(tick)

		phaseChanged := out.Phase != lastEmitted.Phase
		bigDelta := math.Abs(out.Scale-lastEmitted.Scale) > minScaleDelta ||
			out.Center.Distance(lastEmitted.Center) > minCenterDelta
		shouldEmit := phaseChanged || (isContinuous(out.Phase) && bigDelta)

		if shouldEmit {
			emit(tick, out)
			lastEmitted = keyframes[len(keyframes)-1]
		}

		if b.Progress != nil {
			b.Progress(tick / session.Duration)
		}
		tick += cadence
	}

	// Flush any trailing discrete events between the last tick and duration.
	for ai < len(anchors) {
		machine.AdvanceAnchor(anchors[ai], anchors[ai].TStart)
		ai++
	}
	for ki < len(session.Keyboard) {
		machine.AdvanceKeyboard(session.Keyboard[ki], session.Keyboard[ki].T)
		ki++
	}
	machine.Tick(session.Duration)

	terminal := machine.Finish(session.Duration)
	keyframes = append(keyframes, Keyframe{T: session.Duration, Scale: terminal.Scale, Center: terminal.Center, Easing: terminal.Easing})

	if b.Progress != nil {
		b.Progress(1.0)
	}

	return Timeline{Keyframes: dedupeTrailing(keyframes), Duration: session.Duration}, nil
}

// dedupeTrailing collapses a final keyframe that landed at exactly the same
// time as the one before it (happens when the session duration is 0, so the
// terminal keyframe lands on the t=0 keyframe), keeping the later (terminal)
// one.
func dedupeTrailing(kfs []Keyframe) []Keyframe {
	if len(kfs) < 2 {
		return kfs
	}
	last, prev := kfs[len(kfs)-1], kfs[len(kfs)-2]
	if last.T == prev.T {
		return append(kfs[:len(kfs)-2], last)
	}
	return kfs
}

func midpoint() geometry.Vec2 {
	return geometry.Vec2{X: 0.5, Y: 0.5}
}
