// Package timeline builds a Timeline of ZoomKeyframes by driving a
// statemachine.Machine through a session's event stream, and samples that
// Timeline back into a continuous ZoomState at arbitrary times.
package timeline

import (
	"fmt"
	"sort"

	"github.com/vedantwpatil/autozoom/internal/easing"
	"github.com/vedantwpatil/autozoom/internal/geometry"
	"github.com/vedantwpatil/autozoom/internal/statemachine"
)

// Keyframe is a single (t, scale, center, easing) sample recorded by the
// Builder. Easing describes the curve used when interpolating from the
// previous keyframe up to this one.
type Keyframe struct {
	T      float64
	Scale  float64
	Center geometry.Vec2
	Easing easing.Kind
}

// Timeline is the sorted, immutable keyframe list produced by Build.
type Timeline struct {
	Keyframes []Keyframe
	Duration  float64
}

// ZoomState is a continuous-time sample of a Timeline: the output of
// Sample.
type ZoomState struct {
	Scale    float64
	Center   geometry.Vec2
	Phase    statemachine.Phase
	IsActive bool
}

const activeScaleThreshold = 1.01

// Sample finds the bracketing keyframes around t (clamping to the first or
// last keyframe outside [0,duration]), interpolates scale and center, and
// classifies the resulting phase. It is a pure function of (tl, t) and is
// safe to call concurrently from multiple goroutines, since tl is never
// mutated after Build returns it.
func (tl Timeline) Sample(t float64) ZoomState {
	if len(tl.Keyframes) == 0 {
		return ZoomState{Scale: 1, Center: geometry.Vec2{X: 0.5, Y: 0.5}, Phase: statemachine.Idle}
	}
	if t <= tl.Keyframes[0].T {
		return stateFromKeyframe(tl.Keyframes[0])
	}
	last := tl.Keyframes[len(tl.Keyframes)-1]
	if t >= last.T {
		return stateFromKeyframe(last)
	}

	// Binary search for the first keyframe with T > t; the bracket is
	// (idx-1, idx).
	idx := sort.Search(len(tl.Keyframes), func(i int) bool { return tl.Keyframes[i].T > t })
	a, b := tl.Keyframes[idx-1], tl.Keyframes[idx]

	u := 0.0
	if b.T > a.T {
		u = (t - a.T) / (b.T - a.T)
	}
	eased := b.Easing.Func()(u)

	scale := a.Scale + (b.Scale-a.Scale)*eased
	center := a.Center.Lerp(b.Center, eased)

	return ZoomState{
		Scale:    scale,
		Center:   center,
		Phase:    classifyPhase(a, b),
		IsActive: scale > activeScaleThreshold,
	}
}

func stateFromKeyframe(k Keyframe) ZoomState {
	return ZoomState{Scale: k.Scale, Center: k.Center, Phase: phaseForScale(k.Scale), IsActive: k.Scale > activeScaleThreshold}
}

func phaseForScale(scale float64) statemachine.Phase {
	if scale > activeScaleThreshold {
		return statemachine.Hold
	}
	return statemachine.Idle
}

// classifyPhase infers the phase of the segment between two adjacent
// keyframes from how scale and center move across it, per the sampler's
// phase-classification rule: scale rising -> EaseIn, falling -> EaseOut,
// equal scale with moving center -> a pan/follow/hold-style phase, equal
// scale and center -> Hold or Idle depending on the scale.
func classifyPhase(a, b Keyframe) statemachine.Phase {
	const eps = 1e-6
	switch {
	case b.Scale > a.Scale+eps:
		return statemachine.EaseIn
	case b.Scale < a.Scale-eps:
		return statemachine.EaseOut
	case a.Center.Distance(b.Center) > eps:
		if b.Scale > activeScaleThreshold {
			return statemachine.Follow
		}
		return statemachine.TransitionPan
	default:
		return phaseForScale(b.Scale)
	}
}

// Validate checks the invariants a Timeline built by this package must
// satisfy, mirroring the testable properties: sorted non-decreasing times,
// first/last keyframe at scale 1, every scale/center in range, and the
// viewport-inside-frame boundary constraint.
func (tl Timeline) Validate(maxScale float64) error {
	if len(tl.Keyframes) == 0 {
		return fmt.Errorf("timeline: no keyframes")
	}
	first, last := tl.Keyframes[0], tl.Keyframes[len(tl.Keyframes)-1]
	if first.T != 0 {
		return fmt.Errorf("timeline: first keyframe t=%v, want 0", first.T)
	}
	if first.Scale != 1 {
		return fmt.Errorf("timeline: first keyframe scale=%v, want 1", first.Scale)
	}
	if last.Scale != 1 {
		return fmt.Errorf("timeline: last keyframe scale=%v, want 1", last.Scale)
	}
	for i, kf := range tl.Keyframes {
		if i > 0 && kf.T < tl.Keyframes[i-1].T {
			return fmt.Errorf("timeline: keyframe %d out of order (t=%v after t=%v)", i, kf.T, tl.Keyframes[i-1].T)
		}
		if kf.Scale < 1 || kf.Scale > maxScale {
			return fmt.Errorf("timeline: keyframe %d scale %v out of [1,%v]", i, kf.Scale, maxScale)
		}
		if kf.Center.X < 0 || kf.Center.X > 1 || kf.Center.Y < 0 || kf.Center.Y > 1 {
			return fmt.Errorf("timeline: keyframe %d center %v out of [0,1]^2", i, kf.Center)
		}
		if kf.Scale > 1 {
			half := 0.5 / kf.Scale
			if kf.Center.X-half < -1e-9 || kf.Center.X+half > 1+1e-9 || kf.Center.Y-half < -1e-9 || kf.Center.Y+half > 1+1e-9 {
				return fmt.Errorf("timeline: keyframe %d viewport escapes frame (center=%v scale=%v)", i, kf.Center, kf.Scale)
			}
		}
	}
	return nil
}
