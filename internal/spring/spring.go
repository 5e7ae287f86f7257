// Package spring evaluates a damped harmonic oscillator in closed form.
//
// Unlike a simulation that steps position and velocity forward by a fixed
// dt, State.Value and State.Velocity are pure functions of absolute time
// since the spring was (re)seeded. That makes a State safe to sample from
// any t, in any order, from multiple goroutines at once, which is required
// for the timeline sampler described by the system this package supports.
package spring

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Config holds the physical parameters of a spring-damper pair.
type Config struct {
	Stiffness float64 // K, N/m
	Damping   float64 // C, N*s/m
	Mass      float64 // m, kg
}

// Smooth is a gently critically-damped preset well suited to camera moves.
func Smooth() Config {
	return Critical(120, 1)
}

// Snappy is an underdamped preset with a small overshoot.
func Snappy() Config {
	return Config{Stiffness: 260, Damping: 22, Mass: 1}
}

// Critical returns a critically-damped configuration for the given
// stiffness and mass (damping ratio exactly 1).
func Critical(stiffness, mass float64) Config {
	return Config{
		Stiffness: stiffness,
		Damping:   2 * math.Sqrt(stiffness*mass),
		Mass:      mass,
	}
}

// NaturalFrequency returns omega0 = sqrt(K/m).
func (c Config) NaturalFrequency() float64 {
	return math.Sqrt(c.Stiffness / c.Mass)
}

// DampingRatio returns zeta = C / (2*sqrt(K*m)).
func (c Config) DampingRatio() float64 {
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

// Validate reports whether the configuration describes a physically
// sensible spring (stiffness and mass strictly positive, damping
// non-negative).
func (c Config) Validate() error {
	if c.Stiffness <= 0 || c.Mass <= 0 || c.Damping < 0 {
		return fmt.Errorf("spring: invalid config %+v", c)
	}
	return nil
}

// State is a spring seeded at a point in time, evaluable anywhere at or
// after that seed time.
type State struct {
	cfg     Config
	t0      float64
	target  float64
	x0      float64 // displacement from target at t0
	v0      float64 // velocity at t0
}

// NewState seeds a spring at time t0 with the given starting value,
// velocity, and target.
func NewState(cfg Config, t0, value, velocity, target float64) State {
	return State{cfg: cfg, t0: t0, target: target, x0: value - target, v0: velocity}
}

// Retarget reseeds the spring at time t, preserving its current value and
// velocity as computed at t, but aiming at a new target. This is how a
// spring is safely redirected mid-flight without a discontinuity.
func (s State) Retarget(t, newTarget float64) State {
	return NewState(s.cfg, t, s.Value(t), s.Velocity(t), newTarget)
}

// Value returns the spring's value at absolute time t (t >= seed time).
func (s State) Value(t float64) float64 {
	return s.target + s.displacement(t)
}

// Velocity returns the spring's rate of change at absolute time t.
func (s State) Velocity(t float64) float64 {
	dt := t - s.t0
	if dt <= 0 {
		return s.v0
	}
	zeta := s.cfg.DampingRatio()
	omega0 := s.cfg.NaturalFrequency()

	switch {
	case zeta < 1:
		omegaD := omega0 * math.Sqrt(1-zeta*zeta)
		a := s.x0
		b := (s.v0 + zeta*omega0*s.x0) / omegaD
		decay := math.Exp(-zeta * omega0 * dt)
		cos, sin := math.Cos(omegaD*dt), math.Sin(omegaD*dt)
		// d/dt[ decay*(a*cos+b*sin) ]
		return decay * ((-zeta*omega0*a+omegaD*b)*cos + (-zeta*omega0*b-omegaD*a)*sin)
	case zeta == 1:
		a := s.x0
		b := s.v0 + omega0*s.x0
		decay := math.Exp(-omega0 * dt)
		return decay * (b - omega0*(a+b*dt))
	default:
		r1, r2 := s.roots(zeta, omega0)
		a, b := s.overdampedCoeffs(r1, r2)
		return a*r1*math.Exp(r1*dt) + b*r2*math.Exp(r2*dt)
	}
}

// displacement is x(t)=value(t)-target, the homogeneous solution of the
// damped oscillator with initial displacement x0 and velocity v0 at t0.
func (s State) displacement(t float64) float64 {
	dt := t - s.t0
	if dt <= 0 {
		return s.x0
	}
	zeta := s.cfg.DampingRatio()
	omega0 := s.cfg.NaturalFrequency()

	switch {
	case zeta < 1:
		omegaD := omega0 * math.Sqrt(1-zeta*zeta)
		a := s.x0
		b := (s.v0 + zeta*omega0*s.x0) / omegaD
		decay := math.Exp(-zeta * omega0 * dt)
		return decay * (a*math.Cos(omegaD*dt) + b*math.Sin(omegaD*dt))
	case zeta == 1:
		a := s.x0
		b := s.v0 + omega0*s.x0
		decay := math.Exp(-omega0 * dt)
		return decay * (a + b*dt)
	default:
		r1, r2 := s.roots(zeta, omega0)
		a, b := s.overdampedCoeffs(r1, r2)
		return a*math.Exp(r1*dt) + b*math.Exp(r2*dt)
	}
}

func (s State) roots(zeta, omega0 float64) (r1, r2 float64) {
	disc := math.Sqrt(zeta*zeta - 1)
	r1 = -omega0 * (zeta - disc)
	r2 = -omega0 * (zeta + disc)
	return
}

func (s State) overdampedCoeffs(r1, r2 float64) (a, b float64) {
	a = (s.v0 - r2*s.x0) / (r1 - r2)
	b = s.x0 - a
	return
}

// IsSettled reports whether, at time t, the spring's value and velocity
// are both within tolerance of the target (and zero), meaning the motion
// can be treated as complete.
func (s State) IsSettled(t, valueTolerance, velocityTolerance float64) bool {
	return scalar.EqualWithinAbs(s.Value(t), s.target, valueTolerance) &&
		scalar.EqualWithinAbs(s.Velocity(t), 0, velocityTolerance)
}

// Target returns the spring's current target value.
func (s State) Target() float64 {
	return s.target
}
