// Package geometry provides the 2D vector arithmetic shared by every stage
// of the analysis pipeline. All positions in this module live in the
// normalized [0,1]x[0,1] coordinate space described in the system overview,
// with the origin at the top-left corner.
package geometry

import "math"

// Vec2 is a point or displacement in normalized screen space.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v+other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Subtract returns v-other.
func (v Vec2) Subtract(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Distance returns the Euclidean distance between v and other.
func (v Vec2) Distance(other Vec2) float64 {
	d := v.Subtract(other)
	return math.Hypot(d.X, d.Y)
}

// Lerp linearly interpolates between v and other at parameter u.
// u is not clamped; callers that need a clamped interpolation should
// clamp u themselves.
func (v Vec2) Lerp(other Vec2, u float64) Vec2 {
	return Vec2{
		X: v.X + (other.X-v.X)*u,
		Y: v.Y + (other.Y-v.Y)*u,
	}
}

// Clamp01 restricts each component of v to [0,1].
func (v Vec2) Clamp01() Vec2 {
	return Vec2{X: clamp(v.X, 0, 1), Y: clamp(v.Y, 0, 1)}
}

// ClampViewport restricts a zoom camera center so that a viewport of size
// 1/scale centered on v stays fully inside [0,1]x[0,1]. It assumes scale>=1.
func ClampViewport(v Vec2, scale float64) Vec2 {
	if scale <= 1 {
		return Vec2{X: 0.5, Y: 0.5}
	}
	half := 0.5 / scale
	return Vec2{
		X: clamp(v.X, half, 1-half),
		Y: clamp(v.Y, half, 1-half),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp restricts v to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	return clamp(v, lo, hi)
}
