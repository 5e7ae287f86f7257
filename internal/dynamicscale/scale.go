// Package dynamicscale converts a screen position into a zoom factor: clicks
// near an edge deserve a slightly stronger zoom than clicks dead-center,
// since less surrounding context is lost.
package dynamicscale

import (
	"math"

	"github.com/vedantwpatil/autozoom/internal/geometry"
)

const cornerThreshold = 0.2

// Params bundles the settings dynamicscale.Factor needs, decoupled from the
// config package to keep this a small, dependency-free computation.
type Params struct {
	BaseScale     float64
	EdgeFactorMin float64
	EdgeFactorMax float64
	CornerBoost   float64
	MaxScale      float64
	Enabled       bool
}

// Factor computes the scale to apply for a click at normalized position p,
// per the edge/corner formula: edges zoom in slightly more than the
// center, and corners get an additional boost. When disabled, returns
// BaseScale unmodified (still clamped to [1, MaxScale]).
func Factor(p geometry.Vec2, params Params) float64 {
	if !params.Enabled {
		return clamp(params.BaseScale, 1, params.MaxScale)
	}

	edgeDist := math.Min(math.Min(p.X, 1-p.X), math.Min(p.Y, 1-p.Y))
	norm := edgeDist / 0.5
	factor := params.EdgeFactorMax - (params.EdgeFactorMax-params.EdgeFactorMin)*norm

	isCorner := (p.X < cornerThreshold || p.X > 1-cornerThreshold) &&
		(p.Y < cornerThreshold || p.Y > 1-cornerThreshold)

	scale := params.BaseScale * factor
	if isCorner {
		scale *= params.CornerBoost
	}
	return clamp(scale, 1.0, params.MaxScale)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
