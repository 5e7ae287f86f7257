// Package attention maintains a small active set of spatially-clustered
// AttentionRegions, scoring and decaying them as events arrive, and decides
// when a region is worth interrupting the current Hold for.
package attention

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/vedantwpatil/autozoom/internal/eventlog"
	"github.com/vedantwpatil/autozoom/internal/geometry"
)

// Region is a spatial cluster of recent events: the AttentionRegion entity.
type Region struct {
	Center     geometry.Vec2
	Score      float64
	LastUpdate float64
	EventCount uint32
}

const (
	decayTau        = 0.7  // seconds
	scoreMin        = 0.05 // regions below this are dropped
	mergeRadius     = 0.08 // normalized
	promotionFactor = 1.2
	bigJumpDistance = 0.6
)

// EventScore returns the score contribution of a single mouse event,
// weighted by kind: click > double-click > move.
func EventScore(kind eventlog.MouseKind) float64 {
	switch kind {
	case eventlog.DoubleClick:
		return 0.8
	case eventlog.LeftClick, eventlog.RightClick:
		return 1.0
	default:
		return 0.15
	}
}

// Scorer owns the active region set and the merge radius they are
// clustered under.
type Scorer struct {
	Regions     []*Region
	MergeRadius float64

	HardThreshold float64
	NDwell        uint32
}

// NewScorer returns a scorer with the spec's default thresholds.
func NewScorer() *Scorer {
	return &Scorer{
		MergeRadius:   mergeRadius,
		HardThreshold: 1.0, // equivalent to a single click's score
		NDwell:        6,
	}
}

// AddEvent folds a single mouse event into the nearest region within
// MergeRadius, or opens a new region.
func (s *Scorer) AddEvent(e eventlog.MouseEvent) *Region {
	score := EventScore(e.Kind)

	var nearest *Region
	nearestDist := math.Inf(1)
	for _, r := range s.Regions {
		d := r.Center.Distance(e.Position)
		if d <= s.MergeRadius && d < nearestDist {
			nearest, nearestDist = r, d
		}
	}

	if nearest == nil {
		nearest = &Region{Center: e.Position, Score: score, LastUpdate: e.T, EventCount: 1}
		s.Regions = append(s.Regions, nearest)
		return nearest
	}

	alpha := score / (nearest.Score + score)
	nearest.Center = nearest.Center.Lerp(e.Position, alpha)
	nearest.Score += score
	nearest.LastUpdate = e.T
	nearest.EventCount++
	return nearest
}

// DecayScores applies exponential decay to every region's score relative to
// its own LastUpdate and t, dropping any region whose score falls below
// scoreMin.
func (s *Scorer) DecayScores(t float64) {
	kept := s.Regions[:0]
	for _, r := range s.Regions {
		dt := t - r.LastUpdate
		if dt > 0 {
			r.Score *= math.Exp(-dt / decayTau)
			r.LastUpdate = t
		}
		if r.Score >= scoreMin {
			kept = append(kept, r)
		}
	}
	s.Regions = kept
}

// ShouldTriggerZoom reports whether a region is strong enough to start (or
// re-trigger) a zoom on its own.
func (s *Scorer) ShouldTriggerZoom(r *Region) bool {
	return r.Score >= s.HardThreshold || r.EventCount >= s.NDwell
}

// TotalScore sums the score of every active region, useful for diagnostics
// and for the dwell/attention-pressure heuristics a caller may layer on top.
func (s *Scorer) TotalScore() float64 {
	scores := make([]float64, len(s.Regions))
	for i, r := range s.Regions {
		scores[i] = r.Score
	}
	return floats.Sum(scores)
}

// ShouldInterruptHold implements the anti-jitter policy of section 4.2:
// a new region only displaces the currently-held region if it clears one
// of three bars (big jump, confirmed dwell with higher score, or a
// sufficiently-elapsed Hold plus a hard trigger).
func ShouldInterruptHold(newR, currentR *Region, holdStart, now, holdMin, tConfirm float64, isHardTrigger bool) bool {
	if newR.Center.Distance(currentR.Center) > bigJumpDistance {
		return true
	}
	if (now-newR.LastUpdate) >= tConfirm && newR.Score >= currentR.Score*promotionFactor {
		return true
	}
	if (now-holdStart) >= holdMin && isHardTrigger {
		return true
	}
	return false
}
