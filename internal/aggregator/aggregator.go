// Package aggregator merges chronologically sorted click events into
// AnchorPoints, the unit of "one point of user attention" the zoom state
// machine reacts to.
package aggregator

import (
	"github.com/google/uuid"

	"github.com/vedantwpatil/autozoom/internal/attention"
	"github.com/vedantwpatil/autozoom/internal/eventlog"
	"github.com/vedantwpatil/autozoom/internal/geometry"
)

// preBuffer is the small lead-in subtracted from a merge chain's first
// click time, giving the EaseIn a moment of anticipation.
const preBuffer = 0.05

// AnchorPoint is a merged cluster of one or more clicks.
type AnchorPoint struct {
	ID            uuid.UUID
	Center        geometry.Vec2
	TStart        float64
	TEnd          float64
	Score         float64
	IsHardTrigger bool
	EventCount    uint32
}

// Aggregate folds chronologically sorted clicks into AnchorPoints. Two
// clicks merge iff they fall within both clickMergeTime and
// normalizedMergeDistance of each other; merging is greedy and chains
// transitively (a merges with b, b merges with c => all three anchor
// together even if a and c alone would not have merged).
func Aggregate(clicks []eventlog.MouseEvent, clickMergeTime, normalizedMergeDistance float64) []AnchorPoint {
	if len(clicks) == 0 {
		return nil
	}

	var anchors []AnchorPoint
	chainStart := 0
	flush := func(end int) {
		anchors = append(anchors, buildAnchor(clicks[chainStart:end]))
	}

	for i := 1; i < len(clicks); i++ {
		prev, cur := clicks[i-1], clicks[i]
		// The small epsilon keeps the inclusive time bound exact for
		// timestamps like 1.00 and 1.35 whose float64 difference exceeds 0.35.
		if (cur.T-prev.T) <= clickMergeTime+1e-9 && prev.Position.Distance(cur.Position) <= normalizedMergeDistance {
			continue // extend the current chain
		}
		flush(i)
		chainStart = i
	}
	flush(len(clicks))
	return anchors
}

func buildAnchor(chain []eventlog.MouseEvent) AnchorPoint {
	var center geometry.Vec2
	var totalScore float64
	for _, c := range chain {
		w := attention.EventScore(c.Kind)
		center = center.Add(c.Position.Scale(w))
		totalScore += w
	}
	if totalScore > 0 {
		center = center.Scale(1 / totalScore)
	}

	tStart := chain[0].T - preBuffer
	if tStart < 0 {
		tStart = 0
	}

	return AnchorPoint{
		ID:            uuid.New(),
		Center:        center.Clamp01(),
		TStart:        tStart,
		TEnd:          chain[len(chain)-1].T,
		Score:         totalScore,
		IsHardTrigger: true,
		EventCount:    uint32(len(chain)),
	}
}
