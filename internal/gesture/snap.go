package gesture

import (
	"math"

	"github.com/cutboard/cutboard-agent/internal/timegrid"
	"github.com/cutboard/cutboard-agent/internal/timeline"
)

// SnapThresholdPx is the screen-pixel radius within which a dragged edge
// locks onto a snap line. It converts to seconds through the project's
// timeline zoom.
const SnapThresholdPx = 8.0

const snapEpsilon = 1e-9

type candidate struct {
	ok   bool
	t    float64
	dist float64
	grid bool
}

// bestSnap resolves a dragged edge at time t against the interval grid and
// the edges of every other clip in the same or adjacent lanes. The nearest
// line wins; on a tie the grid wins, because grid lines are stable across
// layout changes while clip edges are not.
func bestSnap(p *timeline.Project, lane *timeline.Lane, excludeID string, t float64) candidate {
	threshold := SnapThresholdPx / p.TimelineScale

	best := candidate{}
	grid := timegrid.SnapToInterval(t, timegrid.SnapInterval)
	if d := math.Abs(grid - t); d <= threshold {
		best = candidate{ok: true, t: grid, dist: d, grid: true}
	}

	laneIdx := -1
	for i, l := range p.Lanes {
		if l.ID == lane.ID {
			laneIdx = i
			break
		}
	}

	for i, l := range p.Lanes {
		if laneIdx >= 0 && (i < laneIdx-1 || i > laneIdx+1) {
			continue
		}
		for _, other := range l.Clips {
			if other.ID == excludeID {
				continue
			}
			for _, edge := range [2]float64{other.StartTime, other.EndTime()} {
				d := math.Abs(edge - t)
				if d > threshold {
					continue
				}
				// Strictly closer only: an exact tie keeps the grid.
				if !best.ok || d < best.dist-snapEpsilon {
					best = candidate{ok: true, t: edge, dist: d}
				}
			}
		}
	}
	return best
}

// snapEdge snaps a single dragged edge, returning the (possibly unchanged)
// time and whether a snap applied.
func snapEdge(p *timeline.Project, lane *timeline.Lane, excludeID string, t float64) (float64, bool) {
	c := bestSnap(p, lane, excludeID, t)
	if !c.ok {
		return t, false
	}
	return c.t, true
}

// snapMove snaps a body drag: both the leading and trailing edge of the
// dragged clip are tested and the nearer snap wins, with the grid preferred
// on a tie. The returned start keeps the clip duration intact and is
// clamped to >= 0.
func snapMove(p *timeline.Project, lane *timeline.Lane, clip *timeline.Clip, candidateStart float64) float64 {
	if candidateStart < 0 {
		candidateStart = 0
	}
	startSnap := bestSnap(p, lane, clip.ID, candidateStart)
	endSnap := bestSnap(p, lane, clip.ID, candidateStart+clip.Duration)

	chosen := startSnap
	delta := 0.0
	if startSnap.ok {
		delta = startSnap.t - candidateStart
	}
	if endSnap.ok {
		better := !startSnap.ok ||
			endSnap.dist < startSnap.dist-snapEpsilon ||
			(endSnap.grid && !startSnap.grid && endSnap.dist <= startSnap.dist+snapEpsilon)
		if better {
			chosen = endSnap
			delta = endSnap.t - (candidateStart + clip.Duration)
		}
	}
	if !chosen.ok {
		return candidateStart
	}
	start := candidateStart + delta
	if start < 0 {
		start = 0
	}
	return start
}
