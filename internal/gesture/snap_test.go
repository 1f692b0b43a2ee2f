package gesture

import (
	"math"
	"testing"

	"github.com/cutboard/cutboard-agent/internal/timeline"
)

// snapProject builds a project at the default 60 px/s zoom, giving a snap
// threshold of 8/60 seconds.
func snapProject(t *testing.T) (*timeline.Project, *timeline.Lane) {
	t.Helper()
	p := timeline.NewProject("snap test")
	lane := p.EnsureLane(timeline.LaneVideo)
	return p, lane
}

func placeClip(t *testing.T, p *timeline.Project, lane *timeline.Lane, start, duration float64) *timeline.Clip {
	t.Helper()
	clip := timeline.NewMediaClip(timeline.ClipVideo, "a", "c", duration)
	clip.StartTime = start
	if err := p.AddClip(lane.ID, clip); err != nil {
		t.Fatalf("AddClip() error = %v", err)
	}
	return clip
}

func TestSnapEdge_Grid(t *testing.T) {
	p, lane := snapProject(t)

	got, snapped := snapEdge(p, lane, "dragged", 2.05)
	if !snapped || got != 2.0 {
		t.Errorf("snapEdge(2.05) = %v (%v), want 2.0 snapped", got, snapped)
	}

	// Outside the threshold nothing snaps.
	got, snapped = snapEdge(p, lane, "dragged", 2.25)
	if snapped || got != 2.25 {
		t.Errorf("snapEdge(2.25) = %v (%v), want unchanged", got, snapped)
	}
}

func TestSnapEdge_ClipEdgeWinsWhenCloser(t *testing.T) {
	p, lane := snapProject(t)
	placeClip(t, p, lane, 2.03, 5)

	got, snapped := snapEdge(p, lane, "dragged", 2.05)
	if !snapped || got != 2.03 {
		t.Errorf("snapEdge near clip edge = %v (%v), want 2.03", got, snapped)
	}
}

func TestSnapEdge_GridWinsOnTie(t *testing.T) {
	p, lane := snapProject(t)
	// Clip edge at 2.10: exactly as far from 2.05 as the grid line at 2.0.
	placeClip(t, p, lane, 2.10, 5)

	got, snapped := snapEdge(p, lane, "dragged", 2.05)
	if !snapped || got != 2.0 {
		t.Errorf("tie-break = %v (%v), want grid line 2.0", got, snapped)
	}
}

func TestSnapEdge_IgnoresDistantLanes(t *testing.T) {
	p, lane := snapProject(t)
	p.AddLane(timeline.LaneAudio)
	farLane := p.AddLane(timeline.LaneText)

	// An edge at 2.22 in a lane two away from the dragged lane: not a
	// candidate, and 2.22 is outside grid range.
	far := timeline.NewTextClip("t", 2.22, 2)
	if err := p.AddClip(farLane.ID, far); err != nil {
		t.Fatalf("AddClip() error = %v", err)
	}

	got, snapped := snapEdge(p, lane, "dragged", 2.24)
	if snapped || got != 2.24 {
		t.Errorf("snapEdge = %v (%v), distant-lane edge should not snap", got, snapped)
	}
}

func TestSnapEdge_AdjacentLaneSnaps(t *testing.T) {
	p, lane := snapProject(t)
	audioLane := p.AddLane(timeline.LaneAudio)

	audio := timeline.NewMediaClip(timeline.ClipAudio, "a", "song", 3)
	audio.StartTime = 2.22
	if err := p.AddClip(audioLane.ID, audio); err != nil {
		t.Fatalf("AddClip() error = %v", err)
	}

	got, snapped := snapEdge(p, lane, "dragged", 2.24)
	if !snapped || got != 2.22 {
		t.Errorf("snapEdge = %v (%v), want adjacent-lane edge 2.22", got, snapped)
	}
}

func TestSnapEdge_ExcludesDraggedClip(t *testing.T) {
	p, lane := snapProject(t)
	dragged := placeClip(t, p, lane, 2.22, 5)

	// The dragged clip's own edges never attract the drag.
	got, snapped := snapEdge(p, lane, dragged.ID, 2.24)
	if snapped || got != 2.24 {
		t.Errorf("snapEdge = %v (%v), own edge should be excluded", got, snapped)
	}
}

func TestSnapMove_TrailingEdgeWins(t *testing.T) {
	p, lane := snapProject(t)
	dragged := placeClip(t, p, lane, 0, 2)
	// A neighbor edge near where the dragged clip's end would land.
	placeClip(t, p, lane, 3.05, 5)

	// Start candidate 1.08: leading edge is 0.08 from the 1.0 grid line,
	// trailing edge (3.08) is 0.03 from the neighbor at 3.05. The closer
	// trailing snap wins and shifts the whole clip.
	got := snapMove(p, lane, dragged, 1.08)
	if math.Abs(got-1.05) > 1e-9 {
		t.Errorf("snapMove = %v, want 1.05", got)
	}
}

func TestSnapMove_KeepsDuration(t *testing.T) {
	p, lane := snapProject(t)
	dragged := placeClip(t, p, lane, 0, 2)

	before := dragged.Duration
	got := snapMove(p, lane, dragged, 4.05)
	if got != 4.0 {
		t.Errorf("snapMove = %v, want 4.0", got)
	}
	if dragged.Duration != before {
		t.Errorf("snapMove changed duration: %v", dragged.Duration)
	}
}

func TestSnapMove_ClampsToZero(t *testing.T) {
	p, lane := snapProject(t)
	dragged := placeClip(t, p, lane, 5, 2)

	if got := snapMove(p, lane, dragged, -3); got != 0 {
		t.Errorf("snapMove(-3) = %v, want 0", got)
	}
}

func TestSnapMove_NoCandidates(t *testing.T) {
	p, lane := snapProject(t)
	dragged := placeClip(t, p, lane, 0, 2)

	// 1.75 and 3.75 are both exactly between grid lines; nothing snaps.
	if got := snapMove(p, lane, dragged, 1.75); got != 1.75 {
		t.Errorf("snapMove = %v, want unchanged 1.75", got)
	}
}

func TestSnapThresholdScalesWithZoom(t *testing.T) {
	p, lane := snapProject(t)

	// Zoomed far out the same pixel radius covers more time.
	p.TimelineScale = timeline.TimelineScaleMin // 8px / 10 px/s = 0.8s
	got, snapped := snapEdge(p, lane, "dragged", 2.3)
	if !snapped || got != 2.5 {
		t.Errorf("zoomed-out snapEdge(2.3) = %v (%v), want 2.5", got, snapped)
	}

	// Zoomed far in it covers less.
	p.TimelineScale = timeline.TimelineScaleMax // 8px / 240 px/s = 1/30 s
	got, snapped = snapEdge(p, lane, "dragged", 2.05)
	if snapped || got != 2.05 {
		t.Errorf("zoomed-in snapEdge(2.05) = %v (%v), want unchanged", got, snapped)
	}
}
