package gesture

import (
	"errors"
	"math"
	"testing"

	"github.com/cutboard/cutboard-agent/internal/timeline"
)

func gestureProject(t *testing.T) (*timeline.Project, *timeline.Clip) {
	t.Helper()
	p := timeline.NewProject("gesture test")
	clip := timeline.NewMediaClip(timeline.ClipVideo, "asset", "clip", 10)
	clip.StartTime = 2
	clip.Transform.Box = timeline.Box{X: 100, Y: 100, Width: 400, Height: 300}
	lane := p.EnsureLane(timeline.LaneVideo)
	if err := p.AddClip(lane.ID, clip); err != nil {
		t.Fatalf("AddClip() error = %v", err)
	}
	return p, clip
}

func TestEngine_CornerResize_HoldsAspect(t *testing.T) {
	deltas := []struct{ dx, dy float64 }{
		{40, 10},
		{10, 90},
		{-50, -20},
		{120, 120},
		{0, 60},
	}

	for _, d := range deltas {
		p, clip := gestureProject(t)
		e := NewEngine(nil)
		wantRatio := clip.Transform.Box.AspectRatio()

		if err := e.BeginResize(p, clip.ID, HandleSE); err != nil {
			t.Fatalf("BeginResize() error = %v", err)
		}
		if err := e.Update(p, d.dx, d.dy, 0); err != nil {
			t.Fatalf("Update(%v, %v) error = %v", d.dx, d.dy, err)
		}

		got := clip.Transform.Box.AspectRatio()
		if math.Abs(got-wantRatio) > 1e-9 {
			t.Errorf("delta (%v, %v): aspect = %v, want %v", d.dx, d.dy, got, wantRatio)
		}
		if _, err := e.End(p); err != nil {
			t.Fatalf("End() error = %v", err)
		}
	}
}

func TestEngine_CornerResize_DominantAxisWins(t *testing.T) {
	p, clip := gestureProject(t) // 400x300
	e := NewEngine(nil)

	if err := e.BeginResize(p, clip.ID, HandleSE); err != nil {
		t.Fatalf("BeginResize() error = %v", err)
	}
	// Width axis asks for 1.5x, height axis for 1.1x: width wins.
	if err := e.Update(p, 200, 30, 0); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	box := clip.Transform.Box
	if math.Abs(box.Width-600) > 1e-9 || math.Abs(box.Height-450) > 1e-9 {
		t.Errorf("box = %vx%v, want 600x450", box.Width, box.Height)
	}
	// SE drags anchor the original top-left corner.
	if box.X != 100 || box.Y != 100 {
		t.Errorf("anchor moved: (%v, %v), want (100, 100)", box.X, box.Y)
	}
}

func TestEngine_CornerResize_OppositeCornerAnchored(t *testing.T) {
	p, clip := gestureProject(t) // box (100,100) 400x300
	e := NewEngine(nil)

	if err := e.BeginResize(p, clip.ID, HandleNW); err != nil {
		t.Fatalf("BeginResize() error = %v", err)
	}
	if err := e.Update(p, -100, -100, 0); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	box := clip.Transform.Box
	// NW anchors the bottom-right corner at (500, 400).
	if math.Abs(box.X+box.Width-500) > 1e-9 || math.Abs(box.Y+box.Height-400) > 1e-9 {
		t.Errorf("bottom-right corner drifted: (%v, %v)", box.X+box.Width, box.Y+box.Height)
	}
}

func TestEngine_CornerResize_MaxScale(t *testing.T) {
	p, clip := gestureProject(t) // 400x300
	e := NewEngine(nil)

	if err := e.BeginResize(p, clip.ID, HandleSE); err != nil {
		t.Fatalf("BeginResize() error = %v", err)
	}
	if err := e.Update(p, 100000, 100000, 0); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	box := clip.Transform.Box
	if math.Abs(box.Width-400*MaxScale) > 1e-9 || math.Abs(box.Height-300*MaxScale) > 1e-9 {
		t.Errorf("box = %vx%v, want %vx%v", box.Width, box.Height, 400*MaxScale, 300*MaxScale)
	}
}

func TestEngine_CornerResize_MinLayerSize(t *testing.T) {
	p, clip := gestureProject(t) // 400x300, smaller dim 300
	e := NewEngine(nil)

	if err := e.BeginResize(p, clip.ID, HandleSE); err != nil {
		t.Fatalf("BeginResize() error = %v", err)
	}
	if err := e.Update(p, -100000, -100000, 0); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	box := clip.Transform.Box
	// Floor scale is MinLayerSize/300; the height bottoms out at the floor.
	if math.Abs(box.Height-MinLayerSize) > 1e-9 {
		t.Errorf("height = %v, want %v", box.Height, MinLayerSize)
	}
	wantW := 400 * (MinLayerSize / 300)
	if math.Abs(box.Width-wantW) > 1e-9 {
		t.Errorf("width = %v, want %v", box.Width, wantW)
	}
}

func TestEngine_CornerResize_SmallBoxKeepsSize(t *testing.T) {
	p, clip := gestureProject(t)
	clip.Transform.Box = timeline.Box{X: 0, Y: 0, Width: 50, Height: 40}
	e := NewEngine(nil)

	if err := e.BeginResize(p, clip.ID, HandleSE); err != nil {
		t.Fatalf("BeginResize() error = %v", err)
	}
	if err := e.Update(p, -100, -100, 0); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// A box already below the size floor may not shrink further.
	box := clip.Transform.Box
	if box.Width < 50-1e-9 || box.Height < 40-1e-9 {
		t.Errorf("sub-floor box shrank to %vx%v", box.Width, box.Height)
	}
}

func TestEngine_EdgeResize_SingleAxis(t *testing.T) {
	p, clip := gestureProject(t) // (100,100) 400x300
	e := NewEngine(nil)

	if err := e.BeginResize(p, clip.ID, HandleE); err != nil {
		t.Fatalf("BeginResize() error = %v", err)
	}
	if err := e.Update(p, 80, 999, 0); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	box := clip.Transform.Box
	if box.Width != 480 {
		t.Errorf("width = %v, want 480", box.Width)
	}
	if box.Height != 300 || box.Y != 100 {
		t.Errorf("east drag touched the vertical axis: %vx%v at y=%v", box.Width, box.Height, box.Y)
	}
}

func TestEngine_EdgeResize_WestAnchorsEast(t *testing.T) {
	p, clip := gestureProject(t)
	e := NewEngine(nil)

	if err := e.BeginResize(p, clip.ID, HandleW); err != nil {
		t.Fatalf("BeginResize() error = %v", err)
	}
	if err := e.Update(p, 50, 0, 0); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	box := clip.Transform.Box
	if box.Width != 350 || box.X != 150 {
		t.Errorf("box = x=%v w=%v, want x=150 w=350", box.X, box.Width)
	}
	if box.X+box.Width != 500 {
		t.Errorf("east edge drifted: %v", box.X+box.Width)
	}
}

func TestEngine_ResizeDeterministicFromOrigin(t *testing.T) {
	// Many intermediate updates land exactly where a single update with the
	// final delta would.
	p1, c1 := gestureProject(t)
	e1 := NewEngine(nil)
	if err := e1.BeginResize(p1, c1.ID, HandleSE); err != nil {
		t.Fatal(err)
	}
	for _, dx := range []float64{5, 30, 80, 47, 60} {
		if err := e1.Update(p1, dx, dx/2, 0); err != nil {
			t.Fatal(err)
		}
	}

	p2, c2 := gestureProject(t)
	e2 := NewEngine(nil)
	if err := e2.BeginResize(p2, c2.ID, HandleSE); err != nil {
		t.Fatal(err)
	}
	if err := e2.Update(p2, 60, 30, 0); err != nil {
		t.Fatal(err)
	}

	if c1.Transform.Box != c2.Transform.Box {
		t.Errorf("paths diverge: %+v vs %+v", c1.Transform.Box, c2.Transform.Box)
	}
}

func TestEngine_BeginResize_RejectsAudio(t *testing.T) {
	p := timeline.NewProject("audio")
	clip := timeline.NewMediaClip(timeline.ClipAudio, "asset", "song", 30)
	lane := p.EnsureLane(timeline.LaneAudio)
	if err := p.AddClip(lane.ID, clip); err != nil {
		t.Fatalf("AddClip() error = %v", err)
	}

	e := NewEngine(nil)
	if err := e.BeginResize(p, clip.ID, HandleSE); err == nil {
		t.Error("expected error resizing an audio clip")
	}
	if e.Active() {
		t.Error("engine left active after rejected begin")
	}
}

func TestEngine_BeginResize_BadHandle(t *testing.T) {
	p, clip := gestureProject(t)
	e := NewEngine(nil)

	if err := e.BeginResize(p, clip.ID, Handle("center")); !errors.Is(err, ErrBadHandle) {
		t.Errorf("BeginResize(bad handle) error = %v, want ErrBadHandle", err)
	}
}

func TestEngine_OneGestureAtATime(t *testing.T) {
	p, clip := gestureProject(t)
	e := NewEngine(nil)

	if err := e.BeginMove(p, clip.ID); err != nil {
		t.Fatalf("BeginMove() error = %v", err)
	}
	if err := e.BeginResize(p, clip.ID, HandleSE); !errors.Is(err, ErrGestureActive) {
		t.Errorf("second begin error = %v, want ErrGestureActive", err)
	}
	if err := e.Cancel(p); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if err := e.Update(p, 1, 1, 1); !errors.Is(err, ErrNoGesture) {
		t.Errorf("Update() after cancel error = %v, want ErrNoGesture", err)
	}
}

func TestEngine_End_ReportsChanged(t *testing.T) {
	p, clip := gestureProject(t)
	e := NewEngine(nil)

	// No updates: nothing changed.
	if err := e.BeginMove(p, clip.ID); err != nil {
		t.Fatal(err)
	}
	changed, err := e.End(p)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if changed {
		t.Error("End() reported change for an untouched clip")
	}

	// A real move reports a change.
	if err := e.BeginMove(p, clip.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.Update(p, 0, 0, 6.75); err != nil {
		t.Fatal(err)
	}
	changed, err = e.End(p)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if !changed {
		t.Error("End() reported no change after a move")
	}
}

func TestEngine_Cancel_RestoresExactState(t *testing.T) {
	p, clip := gestureProject(t)

	// A linked subtitle that the move drags along.
	textLane := p.EnsureLane(timeline.LaneText)
	sub := timeline.NewSubtitleClip("sub", 2.5, 1, clip.ID)
	if err := p.AddClip(textLane.ID, sub); err != nil {
		t.Fatalf("AddClip(subtitle) error = %v", err)
	}

	before := *clip
	subStart := sub.StartTime

	e := NewEngine(nil)
	if err := e.BeginMove(p, clip.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.Update(p, 0, 0, 6.75); err != nil {
		t.Fatal(err)
	}
	if clip.StartTime == before.StartTime {
		t.Fatal("move did not take effect before cancel")
	}

	if err := e.Cancel(p); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if *clip != before {
		t.Errorf("clip not restored: %+v", clip)
	}
	if sub.StartTime != subStart {
		t.Errorf("linked subtitle not restored: %v, want %v", sub.StartTime, subStart)
	}
}

func TestEngine_Trim_OverTrimIsNoOp(t *testing.T) {
	p, clip := gestureProject(t) // [2, 12)
	e := NewEngine(nil)

	if err := e.BeginTrim(p, clip.ID, EdgeStart); err != nil {
		t.Fatalf("BeginTrim() error = %v", err)
	}
	// Dragging past the minimum-duration limit keeps the prior timing but
	// does not abort the gesture.
	if err := e.Update(p, 0, 0, 11.75); err != nil {
		t.Fatalf("Update(over-trim) error = %v", err)
	}
	if clip.StartTime != 2 || clip.Duration != 10 {
		t.Errorf("over-trim mutated clip: start=%v dur=%v", clip.StartTime, clip.Duration)
	}

	// A legal position afterwards still applies.
	if err := e.Update(p, 0, 0, 4.75); err != nil {
		t.Fatalf("Update(valid) error = %v", err)
	}
	if clip.StartTime != 4.75 {
		t.Errorf("start = %v, want 4.75", clip.StartTime)
	}
	if clip.EndTime() != 12 {
		t.Errorf("trim moved the anchored end: %v", clip.EndTime())
	}
}

func TestEngine_Trim_BadEdge(t *testing.T) {
	p, clip := gestureProject(t)
	e := NewEngine(nil)

	if err := e.BeginTrim(p, clip.ID, Edge("middle")); !errors.Is(err, ErrBadHandle) {
		t.Errorf("BeginTrim(bad edge) error = %v, want ErrBadHandle", err)
	}
}
