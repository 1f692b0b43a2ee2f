package session

import (
	"math"
	"testing"

	"github.com/cutboard/cutboard-agent/internal/beats"
	"github.com/cutboard/cutboard-agent/internal/gesture"
	"github.com/cutboard/cutboard-agent/internal/timeline"
)

func openSession(t *testing.T) (*Session, *timeline.Project) {
	t.Helper()
	p := timeline.NewProject("session test")
	return Open(p, nil), p
}

func addClip(t *testing.T, s *Session, start float64) string {
	t.Helper()
	id, err := s.AddMediaClip(timeline.ClipVideo, "asset-1", "clip", 10, 1280, 720, start)
	if err != nil {
		t.Fatalf("AddMediaClip() error = %v", err)
	}
	return id
}

func TestSession_DispatchCommits(t *testing.T) {
	s, _ := openSession(t)
	id := addClip(t, s, 0)

	before := s.HistoryLen()
	if _, err := s.Dispatch(timeline.Command{Op: timeline.OpSetRotation, ClipID: id, Value: 45}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if s.HistoryLen() != before+1 {
		t.Errorf("HistoryLen = %d, want %d", s.HistoryLen(), before+1)
	}
}

func TestSession_FailedDispatchDoesNotCommit(t *testing.T) {
	s, _ := openSession(t)
	addClip(t, s, 0)

	before := s.HistoryLen()
	if _, err := s.Dispatch(timeline.Command{Op: timeline.OpSetRotation, ClipID: "missing", Value: 45}); err == nil {
		t.Fatal("expected error for unknown clip")
	}
	if s.HistoryLen() != before {
		t.Errorf("failed command committed: HistoryLen %d -> %d", before, s.HistoryLen())
	}
}

func TestSession_UndoRedo(t *testing.T) {
	s, _ := openSession(t)
	id := addClip(t, s, 0)

	if _, err := s.Dispatch(timeline.Command{Op: timeline.OpSetRotation, ClipID: id, Value: 45}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if !s.Undo() {
		t.Fatal("Undo() = false")
	}
	clip, _, err := s.Project().FindClip(id)
	if err != nil {
		t.Fatalf("FindClip() error = %v", err)
	}
	if clip.Transform.Rotation != 0 {
		t.Errorf("after undo rotation = %v, want 0", clip.Transform.Rotation)
	}

	if !s.Redo() {
		t.Fatal("Redo() = false")
	}
	clip, _, err = s.Project().FindClip(id)
	if err != nil {
		t.Fatalf("FindClip() error = %v", err)
	}
	if clip.Transform.Rotation != 45 {
		t.Errorf("after redo rotation = %v, want 45", clip.Transform.Rotation)
	}
}

func TestSession_UndoBoundary(t *testing.T) {
	s, _ := openSession(t)

	// Only the initial snapshot exists.
	if s.Undo() {
		t.Error("Undo() on fresh session should be a no-op")
	}
	if s.Redo() {
		t.Error("Redo() on fresh session should be a no-op")
	}
}

func TestSession_OneDragOneUndoStep(t *testing.T) {
	s, _ := openSession(t)
	id := addClip(t, s, 0)

	before := s.HistoryLen()

	if err := s.BeginMove(id); err != nil {
		t.Fatalf("BeginMove() error = %v", err)
	}
	// Many intermediate positions, one history entry.
	for _, v := range []float64{0.75, 1.75, 2.75, 3.75} {
		if err := s.UpdateGesture(0, 0, v); err != nil {
			t.Fatalf("UpdateGesture() error = %v", err)
		}
	}
	committed, err := s.EndGesture()
	if err != nil {
		t.Fatalf("EndGesture() error = %v", err)
	}
	if !committed {
		t.Fatal("EndGesture() = false for a real move")
	}
	if s.HistoryLen() != before+1 {
		t.Fatalf("HistoryLen = %d, want %d (one snapshot per gesture)", s.HistoryLen(), before+1)
	}

	// A single undo returns all the way to the pre-drag position.
	if !s.Undo() {
		t.Fatal("Undo() = false")
	}
	clip, _, err := s.Project().FindClip(id)
	if err != nil {
		t.Fatalf("FindClip() error = %v", err)
	}
	if clip.StartTime != 0 {
		t.Errorf("after undo start = %v, want 0", clip.StartTime)
	}
}

func TestSession_NoOpGestureDoesNotCommit(t *testing.T) {
	s, _ := openSession(t)
	id := addClip(t, s, 0)

	before := s.HistoryLen()
	if err := s.BeginMove(id); err != nil {
		t.Fatal(err)
	}
	committed, err := s.EndGesture()
	if err != nil {
		t.Fatalf("EndGesture() error = %v", err)
	}
	if committed {
		t.Error("EndGesture() = true for an untouched clip")
	}
	if s.HistoryLen() != before {
		t.Errorf("no-op gesture committed: HistoryLen %d -> %d", before, s.HistoryLen())
	}
}

func TestSession_CancelGestureDoesNotCommit(t *testing.T) {
	s, _ := openSession(t)
	id := addClip(t, s, 0)

	before := s.HistoryLen()
	if err := s.BeginMove(id); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateGesture(0, 0, 3.75); err != nil {
		t.Fatal(err)
	}
	if err := s.CancelGesture(); err != nil {
		t.Fatalf("CancelGesture() error = %v", err)
	}

	if s.HistoryLen() != before {
		t.Errorf("cancelled gesture committed: HistoryLen %d -> %d", before, s.HistoryLen())
	}
	clip, _, err := s.Project().FindClip(id)
	if err != nil {
		t.Fatalf("FindClip() error = %v", err)
	}
	if clip.StartTime != 0 {
		t.Errorf("cancel did not restore start: %v", clip.StartTime)
	}
}

func TestSession_SelectionIsEphemeral(t *testing.T) {
	s, _ := openSession(t)
	id := addClip(t, s, 0)

	before := s.HistoryLen()
	s.Select(id, []string{id})
	if s.HistoryLen() != before {
		t.Errorf("selection committed a snapshot: HistoryLen %d -> %d", before, s.HistoryLen())
	}

	sel := s.Selection()
	if sel.Primary != id || len(sel.IDs) != 1 {
		t.Errorf("Selection() = %+v", sel)
	}
}

func TestSession_UndoPrunesSelection(t *testing.T) {
	s, _ := openSession(t)
	first := addClip(t, s, 0)
	second := addClip(t, s, 20)

	s.Select(second, []string{first, second})

	// Undo removes the second clip from the tree; the selection follows.
	if !s.Undo() {
		t.Fatal("Undo() = false")
	}
	sel := s.Selection()
	if sel.Primary == second {
		t.Error("primary selection still points at an undone clip")
	}
	for _, id := range sel.IDs {
		if id == second {
			t.Error("selection retains an undone clip id")
		}
	}
}

func TestSession_AddSubtitleBeats_SingleCommit(t *testing.T) {
	s, _ := openSession(t)
	source := addClip(t, s, 0)

	beatList := []beats.Beat{
		{Words: []beats.Word{{Text: "hello", Start: 0.1, End: 0.4}, {Text: "there", Start: 0.45, End: 0.7}}, Start: 0.1, End: 0.7},
		{Words: []beats.Word{{Text: "friend", Start: 1.0, End: 1.3}}, Start: 1.0, End: 1.3},
	}

	before := s.HistoryLen()
	ids, err := s.AddSubtitleBeats(source, beatList)
	if err != nil {
		t.Fatalf("AddSubtitleBeats() error = %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("created %d clips, want 2", len(ids))
	}
	if s.HistoryLen() != before+1 {
		t.Errorf("HistoryLen = %d, want %d (all beats under one snapshot)", s.HistoryLen(), before+1)
	}

	p := s.Project()
	first, _, err := p.FindClip(ids[0])
	if err != nil {
		t.Fatalf("FindClip() error = %v", err)
	}
	if first.Text != "hello there" {
		t.Errorf("beat text = %q, want %q", first.Text, "hello there")
	}
	// Beat timing survives even below the manual clip minimum.
	if math.Abs(first.Duration-0.6) > 1e-9 {
		t.Errorf("beat duration = %v, want 0.6", first.Duration)
	}
	if first.LinkedClipID != source {
		t.Errorf("LinkedClipID = %q, want source clip", first.LinkedClipID)
	}
}

func TestSession_AddSubtitleBeats_ShortBeatSatisfiesCaptionFloor(t *testing.T) {
	s, _ := openSession(t)
	source := addClip(t, s, 0)

	ids, err := s.AddSubtitleBeats(source, []beats.Beat{
		{Words: []beats.Word{{Text: "hi", Start: 2.0, End: 2.3}}, Start: 2.0, End: 2.3},
	})
	if err != nil {
		t.Fatalf("AddSubtitleBeats() error = %v", err)
	}

	p := s.Project()
	clip, _, err := p.FindClip(ids[0])
	if err != nil {
		t.Fatalf("FindClip() error = %v", err)
	}
	if math.Abs(clip.Duration-0.3) > 1e-9 {
		t.Errorf("beat duration = %v, want 0.3", clip.Duration)
	}
	if clip.Duration < clip.MinDuration() {
		t.Errorf("stored duration %v is below the clip's own floor %v", clip.Duration, clip.MinDuration())
	}

	// The duration the segmenter produced is one the command layer accepts.
	if _, err := s.Dispatch(timeline.Command{Op: timeline.OpSetDuration, ClipID: ids[0], Value: clip.Duration}); err != nil {
		t.Errorf("Dispatch(set_duration to the stored value) error = %v", err)
	}
}

func TestSession_AddSubtitleBeats_UnknownSource(t *testing.T) {
	s, _ := openSession(t)
	if _, err := s.AddSubtitleBeats("missing", []beats.Beat{{Start: 0, End: 1}}); err == nil {
		t.Error("expected error for unknown source clip")
	}
}

func TestSession_DirtyTracking(t *testing.T) {
	s, _ := openSession(t)
	if s.Dirty() {
		t.Error("fresh session has no unsaved edits")
	}

	addClip(t, s, 0)
	if !s.Dirty() {
		t.Error("Dirty() = false after an edit")
	}

	s.MarkSaved()
	if s.Dirty() {
		t.Error("Dirty() = true after MarkSaved")
	}

	if !s.Undo() {
		t.Fatal("Undo() = false")
	}
	if !s.Dirty() {
		t.Error("Dirty() = false after an undo")
	}
}

func TestManager_OpenReplacesCurrent(t *testing.T) {
	m := NewManager(nil)
	if m.Current() != nil {
		t.Fatal("fresh manager has a session")
	}

	first := m.Open(timeline.NewProject("one"))
	if m.Current() != first {
		t.Error("Current() != opened session")
	}

	second := m.Open(timeline.NewProject("two"))
	if m.Current() != second || m.Current() == first {
		t.Error("opening a project did not replace the session")
	}

	m.Close()
	if m.Current() != nil {
		t.Error("Current() != nil after Close")
	}
}

func TestSession_GestureStateVisible(t *testing.T) {
	s, _ := openSession(t)
	id := addClip(t, s, 0)

	if s.GestureActive() {
		t.Error("GestureActive() = true before any gesture")
	}
	if err := s.BeginResize(id, gesture.HandleSE); err != nil {
		t.Fatalf("BeginResize() error = %v", err)
	}
	if !s.GestureActive() {
		t.Error("GestureActive() = false during a drag")
	}
	if err := s.CancelGesture(); err != nil {
		t.Fatal(err)
	}
	if s.GestureActive() {
		t.Error("GestureActive() = true after cancel")
	}
}
