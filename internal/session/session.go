// Package session owns the live editing state for one open project: the
// project tree, the bounded undo/redo stack, the gesture engine, and the
// ephemeral selection. The editing core is a single logical thread; the
// session's mutex serializes API handlers and the job runner onto it, so
// events are applied strictly in arrival order and each completes before
// the next is handled.
package session

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/cutboard/cutboard-agent/internal/beats"
	"github.com/cutboard/cutboard-agent/internal/gesture"
	"github.com/cutboard/cutboard-agent/internal/history"
	"github.com/cutboard/cutboard-agent/internal/timeline"
)

var ErrNoProject = errors.New("no project open")

// Session is the exclusive owner of a project while it is open for editing.
// History snapshots are captured only at discrete interaction boundaries:
// command dispatch and gesture completion. Selection changes and cancelled
// gestures never commit.
type Session struct {
	mu      sync.Mutex
	logger  *slog.Logger
	project *timeline.Project
	hist    *history.Stack
	engine  *gesture.Engine
	sel     timeline.Selection
	dirty   bool
}

// Open starts an editing session on the given project and seeds history
// with its initial state.
func Open(p *timeline.Project, logger *slog.Logger) *Session {
	s := &Session{
		logger:  logger,
		project: p,
		hist:    history.NewStack(),
		engine:  gesture.NewEngine(logger),
	}
	s.hist.Commit(p)
	return s
}

// ProjectID returns the open project's id.
func (s *Session) ProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.ID
}

// Project returns a deep copy of the current project tree, safe to
// serialize or persist without racing live edits.
func (s *Session) Project() *timeline.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.Clone()
}

// Dispatch applies one command to the project and captures a history
// snapshot. A failed command leaves both the model and history untouched.
func (s *Session) Dispatch(cmd timeline.Command) (*timeline.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := timeline.Apply(s.project, cmd)
	if err != nil {
		return nil, err
	}
	s.commitLocked()
	if s.logger != nil {
		s.logger.Debug("command applied", "op", string(cmd.Op), "clip_id", cmd.ClipID)
	}
	return res, nil
}

// AddMediaClip creates a clip backed by a registered asset, places it on
// the first compatible lane (created on demand), and commits.
func (s *Session) AddMediaClip(kind timeline.ClipKind, assetID, name string, sourceDuration, mediaW, mediaH, start float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clip := timeline.NewMediaClip(kind, assetID, name, sourceDuration)
	clip.StartTime = start
	if kind.HasTransform() {
		clip.Transform.Box = timeline.FitBox(s.project.CanvasWidth, s.project.CanvasHeight, mediaW, mediaH)
	}
	lane := s.project.EnsureLane(timeline.LaneForClip(kind))
	if err := s.project.AddClip(lane.ID, clip); err != nil {
		return "", err
	}
	s.commitLocked()
	return clip.ID, nil
}

// AddTextClip inserts a free-standing text box and commits.
func (s *Session) AddTextClip(text string, start, duration float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clip := timeline.NewTextClip(text, start, duration)
	clip.Transform.Box = timeline.FitBox(s.project.CanvasWidth, s.project.CanvasHeight, s.project.CanvasWidth/2, s.project.CanvasHeight/8)
	lane := s.project.EnsureLane(timeline.LaneText)
	if err := s.project.AddClip(lane.ID, clip); err != nil {
		return "", err
	}
	s.commitLocked()
	return clip.ID, nil
}

// AddSubtitleBeats materializes segmented caption beats as text clips
// grouped to their source media clip, all under a single history snapshot.
func (s *Session) AddSubtitleBeats(sourceClipID string, beatList []beats.Beat) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, err := s.project.FindClip(sourceClipID); err != nil {
		return nil, err
	}
	lane := s.project.EnsureLane(timeline.LaneText)

	ids := make([]string, 0, len(beatList))
	for _, b := range beatList {
		text := ""
		for i, w := range b.Words {
			if i > 0 {
				text += " "
			}
			text += w.Text
		}
		clip := timeline.NewSubtitleClip(text, b.Start, b.End-b.Start, sourceClipID)
		if err := s.project.AddClip(lane.ID, clip); err != nil {
			return nil, err
		}
		ids = append(ids, clip.ID)
	}
	s.commitLocked()
	return ids, nil
}

// Undo steps the project back one snapshot. Returns false at the boundary
// without moving.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.project = p
	s.sel.Prune(s.project)
	s.dirty = true
	return true
}

// Redo steps the project forward one snapshot. Returns false at the
// boundary without moving.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.project = p
	s.sel.Prune(s.project)
	s.dirty = true
	return true
}

// CanUndo reports whether an undo step exists.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanUndo()
}

// CanRedo reports whether a redo step exists.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanRedo()
}

// Select replaces the selection. Ephemeral: no history snapshot.
func (s *Session) Select(primary string, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Clear()
	for _, id := range ids {
		s.sel.Add(id)
	}
	if primary != "" {
		if !s.sel.Contains(primary) {
			s.sel.Add(primary)
		}
		s.sel.Primary = primary
	}
}

// Selection returns a copy of the current selection.
func (s *Session) Selection() timeline.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := s.sel
	sel.IDs = append([]string(nil), s.sel.IDs...)
	return sel
}

// Dirty reports whether the project changed since the last MarkSaved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// MarkSaved clears the dirty flag after a successful persist.
func (s *Session) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

// HistoryLen returns the number of retained snapshots.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Len()
}

func (s *Session) commitLocked() {
	s.hist.Commit(s.project)
	s.dirty = true
}
