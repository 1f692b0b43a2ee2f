package session

import (
	"github.com/cutboard/cutboard-agent/internal/gesture"
)

// BeginResize starts a spatial resize drag on one of the eight handles of
// the given clip.
func (s *Session) BeginResize(clipID string, handle gesture.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.BeginResize(s.project, clipID, handle)
}

// BeginMove starts a timeline body drag.
func (s *Session) BeginMove(clipID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.BeginMove(s.project, clipID)
}

// BeginTrim starts a temporal edge trim.
func (s *Session) BeginTrim(clipID string, edge gesture.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.BeginTrim(s.project, clipID, edge)
}

// UpdateGesture applies one pointer-move event to the active drag. Live
// state mutates; history does not.
func (s *Session) UpdateGesture(dx, dy, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Update(s.project, dx, dy, value)
}

// EndGesture completes the active drag. Exactly one history snapshot is
// captured for the whole gesture, and only if it changed the clip, so a
// single drag yields a single undo step no matter how many intermediate
// positions were visited.
func (s *Session) EndGesture() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed, err := s.engine.End(s.project)
	if err != nil {
		return false, err
	}
	if changed {
		s.commitLocked()
	}
	return changed, nil
}

// CancelGesture aborts the active drag, restoring exact pre-gesture state
// without committing.
func (s *Session) CancelGesture() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Cancel(s.project)
}

// GestureActive reports whether a drag is in progress.
func (s *Session) GestureActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Active()
}
