package session

import (
	"log/slog"
	"sync"

	"github.com/cutboard/cutboard-agent/internal/timeline"
)

// Manager tracks the single session open for editing. The agent edits one
// project at a time; opening another project replaces the current session.
type Manager struct {
	mu      sync.Mutex
	logger  *slog.Logger
	current *Session
}

// NewManager returns an empty manager.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{logger: logger}
}

// Open starts a session on the project, replacing any current one.
func (m *Manager) Open(p *timeline.Project) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Open(p, m.logger)
	if m.logger != nil {
		m.logger.Info("project opened for editing", "project_id", p.ID, "name", p.Name)
	}
	return m.current
}

// Current returns the open session, or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Close drops the current session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}
