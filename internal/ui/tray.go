package ui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/cutboard/cutboard-agent/internal/jobs"
	"github.com/cutboard/cutboard-agent/internal/session"
)

type Tray struct {
	sessions *session.Manager
	runner   *jobs.Runner
	logger   *slog.Logger

	statusItem  *systray.MenuItem
	projectItem *systray.MenuItem
	pauseItem   *systray.MenuItem

	mu sync.Mutex

	onSave func() error
	onQuit func()
}

type TrayConfig struct {
	Sessions *session.Manager
	Runner   *jobs.Runner
	Logger   *slog.Logger
	OnSave   func() error
	OnQuit   func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		sessions: cfg.Sessions,
		runner:   cfg.Runner,
		logger:   cfg.Logger,
		onSave:   cfg.OnSave,
		onQuit:   cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Cutboard")
	systray.SetTooltip("Cutboard Agent")

	t.statusItem = systray.AddMenuItem("Status: Idle", "Current agent status")
	t.statusItem.Disable()

	t.projectItem = systray.AddMenuItem("No project open", "Open project")
	t.projectItem.Disable()

	systray.AddSeparator()

	t.pauseItem = systray.AddMenuItem("Pause jobs", "Pause background jobs")

	saveItem := systray.AddMenuItem("Save project", "Persist the open project")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Cutboard Agent")

	go func() {
		for {
			select {
			case <-t.pauseItem.ClickedCh:
				t.togglePause()
			case <-saveItem.ClickedCh:
				t.handleSave()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) togglePause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.runner == nil {
		return
	}

	if t.runner.IsPaused() {
		t.runner.Resume()
		t.pauseItem.SetTitle("Pause jobs")
		t.statusItem.SetTitle("Status: Idle")
	} else {
		t.runner.Pause()
		t.pauseItem.SetTitle("Resume jobs")
		t.statusItem.SetTitle("Status: Paused")
	}
}

func (t *Tray) handleSave() {
	if t.onSave == nil {
		return
	}
	if err := t.onSave(); err != nil {
		t.logger.Error("failed to save project from tray", "error", err)
	}
}

func (t *Tray) UpdateStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.runner != nil && t.runner.IsPaused() {
		return
	}
	t.statusItem.SetTitle("Status: " + status)
}

// UpdateProject reflects the open project in the tray menu.
func (t *Tray) UpdateProject(name string, clipCount int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if name == "" {
		t.projectItem.SetTitle("No project open")
		return
	}
	t.projectItem.SetTitle(fmt.Sprintf("%s (%d clips)", name, clipCount))
}

func (t *Tray) Quit() {
	systray.Quit()
}
