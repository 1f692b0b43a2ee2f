package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cutboard/cutboard-agent/internal/api"
	"github.com/cutboard/cutboard-agent/internal/assets"
	"github.com/cutboard/cutboard-agent/internal/config"
	"github.com/cutboard/cutboard-agent/internal/db"
	"github.com/cutboard/cutboard-agent/internal/jobs"
	"github.com/cutboard/cutboard-agent/internal/logging"
	"github.com/cutboard/cutboard-agent/internal/session"
	"github.com/cutboard/cutboard-agent/internal/store"
	"github.com/cutboard/cutboard-agent/internal/transcribe"
	"github.com/cutboard/cutboard-agent/internal/ui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting cutboard agent", "version", config.Version, "data_dir", cfg.DataDir())

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	st := store.New(database.Conn())

	deviceID, err := ensureDeviceID(st)
	if err != nil {
		return fmt.Errorf("failed to ensure device ID: %w", err)
	}

	authToken, err := ensureAuthToken(st)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║                   CUTBOARD AGENT v%-8s                ║\n", config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Printf("║  Device ID:  %-45s ║\n", deviceID[:16]+"...")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	assetRepo := assets.NewRepository(database.Conn())
	assetSvc := assets.NewService(assetRepo, logger)

	sessions := session.NewManager(logger)

	var transcriber transcribe.Client
	if cfg.TranscribeURL() != "" && cfg.TranscribeToken() != "" {
		transcriber = transcribe.NewHTTPClient(cfg.TranscribeURL(), cfg.TranscribeToken(), logger)
		logger.Info("transcription service configured", "base_url", cfg.TranscribeURL())
	} else {
		transcriber = transcribe.NewStubClient(logger)
	}

	jobsRepo := jobs.NewRepository(database.Conn())
	runner := jobs.NewRunner(jobsRepo, assetSvc, transcriber, sessions, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runner.Start(ctx)

	go autosaveLoop(ctx, sessions, st, cfg.AutosaveInterval(), logger)

	apiServer := api.NewServer(api.ServerConfig{
		Port:         cfg.Port(),
		AssetService: assetSvc,
		Store:        st,
		Sessions:     sessions,
		JobsRepo:     jobsRepo,
		Runner:       runner,
		Logger:       logger,
		StartTime:    startTime,
		DeviceID:     deviceID,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Sessions: sessions,
			Runner:   runner,
			Logger:   logger,
			OnSave: func() error {
				return saveCurrent(context.Background(), sessions, st)
			},
			OnQuit: func() {
				close(quitCh)
			},
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	// One last save so an edit made just before quit is not lost.
	if err := saveCurrent(shutdownCtx, sessions, st); err != nil {
		logger.Error("failed to save project on shutdown", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// autosaveLoop persists the open project whenever it has unsaved edits.
func autosaveLoop(ctx context.Context, sessions *session.Manager, st store.Store, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sess := sessions.Current()
			if sess == nil || !sess.Dirty() {
				continue
			}
			if err := saveCurrent(ctx, sessions, st); err != nil {
				logger.Error("autosave failed", "error", err)
				continue
			}
			logger.Debug("project autosaved", "project_id", sess.ProjectID())
		}
	}
}

func saveCurrent(ctx context.Context, sessions *session.Manager, st store.Store) error {
	sess := sessions.Current()
	if sess == nil {
		return nil
	}
	if err := st.SaveProject(ctx, sess.Project()); err != nil {
		return err
	}
	sess.MarkSaved()
	return nil
}

func ensureDeviceID(st store.Store) (string, error) {
	ctx := context.Background()

	existing, err := st.GetConfig(ctx, "device_id")
	if err == nil && existing != "" {
		return existing, nil
	}

	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return "", err
	}
	deviceID := hex.EncodeToString(idBytes)

	if err := st.SetConfig(ctx, "device_id", deviceID); err != nil {
		return "", err
	}

	return deviceID, nil
}

func ensureAuthToken(st store.Store) (string, error) {
	ctx := context.Background()

	existing, err := st.GetConfig(ctx, api.AuthTokenKey)
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := st.SetConfig(ctx, api.AuthTokenKey, token); err != nil {
		return "", err
	}

	return token, nil
}
