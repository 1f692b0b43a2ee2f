package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv pins every config variable to empty so ambient shell state
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvPort, EnvLogLevel, EnvDataDir, EnvHeadless,
		EnvTranscribeURL, EnvTranscribeToken, EnvAutosaveSeconds,
	} {
		t.Setenv(key, "")
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)
	dataDir := t.TempDir()
	t.Setenv(EnvDataDir, dataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.Port() != DefaultPort {
		t.Errorf("Port() = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel() = %s, want %s", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.Headless() {
		t.Error("Headless() = true by default")
	}
	if cfg.TranscribeURL() != "" {
		t.Errorf("TranscribeURL() = %s, want empty", cfg.TranscribeURL())
	}
	if cfg.AutosaveInterval() != 15*time.Second {
		t.Errorf("AutosaveInterval() = %v, want 15s", cfg.AutosaveInterval())
	}
	if cfg.DBPath() != filepath.Join(dataDir, DBFilename) {
		t.Errorf("DBPath() = %s", cfg.DBPath())
	}
}

func TestNew_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDataDir, t.TempDir())
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvHeadless, "true")
	t.Setenv(EnvTranscribeURL, "https://stt.example.com")
	t.Setenv(EnvTranscribeToken, "tok")
	t.Setenv(EnvAutosaveSeconds, "30")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.Port() != 9000 {
		t.Errorf("Port() = %d, want 9000", cfg.Port())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel() = %s, want debug", cfg.LogLevel())
	}
	if !cfg.Headless() {
		t.Error("Headless() = false with CUTBOARD_HEADLESS=true")
	}
	if cfg.TranscribeURL() != "https://stt.example.com" || cfg.TranscribeToken() != "tok" {
		t.Errorf("transcribe config = %s / %s", cfg.TranscribeURL(), cfg.TranscribeToken())
	}
	if cfg.AutosaveInterval() != 30*time.Second {
		t.Errorf("AutosaveInterval() = %v, want 30s", cfg.AutosaveInterval())
	}
}

func TestNew_InvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port not a number", key: EnvPort, value: "abc"},
		{name: "port out of range", key: EnvPort, value: "70000"},
		{name: "port zero", key: EnvPort, value: "0"},
		{name: "autosave not a number", key: EnvAutosaveSeconds, value: "soon"},
		{name: "autosave zero", key: EnvAutosaveSeconds, value: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvDataDir, t.TempDir())
			t.Setenv(tc.key, tc.value)

			if _, err := New(); err == nil {
				t.Errorf("New() with %s=%s expected error", tc.key, tc.value)
			}
		})
	}
}

func TestNew_FileOverlay(t *testing.T) {
	clearEnv(t)
	dataDir := t.TempDir()
	t.Setenv(EnvDataDir, dataDir)

	yaml := "port: 9100\nlog_level: warn\nheadless: true\nautosave_seconds: 5\n"
	if err := os.WriteFile(filepath.Join(dataDir, FileName), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Port() != 9100 || cfg.LogLevel() != "warn" || !cfg.Headless() {
		t.Errorf("file values not applied: port=%d level=%s headless=%v", cfg.Port(), cfg.LogLevel(), cfg.Headless())
	}
	if cfg.AutosaveInterval() != 5*time.Second {
		t.Errorf("AutosaveInterval() = %v, want 5s", cfg.AutosaveInterval())
	}

	// Environment beats the file.
	t.Setenv(EnvPort, "9200")
	t.Setenv(EnvLogLevel, "error")

	cfg, err = New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Port() != 9200 || cfg.LogLevel() != "error" {
		t.Errorf("env did not win: port=%d level=%s", cfg.Port(), cfg.LogLevel())
	}
}

func TestNew_MalformedFile(t *testing.T) {
	clearEnv(t)
	dataDir := t.TempDir()
	t.Setenv(EnvDataDir, dataDir)

	if err := os.WriteFile(filepath.Join(dataDir, FileName), []byte("port: [not a port"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if _, err := New(); err == nil {
		t.Error("New() with malformed yaml expected error")
	}
}
