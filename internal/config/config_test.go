package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server != defaultServer {
		t.Fatalf("Server = %q, want %q", cfg.Server, defaultServer)
	}
	if cfg.StatusInterval != 3*time.Second || cfg.FilesInterval != 30*time.Second {
		t.Fatalf("intervals = %v/%v, want 3s/30s", cfg.StatusInterval, cfg.FilesInterval)
	}
	if cfg.ScrollDebounce != 50*time.Millisecond {
		t.Fatalf("ScrollDebounce = %v, want 50ms", cfg.ScrollDebounce)
	}
	if cfg.StatusPath != defaultStatusPath || cfg.FilesPath != defaultFilesPath {
		t.Fatalf("poll paths = %q/%q", cfg.StatusPath, cfg.FilesPath)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
server = "  10.0.0.5:9999  "
content_path = "/library/?tag=news"
status_interval = "1500ms"
files_interval = " 1m "
scroll_debounce = "80ms"
threshold = "Fraction"
threshold_value = 0.5
log_file = "  ~/logs/lectern.log  "
log_level = "DEBUG"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server != "10.0.0.5:9999" {
		t.Fatalf("Server = %q, want %q", cfg.Server, "10.0.0.5:9999")
	}
	if cfg.ContentPath != "/library/?tag=news" {
		t.Fatalf("ContentPath = %q", cfg.ContentPath)
	}
	if cfg.StatusInterval != 1500*time.Millisecond || cfg.FilesInterval != time.Minute {
		t.Fatalf("intervals = %v/%v", cfg.StatusInterval, cfg.FilesInterval)
	}
	if cfg.ScrollDebounce != 80*time.Millisecond {
		t.Fatalf("ScrollDebounce = %v", cfg.ScrollDebounce)
	}
	if cfg.Threshold != "fraction" || cfg.ThresholdValue != 0.5 {
		t.Fatalf("threshold = %q %v", cfg.Threshold, cfg.ThresholdValue)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
server = "   "
status_interval = ""
threshold = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server != defaultServer {
		t.Fatalf("Server = %q, want %q", cfg.Server, defaultServer)
	}
	if cfg.StatusInterval != defaultStatusInterval {
		t.Fatalf("StatusInterval = %v, want default", cfg.StatusInterval)
	}
	if cfg.Threshold != defaultThreshold || cfg.ThresholdValue != defaultThresholdValue {
		t.Fatalf("threshold = %q %v, want defaults", cfg.Threshold, cfg.ThresholdValue)
	}
}

func TestLoad_ExplicitEmptyPollPathDisablesPoller(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`files_path = ""`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FilesPath != "" {
		t.Fatalf("FilesPath = %q, want empty", cfg.FilesPath)
	}
	if cfg.StatusPath != defaultStatusPath {
		t.Fatalf("StatusPath = %q, want default", cfg.StatusPath)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"toml", `server = [`, "parse config"},
		{"duration", `status_interval = "soon"`, "status_interval"},
		{"negative", `files_interval = "-1s"`, "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load returned nil error, want %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
