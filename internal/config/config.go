package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures where the Librarian server lives and how lectern talks to it.
type Config struct {
	Server         string
	ContentPath    string
	StatusPath     string
	FilesPath      string
	SettingsPath   string
	StatusInterval time.Duration
	FilesInterval  time.Duration
	ScrollDebounce time.Duration
	Threshold      string
	ThresholdValue float64
	LogFile        string
	LogLevel       string
}

const (
	defaultConfigPath     = "~/.config/lectern/config.toml"
	defaultServer         = "127.0.0.1:8080"
	defaultContentPath    = "/"
	defaultStatusPath     = "/ondd/status/"
	defaultFilesPath      = "/ondd/files/"
	defaultSettingsPath   = "/ondd/settings/"
	defaultStatusInterval = 3 * time.Second
	defaultFilesInterval  = 30 * time.Second
	defaultScrollDebounce = 50 * time.Millisecond
	defaultThreshold      = "viewport"
	defaultThresholdValue = 2.0
	defaultLogFile        = "~/.local/state/lectern/lectern.log"
	defaultLogLevel       = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server:         defaultServer,
		ContentPath:    defaultContentPath,
		StatusPath:     defaultStatusPath,
		FilesPath:      defaultFilesPath,
		SettingsPath:   defaultSettingsPath,
		StatusInterval: defaultStatusInterval,
		FilesInterval:  defaultFilesInterval,
		ScrollDebounce: defaultScrollDebounce,
		Threshold:      defaultThreshold,
		ThresholdValue: defaultThresholdValue,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
	}
}

// Load locates and parses the lectern config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Server         string  `toml:"server"`
		ContentPath    string  `toml:"content_path"`
		StatusPath     *string `toml:"status_path"`
		FilesPath      *string `toml:"files_path"`
		SettingsPath   string  `toml:"settings_path"`
		StatusInterval string  `toml:"status_interval"`
		FilesInterval  string  `toml:"files_interval"`
		ScrollDebounce string  `toml:"scroll_debounce"`
		Threshold      string  `toml:"threshold"`
		ThresholdValue float64 `toml:"threshold_value"`
		LogFile        string  `toml:"log_file"`
		LogLevel       string  `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Server = orDefault(raw.Server, defaultServer)
	cfg.ContentPath = orDefault(raw.ContentPath, defaultContentPath)
	cfg.SettingsPath = orDefault(raw.SettingsPath, defaultSettingsPath)
	// An explicitly empty poll path disables that poller.
	if raw.StatusPath != nil {
		cfg.StatusPath = strings.TrimSpace(*raw.StatusPath)
	}
	if raw.FilesPath != nil {
		cfg.FilesPath = strings.TrimSpace(*raw.FilesPath)
	}

	if cfg.StatusInterval, err = parseDuration("status_interval", raw.StatusInterval, defaultStatusInterval); err != nil {
		return Config{}, err
	}
	if cfg.FilesInterval, err = parseDuration("files_interval", raw.FilesInterval, defaultFilesInterval); err != nil {
		return Config{}, err
	}
	if cfg.ScrollDebounce, err = parseDuration("scroll_debounce", raw.ScrollDebounce, defaultScrollDebounce); err != nil {
		return Config{}, err
	}

	cfg.Threshold = strings.ToLower(orDefault(raw.Threshold, defaultThreshold))
	if raw.ThresholdValue > 0 {
		cfg.ThresholdValue = raw.ThresholdValue
	}

	cfg.LogFile = mustExpand(orDefault(raw.LogFile, defaultLogFile))
	cfg.LogLevel = strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel))

	return cfg, nil
}

// DefaultPath returns the unexpanded default config location.
func DefaultPath() string {
	return defaultConfigPath
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse config: %s must be positive, got %s", key, trimmed)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
