package files

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/opradox/opradox-cli/pkg/models"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the settings file
const (
	EnvAPIURL  = "OPRADOX_API_URL"
	EnvTimeout = "OPRADOX_TIMEOUT"
)

func settingsPath() string {
	return filepath.Join(OpradoxDir, SettingsFile)
}

// ReadSettings loads .opradox/settings.yaml over the defaults and applies
// environment overrides. A missing file yields the defaults.
func ReadSettings() (*models.Settings, error) {
	settings := models.DefaultSettings()

	content, err := os.ReadFile(settingsPath())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read settings: %w", err)
	default:
		if err := yaml.Unmarshal(content, settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
		}
	}

	ApplyEnv(settings)
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ApplyEnv overrides settings from the environment.
func ApplyEnv(settings *models.Settings) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		settings.Backend.URL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		settings.Backend.Timeout = v
	}
}

// ValidateSettings rejects values the client cannot work with.
func ValidateSettings(settings *models.Settings) error {
	if settings.Backend.URL == "" {
		return fmt.Errorf("backend.url cannot be empty")
	}
	if _, err := Timeout(settings); err != nil {
		return err
	}
	switch settings.UI.Theme {
	case "", "day", "night":
	default:
		return fmt.Errorf("ui.theme must be day or night, got %q", settings.UI.Theme)
	}
	switch settings.UI.Language {
	case "", "en", "tr":
	default:
		return fmt.Errorf("ui.language must be en or tr, got %q", settings.UI.Language)
	}
	return nil
}

// Timeout parses the backend timeout. Zero means the client default.
func Timeout(settings *models.Settings) (time.Duration, error) {
	if settings.Backend.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(settings.Backend.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid backend.timeout %q: %w", settings.Backend.Timeout, err)
	}
	return d, nil
}

func WriteSettings(settings *models.Settings) error {
	if err := os.MkdirAll(OpradoxDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", OpradoxDir, err)
	}
	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(settingsPath(), content, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// HistoryPath is where the run history database lives.
func HistoryPath() string {
	return filepath.Join(OpradoxDir, HistoryFile)
}
