package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tomato/internal/audio"
	"tomato/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes       int     `yaml:"work_minutes"`
	ShortBreakMinutes int     `yaml:"short_break_minutes"`
	LongBreakMinutes  int     `yaml:"long_break_minutes"`
	MusicFile         string  `yaml:"music_file,omitempty"`
	MusicRate         float64 `yaml:"music_rate"`
	MusicVolume       float64 `yaml:"music_volume"`
	StartFullscreen   bool    `yaml:"start_fullscreen"`
}

// ResolveConfigDir returns override when set, otherwise the per-user config directory for appName.
func ResolveConfigDir(appName, override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return override, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}

// LoadSettings reads user preferences from YAML in configDir.
// If the file does not exist, default settings are returned.
func LoadSettings(configDir string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(filepath.Join(configDir, settingsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML in configDir.
func SaveSettings(configDir string, settings preferences.Settings) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		WorkMinutes:       int(settings.WorkDuration / time.Minute),
		ShortBreakMinutes: int(settings.ShortBreakDuration / time.Minute),
		LongBreakMinutes:  int(settings.LongBreakDuration / time.Minute),
		MusicFile:         settings.MusicFile,
		MusicRate:         settings.MusicRate,
		MusicVolume:       settings.MusicVolume,
		StartFullscreen:   settings.StartFullscreen,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, settingsFileName), serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		settings.WorkDuration = time.Duration(fileData.WorkMinutes) * time.Minute
	}
	if fileData.ShortBreakMinutes > 0 {
		settings.ShortBreakDuration = time.Duration(fileData.ShortBreakMinutes) * time.Minute
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreakDuration = time.Duration(fileData.LongBreakMinutes) * time.Minute
	}

	if fileData.MusicRate >= audio.MinRate && fileData.MusicRate <= audio.MaxRate {
		settings.MusicRate = fileData.MusicRate
	}
	if fileData.MusicVolume >= audio.MinVolume && fileData.MusicVolume <= audio.MaxVolume {
		settings.MusicVolume = fileData.MusicVolume
	}

	settings.MusicFile = strings.TrimSpace(fileData.MusicFile)
	settings.StartFullscreen = fileData.StartFullscreen
}
