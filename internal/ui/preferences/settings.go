package preferences

import (
	"time"

	"tomato/internal/audio"
	"tomato/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	WorkDuration       time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration

	MusicFile   string
	MusicRate   float64
	MusicVolume float64

	StartFullscreen bool
}

// DefaultSettings returns default settings for Tomato.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:       model.DefaultWorkDuration,
		ShortBreakDuration: model.DefaultShortBreakDuration,
		LongBreakDuration:  model.DefaultLongBreakDuration,
		MusicRate:          audio.DefaultRate,
		MusicVolume:        0,
		StartFullscreen:    false,
	}
}

// TimeKeeperConfig converts settings to TimeKeeperConfig.
func (settings Settings) TimeKeeperConfig() model.TimeKeeperConfig {
	return model.TimeKeeperConfig{
		Work:       settings.WorkDuration,
		ShortBreak: settings.ShortBreakDuration,
		LongBreak:  settings.LongBreakDuration,
	}.Normalized()
}

// AudioConfig converts settings to the music player configuration.
func (settings Settings) AudioConfig() audio.Config {
	return audio.Config{
		File:   settings.MusicFile,
		Rate:   audio.ClampRate(settings.MusicRate),
		Volume: audio.ClampVolume(settings.MusicVolume),
	}
}
