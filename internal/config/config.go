package config

import (
	"fmt"
	"strings"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds process level settings read from the environment.
// User facing preferences live in the settings file instead.
type Config struct {
	AppID     string `env:"TOMATO_APP_ID" env-default:"com.tomato.app"`
	ConfigDir string `env:"TOMATO_CONFIG_DIR"`
	Log       LogConfig
}

type LogConfig struct {
	Level  string `env:"TOMATO_LOG_LEVEL" env-default:"info"`
	Format string `env:"TOMATO_LOG_FORMAT" env-default:"console"`
}

// Default returns the configuration used when the environment cannot be read.
func Default() *Config {
	return &Config{
		AppID: "com.tomato.app",
		Log: LogConfig{
			Level:  "info",
			Format: FormatConsole,
		},
	}
}

// Validate checks enumerated values.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.AppID) == "" {
		return fmt.Errorf("validate config: app id is empty")
	}
	switch cfg.Log.Format {
	case FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("validate config: unknown log format %q", cfg.Log.Format)
	}
	return nil
}
