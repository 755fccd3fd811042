package model

import "time"

// Default phase lengths.
const (
	DefaultWorkDuration       = 25 * time.Minute
	DefaultShortBreakDuration = 5 * time.Minute
	DefaultLongBreakDuration  = 15 * time.Minute
)

// TimeKeeperConfig holds the fixed length of every phase.
// The mapping is read once when a TimeKeeper is built.
type TimeKeeperConfig struct {
	Work       time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
}

// DefaultTimeKeeperConfig returns the classic 25/5/15 schedule.
func DefaultTimeKeeperConfig() TimeKeeperConfig {
	return TimeKeeperConfig{
		Work:       DefaultWorkDuration,
		ShortBreak: DefaultShortBreakDuration,
		LongBreak:  DefaultLongBreakDuration,
	}
}

// Normalized replaces non-positive or sub-second durations with defaults.
func (config TimeKeeperConfig) Normalized() TimeKeeperConfig {
	defaults := DefaultTimeKeeperConfig()
	if config.Work < time.Second {
		config.Work = defaults.Work
	}
	if config.ShortBreak < time.Second {
		config.ShortBreak = defaults.ShortBreak
	}
	if config.LongBreak < time.Second {
		config.LongBreak = defaults.LongBreak
	}
	return config
}
