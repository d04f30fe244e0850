// Package config provides configuration types and defaults for finale.
package config

import "time"

// Config holds all configuration for finale.
type Config struct {
	Countdown   CountdownConfig   `yaml:"countdown" mapstructure:"countdown"`
	UI          UIConfig          `yaml:"ui" mapstructure:"ui"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
}

// CountdownConfig holds the countdown target settings.
type CountdownConfig struct {
	Mode     string        `yaml:"mode" mapstructure:"mode"`         // "timer", "absolute", or "wall-clock"
	Target   string        `yaml:"target" mapstructure:"target"`     // RFC 3339; empty means the next New Year
	Timezone string        `yaml:"timezone" mapstructure:"timezone"` // IANA zone; empty means the detected local zone
	Duration time.Duration `yaml:"duration" mapstructure:"duration"` // Timer-mode length
	Message  string        `yaml:"message" mapstructure:"message"`   // Completion message
}

// UIConfig holds display settings.
type UIConfig struct {
	Theme             string        `yaml:"theme" mapstructure:"theme"`
	TickInterval      time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
	MinSwitchInterval time.Duration `yaml:"min_switch_interval" mapstructure:"min_switch_interval"`
	CelebrationHold   time.Duration `yaml:"celebration_hold" mapstructure:"celebration_hold"`
	Zones             []string      `yaml:"zones" mapstructure:"zones"` // Timezone cycle for the 'z' key
}

// LogRotationConfig holds settings for log file rotation.
// Used for the TUI debug log (lumberjack-based automatic rotation).
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// Default returns a Config with sensible defaults: a wall-clock countdown to
// the next New Year in the local timezone.
func Default() *Config {
	return &Config{
		Countdown: CountdownConfig{
			Mode:     "wall-clock",
			Duration: time.Minute,
		},
		UI: UIConfig{
			Theme:             "digits",
			TickInterval:      time.Second,
			MinSwitchInterval: 300 * time.Millisecond,
			CelebrationHold:   10 * time.Second,
			Zones:             []string{},
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}
