package config

import "focusflow/internal/audio"

// Config is the full focusflow configuration.
type Config struct {
	// Log level: debug, info, warn or error.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`

	// Ambient engine timing and preset shaping
	Audio audio.Config `yaml:"audio" mapstructure:"audio"`

	// Focus session defaults and storage
	Session SessionConfig `yaml:"session" mapstructure:"session"`
}

// SessionConfig configures focus sessions and their history.
type SessionConfig struct {
	DBPath         string `yaml:"db_path" mapstructure:"db_path"`
	DefaultMinutes int    `yaml:"default_minutes" mapstructure:"default_minutes"`
	DefaultSound   string `yaml:"default_sound" mapstructure:"default_sound"`
}
