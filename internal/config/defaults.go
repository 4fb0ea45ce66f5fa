package config

import "focusflow/internal/audio"

// DefaultConfig returns the compiled-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Audio:    audio.DefaultConfig(),
		Session: SessionConfig{
			DBPath:         "~/.focusflow/sessions.db",
			DefaultMinutes: 25,
			DefaultSound:   audio.BrownNoise.String(),
		},
	}
}
