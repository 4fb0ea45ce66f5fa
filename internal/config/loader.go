package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"focusflow/internal/audio"
)

const envPrefix = "FOCUSFLOW"

// Load merges, in increasing precedence: compiled-in defaults, the global
// config, the project config, the explicit file (if any) and FOCUSFLOW_*
// environment variables.
func Load(explicit string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	for _, path := range []string{GlobalConfigPath(), ProjectConfigPath()} {
		if path == "" {
			continue
		}
		if err := mergeFile(v, path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if explicit != "" {
		if err := mergeFile(v, explicit); err != nil {
			return nil, fmt.Errorf("load %s: %w", explicit, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	return v.MergeInConfig()
}

// setDefaults registers every key so environment overrides apply to keys
// that no config file mentions.
func setDefaults(v *viper.Viper, cfg *Config) {
	a := cfg.Audio
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("audio.sample_rate", a.SampleRate)
	v.SetDefault("audio.fade_in", a.FadeIn)
	v.SetDefault("audio.fade_out", a.FadeOut)
	v.SetDefault("audio.cutover_fade", a.CutoverFade)
	v.SetDefault("audio.cleanup_slack", a.CleanupSlack)
	v.SetDefault("audio.steady_gain", a.SteadyGain)
	v.SetDefault("audio.buffer_seconds", a.BufferSeconds)
	v.SetDefault("audio.ocean.lowpass_hz", a.Ocean.LowpassHz)
	v.SetDefault("audio.ocean.lfo_hz", a.Ocean.LFOHz)
	v.SetDefault("audio.ocean.base_gain", a.Ocean.BaseGain)
	v.SetDefault("audio.ocean.depth", a.Ocean.Depth)
	v.SetDefault("audio.forest.highpass_hz", a.Forest.HighpassHz)
	v.SetDefault("audio.forest.lowpass_hz", a.Forest.LowpassHz)
	v.SetDefault("audio.forest.lfo_hz", a.Forest.LFOHz)
	v.SetDefault("audio.forest.base_gain", a.Forest.BaseGain)
	v.SetDefault("audio.forest.depth", a.Forest.Depth)
	v.SetDefault("session.db_path", cfg.Session.DBPath)
	v.SetDefault("session.default_minutes", cfg.Session.DefaultMinutes)
	v.SetDefault("session.default_sound", cfg.Session.DefaultSound)
}

// Validate rejects values the engine or session runner cannot use.
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.SteadyGain <= 0 || c.Audio.SteadyGain > 1 {
		return fmt.Errorf("audio.steady_gain must be in (0,1], got %v", c.Audio.SteadyGain)
	}
	if c.Session.DefaultMinutes <= 0 {
		return fmt.Errorf("session.default_minutes must be positive, got %d", c.Session.DefaultMinutes)
	}
	if _, err := audio.ParsePreset(c.Session.DefaultSound); err != nil {
		return fmt.Errorf("session.default_sound: %w", err)
	}
	return nil
}

// DBPath returns the session database path with ~ expanded.
func (c *Config) DBPath() string {
	return expandHome(c.Session.DBPath)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".focusflow", "config.yaml")
}

// ProjectConfigPath returns the path to the project config file
func ProjectConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".focusflow", "config.yaml")
}
