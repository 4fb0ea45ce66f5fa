package audio

import "time"

// OceanConfig shapes the ocean preset: lowpassed brown noise swelling under
// a slow sine.
type OceanConfig struct {
	LowpassHz float64 `mapstructure:"lowpass_hz" yaml:"lowpass_hz"`
	LFOHz     float64 `mapstructure:"lfo_hz" yaml:"lfo_hz"`
	BaseGain  float64 `mapstructure:"base_gain" yaml:"base_gain"`
	Depth     float64 `mapstructure:"depth" yaml:"depth"`
}

// ForestConfig shapes the forest preset: band-limited pink noise with a
// gentle breeze modulation.
type ForestConfig struct {
	HighpassHz float64 `mapstructure:"highpass_hz" yaml:"highpass_hz"`
	LowpassHz  float64 `mapstructure:"lowpass_hz" yaml:"lowpass_hz"`
	LFOHz      float64 `mapstructure:"lfo_hz" yaml:"lfo_hz"`
	BaseGain   float64 `mapstructure:"base_gain" yaml:"base_gain"`
	Depth      float64 `mapstructure:"depth" yaml:"depth"`
}

// Config holds the engine's timing and preset constants.
type Config struct {
	SampleRate int `mapstructure:"sample_rate" yaml:"sample_rate"`

	FadeIn  time.Duration `mapstructure:"fade_in" yaml:"fade_in"`
	FadeOut time.Duration `mapstructure:"fade_out" yaml:"fade_out"`
	// CutoverFade is the near-instant fade used when a new preset replaces
	// the live one or the caller asks for an immediate stop.
	CutoverFade time.Duration `mapstructure:"cutover_fade" yaml:"cutover_fade"`
	// CleanupSlack is added to FadeOut before the graph is torn down so the
	// ramp has fully reached zero.
	CleanupSlack time.Duration `mapstructure:"cleanup_slack" yaml:"cleanup_slack"`

	SteadyGain    float64 `mapstructure:"steady_gain" yaml:"steady_gain"`
	BufferSeconds float64 `mapstructure:"buffer_seconds" yaml:"buffer_seconds"`

	Ocean  OceanConfig  `mapstructure:"ocean" yaml:"ocean"`
	Forest ForestConfig `mapstructure:"forest" yaml:"forest"`
}

func DefaultConfig() Config {
	return Config{
		SampleRate:    DefaultSampleRate,
		FadeIn:        2 * time.Second,
		FadeOut:       1500 * time.Millisecond,
		CutoverFade:   50 * time.Millisecond,
		CleanupSlack:  100 * time.Millisecond,
		SteadyGain:    0.15,
		BufferSeconds: 2,
		Ocean: OceanConfig{
			LowpassHz: 600,
			LFOHz:     0.12,
			BaseGain:  0.5,
			Depth:     0.3,
		},
		Forest: ForestConfig{
			HighpassHz: 600,
			LowpassHz:  3000,
			LFOHz:      0.05,
			BaseGain:   0.6,
			Depth:      0.15,
		},
	}
}

// withDefaults fills zero fields from DefaultConfig so a partially
// specified config still produces a usable engine.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SampleRate <= 0 {
		c.SampleRate = d.SampleRate
	}
	if c.FadeIn <= 0 {
		c.FadeIn = d.FadeIn
	}
	if c.FadeOut <= 0 {
		c.FadeOut = d.FadeOut
	}
	if c.CutoverFade <= 0 {
		c.CutoverFade = d.CutoverFade
	}
	if c.CleanupSlack < 0 {
		c.CleanupSlack = 0
	}
	if c.SteadyGain <= 0 {
		c.SteadyGain = d.SteadyGain
	}
	if c.BufferSeconds <= 0 {
		c.BufferSeconds = d.BufferSeconds
	}
	if c.Ocean == (OceanConfig{}) {
		c.Ocean = d.Ocean
	}
	if c.Forest == (ForestConfig{}) {
		c.Forest = d.Forest
	}
	return c
}
