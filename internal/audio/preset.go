package audio

import (
	"fmt"
	"strings"
)

// Preset selects which ambient soundscape the engine builds.
type Preset int

const (
	Silence Preset = iota
	WhiteNoise
	BrownNoise
	Ocean
	Forest
)

var presetNames = [...]string{
	Silence:    "silence",
	WhiteNoise: "white",
	BrownNoise: "brown",
	Ocean:      "ocean",
	Forest:     "forest",
}

func (p Preset) String() string {
	if p < 0 || int(p) >= len(presetNames) {
		return fmt.Sprintf("Preset(%d)", int(p))
	}
	return presetNames[p]
}

// Presets returns every preset in declaration order.
func Presets() []Preset {
	return []Preset{Silence, WhiteNoise, BrownNoise, Ocean, Forest}
}

// ParsePreset accepts the names String returns plus a few aliases
// ("none", "white_noise", "brown-noise"). Case, spaces, dashes and
// underscores are ignored.
func ParsePreset(s string) (Preset, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	switch key {
	case "silence", "none", "off", "":
		return Silence, nil
	case "white", "whitenoise":
		return WhiteNoise, nil
	case "brown", "brownnoise":
		return BrownNoise, nil
	case "ocean":
		return Ocean, nil
	case "forest":
		return Forest, nil
	}
	return Silence, fmt.Errorf("unknown preset %q", s)
}

// MarshalText lets presets round-trip through config files and flags.
func (p Preset) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Preset) UnmarshalText(b []byte) error {
	v, err := ParsePreset(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
