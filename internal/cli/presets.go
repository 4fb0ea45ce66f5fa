package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"focusflow/internal/audio"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List ambient presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		descriptions := map[audio.Preset]string{
			audio.Silence:    "no sound",
			audio.WhiteNoise: "uniform white noise",
			audio.BrownNoise: "deep brown noise",
			audio.Ocean:      "lowpassed brown noise with a slow wave swell",
			audio.Forest:     "band-limited pink noise with a gentle breeze",
		}
		for _, p := range audio.Presets() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", p, descriptions[p])
		}
		return nil
	},
}
