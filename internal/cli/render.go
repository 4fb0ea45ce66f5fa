package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"focusflow/internal/audio"
)

const defaultRenderDuration = 30 * time.Second

var renderCmd = &cobra.Command{
	Use:   "render <preset>",
	Short: "Render an ambient preset to a WAV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "Output WAV path")
	renderCmd.Flags().Duration("duration", 0, "Length of the render (default 30s)")
	_ = renderCmd.MarkFlagRequired("output")
}

func runRender(cmd *cobra.Command, args []string) error {
	preset, err := audio.ParsePreset(args[0])
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("output")
	d, _ := cmd.Flags().GetDuration("duration")
	if d <= 0 {
		d = defaultRenderDuration
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := audio.RenderWAV(f, preset, d, cfg.Audio, nil); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Debug("rendered preset", "preset", preset, "path", path, "duration", d)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %s)\n", path, preset, d)
	return nil
}
