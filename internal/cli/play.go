package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"focusflow/internal/audio"
)

var timeAfter = time.After

var playCmd = &cobra.Command{
	Use:   "play <preset>",
	Short: "Play an ambient preset until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().Duration("for", 0, "Stop after this long (default: until interrupted)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	preset, err := audio.ParsePreset(args[0])
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetDuration("for")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := newEngine()
	defer eng.Close()
	if err := eng.Start(ctx, preset); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Playing %s. Press Ctrl+C to stop.\n", preset)

	var deadline <-chan time.Time
	if limit > 0 {
		deadline = timeAfter(limit)
	}
	select {
	case <-ctx.Done():
	case <-deadline:
	}
	fadeOut(eng)
	return nil
}
