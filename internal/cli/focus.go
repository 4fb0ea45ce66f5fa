package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"focusflow/internal/audio"
	"focusflow/internal/session"
)

var timeNow = time.Now

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run a timed focus session with ambient sound",
	Long: `Run a focus session. The ambient sound fades in at the start and out when
the timer expires. Interrupting with Ctrl+C ends the session early and
records it as not completed.

The length comes from --minutes, a named --preset (see "durations") or the
configured default, in that order.`,
	RunE: runFocus,
}

func init() {
	focusCmd.Flags().String("goal", "", "What this session is for")
	focusCmd.Flags().Int("minutes", 0, "Session length in minutes (default from config)")
	focusCmd.Flags().String("preset", "", "Named duration to use instead of --minutes")
	focusCmd.Flags().String("sound", "", "Ambient preset (default from config)")
	focusCmd.Flags().String("priority", "medium", "Priority: high, medium, low")
	focusCmd.Flags().String("blockers", "", "What got in the way (asked for after the session when omitted on a terminal)")
	_ = focusCmd.MarkFlagRequired("goal")
	focusCmd.MarkFlagsMutuallyExclusive("minutes", "preset")
}

func runFocus(cmd *cobra.Command, args []string) error {
	goal, _ := cmd.Flags().GetString("goal")
	minutes, _ := cmd.Flags().GetInt("minutes")
	presetName, _ := cmd.Flags().GetString("preset")
	soundName, _ := cmd.Flags().GetString("sound")
	prioName, _ := cmd.Flags().GetString("priority")
	blockers, _ := cmd.Flags().GetString("blockers")

	if soundName == "" {
		soundName = cfg.Session.DefaultSound
	}
	sound, err := audio.ParsePreset(soundName)
	if err != nil {
		return err
	}
	prio, err := session.ParsePriority(prioName)
	if err != nil {
		return err
	}

	store, err := session.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	if presetName != "" {
		d, err := store.LookupDuration(cmd.Context(), presetName)
		if err != nil {
			return fmt.Errorf("duration %q: %w", presetName, err)
		}
		minutes = d.Minutes
	}
	if minutes <= 0 {
		minutes = cfg.Session.DefaultMinutes
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	planned := time.Duration(minutes) * time.Minute
	rec := session.New(goal, planned, sound, prio)
	out := cmd.OutOrStdout()

	eng := newEngine()
	defer eng.Close()
	if err := eng.Start(ctx, sound); err != nil {
		if !errors.Is(err, audio.ErrAudioUnavailable) {
			return err
		}
		logger.Warn("ambient sound disabled", "err", err)
		fmt.Fprintln(out, "Sound unavailable, continuing without it.")
	}
	fmt.Fprintf(out, "Focusing on %q for %d min (%s). Ctrl+C to stop early.\n", goal, minutes, sound)

	completed := focusSession(ctx, eng, rec)

	if !cmd.Flags().Changed("blockers") && term.IsTerminal(int(os.Stdin.Fd())) {
		blockers = promptBlockers(cmd.InOrStdin(), out)
	}
	rec.Reflect(blockers)

	if err := store.Save(cmd.Context(), rec); err != nil {
		return err
	}
	logger.Info("session recorded", "id", rec.ID, "completed", completed, "elapsed", rec.Elapsed)
	if completed {
		fmt.Fprintf(out, "Session complete after %s.\n", rec.Elapsed)
	} else {
		fmt.Fprintf(out, "Session ended early after %s.\n", rec.Elapsed)
	}
	fmt.Fprintf(out, "Insight: %s\n", rec.Insight)
	return nil
}

// focusSession waits out the planned time or an interrupt, stamps rec and
// only then fades the sound out, so the fade is not counted as focus time.
func focusSession(ctx context.Context, eng *audio.Engine, rec *session.Record) bool {
	completed := false
	select {
	case <-timeAfter(rec.Planned):
		completed = true
	case <-ctx.Done():
	}
	rec.Finish(completed, timeNow().UTC())
	fadeOut(eng)
	return completed
}

// promptBlockers asks for a one-line reflection. EOF or an empty line
// means no blockers.
func promptBlockers(in io.Reader, out io.Writer) string {
	fmt.Fprint(out, "Anything get in the way? (enter to skip): ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return ""
	}
	return strings.TrimSpace(line)
}
