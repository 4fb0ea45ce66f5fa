package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"focusflow/internal/session"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent focus sessions",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 10, "Number of sessions to show")
	historyCmd.Flags().Bool("clear", false, "Delete all recorded sessions")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	clearAll, _ := cmd.Flags().GetBool("clear")

	store, err := session.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if clearAll {
		n, err := store.Clear(cmd.Context())
		if err != nil {
			return err
		}
		logger.Info("history cleared", "sessions", n)
		fmt.Fprintf(out, "Cleared %d sessions.\n", n)
		return nil
	}

	records, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No session history found.")
		return nil
	}
	return writeHistory(out, records)
}

func writeHistory(w io.Writer, records []*session.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tGOAL\tPLANNED\tELAPSED\tDONE\tPRIORITY\tSOUND\tBLOCKERS")
	for _, r := range records {
		done := "no"
		if r.Completed {
			done = "yes"
		}
		blockers := r.Blockers
		if blockers == "" {
			blockers = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"), r.Goal, r.Planned, r.Elapsed, done, r.Priority, r.Sound, blockers)
	}
	return tw.Flush()
}
