package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"focusflow/internal/session"
)

var durationsCmd = &cobra.Command{
	Use:   "durations",
	Short: "Manage named session lengths for focus --preset",
}

var durationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and custom durations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *session.Store) error {
			ds, err := store.Durations(cmd.Context())
			if err != nil {
				return err
			}
			return writeDurations(cmd.OutOrStdout(), ds)
		})
	},
}

var durationsAddCmd = &cobra.Command{
	Use:   "add <name> <minutes>",
	Short: "Add or update a custom duration",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("minutes %q: %w", args[1], err)
		}
		return withStore(func(store *session.Store) error {
			d, err := store.AddDuration(cmd.Context(), args[0], minutes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d min).\n", d.Name, d.Minutes)
			return nil
		})
	},
}

var durationsRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"remove"},
	Short:   "Remove a custom duration",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *session.Store) error {
			if err := store.RemoveDuration(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("duration %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", args[0])
			return nil
		})
	},
}

func init() {
	durationsCmd.AddCommand(durationsListCmd, durationsAddCmd, durationsRmCmd)
}

func withStore(fn func(*session.Store) error) error {
	store, err := session.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func writeDurations(w io.Writer, ds []session.Duration) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMINUTES\tKIND")
	for _, d := range ds {
		kind := "built-in"
		if d.Custom {
			kind = "custom"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Name, d.Minutes, kind)
	}
	return tw.Flush()
}
