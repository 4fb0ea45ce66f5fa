package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"focusflow/internal/audio"
	"focusflow/internal/config"
	"focusflow/internal/logging"
)

var (
	configPath string
	logLevel   string
	cfg        *config.Config
	logger     *slog.Logger
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "focusflow",
		Short: "Focus timer with procedural ambient sound",
		Long: `focusflow runs timed focus sessions with an optional synthesized
ambient soundscape (white, brown, ocean, forest) and keeps a history of
past sessions.`,
		PersistentPreRunE: setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.focusflow/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(durationsCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	l, err := logging.Init(loaded.LogLevel)
	if err != nil {
		return err
	}
	cfg, logger = loaded, l
	return nil
}

func newEngine() *audio.Engine {
	return audio.NewEngine(cfg.Audio, audio.WithLogger(logger))
}

// fadeOut stops the engine gracefully and waits for the fade to finish so
// the process does not cut the sound off mid-ramp.
func fadeOut(eng *audio.Engine) {
	if eng.Playing() == audio.Silence {
		return
	}
	eng.Stop(false)
	<-timeAfter(eng.FadeOutDuration())
}
