// Package main is the entry point for duetctl, the command line companion
// of the pairing service. It pairs roster files locally, generates sample
// rosters, prints the answer catalog and submits rosters to a running server.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/duet/internal/config"
	"github.com/okian/duet/pkg/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedConfig holds the configuration resolved before each command runs.
var loadedConfig *config.Config

// rootCmd is the base command for the duetctl CLI.
var rootCmd = &cobra.Command{
	Use:   "duetctl",
	Short: "Pair questionnaire participants from the command line",
	Long: `duetctl pairs participants of an event by how well their questionnaire
answers fit together.

A roster is a YAML or JSON file holding submissions, either as a bare list or
under a "records" key. Configuration follows the server: defaults, then the
file given by --config or DUET_CONFIG, then DUET_ environment variables.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = os.Getenv(config.EnvConfigFile)
		}
		cfg, err := config.LoadFile(cmd.Context(), path)
		if err != nil {
			return err
		}
		loadedConfig = cfg

		if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
			return err
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			return logger.SetLevelString("debug")
		}
		// Keep the terminal quiet unless asked.
		return logger.SetLevelString("warn")
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (default: $DUET_CONFIG)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log progress to stderr")
}

// parseNow reads an evaluation time given as RFC 3339 or epoch milliseconds.
func parseNow(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339 or epoch milliseconds", s)
	}
	return t.UTC(), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
