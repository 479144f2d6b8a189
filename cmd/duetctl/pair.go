package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/duet/internal/app"
	"github.com/okian/duet/internal/roster"
	"github.com/okian/duet/pkg/logger"
)

var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Pair the participants of a roster file",
	Long: `Pair reads a roster, drops incomplete, stale and superseded submissions and
prints the chosen pairs with the reasons they fit. With an odd number of
eligible participants the leftover person joins the best fitting pair.

The evaluation time is --now when given, else the roster's "now" field,
else the current time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		format, _ := cmd.Flags().GetString("output")
		if err := checkFormat(format); err != nil {
			return err
		}

		f, err := roster.Load(path)
		if err != nil {
			return err
		}
		now, err := evaluationTime(cmd, f)
		if err != nil {
			return err
		}

		window := loadedConfig.FreshnessWindow
		if cmd.Flags().Changed("window") {
			window, _ = cmd.Flags().GetDuration("window")
		}
		reasons := loadedConfig.ReasonsShown
		if cmd.Flags().Changed("reasons") {
			reasons, _ = cmd.Flags().GetInt("reasons")
		}

		svc := service.New(
			service.WithLogger(logger.Named("duetctl")),
			service.WithFreshnessWindow(window),
			service.WithWeights(loadedConfig.Weights),
			service.WithMaxParticipants(loadedConfig.MaxParticipants),
			service.WithReasonsShown(reasons),
		)
		if err := svc.Start(cmd.Context()); err != nil {
			return err
		}
		defer svc.Stop()

		out, err := svc.Pair(cmd.Context(), f.Records, now)
		if err != nil {
			return err
		}
		return renderOutcome(cmd.OutOrStdout(), format, out)
	},
}

// evaluationTime picks --now, then the roster's pinned time, then the clock.
func evaluationTime(cmd *cobra.Command, f roster.File) (time.Time, error) {
	if cmd.Flags().Changed("now") {
		s, _ := cmd.Flags().GetString("now")
		return parseNow(s)
	}
	if f.Now != nil {
		return time.UnixMilli(*f.Now).UTC(), nil
	}
	return time.Now(), nil
}

func init() {
	pairCmd.Flags().StringP("file", "f", "", "roster file (YAML or JSON)")
	pairCmd.Flags().String("now", "", "evaluation time, RFC 3339 or epoch milliseconds")
	pairCmd.Flags().Duration("window", 0, "freshness window, 0 disables (default from config)")
	pairCmd.Flags().Int("reasons", 0, "reasons shown per pair (default from config)")
	pairCmd.Flags().StringP("output", "o", formatText, fmt.Sprintf("output format: %s, %s or %s", formatText, formatJSON, formatYAML))
	_ = pairCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(pairCmd)
}
