package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/duet/internal/roster"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate a random roster",
	Long: `Sample writes a roster of random, complete submissions as YAML. The same
seed always yields the same roster, ids included. Extra resubmitted, invalid
and stale submissions can be mixed in to exercise intake filtering.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("count")
		seed, _ := cmd.Flags().GetInt64("seed")
		resubmits, _ := cmd.Flags().GetInt("resubmits")
		invalid, _ := cmd.Flags().GetInt("invalid")
		stale, _ := cmd.Flags().GetInt("stale")
		path, _ := cmd.Flags().GetString("out")

		now := time.Now()
		if cmd.Flags().Changed("now") {
			s, _ := cmd.Flags().GetString("now")
			t, err := parseNow(s)
			if err != nil {
				return err
			}
			now = t
		}

		recs, err := roster.Generate(n, seed, now,
			roster.WithResubmissions(resubmits),
			roster.WithInvalid(invalid),
			roster.WithStale(stale),
		)
		if err != nil {
			return err
		}
		pinned := now.UnixMilli()
		f := roster.File{Now: &pinned, Records: recs}

		if path == "" || path == "-" {
			return roster.Encode(cmd.OutOrStdout(), f)
		}
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := roster.Encode(file, f); err != nil {
			_ = file.Close()
			return err
		}
		return file.Close()
	},
}

func init() {
	sampleCmd.Flags().IntP("count", "n", 9, "number of participants")
	sampleCmd.Flags().Int64("seed", 1, "random seed")
	sampleCmd.Flags().Int("resubmits", 0, "extra later submissions from existing participants")
	sampleCmd.Flags().Int("invalid", 0, "extra submissions with an unknown answer")
	sampleCmd.Flags().Int("stale", 0, "extra submissions older than a day")
	sampleCmd.Flags().String("now", "", "reference time, RFC 3339 or epoch milliseconds")
	sampleCmd.Flags().StringP("out", "o", "", "write to file instead of stdout")

	rootCmd.AddCommand(sampleCmd)
}
