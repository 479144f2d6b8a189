package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/duet/internal/roster"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Send a roster to a running pairing server",
	Long: `Submit posts a roster to the server's pairing endpoint and prints the
outcome. With --expected it asks for intake progress instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		url, _ := cmd.Flags().GetString("url")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		format, _ := cmd.Flags().GetString("output")
		if err := checkFormat(format); err != nil {
			return err
		}

		f, err := roster.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("now") {
			s, _ := cmd.Flags().GetString("now")
			t, err := parseNow(s)
			if err != nil {
				return err
			}
			ms := t.UnixMilli()
			f.Now = &ms
		}

		client := roster.NewClient(url, timeout)
		if cmd.Flags().Changed("expected") {
			expected, _ := cmd.Flags().GetInt("expected")
			p, err := client.Progress(cmd.Context(), f, expected)
			if err != nil {
				return err
			}
			return renderProgress(cmd.OutOrStdout(), format, p)
		}

		out, err := client.Pair(cmd.Context(), f)
		if err != nil {
			return err
		}
		return renderOutcome(cmd.OutOrStdout(), format, out)
	},
}

func init() {
	submitCmd.Flags().StringP("file", "f", "", "roster file (YAML or JSON)")
	submitCmd.Flags().String("url", "http://localhost:9080", "pairing server base URL")
	submitCmd.Flags().Duration("timeout", 10*time.Second, "request timeout")
	submitCmd.Flags().String("now", "", "evaluation time, RFC 3339 or epoch milliseconds")
	submitCmd.Flags().Int("expected", 0, "report progress against this head count instead of pairing")
	submitCmd.Flags().StringP("output", "o", formatText, fmt.Sprintf("output format: %s, %s or %s", formatText, formatJSON, formatYAML))
	_ = submitCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(submitCmd)
}
