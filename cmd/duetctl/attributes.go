package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/duet/internal/domain/attribute"
	"github.com/okian/duet/internal/domain/scoring"
)

var attributesCmd = &cobra.Command{
	Use:   "attributes",
	Short: "Print the answer catalog and scoring weights",
	Long: `Attributes lists every questionnaire dimension with its submission field and
accepted answers, followed by the points each scoring factor is worth under
the current configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := scoring.DefaultTable().WithWeights(loadedConfig.Weights)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DIMENSION\tFIELD\tANSWERS")
		for _, d := range attribute.All() {
			slugs := make([]string, 0, d.Len())
			for _, c := range d.Choices() {
				slugs = append(slugs, c.Slug)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.Key(), d.Field(), strings.Join(slugs, ", "))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "FACTOR\tPOINTS")
		for _, f := range table.SortedFactors() {
			fmt.Fprintf(w, "%s\t%g\n", f, table.Weight(f))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(attributesCmd)
}
