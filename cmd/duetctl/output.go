package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	service "github.com/okian/duet/internal/app"
	"github.com/okian/duet/internal/domain/model"
)

// Output formats accepted by --output.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func checkFormat(f string) error {
	switch f {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q: want text, json or yaml", f)
	}
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// renderOutcome writes a pairing outcome in the requested format.
func renderOutcome(w io.Writer, format string, out service.Outcome) error {
	if format != formatText {
		return encode(w, format, out)
	}

	rep := out.Report
	fmt.Fprintf(w, "%d submissions, %d eligible", rep.Total, rep.Eligible)
	if skipped := rep.SkippedTotal(); skipped > 0 {
		parts := make([]string, 0, len(rep.Skipped))
		for reason, n := range rep.Skipped {
			parts = append(parts, fmt.Sprintf("%s=%d", reason, n))
		}
		sort.Strings(parts)
		fmt.Fprintf(w, ", %d skipped (%s)", skipped, strings.Join(parts, ", "))
	}
	fmt.Fprintln(w)

	if out.Result.Status == model.StatusInsufficientParticipants {
		fmt.Fprintln(w, "Not enough participants to pair yet.")
		return nil
	}
	for i, h := range out.Highlights {
		fmt.Fprintf(w, "\n%d. %s (score %g)\n", i+1, strings.Join(h.Names, " + "), h.Score)
		for _, r := range h.Reasons {
			fmt.Fprintf(w, "   - %s\n", r)
		}
	}
	return nil
}

// renderProgress writes a progress report in the requested format.
func renderProgress(w io.Writer, format string, p service.Progress) error {
	if format != formatText {
		return encode(w, format, p)
	}
	if p.Expected > 0 {
		fmt.Fprintf(w, "%d of %d valid answers", p.Valid, p.Expected)
	} else {
		fmt.Fprintf(w, "%d valid answers", p.Valid)
	}
	if p.Complete {
		fmt.Fprint(w, ", everyone is in")
	}
	fmt.Fprintln(w)
	return nil
}
