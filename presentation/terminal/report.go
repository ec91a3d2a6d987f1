// Package terminal is the command-line face of the suite: it audits the
// selectors of each page against the live application and prints the result.
package terminal

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"notes_e2e/domain/entities"
)

// PrintReport writes one table per page: target, outcome and winning candidate
func PrintReport(w io.Writer, infos []entities.PageInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(tw, "\n%s\t%s\n", info.Page, info.URL)
		if info.Err != "" {
			fmt.Fprintf(tw, "  skipped: %s\n", info.Err)
			continue
		}
		for _, s := range info.Targets {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", s.Target, outcome(s), s.Candidate)
		}
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func outcome(s entities.TargetStatus) string {
	switch {
	case s.Resolved && s.Fallback:
		return fmt.Sprintf("fallback #%d", s.Index+1)
	case s.Resolved:
		return "ok"
	case s.Transient:
		return "absent"
	default:
		return "MISSING"
	}
}

// PrintJSON writes the report as indented JSON
func PrintJSON(w io.Writer, infos []entities.PageInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(infos)
}
