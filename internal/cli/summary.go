package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/piwi3910/rackmap/internal/model"
)

const (
	maxHeightWarnings = 3
	maxOtherWarnings  = 5
)

// PrintSummary writes the operator summary for one written bay file: a
// status mark with counts, every error, the shelf-height summary and a
// capped list of the remaining warnings.
func PrintSummary(w io.Writer, fileName string, report model.BayReport) {
	status := "✓"
	if !report.OK() {
		status = "✗"
	}
	fmt.Fprintf(w, "%s %s: %d containers, %d racks\n", status, fileName, len(report.Containers), len(report.Racks))

	for _, e := range report.Errors {
		fmt.Fprintf(w, "    ERROR: %s\n", e)
	}

	var summary, heights, other []string
	for _, warning := range report.Warnings {
		switch {
		case strings.HasPrefix(warning, "SUMMARY:"):
			summary = append(summary, warning)
		case strings.Contains(warning, "Height mismatch"):
			heights = append(heights, warning)
		default:
			other = append(other, warning)
		}
	}

	if len(summary) > 0 {
		fmt.Fprintf(w, "    %s\n", summary[0])
		if len(heights) <= maxHeightWarnings {
			for _, h := range heights {
				fmt.Fprintf(w, "      - %s\n", h)
			}
		} else {
			fmt.Fprintf(w, "      (%d height mismatches - see JSON for details)\n", len(heights))
		}
	}

	if len(other) > 0 {
		if len(other) <= maxOtherWarnings {
			for _, o := range other {
				fmt.Fprintf(w, "    WARNING: %s\n", o)
			}
		} else {
			fmt.Fprintf(w, "    (%d other warnings - see JSON for details)\n", len(other))
		}
	}
}
