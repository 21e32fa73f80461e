// Package observability provides event-keyed diagnostic tracing and formatted
// output for verbose mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/event-site-finder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxCandidatesToShow is the number of scored candidates to display
	maxCandidatesToShow = 5
)

// Printer handles diagnostic output. All trace lines are tagged with the
// event identifier so that rejections can be debugged after the fact.
// A nil Printer is valid and discards everything.
type Printer struct {
	out     io.Writer
	verbose bool
}

// NewPrinter creates a Printer writing to the given writer. When verbose is
// false, Trace lines are suppressed but result boxes are still printed.
func NewPrinter(out io.Writer, verbose bool) *Printer {
	return &Printer{out: out, verbose: verbose}
}

// Trace writes one stage-prefixed diagnostic line for an event, e.g.
//
//	[VERIFY] evt-42: rejected https://example.com: content too small
func (p *Printer) Trace(stage, eventID, format string, args ...any) {
	if p == nil || p.out == nil || !p.verbose {
		return
	}
	fmt.Fprintf(p.out, "[%s] %s: %s\n", stage, eventID, fmt.Sprintf(format, args...))
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a diagnostic stream; errors are not recoverable
func (p *Printer) printBox(title, content string) {
	if p == nil || p.out == nil {
		return
	}
	border := strings.Repeat("─", boxWidth-2)

	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResult outputs a human-readable summary of a resolution result.
func (p *Printer) PrintResult(ev types.Event, res types.ResolutionResult) {
	if p == nil || p.out == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Event:  %s (%s)\n", ev.Name, ev.ID))
	if res.Found() {
		sb.WriteString(fmt.Sprintf("Site:   %s\n", res.OfficialURL))
	} else {
		sb.WriteString("Site:   none found\n")
	}

	if len(res.Candidates) > 0 {
		sb.WriteString(fmt.Sprintf("\nScored candidates (%d):\n", len(res.Candidates)))
		count := min(len(res.Candidates), maxCandidatesToShow)
		for i := 0; i < count; i++ {
			c := res.Candidates[i]
			sb.WriteString(fmt.Sprintf("#%d  %.0f  %s\n", i+1, c.Score, c.Snapshot.URL))
		}
		if len(res.Candidates) > maxCandidatesToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(res.Candidates)-maxCandidatesToShow))
		}
	}

	p.printBox("OFFICIAL SITE RESOLUTION", strings.TrimSuffix(sb.String(), "\n"))
}
