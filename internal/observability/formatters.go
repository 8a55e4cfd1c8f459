// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/portfolio/internal/pipeline/steps"
	"github.com/jonathan/portfolio/internal/rendering"
	"github.com/jonathan/portfolio/internal/schemas"
	"github.com/jonathan/portfolio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintContentSummary outputs a short overview of the loaded content.
func (p *Printer) PrintContentSummary(portfolio *types.Portfolio) {
	if portfolio == nil {
		return
	}

	var sb strings.Builder
	if portfolio.Site != nil {
		sb.WriteString(fmt.Sprintf("Site:       %s\n", portfolio.Site.Title))
	}
	if portfolio.Hero != nil {
		sb.WriteString(fmt.Sprintf("Hero:       %s, %s\n", portfolio.Hero.Name, portfolio.Hero.Role))
	}
	if portfolio.Employment != nil {
		sb.WriteString(fmt.Sprintf("Companies:  %d\n", len(portfolio.Employment.Companies)))
	}
	sb.WriteString(fmt.Sprintf("Education:  %d\n", len(portfolio.Education)))
	sb.WriteString(fmt.Sprintf("Projects:   %d\n", len(portfolio.Projects)))

	if len(portfolio.Projects) > 0 {
		sb.WriteString("\n")
		count := min(len(portfolio.Projects), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", portfolio.Projects[i].Title))
		}
		if len(portfolio.Projects) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(portfolio.Projects)-maxItemsToShow))
		}
	}

	p.printBox("CONTENT", strings.TrimSuffix(sb.String(), "\n"))
}

func statusMark(status string) string {
	switch status {
	case steps.StatusOK:
		return "✓"
	case steps.StatusSkipped:
		return "–"
	default:
		return "✗"
	}
}

// PrintBootReport outputs one line per boot step, with the error for
// skipped and failed steps.
func (p *Printer) PrintBootReport(results []steps.StepResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	ok, skipped, failed := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case steps.StatusOK:
			ok++
		case steps.StatusSkipped:
			skipped++
		default:
			failed++
		}
		sb.WriteString(fmt.Sprintf("%s %-20s %4dms\n", statusMark(r.Status), r.Step, r.Duration))
		if r.Error != nil {
			msg := r.Error.Error()
			if len(msg) > 50 {
				msg = msg[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("    %s\n", msg))
		}
	}
	sb.WriteString(fmt.Sprintf("\n%d ok, %d skipped, %d failed", ok, skipped, failed))

	p.printBox("BOOT REPORT", sb.String())
}

// PrintMounts outputs which section mount points a page carries.
func (p *Printer) PrintMounts(mounts []rendering.MountStatus) {
	if len(mounts) == 0 {
		return
	}

	var sb strings.Builder
	for i, m := range mounts {
		state := "missing"
		switch {
		case m.Populated:
			state = "populated"
		case m.Present:
			state = "empty"
		}
		sb.WriteString(fmt.Sprintf("%-11s %-10s %s", m.Section, state, m.Selector))
		if i < len(mounts)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("MOUNT POINTS", sb.String())
}

// PrintExport outputs the files written for a rendered site.
func (p *Printer) PrintExport(indexPath string, assets []string) {
	if indexPath == "" {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Page:    %s\n", indexPath))
	sb.WriteString(fmt.Sprintf("Assets:  %d", len(assets)))
	if len(assets) > 0 {
		sb.WriteString("\n\n")
		count := min(len(assets), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", assets[i]))
		}
		if len(assets) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(assets)-maxItemsToShow))
		}
	}

	p.printBox("EXPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidationErrors outputs schema violations found in a content file.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidationErrors(verr *schemas.ValidationError) {
	if verr == nil || len(verr.Errors) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ CONTENT IS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems:\n\n", len(verr.Errors)))

	for i, e := range verr.Errors {
		msg := e.Message
		if len(msg) > 45 {
			msg = msg[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", e.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", msg))
		if i < len(verr.Errors)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("CONTENT VALIDATION", sb.String())
}
