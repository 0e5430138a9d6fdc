// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/opubliq/leadgen/internal/types"
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

// PrintIngestResult outputs a summary of an ingestion batch.
func (p *Printer) PrintIngestResult(result *types.StoreResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Accepted: %d\n", result.AcceptedCount))
	sb.WriteString(fmt.Sprintf("Rejected: %d\n", result.RejectedCount))

	if len(result.RejectedReasons) > 0 {
		sb.WriteString("\nRejections:\n")
		count := min(len(result.RejectedReasons), maxItemsToShow)
		for i := 0; i < count; i++ {
			reason := result.RejectedReasons[i]
			if len(reason) > 50 {
				reason = reason[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", reason))
		}
		if len(result.RejectedReasons) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.RejectedReasons)-maxItemsToShow))
		}
	}

	p.printBox("INGESTED ARTICLES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRegistry outputs the top organizations of the extraction registry.
func (p *Printer) PrintRegistry(registry *types.OrganizationRegistry) {
	if registry == nil || len(registry.Organizations) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total organizations: %d\n\n", len(registry.Organizations)))

	count := min(len(registry.Organizations), maxItemsToShow)
	for i := 0; i < count; i++ {
		org := registry.Organizations[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, org.Name))
		sb.WriteString(fmt.Sprintf("    Type: %s | Mentions: %d\n", org.Type, org.Mentions))
		if len(org.Issues) > 0 {
			issues := strings.Join(org.Issues, ", ")
			if len(issues) > 40 {
				issues = issues[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Enjeux: %s\n", issues))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(registry.Organizations) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more organizations", len(registry.Organizations)-maxItemsToShow))
	}
	if len(registry.FailedChunks) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠ %d extraction chunks failed", len(registry.FailedChunks)))
	}

	p.printBox("ORGANIZATION REGISTRY", sb.String())
}

// PrintLeadList outputs the qualified leads with scores and urgency tiers.
func (p *Printer) PrintLeadList(list *types.QualifiedLeadList) {
	if list == nil {
		return
	}

	if len(list.Leads) == 0 {
		p.printBox("QUALIFIED LEADS", fmt.Sprintf("No leads passed the threshold (%.1f)\nAnalyzed: %d organizations", list.Threshold, list.TotalAnalyzed))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analyzed %d, qualified %d (threshold %.1f):\n\n",
		list.TotalAnalyzed, len(list.Leads), list.Threshold))

	count := min(len(list.Leads), maxItemsToShow)
	for i := 0; i < count; i++ {
		lead := list.Leads[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, lead.Organization.Name))
		sb.WriteString(fmt.Sprintf("    Score: %.1f", lead.Score))
		if lead.InitialScore > 0 && lead.InitialScore != lead.Score {
			sb.WriteString(fmt.Sprintf(" (initial: %.1f)", lead.InitialScore))
		}
		sb.WriteString(fmt.Sprintf(" | Urgency: %s\n", lead.Urgency))
		if lead.Service != "" {
			sb.WriteString(fmt.Sprintf("    Service: %s\n", lead.Service))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(list.Leads) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more leads", len(list.Leads)-maxItemsToShow))
	}
	if len(list.Unscored) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠ %d organizations unscored", len(list.Unscored)))
	}
	if len(list.Excluded) > 0 {
		sb.WriteString(fmt.Sprintf("\n%d excluded by class", len(list.Excluded)))
	}

	p.printBox("QUALIFIED LEADS", sb.String())
}

// PrintRunStatus outputs the per-partition run marker.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRunStatus(status *types.RunStatus) {
	if status == nil {
		return
	}

	if status.Status == types.RunCompleted {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("✅ RUN COMPLETED (%s)", status.CollectionDate))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Stage:      %s\n", status.Stage))
	sb.WriteString(fmt.Sprintf("Diagnostic: %s", status.Diagnostic))
	p.printBox(fmt.Sprintf("⚠ RUN FAILED (%s)", status.CollectionDate), sb.String())
}
