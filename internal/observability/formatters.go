// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/gift-finder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to n runes. fmt's width counts bytes, which
// misaligns the box for ₹ and other multibyte text.
func pad(s string, n int) string {
	if gap := n - utf8.RuneCountInString(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// PrintGiftRequest outputs a human-readable summary of the parsed gift request.
func (p *Printer) PrintGiftRequest(req *types.GiftRequest, currencySymbol string) {
	if req == nil {
		return
	}

	var sb strings.Builder
	r := req.Recipient
	sb.WriteString(fmt.Sprintf("Occasion:     %s\n", orDash(req.Occasion)))
	sb.WriteString(fmt.Sprintf("Relationship: %s\n", orDash(r.Relationship)))
	sb.WriteString(fmt.Sprintf("Age group:    %s\n", orDash(r.AgeGroup)))
	sb.WriteString(fmt.Sprintf("Gender:       %s\n", orDash(r.Gender)))
	sb.WriteString(fmt.Sprintf("Budget:       %s%d - %s%d\n", currencySymbol, req.Budget.Min, currencySymbol, req.Budget.Max))

	if len(r.Interests) > 0 {
		sb.WriteString(fmt.Sprintf("Interests:    %s\n", strings.Join(r.Interests, ", ")))
	}
	if len(req.GiftCategories) > 0 {
		sb.WriteString("\nCategories:\n")
		for _, c := range req.GiftCategories {
			sb.WriteString(fmt.Sprintf("  • %s\n", c))
		}
	}

	p.printBox("PARSED GIFT REQUEST", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProductIdeas outputs the structured ideas with their estimated prices.
func (p *Printer) PrintProductIdeas(ideas []types.ProductIdea, currencySymbol string) {
	if len(ideas) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d product ideas:\n\n", len(ideas)))

	count := min(len(ideas), maxItemsToShow)
	for i := 0; i < count; i++ {
		idea := ideas[i]
		sb.WriteString(fmt.Sprintf("%2d. %s\n", i+1, idea.Name))
		if pr := idea.EstimatedPriceRange; pr.Max > 0 {
			sb.WriteString(fmt.Sprintf("    %s%d - %s%d", currencySymbol, pr.Min, currencySymbol, pr.Max))
			if idea.Category != "" {
				sb.WriteString(fmt.Sprintf("  [%s]", idea.Category))
			}
			sb.WriteString("\n")
		}
	}

	if len(ideas) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more ideas", len(ideas)-maxItemsToShow))
	}

	p.printBox("PRODUCT IDEAS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs one block per candidate: link, brand, price, first
// image and status, or the failure reason.
func (p *Printer) PrintCandidates(candidates []types.CandidateView) {
	if len(candidates) == 0 {
		return
	}

	var sb strings.Builder
	ok := 0
	for i, c := range candidates {
		sb.WriteString(fmt.Sprintf("%s %s\n", statusIcon(c.Status), c.Name))
		if c.Link != "" {
			sb.WriteString(fmt.Sprintf("  Link:   %s\n", c.Link))
		}

		switch {
		case c.Metadata != nil && c.Metadata.Success && c.Metadata.Data != nil:
			ok++
			m := c.Metadata.Data
			if m.Brand != "" {
				sb.WriteString(fmt.Sprintf("  Brand:  %s\n", m.Brand))
			}
			if m.Price != "" {
				sb.WriteString(fmt.Sprintf("  Price:  %s\n", m.Price))
			}
			if len(m.ImageLinks) > 0 {
				sb.WriteString(fmt.Sprintf("  Image:  %s\n", m.ImageLinks[0]))
			}
		case c.Metadata != nil && c.Metadata.Failure != nil:
			sb.WriteString(fmt.Sprintf("  %s: %s\n", c.Metadata.Failure.Kind, c.Metadata.Failure.Reason))
		}

		if i < len(candidates)-1 {
			sb.WriteString("\n")
		}
	}
	sb.WriteString(fmt.Sprintf("\n%d of %d candidates enriched", ok, len(candidates)))

	p.printBox("PRODUCT CANDIDATES", sb.String())
}

// PrintProgress writes a single progress line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(message string) {
	fmt.Fprintf(p.out, "  … %s\n", message)
}

func statusIcon(status types.CandidateStatus) string {
	switch status {
	case types.StatusMetadataOK:
		return "✓"
	case types.StatusMetadataFailed:
		return "✗"
	default:
		return "•"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
