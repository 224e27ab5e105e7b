package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"findash/internal/core"
	"findash/internal/services"
)

// summaryMarkdown lays the dashboard summary out as a markdown report.
func summaryMarkdown(s services.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", s.UserName)

	b.WriteString("| Card | Amount | Average | Period |\n|---|---:|---:|---|\n")
	for _, c := range []struct {
		name string
		card services.CardSummary
	}{{"Balance", s.Balance}, {"Sells", s.Sells}, {"Revenue", s.Revenue}} {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.name, c.card.Formatted, core.FormatNumber(c.card.Average), c.card.Period)
	}

	b.WriteString("\n## Activity\n\n")
	for _, a := range s.Activity {
		fmt.Fprintf(&b, "- %s: %s\n", a.Name, a.Formatted)
	}

	fmt.Fprintf(&b, "\n## Sales\n\nHighest value %s over %s.\n", s.Sale.Abbreviated, s.Sale.Period)

	fmt.Fprintf(&b, "\n## Payments\n\n%.0f%% successful, %.0f%% pending.\n", s.Payments.Successful, s.Payments.Pending)

	b.WriteString("\n## Goals\n\n")
	for _, g := range s.Goals {
		fmt.Fprintf(&b, "- **%s** (%s): %.0f%%\n", g.Name, g.Description, g.Progress)
	}

	if len(s.Violations) > 0 {
		b.WriteString("\n## Violations\n\n")
		for _, v := range s.Violations {
			fmt.Fprintf(&b, "- %s\n", v)
		}
	}
	return b.String()
}

// renderMarkdown renders md for the terminal.
func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
