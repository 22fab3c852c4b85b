package tui

import (
	"fmt"
	"strings"

	"codeberg.org/adcraft/server/internal/adcopy"
	"codeberg.org/adcraft/server/internal/usage"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// plan order used when cycling with "p"
var planCycle = []usage.Plan{usage.PlanFree, usage.PlanPro, usage.PlanAgency}

func nextPlan(current usage.Plan) usage.Plan {
	for i, p := range planCycle {
		if p == current {
			return planCycle[(i+1)%len(planCycle)]
		}
	}

	return usage.PlanFree
}

// FormatMarkdown renders a result as a markdown document, one section per tone.
func FormatMarkdown(result *adcopy.Result) string {
	if result == nil || len(result.Variants) == 0 {
		return ""
	}

	var b strings.Builder

	for i, v := range result.Variants {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}

		fmt.Fprintf(&b, "## %s\n\n", v.Tone)
		fmt.Fprintf(&b, "**Headline:** %s\n\n", v.Headline)
		fmt.Fprintf(&b, "**Description:** %s\n\n", v.Description)
		fmt.Fprintf(&b, "%s\n\n", v.PrimaryTextParagraph)
		fmt.Fprintf(&b, "%s\n", v.PrimaryTextBullets)
	}

	if result.Model != "" {
		fmt.Fprintf(&b, "\n_model: %s_\n", result.Model)
	}

	return b.String()
}

// renders markdown for the terminal, falling back to the raw text
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	out, err := renderer.Render(md)
	if err != nil {
		return md
	}

	return out
}

func renderCard(v adcopy.Variant, width int) string {
	inner := max(width-4, 20)

	body := lipgloss.JoinVertical(lipgloss.Left,
		toneStyle.Render(v.Tone),
		headlineStyle.Width(inner).Render(v.Headline),
		bodyStyle.Width(inner).Render(v.Description),
		"",
		bodyStyle.Width(inner).Render(v.PrimaryTextParagraph),
		"",
		bodyStyle.Width(inner).Render(v.PrimaryTextBullets),
	)

	return cardStyle.Width(width).Render(body)
}
