package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"acquisition-console/internal/form"
	"acquisition-console/internal/format"
	"acquisition-console/internal/models"
	"acquisition-console/internal/normalize"
)

const maxListItems = 3

var facetTitles = map[models.Facet]string{
	models.FacetFunding:   "Funding",
	models.FacetTeam:      "Team",
	models.FacetSynergy:   "Synergy",
	models.FacetValuation: "Valuation",
	models.FacetRisk:      "Risk",
	models.FacetDecision:  "Decision",
	models.FacetBenchmark: "Benchmark",
}

// Markdown assembles the full analysis report. snapshot adds the entity
// comparison when the result came from a submitted form.
func Markdown(r normalize.Result, snapshot *form.State) string {
	var b strings.Builder

	b.WriteString("# Acquisition Analysis\n\n")
	fmt.Fprintf(&b, "**Recommendation:** %s (confidence %s)\n\n",
		r.Explanation.Decision, format.FormatPercentage(r.Explanation.Confidence))

	writeList(&b, "Key Insights", r.Explanation.Rationale)
	writeList(&b, "Key Drivers", r.Explanation.KeyDrivers)
	writeList(&b, "Suggested Actions", r.Explanation.SuggestedActions)

	for _, facet := range models.Facets {
		text, err := Insight(facet, r)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", facetTitles[facet], text)
		if facet == models.FacetBenchmark {
			writeBenchmarkTable(&b, r.Benchmarks)
		}
	}

	if r.BusinessModel.Insights != normalize.NotAvailable || len(r.BusinessModel.KeyPatterns) > 0 {
		fmt.Fprintf(&b, "## Business Model\n\n%s\n\n", r.BusinessModel.Insights)
		writeList(&b, "Key Patterns", r.BusinessModel.KeyPatterns)
	}

	if snapshot != nil {
		writeComparison(&b, BuildComparison(*snapshot, r))
	}

	return b.String()
}

// HTML renders report Markdown with GitHub-flavoured tables.
func HTML(markdown string) (string, error) {
	var out bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &out); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return out.String(), nil
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for i, item := range items {
		if i == maxListItems {
			break
		}
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func writeBenchmarkTable(b *strings.Builder, bm normalize.Benchmarks) {
	b.WriteString("| Metric | Gap | Status |\n|---|---|---|\n")
	for _, g := range bm.Gaps() {
		fmt.Fprintf(b, "| %s | %s | %s |\n", g.Label, format.FormatPercentage(g.Gap), g.Status.Status)
	}
	b.WriteString("\n")
}

func writeComparison(b *strings.Builder, c Comparison) {
	fmt.Fprintf(b, "## Comparison: %s vs %s\n\n", c.EntityAName, c.EntityBName)
	b.WriteString("| Metric | Target | Acquirer | Difference |\n|---|---|---|---|\n")
	for _, group := range [][]Row{c.FundingAndTeam, c.Financial, c.Valuation} {
		for _, row := range group {
			fmt.Fprintf(b, "| %s | %s | %s | %s %s |\n",
				row.Title, formatValue(row.Kind, row.A), formatValue(row.Kind, row.B),
				arrow(row.Direction), formatValue(row.Kind, row.Difference))
		}
	}
	b.WriteString("\n")
}

func formatValue(kind string, v float64) string {
	switch kind {
	case KindCurrency:
		return format.FormatCurrency(v, usd)
	case KindPercentage:
		return format.FormatPercentage(v)
	case KindRatio:
		return format.FormatRatio(v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func arrow(d Direction) string {
	switch d {
	case DirectionUp:
		return "↗"
	case DirectionDown:
		return "↘"
	}
	return "→"
}
