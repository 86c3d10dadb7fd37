package renderer

import "github.com/ellenvlimanauw-eng/restock"

// SummaryMarkdown renders the portfolio-level aggregates of a report.
func SummaryMarkdown(report *restock.Report) string {
	partials := map[string]string{
		"summary_totals":  "summary_totals.md",
		"summary_leaders": "summary_leaders.md",
		"summary_missing": "summary_missing.md",
	}
	return renderTemplate("summary", "summary.md", partials, report)
}

// SectorsMarkdown renders the sector allocation table of a report.
func SectorsMarkdown(report *restock.Report) string {
	return renderTemplate("sectors", "sectors.md", nil, report)
}
