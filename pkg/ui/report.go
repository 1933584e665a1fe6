package ui

import (
	"fmt"
	"strings"
	"time"

	"ntxcensus/pkg/collector"
)

// ProgressLine rewrites the current terminal line with run progress.
func ProgressLine(done, total int) {
	pct := 0.0
	if total > 0 {
		pct = float64(done) / float64(total) * 100
	}
	fmt.Printf("\r%s %d/%d (%.1f%%)", Dim("progress:"), done, total, pct)
	if done == total {
		fmt.Println()
	}
}

// PrintReport renders a run summary to stdout.
func PrintReport(report *collector.Report) {
	fmt.Println()
	PrintHighlight("=== Collection Summary ===")
	PrintInfo("Work items", fmt.Sprintf("%d", report.Total))
	PrintInfo("Already collected", fmt.Sprintf("%d", report.Skipped))
	PrintInfo("Newly collected", fmt.Sprintf("%d", report.Succeeded))
	PrintInfo("No data", fmt.Sprintf("%d", report.NoData))
	PrintInfo("Failed", fmt.Sprintf("%d", report.Failed))
	PrintInfo("Completeness", fmt.Sprintf("%.1f%%", report.Completeness()*100))
	PrintInfo("Duration", report.FinishedAt.Sub(report.StartedAt).Round(time.Second).String())

	if report.Interrupted {
		PrintWarning("Run was interrupted; rerun to resume where it left off")
	}

	if len(report.Failures) > 0 {
		fmt.Println()
		PrintWarning(fmt.Sprintf("%d item(s) could not be fetched:", len(report.Failures)))
		limit := len(report.Failures)
		if limit > 10 {
			limit = 10
		}
		for _, f := range report.Failures[:limit] {
			fmt.Printf("  %s\n", Dim(fmt.Sprintf("%s %d: %s", f.EntityID, f.Period, f.Reason)))
		}
		if len(report.Failures) > limit {
			fmt.Printf("  %s\n", Dim(fmt.Sprintf("... and %d more", len(report.Failures)-limit)))
		}
	}
}

// CompletenessBar renders a fixed-width text bar for a 0..1 fraction.
func CompletenessBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
