package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"

	"chatclean/internal/services/clean/domain"
	"chatclean/internal/services/clean/service"
)

var (
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	warn    = lipgloss.Color("#FFAA00")
	danger  = lipgloss.Color("#FF3333")

	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(warn).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
)

// progress renders one tick per source on stderr; a disabled one does nothing
type progress struct {
	enabled bool
	bar     *progressbar.ProgressBar
}

func newProgress(enabled bool) *progress { return &progress{enabled: enabled} }

func (p *progress) start(total int) {
	if !p.enabled || total == 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("cleaning sources"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progress) source(st domain.SourceStats, _ error) {
	if p.bar == nil {
		return
	}
	p.bar.Describe("source " + st.SourceID)
	_ = p.bar.Add(1)
}

func (p *progress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

func row(label string, v any) string {
	return fmt.Sprintf("  %s %v", mutedStyle.Render(fmt.Sprintf("%-12s", label)), v)
}

func printRunSummary(s domain.RunStats, dryRun bool) {
	head := successStyle.Render("✓ run finished")
	switch {
	case s.Failed > 0:
		head = errorStyle.Render(fmt.Sprintf("✗ run finished with %d failed source(s)", s.Failed))
	case dryRun:
		head = warnStyle.Render("• dry run finished, nothing written")
	}
	lines := []string{
		head + mutedStyle.Render(" "+s.RunID),
		row("sources", s.Candidates),
		row("cleaned", s.Cleaned),
		row("skipped", s.Skipped),
		row("failed", s.Failed),
		row("records", s.Records),
		row("kept", s.Kept),
		row("rejected", s.Rejected),
	}
	stages := make([]string, 0, len(s.RejectedBy))
	for k := range s.RejectedBy {
		stages = append(stages, k)
	}
	sort.Strings(stages)
	for _, k := range stages {
		lines = append(lines, row("  "+k, s.RejectedBy[k]))
	}
	lines = append(lines, row("elapsed", s.Elapsed.Round(time.Millisecond)))
	fmt.Println(strings.Join(lines, "\n"))
}

func printStatus(catalog string, s domain.Summary) {
	fmt.Println(titleStyle.Render("catalog ") + mutedStyle.Render(catalog))
	fmt.Println(row("total", s.Total))
	fmt.Println(row("cleaned", successStyle.Render(fmt.Sprint(s.Cleaned))))
	fmt.Println(row("pending", warnStyle.Render(fmt.Sprint(s.Pending))))
}

func printDocs(st service.DocsStats) {
	fmt.Fprintln(os.Stderr, successStyle.Render(fmt.Sprintf("✓ %d documents", st.Docs))+
		mutedStyle.Render(fmt.Sprintf(" in %d batches from %d blobs (%d malformed)", st.Batches, st.Blobs, st.Malformed)))
}
