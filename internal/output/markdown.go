package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dotcommander/listingscore/internal/types"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	verbose bool
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(verbose bool) *MarkdownFormatter {
	return &MarkdownFormatter{verbose: verbose}
}

// Format writes the report as a Markdown document.
func (f *MarkdownFormatter) Format(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString("# Listing Score Report\n\n")
	b.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	if r.Summary != nil {
		f.writeSummary(&b, r)
	}

	if len(r.Listings) == 0 {
		b.WriteString("*No listings found to score.*\n")
	}

	if len(r.Listings) > 1 {
		b.WriteString("## Listings\n\n")
		for _, l := range r.Listings {
			b.WriteString(fmt.Sprintf("- [%s](#%s)\n", l.label(), createAnchor(l.label())))
		}
		b.WriteString("\n")
	}

	for _, l := range r.Listings {
		f.writeListing(&b, l)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("error writing markdown: %w", err)
	}
	return nil
}

func (f *MarkdownFormatter) writeSummary(b *strings.Builder, r *Report) {
	s := r.Summary
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Listings | %d |\n", s.Listings))
	b.WriteString(fmt.Sprintf("| Scored | %d |\n", s.Scored))
	b.WriteString(fmt.Sprintf("| Failed | %d |\n", s.Failed))
	b.WriteString(fmt.Sprintf("| Cached | %d |\n", s.Cached))
	b.WriteString(fmt.Sprintf("| Mean score | %.1f%% |\n", s.MeanPercent))
	if r.Suppressed > 0 {
		b.WriteString(fmt.Sprintf("| Baseline issues hidden | %d |\n", r.Suppressed))
	}
	b.WriteString("\n")

	if len(s.Grades) > 0 {
		b.WriteString("### Grades\n\n")
		b.WriteString("| Grade | Listings |\n")
		b.WriteString("|-------|----------|\n")
		for _, g := range gradeOrder(s.Grades) {
			b.WriteString(fmt.Sprintf("| %s | %d |\n", g, s.Grades[g]))
		}
		b.WriteString("\n")
	}

	if len(s.TopIssues) > 0 {
		b.WriteString("### Most Common Issues\n\n")
		b.WriteString("| Listings | Area | Severity | Issue |\n")
		b.WriteString("|----------|------|----------|-------|\n")
		for _, ic := range s.TopIssues {
			b.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n", ic.Count, ic.Area, ic.Severity, escapeCell(ic.Pattern)))
		}
		b.WriteString("\n")
	}
}

func (f *MarkdownFormatter) writeListing(b *strings.Builder, l ListingReport) {
	b.WriteString(fmt.Sprintf("### %s\n\n", l.label()))

	if l.Result == nil {
		b.WriteString(fmt.Sprintf("❌ Could not score: %s\n\n---\n\n", l.Error))
		return
	}

	res := l.Result
	b.WriteString(fmt.Sprintf("**Score:** %d/%d (%.1f%%) · **Grade:** %s · rubric %s, %s\n\n",
		res.Total, res.Max, res.Percent, res.Grade, res.RubricVersion, mode(res)))

	b.WriteString("| Section | Points |\n")
	b.WriteString("|---------|--------|\n")
	for _, section := range res.Sections.All() {
		b.WriteString(fmt.Sprintf("| %s | %d/%d |\n", section.Area, section.Total, section.Max))
		if f.verbose {
			for _, sub := range section.Subs {
				note := ""
				if sub.Note != "" {
					note = " _" + escapeCell(sub.Note) + "_"
				}
				b.WriteString(fmt.Sprintf("| &nbsp;&nbsp;%s | %d/%d%s |\n", sub.Name, sub.Points, sub.MaxPoints, note))
			}
		}
	}
	b.WriteString("\n")

	for _, group := range []struct {
		title string
		sev   types.Severity
	}{
		{"Errors", types.SeverityError},
		{"Warnings", types.SeverityWarning},
		{"Passed", types.SeverityGood},
	} {
		if group.sev == types.SeverityGood && !f.verbose {
			continue
		}
		issues := res.IssuesBySeverity(group.sev)
		if len(issues) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("#### %s\n\n", group.title))
		for _, issue := range issues {
			b.WriteString(fmt.Sprintf("- **%s** - %s\n", issue.Area, issue.Message))
		}
		b.WriteString("\n")
	}

	if len(res.Suggestions) > 0 {
		b.WriteString("#### Suggestions\n\n")
		for _, s := range res.Suggestions {
			b.WriteString(fmt.Sprintf("- %s\n", s))
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "-")
	return anchor
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
