package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/dotcommander/listingscore/internal/scoring"
	"github.com/dotcommander/listingscore/internal/types"
)

const defaultWidth = 100

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	quiet    bool
	verbose  bool
	colorize bool
	width    int
}

// NewConsoleFormatter creates a ConsoleFormatter. Colors and the wrap width
// follow stdout when it is a terminal.
func NewConsoleFormatter(quiet, verbose bool) *ConsoleFormatter {
	f := &ConsoleFormatter{quiet: quiet, verbose: verbose, width: defaultWidth}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		f.colorize = true
		if w, _, err := term.GetSize(fd); err == nil && w > 40 {
			f.width = w
		}
	}
	return f
}

var (
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	gray   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	bold   = lipgloss.NewStyle().Bold(true)
)

func (f *ConsoleFormatter) style(s lipgloss.Style, text string) string {
	if !f.colorize {
		return text
	}
	return s.Render(text)
}

// Format writes the report. Quiet mode prints nothing; the exit code
// carries the outcome.
func (f *ConsoleFormatter) Format(w io.Writer, r *Report) error {
	if f.quiet {
		return nil
	}

	for i, l := range r.Listings {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f.printListing(w, l)
	}

	if r.Summary != nil {
		f.printSummary(w, r)
	}
	return nil
}

func (f *ConsoleFormatter) printListing(w io.Writer, l ListingReport) {
	if l.Result == nil {
		fmt.Fprintf(w, "%s %s\n", f.style(red, "✗"), l.label())
		f.printWrapped(w, "    ", l.Error, red)
		return
	}

	res := l.Result
	icon, iconStyle := "✓", green
	switch res.WorstSeverity() {
	case types.SeverityError:
		icon, iconStyle = "✗", red
	case types.SeverityWarning:
		icon, iconStyle = "⚠", yellow
	}

	cached := ""
	if l.Cached {
		cached = " cached"
	}
	fmt.Fprintf(w, "%s %s  %s  %s  %s\n",
		f.style(iconStyle, icon),
		f.style(bold, l.label()),
		fmt.Sprintf("%d/%d (%.1f%%)", res.Total, res.Max, res.Percent),
		f.style(gradeStyle(res.Grade), res.Grade),
		f.style(gray, fmt.Sprintf("[rubric %s, %s%s]", res.RubricVersion, mode(res), cached)))

	for _, section := range res.Sections.All() {
		fmt.Fprintf(w, "    %-12s %2d/%-2d\n", section.Area, section.Total, section.Max)
		if f.verbose {
			for _, sub := range section.Subs {
				line := fmt.Sprintf("      %-18s %2d/%-2d", sub.Name, sub.Points, sub.MaxPoints)
				if sub.Note != "" {
					line += "  " + sub.Note
				}
				fmt.Fprintln(w, f.style(gray, line))
			}
		}
	}

	for _, issue := range res.Issues {
		if issue.Severity == types.SeverityGood && !f.verbose {
			continue
		}
		f.printIssue(w, issue)
	}
	for _, s := range res.Suggestions {
		f.printWrapped(w, "    💡 ", s, gray)
	}
}

func (f *ConsoleFormatter) printIssue(w io.Writer, issue scoring.Issue) {
	prefix, s := "    ✓ ", green
	switch issue.Severity {
	case types.SeverityError:
		prefix, s = "    ✘ ", red
	case types.SeverityWarning:
		prefix, s = "    ⚠ ", yellow
	}
	f.printWrapped(w, prefix, fmt.Sprintf("%s: %s", issue.Area, issue.Message), s)
}

// printWrapped wraps text to the terminal width, indenting continuation
// lines under the first.
func (f *ConsoleFormatter) printWrapped(w io.Writer, prefix, text string, s lipgloss.Style) {
	indent := strings.Repeat(" ", lipgloss.Width(prefix))
	avail := f.width - lipgloss.Width(prefix)
	if avail < 20 {
		avail = 20
	}
	lines := strings.Split(lipgloss.NewStyle().Width(avail).Render(text), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " ")
		lead := indent
		if i == 0 {
			lead = f.style(s, prefix)
		}
		fmt.Fprintf(w, "%s%s\n", lead, line)
	}
}

func (f *ConsoleFormatter) printSummary(w io.Writer, r *Report) {
	s := r.Summary
	fmt.Fprintln(w)
	fmt.Fprintln(w, f.style(bold, "Summary"))

	line := fmt.Sprintf("  %d/%d listings scored", s.Scored, s.Listings)
	var extras []string
	if s.Failed > 0 {
		extras = append(extras, fmt.Sprintf("%d failed", s.Failed))
	}
	if s.Cached > 0 {
		extras = append(extras, fmt.Sprintf("%d cached", s.Cached))
	}
	if r.Suppressed > 0 {
		extras = append(extras, fmt.Sprintf("%d baseline issues hidden", r.Suppressed))
	}
	if len(extras) > 0 {
		line += " (" + strings.Join(extras, ", ") + ")"
	}
	if s.Scored > 0 {
		line += fmt.Sprintf(", mean %.1f%%", s.MeanPercent)
	}
	if !r.StartTime.IsZero() {
		line += f.style(gray, fmt.Sprintf(" in %v", time.Since(r.StartTime).Round(time.Millisecond)))
	}
	fmt.Fprintln(w, line)

	if s.Scored > 0 {
		var grades []string
		for _, g := range gradeOrder(s.Grades) {
			grades = append(grades, fmt.Sprintf("%s %d", f.style(gradeStyle(g), g), s.Grades[g]))
		}
		fmt.Fprintf(w, "  grades: %s\n", strings.Join(grades, "  "))
	}

	if len(s.TopIssues) > 0 {
		fmt.Fprintln(w, "  most common issues:")
		for i, ic := range s.TopIssues {
			if i == 5 {
				break
			}
			f.printWrapped(w, fmt.Sprintf("    %3d× ", ic.Count), fmt.Sprintf("%s %s: %s", ic.Area, ic.Severity, ic.Pattern), gray)
		}
	}

	if len(s.Lowest) > 1 {
		fmt.Fprintln(w, "  lowest scoring:")
		for _, l := range s.Lowest {
			name := l.Path
			if name == "" {
				name = l.ID
			}
			fmt.Fprintf(w, "    %5.1f%%  %s  %s\n", l.Percent, f.style(gradeStyle(l.Grade), l.Grade), name)
		}
	}

	if s.Scored > 0 && s.Failed == 0 && s.Grades["A"] == s.Scored {
		fmt.Fprintln(w)
		fmt.Fprintln(w, f.style(green.Bold(true), "✨ All listings graded A ✨"))
	}
}

func gradeStyle(grade string) lipgloss.Style {
	switch grade {
	case "A", "B":
		return green
	case "C":
		return yellow
	default:
		return red
	}
}

// gradeOrder returns the grades present, best first. Letter grades sort
// alphabetically, which is best first for A-F.
func gradeOrder(grades map[string]int) []string {
	out := make([]string, 0, len(grades))
	for g := range grades {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}
