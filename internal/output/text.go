package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/soksol/playprep/internal/qa"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	categoryStyle = lipgloss.NewStyle().
			Bold(true).
			MarginLeft(2)

	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D7AF00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	criticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

var verdictStyles = map[qa.Verdict]lipgloss.Style{
	qa.VerdictReady:   lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#00AA00")),
	qa.VerdictCaution: lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#D7AF00")),
	qa.VerdictBlocked: lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#D70000")),
}

// VerdictBadge renders the verdict as a colored label.
func VerdictBadge(v qa.Verdict) string {
	style, ok := verdictStyles[v]
	if !ok {
		return v.String()
	}
	return style.Render(v.String())
}

// TextFormatter renders a compact listing of every finding, grouped by
// category, followed by the verdict.
type TextFormatter struct{}

func marker(b qa.Bucket, sev qa.Severity) string {
	switch {
	case b == qa.BucketPassed:
		return passStyle.Render("✓")
	case b == qa.BucketWarning:
		return warnStyle.Render("!")
	case sev == qa.SeverityCritical:
		return criticalStyle.Render("✗✗")
	default:
		return errorStyle.Render("✗")
	}
}

func (f *TextFormatter) Format(out *Output) ([]byte, error) {
	if err := out.validate("text"); err != nil {
		return nil, err
	}
	r := out.Report
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(r.Title))
	sb.WriteString("\n")
	if len(r.Checks) > 0 {
		sb.WriteString(mutedStyle.Render("checks: " + strings.Join(r.Checks, ", ")))
		sb.WriteString("\n")
	}

	for _, s := range r.Sections {
		if len(s.Groups) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s\n", headerStyle.Render(s.Title))
		for _, g := range s.Groups {
			sb.WriteString(categoryStyle.Render(g.Category.Title()))
			sb.WriteString("\n")
			for _, item := range g.Items {
				fmt.Fprintf(&sb, "    %s %s\n", marker(s.Bucket, item.Severity), item.Description)
			}
		}
	}

	fmt.Fprintf(&sb, "\n%d passed, %d warnings, %d errors, %d critical\n",
		r.Counts.Passed, r.Counts.Warnings, r.Counts.Errors, r.Counts.Critical)
	fmt.Fprintf(&sb, "%s %s\n", VerdictBadge(r.Verdict), r.Recommendation)
	return []byte(sb.String()), nil
}
