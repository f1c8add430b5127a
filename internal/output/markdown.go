package output

import (
	"fmt"
	"strings"

	"github.com/soksol/playprep/internal/qa"
)

// MarkdownFormatter renders the QA report as GitHub-Flavored Markdown.
// This is the document written to QA_REPORT.md.
type MarkdownFormatter struct{}

// verdictBanner returns the emoji and label for a verdict.
func verdictBanner(v qa.Verdict) string {
	switch v {
	case qa.VerdictReady:
		return ":white_check_mark: **READY**"
	case qa.VerdictCaution:
		return ":warning: **CAUTION**"
	case qa.VerdictBlocked:
		return ":rotating_light: **BLOCKED**"
	default:
		return v.String()
	}
}

// itemEmoji returns the shortcode prefixed to a finding in its section.
func itemEmoji(b qa.Bucket, sev qa.Severity) string {
	switch {
	case b == qa.BucketPassed:
		return ":white_check_mark:"
	case b == qa.BucketWarning:
		return ":warning:"
	case sev == qa.SeverityCritical:
		return ":rotating_light:"
	default:
		return ":x:"
	}
}

var sectionHeadings = map[qa.Bucket]string{
	qa.BucketPassed:  "## :trophy: Passed",
	qa.BucketWarning: "## :warning: Warnings",
	qa.BucketIssue:   "## :x: Issues",
}

// Format renders the report. The passed section is always present; the
// warning and issue sections only when they have findings.
func (f *MarkdownFormatter) Format(out *Output) ([]byte, error) {
	if err := out.validate("markdown"); err != nil {
		return nil, err
	}
	r := out.Report
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", r.Title)
	fmt.Fprintf(&sb, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")

	sb.WriteString("## :bar_chart: Summary\n\n")
	fmt.Fprintf(&sb, "- :white_check_mark: Passed: %d\n", r.Counts.Passed)
	fmt.Fprintf(&sb, "- :warning: Warnings: %d\n", r.Counts.Warnings)
	fmt.Fprintf(&sb, "- :x: Errors: %d\n", r.Counts.Errors)
	fmt.Fprintf(&sb, "- :rotating_light: Critical: %d\n", r.Counts.Critical)

	for _, s := range r.Sections {
		if s.Bucket != qa.BucketPassed && len(s.Groups) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s\n", sectionHeadings[s.Bucket])
		for _, g := range s.Groups {
			fmt.Fprintf(&sb, "\n### %s\n\n", g.Category.Title())
			for _, item := range g.Items {
				fmt.Fprintf(&sb, "- %s %s\n", itemEmoji(s.Bucket, item.Severity), item.Description)
			}
		}
	}

	sb.WriteString("\n## :rocket: Recommendation\n\n")
	fmt.Fprintf(&sb, "%s: %s\n", verdictBanner(r.Verdict), r.Recommendation)

	if len(r.NextSteps) > 0 {
		sb.WriteString("\n### Next steps\n\n")
		for i, step := range r.NextSteps {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
		}
	}

	return []byte(sb.String()), nil
}
