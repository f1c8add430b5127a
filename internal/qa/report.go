package qa

import "time"

// Report is the rendered projection of one run's findings. It holds no state
// of its own; BuildReport derives it entirely from the result.
type Report struct {
	Title          string    `json:"title"`
	RunID          string    `json:"run_id"`
	Root           string    `json:"root"`
	GeneratedAt    time.Time `json:"generated_at"`
	Checks         []string  `json:"checks"`
	Counts         Counts    `json:"counts"`
	Verdict        Verdict   `json:"verdict"`
	Recommendation string    `json:"recommendation"`
	Sections       []Section `json:"sections"`
	NextSteps      []string  `json:"next_steps"`
}

// nextSteps closes every report, whatever the verdict.
var nextSteps = []string{
	"Fix the issues listed above.",
	"Review the warnings and improve where needed.",
	"Test the release build on a physical device.",
	"Upload the bundle in Play Console and complete the store listing.",
}

// Section lists one bucket's findings grouped by category.
type Section struct {
	Bucket Bucket  `json:"-"`
	Title  string  `json:"title"`
	Groups []Group `json:"groups"`
}

// Group is the findings of one category within a section, in insertion order.
type Group struct {
	Category Category `json:"category"`
	Items    []Item   `json:"items"`
}

// Item is one finding as it appears in the report.
type Item struct {
	Description string   `json:"description"`
	Severity    Severity `json:"severity,omitempty"`
}

var sectionTitles = map[Bucket]string{
	BucketPassed:  "Passed",
	BucketWarning: "Warnings",
	BucketIssue:   "Issues",
}

// BuildReport groups the result's findings for rendering. Categories appear
// in Categories order; empty categories are omitted.
func BuildReport(res *Result, generatedAt time.Time) *Report {
	counts := res.Findings.Counts()
	verdict := DecideCounts(counts)
	r := &Report{
		Title:          "Play Store QA Report",
		RunID:          res.RunID,
		Root:           res.Root,
		GeneratedAt:    generatedAt,
		Checks:         append([]string(nil), res.Checks...),
		Counts:         counts,
		Verdict:        verdict,
		Recommendation: verdict.Message(),
		NextSteps:      append([]string(nil), nextSteps...),
	}
	for _, b := range []Bucket{BucketPassed, BucketWarning, BucketIssue} {
		r.Sections = append(r.Sections, Section{
			Bucket: b,
			Title:  sectionTitles[b],
			Groups: groupByCategory(res.Findings.Bucket(b)),
		})
	}
	return r
}

func groupByCategory(findings []Finding) []Group {
	byCategory := make(map[Category][]Item)
	for _, f := range findings {
		byCategory[f.Category] = append(byCategory[f.Category], Item{
			Description: f.Description,
			Severity:    f.Severity,
		})
	}
	var groups []Group
	for _, c := range Categories {
		if items, ok := byCategory[c]; ok {
			groups = append(groups, Group{Category: c, Items: items})
		}
	}
	return groups
}

// Section returns the section for bucket b.
func (r *Report) Section(b Bucket) Section {
	for _, s := range r.Sections {
		if s.Bucket == b {
			return s
		}
	}
	return Section{Bucket: b, Title: sectionTitles[b]}
}
