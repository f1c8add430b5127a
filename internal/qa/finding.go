package qa

import (
	"encoding/json"
	"fmt"
	"time"
)

// Severity grades an issue. Passed findings and warnings carry no severity.
type Severity string

const (
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Bucket is the collection a finding belongs to.
type Bucket int

const (
	BucketPassed Bucket = iota
	BucketWarning
	BucketIssue
)

func (b Bucket) String() string {
	switch b {
	case BucketPassed:
		return "passed"
	case BucketWarning:
		return "warning"
	case BucketIssue:
		return "issue"
	default:
		return "unknown"
	}
}

// Finding is one recorded outcome of a check.
type Finding struct {
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Counts summarizes the three collections.
type Counts struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
	Critical int `json:"critical"`
}

// Issues is the total number of issues regardless of severity.
func (c Counts) Issues() int {
	return c.Errors + c.Critical
}

// Findings is the append-only accumulator a run threads through every check.
// Checks may only add to it; nothing is ever removed or rewritten.
type Findings struct {
	passed   []Finding
	warnings []Finding
	issues   []Finding

	now      func() time.Time
	escalate map[Category]Severity
}

// NewFindings returns an empty accumulator stamping findings with now.
// Issues recorded under a category present in escalate take that severity.
func NewFindings(now func() time.Time, escalate map[Category]Severity) *Findings {
	if now == nil {
		now = time.Now
	}
	return &Findings{now: now, escalate: escalate}
}

func (f *Findings) make(c Category, format string, args []any) Finding {
	return Finding{
		Category:    c,
		Description: fmt.Sprintf(format, args...),
		Timestamp:   f.now(),
	}
}

// Passf records a passed finding.
func (f *Findings) Passf(c Category, format string, args ...any) {
	f.passed = append(f.passed, f.make(c, format, args))
}

// Warnf records a warning.
func (f *Findings) Warnf(c Category, format string, args ...any) {
	f.warnings = append(f.warnings, f.make(c, format, args))
}

// Issuef records an issue at severity error, or at the category's escalated severity.
func (f *Findings) Issuef(c Category, format string, args ...any) {
	sev := SeverityError
	if s, ok := f.escalate[c]; ok && c != CategorySystem {
		sev = s
	}
	f.addIssue(c, sev, format, args)
}

// Criticalf records an issue at severity critical.
func (f *Findings) Criticalf(c Category, format string, args ...any) {
	f.addIssue(c, SeverityCritical, format, args)
}

func (f *Findings) addIssue(c Category, sev Severity, format string, args []any) {
	finding := f.make(c, format, args)
	finding.Severity = sev
	f.issues = append(f.issues, finding)
}

// Passed returns a copy of the passed findings in insertion order.
func (f *Findings) Passed() []Finding { return append([]Finding(nil), f.passed...) }

// Warnings returns a copy of the warnings in insertion order.
func (f *Findings) Warnings() []Finding { return append([]Finding(nil), f.warnings...) }

// Issues returns a copy of the issues in insertion order.
func (f *Findings) Issues() []Finding { return append([]Finding(nil), f.issues...) }

// Bucket returns a copy of the findings in bucket b.
func (f *Findings) Bucket(b Bucket) []Finding {
	switch b {
	case BucketPassed:
		return f.Passed()
	case BucketWarning:
		return f.Warnings()
	case BucketIssue:
		return f.Issues()
	default:
		return nil
	}
}

// Len is the total number of findings across all buckets.
func (f *Findings) Len() int {
	return len(f.passed) + len(f.warnings) + len(f.issues)
}

// Counts tallies the collections.
func (f *Findings) Counts() Counts {
	c := Counts{
		Passed:   len(f.passed),
		Warnings: len(f.warnings),
	}
	for _, issue := range f.issues {
		if issue.Severity == SeverityCritical {
			c.Critical++
		} else {
			c.Errors++
		}
	}
	return c
}

type findingsJSON struct {
	Passed   []Finding `json:"passed"`
	Warnings []Finding `json:"warnings"`
	Issues   []Finding `json:"issues"`
}

func (f *Findings) MarshalJSON() ([]byte, error) {
	out := findingsJSON{
		Passed:   f.passed,
		Warnings: f.warnings,
		Issues:   f.issues,
	}
	if out.Passed == nil {
		out.Passed = []Finding{}
	}
	if out.Warnings == nil {
		out.Warnings = []Finding{}
	}
	if out.Issues == nil {
		out.Issues = []Finding{}
	}
	return json.Marshal(out)
}
