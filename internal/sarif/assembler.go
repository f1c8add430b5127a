package sarif

import (
	"time"

	"github.com/soksol/playprep/internal/qa"
)

// Property keys playprep writes into SARIF logs.
const (
	PropRunID    = "playprep/runId"
	PropRoot     = "playprep/root"
	PropVerdict  = "playprep/verdict"
	PropChecks   = "playprep/checks"
	PropSeverity = "playprep/severity"
	PropCategory = "playprep/category"
	PropTime     = "playprep/timestamp"
)

// RuleID returns the rule identifier for a finding category.
func RuleID(c qa.Category) string {
	return "playprep/" + c.String()
}

// FromResult converts a QA run into a SARIF log. Passed findings become
// results of kind pass; warnings and issues become failures at level
// warning and error. Critical issues keep their severity as a property.
func FromResult(res *qa.Result, version string) *Log {
	a := NewAssembler(version).
		WithProperty(PropRunID, res.RunID).
		WithProperty(PropRoot, res.Root).
		WithProperty(PropVerdict, res.Verdict.String()).
		WithProperty(PropChecks, res.Checks).
		AddInvocation(Invocation{
			ExecutionSuccessful: true,
			StartTimeUTC:        res.StartedAt.UTC().Format(time.RFC3339),
			EndTimeUTC:          res.FinishedAt.UTC().Format(time.RFC3339),
		})

	add := func(f qa.Finding, kind, level string) {
		a.AddRule(ReportingDescriptor{
			ID:               RuleID(f.Category),
			Name:             f.Category.Title(),
			ShortDescription: Message{Text: f.Category.Title() + " checks"},
			DefaultConfig:    &ReportingConfiguration{Level: LevelError},
		})
		props := map[string]interface{}{
			PropCategory: f.Category.String(),
			PropTime:     f.Timestamp.UTC().Format(time.RFC3339),
		}
		if f.Severity != "" {
			props[PropSeverity] = string(f.Severity)
		}
		a.AddResults(Result{
			RuleID:     RuleID(f.Category),
			Kind:       kind,
			Level:      level,
			Message:    Message{Text: f.Description},
			Properties: props,
		})
	}

	for _, f := range res.Findings.Issues() {
		add(f, KindFail, LevelError)
	}
	for _, f := range res.Findings.Warnings() {
		add(f, KindFail, LevelWarning)
	}
	for _, f := range res.Findings.Passed() {
		add(f, KindPass, LevelNone)
	}
	return a.Build()
}

// VerdictOf reads the verdict recorded on the log's first run.
func VerdictOf(log *Log) (qa.Verdict, bool) {
	if len(log.Runs) == 0 {
		return 0, false
	}
	raw, ok := log.Runs[0].Properties[PropVerdict].(string)
	if !ok {
		return 0, false
	}
	var v qa.Verdict
	if err := v.UnmarshalText([]byte(raw)); err != nil {
		return 0, false
	}
	return v, true
}
