package output

import (
	"encoding/json"
	"time"

	"github.com/soksol/playprep/internal/qa"
)

// JSONFormatter renders the run as indented JSON.
type JSONFormatter struct{}

type jsonOutput struct {
	RunID          string       `json:"run_id"`
	Root           string       `json:"root,omitempty"`
	GeneratedAt    time.Time    `json:"generated_at"`
	Checks         []string     `json:"checks"`
	Verdict        qa.Verdict   `json:"verdict"`
	ExitCode       int          `json:"exit_code"`
	Recommendation string       `json:"recommendation"`
	Counts         qa.Counts    `json:"counts"`
	Findings       *qa.Findings `json:"findings"`
}

// Format serializes the verdict, counts and all findings.
func (f *JSONFormatter) Format(out *Output) ([]byte, error) {
	if err := out.validate("json"); err != nil {
		return nil, err
	}
	if out.Result == nil {
		return json.MarshalIndent(out.Report, "", "  ")
	}
	r := out.Report
	return json.MarshalIndent(jsonOutput{
		RunID:          r.RunID,
		Root:           r.Root,
		GeneratedAt:    r.GeneratedAt,
		Checks:         r.Checks,
		Verdict:        r.Verdict,
		ExitCode:       r.Verdict.ExitCode(),
		Recommendation: r.Recommendation,
		Counts:         r.Counts,
		Findings:       out.Result.Findings,
	}, "", "  ")
}
