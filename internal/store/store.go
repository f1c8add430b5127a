// Package store archives QA runs so past verdicts can be listed and reread.
package store

import (
	"context"
	"time"

	"github.com/soksol/playprep/internal/qa"
	"github.com/soksol/playprep/internal/sarif"
)

// Verdict is the archived decision for one QA run.
type Verdict struct {
	RunID            string         `json:"run_id"`
	Decision         qa.Verdict     `json:"decision"`
	Reason           string         `json:"reason"`
	Counts           qa.Counts      `json:"counts"`
	Checks           []string       `json:"checks"`
	CreatedAt        time.Time      `json:"created_at"`
	RelevantFindings []sarif.Result `json:"relevant_findings,omitempty"`
}

// NewVerdict summarizes a QA result and its SARIF log for archiving.
// Only failing results are kept as relevant findings.
func NewVerdict(res *qa.Result, log *sarif.Log) *Verdict {
	v := &Verdict{
		RunID:     res.RunID,
		Decision:  res.Verdict,
		Reason:    res.Verdict.Message(),
		Counts:    res.Counts(),
		Checks:    res.Checks,
		CreatedAt: res.FinishedAt,
	}
	if log != nil && len(log.Runs) > 0 {
		for _, r := range log.Runs[0].Results {
			if r.Kind == sarif.KindFail {
				v.RelevantFindings = append(v.RelevantFindings, r)
			}
		}
	}
	return v
}

// Entry is one archived run as listed by History.
type Entry struct {
	ID      string
	Verdict *Verdict
}

type Store interface {
	WriteSARIF(ctx context.Context, doc *sarif.Log) (string, error)
	WriteVerdict(ctx context.Context, id string, verdict *Verdict) error
	WriteReport(ctx context.Context, id string, report []byte) error
	ReadSARIF(ctx context.Context, id string) (*sarif.Log, error)
	ReadVerdict(ctx context.Context, id string) (*Verdict, error)
	List(ctx context.Context) ([]string, error)
}
