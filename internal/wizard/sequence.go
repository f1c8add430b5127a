// Package wizard runs the end-to-end release preparation as an ordered
// sequence of steps, letting a Decider choose what happens after a failure.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrAborted is returned when the Decider aborts the sequence.
	ErrAborted = errors.New("preparation aborted")
	// ErrRetriesExhausted is returned when a step keeps failing after MaxRetries reruns.
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// Outcome is the result of one step attempt.
type Outcome int

const (
	Succeeded Outcome = iota
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Decision is what the Decider chooses after a failed step.
type Decision int

const (
	Proceed Decision = iota
	Retry
	Abort
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case Retry:
		return "retry"
	case Abort:
		return "abort"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Step is one stage of the preparation. A non-nil error counts as Failed.
type Step struct {
	Name  string
	Title string
	Run   func(ctx context.Context) (Outcome, error)
}

// StepReport records how a step ended.
type StepReport struct {
	Index      int
	Name       string
	Title      string
	Outcome    Outcome
	Err        error
	Attempts   int
	Overridden bool
	Duration   time.Duration
	// CanRetry is false once the step has used up its reruns.
	CanRetry bool
}

// Decider chooses how to continue after a failed step.
type Decider interface {
	Decide(ctx context.Context, report StepReport) (Decision, error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(ctx context.Context, report StepReport) (Decision, error)

func (f DeciderFunc) Decide(ctx context.Context, report StepReport) (Decision, error) {
	return f(ctx, report)
}

// AlwaysProceed continues past every failure.
var AlwaysProceed Decider = DeciderFunc(func(context.Context, StepReport) (Decision, error) {
	return Proceed, nil
})

// EventKind distinguishes sequence progress events.
type EventKind int

const (
	StepStarted EventKind = iota
	StepFinished
)

// Event is emitted to Sequence.OnEvent as steps start and finish.
type Event struct {
	Kind    EventKind
	Total   int
	Attempt int
	Report  StepReport
}

// Summary is the per-step result of a sequence run.
type Summary struct {
	Steps      []StepReport
	StartedAt  time.Time
	FinishedAt time.Time
	Aborted    bool
}

// Succeeded returns the number of steps that ended in success.
func (s Summary) Succeeded() int {
	n := 0
	for _, r := range s.Steps {
		if r.Outcome == Succeeded {
			n++
		}
	}
	return n
}

// Failed returns the number of steps that ended in failure, overridden or not.
func (s Summary) Failed() int {
	n := 0
	for _, r := range s.Steps {
		if r.Outcome == Failed {
			n++
		}
	}
	return n
}

// Duration returns the wall time of the run.
func (s Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Sequence runs steps in order.
type Sequence struct {
	Steps      []Step
	MaxRetries int
	Logger     *slog.Logger
	Now        func() time.Time
	OnEvent    func(Event)
}

// NewSequence creates a Sequence allowing maxRetries reruns per step.
func NewSequence(steps []Step, maxRetries int) *Sequence {
	return &Sequence{
		Steps:      steps,
		MaxRetries: maxRetries,
		Logger:     slog.Default(),
		Now:        time.Now,
	}
}

// Run executes every step. After a failure the decider is consulted: Proceed
// continues with the next step, Retry reruns the step and Abort stops with
// ErrAborted. The summary covers every step that ran, including on error.
func (s *Sequence) Run(ctx context.Context, decider Decider) (Summary, error) {
	now := s.Now
	if now == nil {
		now = time.Now
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	summary := Summary{StartedAt: now()}
	finish := func(err error) (Summary, error) {
		summary.FinishedAt = now()
		return summary, err
	}

	for i, step := range s.Steps {
		report := StepReport{Index: i, Name: step.Name, Title: step.Title}
		for {
			if err := ctx.Err(); err != nil {
				return finish(err)
			}
			report.Attempts++
			s.emit(Event{Kind: StepStarted, Total: len(s.Steps), Attempt: report.Attempts, Report: report})

			start := now()
			report.Outcome, report.Err = runStep(ctx, step)
			report.Duration = now().Sub(start)
			report.CanRetry = report.Attempts <= s.MaxRetries
			s.emit(Event{Kind: StepFinished, Total: len(s.Steps), Attempt: report.Attempts, Report: report})

			if report.Outcome != Failed {
				break
			}
			logger.Warn("step failed", "step", step.Name, "attempt", report.Attempts, "err", report.Err)

			decision, err := decider.Decide(ctx, report)
			if err != nil {
				summary.Steps = append(summary.Steps, report)
				return finish(fmt.Errorf("deciding after %s: %w", step.Name, err))
			}
			logger.Debug("decision", "step", step.Name, "decision", decision)

			switch decision {
			case Retry:
				if report.CanRetry {
					continue
				}
				summary.Steps = append(summary.Steps, report)
				summary.Aborted = true
				return finish(fmt.Errorf("%s: %w after %d attempts", step.Name, ErrRetriesExhausted, report.Attempts))
			case Abort:
				summary.Steps = append(summary.Steps, report)
				summary.Aborted = true
				return finish(ErrAborted)
			default:
				report.Overridden = true
			}
			break
		}
		summary.Steps = append(summary.Steps, report)
	}
	return finish(nil)
}

func (s *Sequence) emit(e Event) {
	if s.OnEvent != nil {
		s.OnEvent(e)
	}
}

func runStep(ctx context.Context, step Step) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome, err = Failed, fmt.Errorf("step %s panicked: %v", step.Name, r)
		}
	}()
	outcome, err = step.Run(ctx)
	if err != nil {
		outcome = Failed
	}
	return outcome, err
}
