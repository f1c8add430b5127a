package qa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/soksol/playprep/internal/qa"

var tracer = otel.Tracer(instrumentationName)

// ErrUnknownCheck is returned by RunSingle for a name no check is registered under.
var ErrUnknownCheck = errors.New("unknown check")

// Check is one independent QA routine. Run appends findings to f and must not
// depend on any other check's findings. A returned error is recorded as a
// system issue by the engine.
type Check interface {
	Name() string
	Run(ctx context.Context, p *Project, f *Findings) error
}

// CheckFunc adapts a function to the Check interface.
type CheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context, p *Project, f *Findings) error
}

func (c CheckFunc) Name() string { return c.CheckName }

func (c CheckFunc) Run(ctx context.Context, p *Project, f *Findings) error {
	return c.Fn(ctx, p, f)
}

// Result is the outcome of one engine run.
type Result struct {
	RunID      string    `json:"run_id"`
	Root       string    `json:"root"`
	Checks     []string  `json:"checks"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Findings   *Findings `json:"findings"`
	Verdict    Verdict   `json:"verdict"`
}

// Counts tallies the result's findings.
func (r *Result) Counts() Counts {
	return r.Findings.Counts()
}

// Engine runs a fixed, ordered battery of checks against one project.
type Engine struct {
	project  *Project
	checks   []Check
	now      func() time.Time
	logger   *slog.Logger
	escalate map[Category]Severity

	findingsCounter metric.Int64Counter
	checkDuration   metric.Float64Histogram
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to stamp findings and runs.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithEscalation raises issues of the given categories to the mapped severity.
func WithEscalation(escalate map[Category]Severity) Option {
	return func(e *Engine) { e.escalate = escalate }
}

// NewEngine creates an engine running checks in the given order.
func NewEngine(project *Project, checks []Check, opts ...Option) *Engine {
	e := &Engine{
		project: project,
		checks:  checks,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	meter := otel.Meter(instrumentationName)
	var err error
	e.findingsCounter, err = meter.Int64Counter("playprep.qa.findings",
		metric.WithDescription("Findings recorded by QA checks"))
	if err != nil {
		e.logger.Debug("creating findings counter", "err", err)
	}
	e.checkDuration, err = meter.Float64Histogram("playprep.qa.check.duration",
		metric.WithDescription("Duration of a single QA check"),
		metric.WithUnit("s"))
	if err != nil {
		e.logger.Debug("creating check duration histogram", "err", err)
	}
	return e
}

// Checks returns the registered check names in run order.
func (e *Engine) Checks() []string {
	names := make([]string, len(e.checks))
	for i, c := range e.checks {
		names[i] = c.Name()
	}
	return names
}

// Project returns the project the engine checks.
func (e *Engine) Project() *Project {
	return e.project
}

// RunAll runs every registered check in order. Check failures never abort
// the run; they are recorded as system issues.
func (e *Engine) RunAll(ctx context.Context) *Result {
	return e.run(ctx, e.checks)
}

// RunSingle runs exactly one check by name. The verdict only reflects that
// check's findings.
func (e *Engine) RunSingle(ctx context.Context, name string) (*Result, error) {
	for _, c := range e.checks {
		if c.Name() == name {
			return e.run(ctx, []Check{c}), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCheck, name)
}

func (e *Engine) run(ctx context.Context, checks []Check) *Result {
	ctx, span := tracer.Start(ctx, "qa run")
	defer span.End()

	res := &Result{
		RunID:     uuid.NewString(),
		Root:      e.project.Root,
		StartedAt: e.now(),
		Findings:  NewFindings(e.now, e.escalate),
	}
	span.SetAttributes(
		attribute.String("playprep.run_id", res.RunID),
		attribute.Int("playprep.qa.checks", len(checks)),
	)

	for _, c := range checks {
		if err := ctx.Err(); err != nil {
			res.Findings.Issuef(CategorySystem, "Run cancelled before check %s: %v", c.Name(), err)
			span.RecordError(err)
			break
		}
		res.Checks = append(res.Checks, c.Name())
		e.runCheck(ctx, c, res.Findings)
	}

	res.FinishedAt = e.now()
	res.Verdict = Decide(res.Findings)
	span.SetAttributes(attribute.String("playprep.qa.verdict", res.Verdict.String()))
	if res.Verdict == VerdictBlocked {
		span.SetStatus(codes.Error, "submission blocked")
	}
	return res
}

func (e *Engine) runCheck(ctx context.Context, c Check, f *Findings) {
	ctx, span := tracer.Start(ctx, "qa check "+c.Name())
	defer span.End()
	span.SetAttributes(attribute.String("playprep.qa.check", c.Name()))

	before := f.Counts()
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("check panicked", "check", c.Name(), "panic", r)
			f.Issuef(CategorySystem, "Check %s failed unexpectedly: %v", c.Name(), r)
			span.SetStatus(codes.Error, fmt.Sprint(r))
		}
		e.record(ctx, c.Name(), before, f.Counts(), time.Since(start))
	}()

	e.logger.Debug("running check", "check", c.Name())
	if err := c.Run(ctx, e.project, f); err != nil {
		e.logger.Error("check failed", "check", c.Name(), "err", err)
		f.Issuef(CategorySystem, "Check %s failed: %v", c.Name(), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func (e *Engine) record(ctx context.Context, name string, before, after Counts, elapsed time.Duration) {
	check := attribute.String("check", name)
	if e.checkDuration != nil {
		e.checkDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(check))
	}
	if e.findingsCounter == nil {
		return
	}
	deltas := map[string]int{
		"passed":   after.Passed - before.Passed,
		"warning":  after.Warnings - before.Warnings,
		"error":    after.Errors - before.Errors,
		"critical": after.Critical - before.Critical,
	}
	for kind, n := range deltas {
		if n > 0 {
			e.findingsCounter.Add(ctx, int64(n), metric.WithAttributes(check, attribute.String("kind", kind)))
		}
	}
}

// ParseEscalation converts the configured category to severity map.
func ParseEscalation(raw map[string]string) (map[Category]Severity, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[Category]Severity, len(raw))
	for name, sev := range raw {
		c, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		if c == CategorySystem {
			return nil, fmt.Errorf("category %q cannot be escalated", name)
		}
		switch Severity(sev) {
		case SeverityError, SeverityCritical:
			out[c] = Severity(sev)
		default:
			return nil, fmt.Errorf("unknown severity %q for category %q", sev, name)
		}
	}
	return out, nil
}
