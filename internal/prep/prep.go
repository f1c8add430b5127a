// Package prep runs the release readiness checks: local tooling, project
// structure, gradle and manifest settings, the store listing, and the
// release checklist.
package prep

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/soksol/playprep/internal/config"
	"github.com/soksol/playprep/internal/execx"
	"github.com/soksol/playprep/internal/qa"
)

// Step names accepted by Checker.RunStep.
const (
	StepEnvironment = "env"
	StepStructure   = "structure"
	StepMobile      = "mobile"
	StepStore       = "store"
	StepSecurity    = "security"
	StepChecklist   = "checklist"
)

// ErrUnknownStep is returned by RunStep for an unrecognized step name.
var ErrUnknownStep = errors.New("unknown prep step")

// Item is one line of a readiness check.
type Item struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Result is the outcome of one readiness check.
type Result struct {
	Step  string `json:"step"`
	Title string `json:"title"`
	Items []Item `json:"items"`
	Err   error  `json:"-"`
}

func (r *Result) add(name string, ok bool, detail string) {
	r.Items = append(r.Items, Item{Name: name, OK: ok, Detail: detail})
}

// Passed reports whether the check completed and every item is OK.
func (r *Result) Passed() bool {
	if r.Err != nil {
		return false
	}
	for _, it := range r.Items {
		if !it.OK {
			return false
		}
	}
	return true
}

// Summary is the outcome of Run.
type Summary struct {
	Results []Result
}

// PassedCount is the number of checks that passed.
func (s Summary) PassedCount() int {
	n := 0
	for i := range s.Results {
		if s.Results[i].Passed() {
			n++
		}
	}
	return n
}

// Passed reports whether every check passed.
func (s Summary) Passed() bool {
	return s.PassedCount() == len(s.Results)
}

// Checker runs the readiness checks against one project root.
type Checker struct {
	Root    string
	Config  *config.Config
	Env     config.Environment
	Runner  execx.Runner
	Now     func() time.Time
	Logger  *slog.Logger
	project *qa.Project
}

// NewChecker creates a Checker for root.
func NewChecker(root string, cfg *config.Config, env config.Environment, runner execx.Runner) *Checker {
	return &Checker{
		Root:    root,
		Config:  cfg,
		Env:     env,
		Runner:  runner,
		Now:     time.Now,
		Logger:  slog.Default(),
		project: qa.NewProject(root, cfg.Project),
	}
}

type step struct {
	name  string
	title string
	run   func(ctx context.Context) Result
}

func (c *Checker) steps() []step {
	return []step{
		{StepEnvironment, "Environment", c.CheckEnvironment},
		{StepStructure, "Project structure", func(context.Context) Result { return c.CheckStructure() }},
		{StepMobile, "Mobile configuration", func(context.Context) Result { return c.CheckMobileConfig() }},
		{StepStore, "Store listing", func(context.Context) Result { return c.CheckStoreListing() }},
		{StepSecurity, "Security compliance", func(context.Context) Result { return c.CheckSecurityCompliance() }},
		{StepChecklist, "Release checklist", c.checklistStep},
	}
}

// Steps lists the step names in run order.
func (c *Checker) Steps() []string {
	var names []string
	for _, s := range c.steps() {
		names = append(names, s.name)
	}
	return names
}

// Run executes every step in order. A failing or panicking step is recorded
// and the remaining steps still run.
func (c *Checker) Run(ctx context.Context) Summary {
	var sum Summary
	for _, s := range c.steps() {
		if err := ctx.Err(); err != nil {
			sum.Results = append(sum.Results, Result{Step: s.name, Title: s.title, Err: err})
			continue
		}
		sum.Results = append(sum.Results, c.runIsolated(ctx, s))
	}
	return sum
}

// RunStep executes one named step.
func (c *Checker) RunStep(ctx context.Context, name string) (Result, error) {
	for _, s := range c.steps() {
		if s.name == name {
			return c.runIsolated(ctx, s), nil
		}
	}
	return Result{}, fmt.Errorf("%w: %s", ErrUnknownStep, name)
}

func (c *Checker) runIsolated(ctx context.Context, s step) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("prep step panicked", "step", s.name, "panic", r)
			res = Result{Step: s.name, Title: s.title, Err: fmt.Errorf("%s panicked: %v", s.name, r)}
		}
	}()
	res = s.run(ctx)
	res.Step, res.Title = s.name, s.title
	if res.Err != nil {
		c.Logger.Warn("prep step failed", "step", s.name, "err", res.Err)
	}
	return res
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// CheckEnvironment verifies the external tools are on PATH and an Android SDK
// with platform-tools is installed.
func (c *Checker) CheckEnvironment(_ context.Context) Result {
	var res Result
	for _, tool := range c.Config.Prep.Tools {
		path, err := c.Runner.LookPath(tool)
		if err != nil {
			res.add(tool, false, "not found on PATH")
			continue
		}
		res.add(tool, true, path)
	}

	sdk := ""
	for _, dir := range c.Env.SDKCandidates() {
		ok, err := exists(filepath.Join(dir, "platform-tools"))
		if err != nil {
			c.Logger.Debug("checking android sdk", "dir", dir, "err", err)
		}
		if ok {
			sdk = dir
			break
		}
	}
	if sdk != "" {
		res.add("android-sdk", true, sdk)
	} else {
		res.add("android-sdk", false, "set ANDROID_HOME to an SDK containing platform-tools")
	}
	return res
}

// RequiredFiles lists the project-relative files CheckStructure looks for:
// the configured list, then the gradle build file and the icon source as
// resolved from the project layout.
func (c *Checker) RequiredFiles() []string {
	files := append([]string(nil), c.Config.Prep.RequiredFiles...)
	for _, rel := range []string{
		c.project.Rel(c.project.BuildGradle),
		filepath.ToSlash(c.Config.Project.IconSource),
	} {
		if rel != "" && !slices.Contains(files, rel) {
			files = append(files, rel)
		}
	}
	return files
}

// CheckStructure verifies the required project files exist.
func (c *Checker) CheckStructure() Result {
	var res Result
	for _, rel := range c.RequiredFiles() {
		ok, err := exists(filepath.Join(c.Root, rel))
		if err != nil {
			res.Err = err
			return res
		}
		detail := ""
		if !ok {
			detail = "missing"
		}
		res.add(rel, ok, detail)
	}
	return res
}

// ChecklistPath is where WriteChecklist writes the release checklist.
func (c *Checker) ChecklistPath() string {
	return filepath.Join(c.Root, c.Config.Project.ChecklistPath)
}

func (c *Checker) checklistStep(ctx context.Context) Result {
	var res Result
	path, err := c.WriteChecklist(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	res.add(filepath.Base(path), true, path)
	return res
}
