package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/soksol/playprep/internal/config"
	"github.com/soksol/playprep/internal/output"
	"github.com/soksol/playprep/internal/qa"
	"github.com/soksol/playprep/internal/store"
	"github.com/soksol/playprep/internal/telemetry"
)

// appContext is the state shared by every subcommand once the root command
// has resolved the project, configuration and logger.
type appContext struct {
	Root     string
	Config   *config.Config
	Env      config.Environment
	Logger   *slog.Logger
	Now      func() time.Time
	shutdown telemetry.Shutdown
}

var app *appContext

func setupApp(cmd *cobra.Command, args []string) error {
	logger := output.SetupLogger(flagQuiet, flagVerbose, flagDebug, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	env, err := config.LoadEnvironment()
	if err != nil {
		return err
	}
	root, err := resolveRoot(flagRoot, env.Root)
	if err != nil {
		return err
	}
	if err := config.LoadDotEnv(root); err != nil {
		return err
	}
	// .env may have added variables
	if env, err = config.LoadEnvironment(); err != nil {
		return err
	}

	cfg, err := config.LoadTiered(config.MachineConfigPath(), config.ProjectConfigPath(root))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Telemetry.ServiceVersion == "dev" {
		cfg.Telemetry.ServiceVersion = version
	}

	shutdown, err := telemetry.Init(cmd.Context(), cfg.Telemetry, env.TelemetryEnabled)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	app = &appContext{
		Root:     root,
		Config:   cfg,
		Env:      env,
		Logger:   logger,
		Now:      time.Now,
		shutdown: shutdown,
	}
	logger.Debug("project resolved", "root", root)
	return nil
}

// teardownApp flushes telemetry. It runs after every command, including
// those exiting with a verdict status.
func teardownApp(ctx context.Context) {
	if app == nil || app.shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := app.shutdown(ctx); err != nil {
		app.Logger.Warn("telemetry shutdown", "err", err)
	}
}

// resolveRoot picks the project root from the flag, then the environment,
// then the working directory.
func resolveRoot(flagValue, envValue string) (string, error) {
	root := flagValue
	if root == "" {
		root = envValue
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving project root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project root %s is not a directory", abs)
	}
	return abs, nil
}

func (a *appContext) project() *qa.Project {
	return qa.NewProject(a.Root, a.Config.Project)
}

func (a *appContext) path(rel string) string {
	return filepath.Join(a.Root, rel)
}

func (a *appContext) newEngine() (*qa.Engine, error) {
	escalate, err := qa.ParseEscalation(a.Config.QA.Escalate)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	checks := qa.DefaultChecks(a.Config.QA, qa.DecodeInspector{}, a.Logger)
	return qa.NewEngine(a.project(), checks,
		qa.WithClock(a.Now),
		qa.WithLogger(a.Logger),
		qa.WithEscalation(escalate),
	), nil
}

func (a *appContext) store() *store.FileStore {
	return store.NewFileStore(a.path(a.Config.Project.ResultsDir))
}

// qaRun is a full QA run with its report written to disk.
type qaRun struct {
	Output     *output.Output
	ReportPath string
	ArchiveID  string
}

// runFullQA runs every check, writes the markdown report and archives the run.
// Failing to write the report is fatal; failing to archive is logged.
func (a *appContext) runFullQA(ctx context.Context, archive bool) (*qaRun, error) {
	engine, err := a.newEngine()
	if err != nil {
		return nil, err
	}
	res := engine.RunAll(ctx)
	out := output.NewOutput(res, version, a.Now())

	report, err := (&output.MarkdownFormatter{}).Format(out)
	if err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	path := a.path(a.Config.Project.ReportPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	if err := os.WriteFile(path, report, 0o644); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	a.Logger.Info("report written", "path", path, "verdict", res.Verdict)

	run := &qaRun{Output: out, ReportPath: path}
	if archive {
		id, err := a.archive(ctx, out, report)
		if err != nil {
			a.Logger.Warn("archiving QA run", "err", err)
		}
		run.ArchiveID = id
	}
	return run, nil
}

func (a *appContext) archive(ctx context.Context, out *output.Output, report []byte) (string, error) {
	fs := a.store()
	id, err := fs.WriteSARIF(ctx, out.SARIF)
	if err != nil {
		return "", err
	}
	if err := fs.WriteVerdict(ctx, id, store.NewVerdict(out.Result, out.SARIF)); err != nil {
		return id, err
	}
	if err := fs.WriteReport(ctx, id, report); err != nil {
		return id, err
	}
	a.Logger.Info("run archived", "id", id)
	return id, nil
}

// verdictError converts a verdict into the command's return value.
func verdictError(v qa.Verdict) error {
	if code := v.ExitCode(); code != qa.ExitReady {
		return &exitError{code: code}
	}
	return nil
}

var errNoApp = errors.New("application not initialized")

func requireApp() (*appContext, error) {
	if app == nil {
		return nil, errNoApp
	}
	return app, nil
}
