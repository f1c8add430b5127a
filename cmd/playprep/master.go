package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soksol/playprep/internal/device"
	"github.com/soksol/playprep/internal/execx"
	"github.com/soksol/playprep/internal/output"
	"github.com/soksol/playprep/internal/prep"
	"github.com/soksol/playprep/internal/qa"
	"github.com/soksol/playprep/internal/wizard"
)

var (
	flagMasterYes     bool
	flagMasterRetries int
)

func init() {
	masterCmd := &cobra.Command{
		Use:   "master",
		Short: "Walk through the full release preparation step by step",
		Long: `Run environment checks, project validation, icon generation, screenshot
capture, the release build, QA and the release checklist in order.
When a step fails you choose to continue, retry or abort. With --yes, or
when stdin is not a terminal, failed steps are passed over.

Exit status follows the QA verdict when QA ran: 0 READY, 2 CAUTION, 3 BLOCKED.`,
		Args: cobra.NoArgs,
		RunE: runMaster,
	}
	masterCmd.Flags().BoolVarP(&flagMasterYes, "yes", "y", false, "Run non-interactively and continue past failures")
	masterCmd.Flags().IntVar(&flagMasterRetries, "max-retries", 2, "Maximum reruns of a failed step")
	rootCmd.AddCommand(masterCmd)
}

// masterSteps builds the preparation sequence. The QA step stores its run in qaOut.
func (a *appContext) masterSteps(runner execx.Runner, qaOut **qaRun) []wizard.Step {
	checker := a.newChecker(runner)
	gen := a.newGenerator(runner)
	p := a.project()

	prepStep := func(names ...string) func(ctx context.Context) (wizard.Outcome, error) {
		return func(ctx context.Context) (wizard.Outcome, error) {
			var failed []string
			for _, name := range names {
				res, err := checker.RunStep(ctx, name)
				if err != nil {
					return wizard.Failed, err
				}
				if !res.Passed() {
					failed = append(failed, res.Title)
				}
			}
			if len(failed) > 0 {
				return wizard.Failed, fmt.Errorf("checks failed: %s", strings.Join(failed, ", "))
			}
			return wizard.Succeeded, nil
		}
	}

	return []wizard.Step{
		{
			Name:  "environment",
			Title: "Development environment",
			Run:   prepStep(prep.StepEnvironment),
		},
		{
			Name:  "validation",
			Title: "Project structure and configuration",
			Run:   prepStep(prep.StepStructure, prep.StepMobile, prep.StepStore, prep.StepSecurity),
		},
		{
			Name:  "icons",
			Title: "Launcher icons and feature graphic",
			Run: func(ctx context.Context) (wizard.Outcome, error) {
				if _, err := gen.GenerateIcons(ctx, p.ResDir, a.Config.QA.Icons); err != nil {
					return wizard.Failed, err
				}
				if err := gen.FeatureGraphic(p.FeatureGraphic); err != nil {
					return wizard.Failed, err
				}
				return wizard.Succeeded, nil
			},
		},
		{
			Name:  "screenshots",
			Title: "Screenshots",
			Run: func(ctx context.Context) (wizard.Outcome, error) {
				if !device.New(a.Env.ADB, runner).Available() {
					a.Logger.Info("adb not installed, capture screenshots manually", "dir", p.ScreenshotsDir)
					return wizard.Skipped, nil
				}
				_, err := a.captureScreenshot(ctx, runner, "", "master")
				if errors.Is(err, device.ErrNoDevice) {
					a.Logger.Info("no device connected, capture screenshots manually", "dir", p.ScreenshotsDir)
					return wizard.Skipped, nil
				}
				if err != nil {
					return wizard.Failed, err
				}
				return wizard.Succeeded, nil
			},
		},
		{
			Name:  "build",
			Title: "Release build",
			Run: func(ctx context.Context) (wizard.Outcome, error) {
				script := a.path(a.Config.Project.BuildScript)
				if _, err := os.Stat(script); err != nil {
					return wizard.Failed, fmt.Errorf("build script: %w", err)
				}
				if _, err := runner.Run(ctx, "bash", script); err != nil {
					return wizard.Failed, err
				}
				return wizard.Succeeded, nil
			},
		},
		{
			Name:  "qa",
			Title: "QA validation",
			Run: func(ctx context.Context) (wizard.Outcome, error) {
				run, err := a.runFullQA(ctx, true)
				if err != nil {
					return wizard.Failed, err
				}
				*qaOut = run
				if v := run.Output.Result.Verdict; v == qa.VerdictBlocked {
					return wizard.Failed, fmt.Errorf("%s: %s", v, v.Message())
				}
				return wizard.Succeeded, nil
			},
		},
		{
			Name:  "checklist",
			Title: "Release checklist",
			Run: func(ctx context.Context) (wizard.Outcome, error) {
				if _, err := checker.WriteChecklist(ctx); err != nil {
					return wizard.Failed, err
				}
				return wizard.Succeeded, nil
			},
		},
	}
}

func runMaster(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	interactive := !flagMasterYes && output.IsTerminal(os.Stdin) && output.IsTerminal(w)

	runner := execx.OSRunner{Dir: a.Root}
	if !interactive && flagVerbose {
		runner.Stream = cmd.ErrOrStderr()
	}

	var last *qaRun
	seq := wizard.NewSequence(a.masterSteps(runner, &last), flagMasterRetries)
	seq.Logger = a.Logger
	seq.Now = a.Now

	var summary wizard.Summary
	if interactive {
		summary, err = wizard.RunInteractive(ctx, seq, os.Stdin, w)
	} else {
		seq.OnEvent = progressPrinter(w)
		summary, err = seq.Run(ctx, wizard.AlwaysProceed)
	}

	printMasterSummary(w, summary, last, a.Config.Project.ChecklistPath)
	if err != nil {
		return err
	}
	if last != nil {
		return verdictError(last.Output.Result.Verdict)
	}
	return nil
}

func progressPrinter(w io.Writer) func(wizard.Event) {
	return func(e wizard.Event) {
		r := e.Report
		switch e.Kind {
		case wizard.StepStarted:
			fmt.Fprintf(w, "[%d/%d] %s\n", r.Index+1, e.Total, r.Title)
		case wizard.StepFinished:
			if r.Err != nil {
				fmt.Fprintf(w, "      %s: %v\n", r.Outcome, r.Err)
				return
			}
			fmt.Fprintf(w, "      %s\n", r.Outcome)
		}
	}
}

func printMasterSummary(w io.Writer, summary wizard.Summary, last *qaRun, checklist string) {
	fmt.Fprintf(w, "\n%d/%d steps succeeded, %d failed", summary.Succeeded(), len(summary.Steps), summary.Failed())
	if summary.Aborted {
		fmt.Fprint(w, " (aborted)")
	}
	fmt.Fprintln(w)
	if last != nil {
		fmt.Fprintf(w, "QA verdict: %s\n", last.Output.Result.Verdict)
	}
	if summary.Aborted || summary.Failed() > 0 {
		return
	}
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintf(w, "  1. Review %s\n", checklist)
	fmt.Fprintln(w, "  2. Upload the release bundle in the Google Play Console")
	fmt.Fprintln(w, "  3. Publish to internal testing before production")
}
