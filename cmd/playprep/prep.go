package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/soksol/playprep/internal/execx"
	"github.com/soksol/playprep/internal/prep"
	"github.com/soksol/playprep/internal/qa"
)

var (
	prepTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	prepOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))
	prepFailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	prepMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func init() {
	prepCmd := &cobra.Command{
		Use:   "prep [env|structure|mobile|store|security|checklist]",
		Short: "Run the release readiness checks",
		Long: `Check the local tooling, the project structure, the gradle and manifest
settings and the store listing, then write the release checklist.
With a step name, run only that step.

Exit status: 0 when every check passed, 2 otherwise, 1 on fatal errors.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{prep.StepEnvironment, prep.StepStructure, prep.StepMobile, prep.StepStore, prep.StepSecurity, prep.StepChecklist},
		RunE:      runPrep,
	}
	rootCmd.AddCommand(prepCmd)
}

func (a *appContext) newChecker(runner execx.Runner) *prep.Checker {
	c := prep.NewChecker(a.Root, a.Config, a.Env, runner)
	c.Now = a.Now
	c.Logger = a.Logger
	return c
}

func runPrep(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	checker := a.newChecker(execx.OSRunner{Dir: a.Root})
	w := cmd.OutOrStdout()

	var summary prep.Summary
	if len(args) == 1 {
		res, err := checker.RunStep(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		summary.Results = []prep.Result{res}
	} else {
		summary = checker.Run(cmd.Context())
	}

	printPrep(w, summary)
	if !summary.Passed() {
		return &exitError{code: qa.ExitCaution}
	}
	return nil
}

func printPrep(w io.Writer, summary prep.Summary) {
	for _, res := range summary.Results {
		fmt.Fprintln(w, prepTitleStyle.Render(res.Title))
		for _, it := range res.Items {
			mark := prepOKStyle.Render("✓")
			if !it.OK {
				mark = prepFailStyle.Render("✗")
			}
			line := fmt.Sprintf("  %s %s", mark, it.Name)
			if it.Detail != "" {
				line += " " + prepMutedStyle.Render("("+it.Detail+")")
			}
			fmt.Fprintln(w, line)
		}
		if res.Err != nil {
			fmt.Fprintf(w, "  %s %s\n", prepFailStyle.Render("✗"), res.Err)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d/%d checks passed\n", summary.PassedCount(), len(summary.Results))
}
