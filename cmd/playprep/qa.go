package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soksol/playprep/internal/output"
	"github.com/soksol/playprep/internal/qa"
)

var (
	flagQAFormat    string
	flagQANoArchive bool
)

func init() {
	qaCmd := &cobra.Command{
		Use:   "qa [check]",
		Short: "Validate the project against the Play Store release checks",
		Long: `Run every QA check, write the markdown report and archive the run.
With a check name, run only that check and print its findings without
writing a report.

Exit status: 0 READY, 2 CAUTION, 3 BLOCKED, 1 on fatal errors.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: qa.CheckNames,
		RunE:      runQA,
	}
	qaCmd.Flags().StringVarP(&flagQAFormat, "format", "f", "", "Output format: pretty, text, markdown, json, sarif (default: pretty on a terminal, markdown otherwise)")
	qaCmd.Flags().BoolVar(&flagQANoArchive, "no-archive", false, "Do not archive the run in the results directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List QA checks in run order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireApp()
			if err != nil {
				return err
			}
			engine, err := a.newEngine()
			if err != nil {
				return err
			}
			for _, name := range engine.Checks() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	qaCmd.AddCommand(listCmd)

	rootCmd.AddCommand(qaCmd)
}

func runQA(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	formatter, err := output.NewFormatter(output.ResolveFormat(flagQAFormat, output.IsTerminal(w)))
	if err != nil {
		return err
	}

	var out *output.Output
	if len(args) == 1 {
		engine, err := a.newEngine()
		if err != nil {
			return err
		}
		res, err := engine.RunSingle(ctx, args[0])
		if errors.Is(err, qa.ErrUnknownCheck) {
			return fmt.Errorf("%w (run 'playprep qa list' for the available checks)", err)
		}
		if err != nil {
			return err
		}
		out = output.NewOutput(res, version, a.Now())
	} else {
		run, err := a.runFullQA(ctx, !flagQANoArchive)
		if err != nil {
			return err
		}
		out = run.Output
		a.Logger.Info("qa complete", "report", run.ReportPath, "archive", run.ArchiveID)
	}

	data, err := formatter.Format(out)
	if err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return verdictError(out.Result.Verdict)
}
