package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/soksol/playprep/internal/output"
)

var (
	flagHistoryLimit int
	flagHistoryShow  string
)

func init() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List archived QA runs, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	historyCmd.Flags().StringVar(&flagHistoryShow, "show", "", "Print the archived report of the given run ID")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	fs := a.store()
	w := cmd.OutOrStdout()

	if flagHistoryShow != "" {
		report, err := fs.ReadReport(ctx, flagHistoryShow)
		if err != nil {
			return fmt.Errorf("reading archived report %s: %w", flagHistoryShow, err)
		}
		_, err = w.Write(report)
		return err
	}

	entries, err := fs.History(ctx, flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No archived QA runs.")
		return nil
	}

	tty := output.IsTerminal(w)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "VERDICT", "PASSED", "WARNINGS", "ERRORS", "CRITICAL")
	for _, e := range entries {
		if e.Verdict == nil {
			t.Row(e.ID, "?", "-", "-", "-", "-")
			continue
		}
		c := e.Verdict.Counts
		verdict := e.Verdict.Decision.String()
		if tty {
			verdict = output.VerdictBadge(e.Verdict.Decision)
		}
		t.Row(e.ID, verdict,
			strconv.Itoa(c.Passed), strconv.Itoa(c.Warnings),
			strconv.Itoa(c.Errors), strconv.Itoa(c.Critical))
	}
	_, err = fmt.Fprintln(w, t.Render())
	return err
}
