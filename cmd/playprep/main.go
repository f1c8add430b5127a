package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagRoot    string
	flagQuiet   bool
	flagVerbose bool
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:               "playprep",
	Short:             "Play Store release preparation and QA for the SokSol app",
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "playprep %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built at: %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "Project root (default: $PLAYPREP_ROOT or the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log progress information")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log debug information")

	rootCmd.AddCommand(versionCmd)
}

// exitError carries a non-fatal exit status, such as a QA verdict, out of RunE.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// exitCode maps the error returned by a command to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func main() {
	ctx := context.Background()
	err := rootCmd.ExecuteContext(ctx)
	teardownApp(ctx)
	code := exitCode(err)
	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(code)
}
