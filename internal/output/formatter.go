// Package output renders QA results for the terminal, for files and for
// machines, and configures the process logger.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/soksol/playprep/internal/qa"
	"github.com/soksol/playprep/internal/sarif"
)

// Formatter renders a QA run into a byte slice in a specific format.
type Formatter interface {
	Format(out *Output) ([]byte, error)
}

// Output bundles one QA run with its derived report and SARIF log.
type Output struct {
	Result *qa.Result
	Report *qa.Report
	SARIF  *sarif.Log
}

// NewOutput derives the report and SARIF log for a QA result.
func NewOutput(res *qa.Result, version string, generatedAt time.Time) *Output {
	return &Output{
		Result: res,
		Report: qa.BuildReport(res, generatedAt),
		SARIF:  sarif.FromResult(res, version),
	}
}

func (o *Output) validate(name string) error {
	if o == nil || o.Report == nil {
		return fmt.Errorf("%s formatter: report is required", name)
	}
	return nil
}

// Formats lists the supported format names.
var Formats = []string{"pretty", "text", "markdown", "json", "sarif"}

// ResolveFormat determines the output format to use. If flagValue is non-empty,
// it is returned directly. Otherwise, "pretty" is returned for TTY output and
// "markdown" for non-TTY (piped) output.
func ResolveFormat(flagValue string, stdoutIsTTY bool) string {
	if flagValue != "" {
		return flagValue
	}
	if stdoutIsTTY {
		return "pretty"
	}
	return "markdown"
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewFormatter returns a Formatter for the given format name.
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "json":
		return &JSONFormatter{}, nil
	case "sarif":
		return &SARIFFormatter{}, nil
	case "markdown":
		return &MarkdownFormatter{}, nil
	case "text":
		return &TextFormatter{}, nil
	case "pretty":
		return &PrettyFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %q (supported: pretty, text, markdown, json, sarif)", format)
	}
}
