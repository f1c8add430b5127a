package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// PrettyFormatter renders the markdown report through glamour for
// interactive terminals, topped with a colored verdict badge.
type PrettyFormatter struct {
	// Style is a glamour standard style name. Empty selects one from the terminal.
	Style string
	// Width is the word wrap width. Zero means 100 columns.
	Width int
}

func (f *PrettyFormatter) renderer() (*glamour.TermRenderer, error) {
	width := f.Width
	if width <= 0 {
		width = 100
	}
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	}
	if f.Style != "" {
		opts = append(opts, glamour.WithStandardStyle(f.Style))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	return glamour.NewTermRenderer(opts...)
}

func (f *PrettyFormatter) Format(out *Output) ([]byte, error) {
	md, err := (&MarkdownFormatter{}).Format(out)
	if err != nil {
		return nil, err
	}
	r, err := f.renderer()
	if err != nil {
		return nil, fmt.Errorf("pretty formatter: %w", err)
	}
	rendered, err := r.Render(string(md))
	if err != nil {
		return nil, fmt.Errorf("pretty formatter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(VerdictBadge(out.Report.Verdict))
	sb.WriteString("\n")
	sb.WriteString(strings.TrimRight(rendered, "\n"))
	sb.WriteString("\n")
	return []byte(sb.String()), nil
}
