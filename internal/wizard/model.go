package wizard

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).MarginTop(1)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

type eventMsg Event

type decisionMsg struct {
	report StepReport
	reply  chan<- Decision
}

type doneMsg struct {
	summary Summary
	err     error
}

type row struct {
	title   string
	state   string
	attempt int
	err     error
}

// model renders sequence progress and collects decisions at failed steps.
type model struct {
	spinner spinner.Model
	rows    []row
	current int
	pending *decisionMsg
	done    *doneMsg
	cancel  context.CancelFunc
}

func newModel(steps []Step, cancel context.CancelFunc) model {
	rows := make([]row, len(steps))
	for i, s := range steps {
		rows[i] = row{title: s.Title, state: "pending"}
	}
	return model{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		rows:    rows,
		current: -1,
		cancel:  cancel,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		i := msg.Report.Index
		if i < 0 || i >= len(m.rows) {
			return m, nil
		}
		m.current = i
		m.rows[i].attempt = msg.Attempt
		switch msg.Kind {
		case StepStarted:
			m.rows[i].state = "running"
			m.rows[i].err = nil
		case StepFinished:
			m.rows[i].state = msg.Report.Outcome.String()
			m.rows[i].err = msg.Report.Err
		}
		return m, nil

	case decisionMsg:
		m.pending = &msg
		return m, nil

	case doneMsg:
		m.done = &msg
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.answer(Abort)
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "y":
			m.answer(Proceed)
		case "r":
			if m.pending != nil && m.pending.report.CanRetry {
				m.answer(Retry)
			}
		case "n":
			m.answer(Abort)
		}
	}
	return m, nil
}

// answer replies to the pending decision, if any.
func (m *model) answer(d Decision) {
	if m.pending == nil {
		return
	}
	m.pending.reply <- d
	m.pending = nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Play Store release preparation"))
	b.WriteString("\n\n")

	for i, r := range m.rows {
		fmt.Fprintf(&b, "%s %d/%d %s", m.marker(r), i+1, len(m.rows), r.title)
		if r.attempt > 1 {
			fmt.Fprintf(&b, " (attempt %d)", r.attempt)
		}
		b.WriteString("\n")
		if r.err != nil {
			b.WriteString("      " + failStyle.Render(r.err.Error()) + "\n")
		}
	}

	if m.pending != nil {
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("%s failed.", m.pending.report.Title)))
		if m.pending.report.CanRetry {
			b.WriteString(helpStyle.Render("\ny: continue anyway  r: retry  n: abort"))
		} else {
			b.WriteString(helpStyle.Render("\ny: continue anyway  n: abort"))
		}
		b.WriteString("\n")
	}
	if m.done != nil {
		fmt.Fprintf(&b, "\n%d/%d steps succeeded in %s\n",
			m.done.summary.Succeeded(), len(m.rows), m.done.summary.Duration().Round(time.Millisecond))
	}
	return b.String()
}

func (m model) marker(r row) string {
	switch r.state {
	case "running":
		return m.spinner.View()
	case "succeeded":
		return okStyle.Render("✓")
	case "failed":
		return failStyle.Render("✗")
	case "skipped":
		return skipStyle.Render("-")
	default:
		return pendingStyle.Render("·")
	}
}

// promptDecider forwards decisions to the interactive program.
type promptDecider struct {
	send func(tea.Msg)
}

func (d promptDecider) Decide(ctx context.Context, report StepReport) (Decision, error) {
	reply := make(chan Decision, 1)
	d.send(decisionMsg{report: report, reply: reply})
	select {
	case decision := <-reply:
		return decision, nil
	case <-ctx.Done():
		return Abort, ctx.Err()
	}
}

// RunInteractive runs seq with a terminal UI reading keys from in and drawing
// to out. Failed steps are resolved by the user.
func RunInteractive(ctx context.Context, seq *Sequence, in io.Reader, out io.Writer) (Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(seq.Steps, cancel),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	run := *seq
	run.OnEvent = func(e Event) {
		if seq.OnEvent != nil {
			seq.OnEvent(e)
		}
		p.Send(eventMsg(e))
	}

	results := make(chan doneMsg, 1)
	go func() {
		summary, err := run.Run(ctx, promptDecider{send: p.Send})
		results <- doneMsg{summary: summary, err: err}
		p.Send(doneMsg{summary: summary, err: err})
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		cancel()
		<-results
		return Summary{}, fmt.Errorf("running interface: %w", err)
	}
	cancel()
	res := <-results
	return res.summary, res.err
}
