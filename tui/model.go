// Package tui provides the Bubble Tea terminal UI for linkchecker,
// displaying live validation progress and a styled summary of results.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SayVega/linkchecker/checker"
	"github.com/SayVega/linkchecker/result"
)

const maxProgressWidth = 60

// Model is the Bubble Tea model for the link check TUI.
type Model struct {
	ctx             context.Context
	cancel          context.CancelFunc
	checkerInstance *checker.Checker
	links           []result.Link
	spinner         spinner.Model
	progress        progress.Model
	progressCh      <-chan checker.CheckEvent

	checked     int
	broken      int
	total       int
	current     string
	interrupted bool
	done        bool
	result      *result.Result
	err         error
}

// NewModel creates a TUI model that validates links with the given checker
// and listens for its progress events.
func NewModel(ctx context.Context, cancel context.CancelFunc, c *checker.Checker, links []result.Link, progressCh <-chan checker.CheckEvent) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:             ctx,
		cancel:          cancel,
		checkerInstance: c,
		links:           links,
		spinner:         spin,
		progress:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		progressCh:      progressCh,
		total:           len(links),
	}
}

// Init starts the spinner, the check run, and the progress listener concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startCheck(), waitForProgress(m.progressCh))
}

// startCheck returns a tea.Cmd that runs the checker and sends CheckDoneMsg.
func (m Model) startCheck() tea.Cmd {
	return func() tea.Msg {
		res, err := m.checkerInstance.Run(m.ctx, m.links)
		if err != nil {
			err = fmt.Errorf("check links: %w", err)
		}
		return CheckDoneMsg{Result: res, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.interrupted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.progress.Width = max(10, min(msg.Width-4, maxProgressWidth))

	case CheckProgressMsg:
		m.checked = msg.Checked
		m.broken = msg.Broken
		m.total = msg.Total
		m.current = msg.URL
		return m, waitForProgress(m.progressCh)

	case CheckDoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.result != nil {
		return RenderSummary(m.result)
	}
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.interrupted {
		return dimStyle.Render("Interrupted.") + "\n"
	}

	view := fmt.Sprintf("%s Checking links... %d/%d done, %d broken\n",
		m.spinner.View(), m.checked, m.total, m.broken)
	if m.total > 0 {
		view += "  " + m.progress.ViewAs(float64(m.checked)/float64(m.total)) + "\n"
	}
	return view + dimStyle.Render("  "+m.current) + "\n"
}

// Interrupted reports whether the user quit before the run finished.
func (m Model) Interrupted() bool {
	return m.interrupted && !m.done
}

// GetResult returns the check result, or nil if the run did not finish.
func (m Model) GetResult() *result.Result {
	return m.result
}

// Err returns the error the run finished with, if any.
func (m Model) Err() error {
	return m.err
}
