package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SayVega/linkchecker/checker"
	"github.com/SayVega/linkchecker/result"
)

// CheckProgressMsg reports progress for a single validated link.
type CheckProgressMsg struct {
	Checked int
	Broken  int
	Total   int
	URL     string
}

// CheckDoneMsg signals the run has completed.
type CheckDoneMsg struct {
	Result *result.Result
	Err    error
}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel. A closed channel yields nil, which Bubble Tea ignores; the final
// result always arrives through startCheck.
func waitForProgress(ch <-chan checker.CheckEvent) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return CheckProgressMsg{
			Checked: evt.Checked,
			Broken:  evt.Broken,
			Total:   evt.Total,
			URL:     evt.URL,
		}
	}
}
