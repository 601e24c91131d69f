package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/facescan/internal/timeline"
)

// timerFiredMsg delivers a timeline task back to the update loop.
type timerFiredMsg struct {
	id uint64
}

// scanFrameMsg advances the scan bar animation.
type scanFrameMsg struct{}

const scanFrameInterval = 80 * time.Millisecond

// timerCmds turns tasks scheduled since the last call into tea.Tick commands.
// Every callback then runs inside Update, on Bubble Tea's goroutine.
func timerCmds(tl *timeline.Timeline) tea.Cmd {
	scheduled := tl.Drain()
	if len(scheduled) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(scheduled))
	for _, s := range scheduled {
		id := s.ID
		cmds = append(cmds, tea.Tick(s.Delay, func(time.Time) tea.Msg {
			return timerFiredMsg{id: id}
		}))
	}
	return tea.Batch(cmds...)
}

func scanFrameCmd() tea.Cmd {
	return tea.Tick(scanFrameInterval, func(time.Time) tea.Msg {
		return scanFrameMsg{}
	})
}
