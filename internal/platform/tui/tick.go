// Package tui provides the Bubble Tea front end: the level picker, the play
// session and the SSH server hosting both.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StepMsg asks the play session to auto-advance one Skip turn.
// Gen ties the message to the schedule that produced it; a step scheduled
// before the player acted is stale and ignored.
type StepMsg struct {
	Gen int
}

// stepCmd returns a Bubble Tea command that sends one StepMsg after delay.
func stepCmd(delay time.Duration, gen int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return StepMsg{Gen: gen}
	})
}
