package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/procsim/procsim/sim"
)

// Run starts the TUI around the given simulator and blocks until it exits.
func Run(s *sim.Simulator) error {
	p := tea.NewProgram(NewModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
