// Package tui is the interactive terminal front end of the simulator. It
// renders the process table, metrics, tree, and event log, and drives the
// engine exclusively through its public action API.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/procsim/procsim/sim"
)

// Mode represents the current TUI mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeHelp
	ModeTree
	// ModeNewBurst and ModeChildBurst read a CPU-burst value from the text
	// input before creating a root process or a child of the selection.
	ModeNewBurst
	ModeChildBurst
)

// Model is the bubbletea model for the TUI.
type Model struct {
	sim *sim.Simulator

	// Snapshots refreshed after every engine mutation.
	processes []sim.Process
	metrics   sim.Snapshot

	cursor int
	mode   Mode

	// UI components
	eventView viewport.Model
	burstIn   textinput.Model

	lastErr    error
	lastAction string

	width  int
	height int
	ready  bool
}

// NewModel creates a TUI model around a simulator instance.
func NewModel(s *sim.Simulator) Model {
	ti := textinput.New()
	ti.Placeholder = "cpu ticks"
	ti.CharLimit = 5
	ti.Width = 10

	m := Model{
		sim:     s,
		burstIn: ti,
	}
	m.refresh()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// refresh re-reads the engine views after a mutation.
func (m *Model) refresh() {
	m.processes = m.sim.Processes()
	m.metrics = m.sim.Snapshot()
	if m.cursor >= len(m.processes) {
		m.cursor = len(m.processes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.eventView.SetContent(eventContent(m.sim.Events()))
	m.eventView.GotoBottom()
}

// selected returns the process under the cursor, if any.
func (m *Model) selected() (sim.Process, bool) {
	if len(m.processes) == 0 || m.cursor >= len(m.processes) {
		return sim.Process{}, false
	}
	return m.processes[m.cursor], true
}
