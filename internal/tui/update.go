package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.eventView.Width = msg.Width
		m.eventView.Height = eventPaneHeight(msg.Height)
		m.ready = true
		m.refresh()
	}

	m.eventView, cmd = m.eventView.Update(msg)
	cmds = append(cmds, cmd)
	if m.mode == ModeNewBurst || m.mode == ModeChildBurst {
		m.burstIn, cmd = m.burstIn.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeHelp:
		m.mode = ModeNormal
		return m, nil
	case ModeTree:
		if msg.String() == "q" || msg.String() == "esc" || msg.String() == "tab" {
			m.mode = ModeNormal
		}
		return m, nil
	case ModeNewBurst, ModeChildBurst:
		return m.handleBurstKey(msg)
	}
	return m.handleNormalKey(msg)
}

// handleBurstKey reads the CPU-burst value typed for a create action.
func (m Model) handleBurstKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.burstIn.Reset()
		return m, nil
	case "enter":
		burst, err := strconv.Atoi(strings.TrimSpace(m.burstIn.Value()))
		if err != nil {
			m.lastErr = err
			m.mode = ModeNormal
			m.burstIn.Reset()
			return m, nil
		}
		if m.mode == ModeChildBurst {
			if p, ok := m.selected(); ok {
				_, m.lastErr = m.sim.CreateChild(p.PID, "", burst)
				m.lastAction = "create child"
			}
		} else {
			_, m.lastErr = m.sim.CreateProcess("", burst)
			m.lastAction = "create process"
		}
		m.mode = ModeNormal
		m.burstIn.Reset()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.burstIn, cmd = m.burstIn.Update(msg)
	return m, cmd
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastErr = nil
	m.lastAction = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.mode = ModeHelp

	case "tab":
		m.mode = ModeTree

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.processes)-1 {
			m.cursor++
		}

	case " ":
		m.lastErr = m.sim.Tick()
		m.lastAction = "tick"
		m.refresh()

	case "t":
		m.lastErr = m.sim.RunTicks(10)
		m.lastAction = "run 10 ticks"
		m.refresh()

	case "n":
		m.mode = ModeNewBurst
		m.burstIn.Focus()

	case "c":
		if _, ok := m.selected(); ok {
			m.mode = ModeChildBurst
			m.burstIn.Focus()
		}

	case "p":
		if p, ok := m.selected(); ok {
			m.lastErr = m.sim.Promote(p.PID)
			m.lastAction = "promote"
			m.refresh()
		}

	case "P":
		moved := m.sim.PromoteAll()
		m.lastAction = "promote all (" + strconv.Itoa(moved) + ")"
		m.refresh()

	case "b":
		if p, ok := m.selected(); ok {
			m.lastErr = m.sim.ForceBlock(p.PID)
			m.lastAction = "block"
			m.refresh()
		}

	case "x":
		if p, ok := m.selected(); ok {
			m.lastErr = m.sim.ForceTerminate(p.PID)
			m.lastAction = "terminate"
			m.refresh()
		}

	case "r":
		if p, ok := m.selected(); ok {
			m.lastErr = m.sim.Reap(p.ParentPID, p.PID)
			m.lastAction = "reap"
			m.refresh()
		}

	case "R":
		m.sim.Reset()
		m.lastAction = "reset"
		m.refresh()
	}

	return m, nil
}
