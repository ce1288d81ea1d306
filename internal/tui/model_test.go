package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procsim/procsim/sim"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.AutoCreate = false
	cfg.BlockProbability = 0
	s, err := sim.NewSimulator(cfg)
	require.NoError(t, err)
	m := NewModel(s)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m
}

func TestModel_SpaceAdvancesOneTick(t *testing.T) {
	m := newTestModel(t)

	m = press(m, " ")

	assert.Equal(t, 1, m.metrics.CurrentTick)
}

func TestModel_TRunsTenTicks(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "t")

	assert.Equal(t, 10, m.metrics.CurrentTick)
}

func TestModel_CreateProcessThroughBurstPrompt(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "n")
	require.Equal(t, ModeNewBurst, m.mode)

	m = press(m, "7")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	require.Len(t, m.processes, 1)
	assert.Equal(t, sim.StateNew, m.processes[0].State)
	assert.Equal(t, 7, m.processes[0].TotalCPUTime)
	assert.Equal(t, ModeNormal, m.mode)
}

func TestModel_PromoteSelection(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "n", "5")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	m = press(m, "p")

	require.Len(t, m.processes, 1)
	assert.Equal(t, sim.StateReady, m.processes[0].State)
	assert.NoError(t, m.lastErr)
}

func TestModel_ReapNonZombie_SurfacesError(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "n", "5")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	m = press(m, "r")

	assert.Error(t, m.lastErr)
	assert.Contains(t, m.View(), "no such process")
}

func TestModel_HelpToggles(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "?")
	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "key bindings")

	m = press(m, "q") // any key returns
	assert.Equal(t, ModeNormal, m.mode)
}

func TestModel_TreeViewRendersHierarchy(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "n", "5")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	m = press(m, "c", "3")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	m = press(m, "tab")
	require.Equal(t, ModeTree, m.mode)
	view := m.View()
	assert.Contains(t, view, "P1")
	assert.Contains(t, view, "└── ")
}

func TestModel_QuitReturnsQuitCmd(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
