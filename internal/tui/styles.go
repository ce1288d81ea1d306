package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/procsim/procsim/sim"
)

// Colors
var (
	runningColor    = lipgloss.Color("10")  // Green
	readyColor      = lipgloss.Color("14")  // Cyan
	blockedColor    = lipgloss.Color("11")  // Yellow
	zombieColor     = lipgloss.Color("13")  // Magenta
	terminatedColor = lipgloss.Color("8")   // Gray
	newColor        = lipgloss.Color("12")  // Blue
	errorColor      = lipgloss.Color("9")   // Red
	headerBg        = lipgloss.Color("235")
	dimColor        = lipgloss.Color("8")
)

// Styles
var (
	runningStyle    = lipgloss.NewStyle().Foreground(runningColor).Bold(true)
	readyStyle      = lipgloss.NewStyle().Foreground(readyColor)
	blockedStyle    = lipgloss.NewStyle().Foreground(blockedColor)
	zombieStyle     = lipgloss.NewStyle().Foreground(zombieColor).Bold(true)
	terminatedStyle = lipgloss.NewStyle().Foreground(terminatedColor)
	newStyle        = lipgloss.NewStyle().Foreground(newColor)
	defaultStyle    = lipgloss.NewStyle()

	headerStyle = lipgloss.NewStyle().Background(headerBg).Padding(0, 1).Bold(true)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(dimColor)
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// stateStyle returns the style for a process state.
func stateStyle(state sim.ProcessState) lipgloss.Style {
	switch state {
	case sim.StateRunning:
		return runningStyle
	case sim.StateReady:
		return readyStyle
	case sim.StateBlocked:
		return blockedStyle
	case sim.StateZombie:
		return zombieStyle
	case sim.StateTerminated:
		return terminatedStyle
	case sim.StateNew:
		return newStyle
	default:
		return defaultStyle
	}
}
