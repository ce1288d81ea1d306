package tui

import (
	"fmt"
	"strings"

	"github.com/procsim/procsim/sim"
)

// eventPaneHeight reserves the lower part of the screen for the event log.
func eventPaneHeight(total int) int {
	h := total / 4
	if h < 3 {
		h = 3
	}
	return h
}

func eventContent(lines []string) string {
	return strings.Join(lines, "\n")
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.helpView()
	case ModeTree:
		return m.treeView()
	default:
		return m.mainView()
	}
}

func (m Model) mainView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf(
		"procsim  tick %d  cpu %.0f%%  switches %d  zombies %d",
		m.metrics.CurrentTick, m.metrics.CPUUtilization*100,
		m.metrics.ContextSwitches, m.metrics.ActiveZombies)))
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-5s %-12s %-11s %-9s %-5s %-5s %-5s %-7s", "PID", "NAME", "STATE", "CPU", "IO", "BLK", "PRE", "PARENT")))
	b.WriteString("\n")
	for i, p := range m.processes {
		line := fmt.Sprintf("  %-5d %-12s %-11s %4d/%-4d %-5d %-5d %-5d %-7d",
			p.PID, p.Name, p.State, p.TotalCPUTime-p.RemainingCPUTime, p.TotalCPUTime,
			p.IORemaining, p.BlockedCount, p.PreemptCount, p.ParentPID)
		styled := stateStyle(p.State).Render(line)
		if i == m.cursor {
			styled = cursorStyle.Render(line)
		}
		b.WriteString(styled)
		b.WriteString("\n")
	}
	if len(m.processes) == 0 {
		b.WriteString(dimStyle.Render("  (no processes; press n to create one)"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.mode == ModeNewBurst || m.mode == ModeChildBurst {
		b.WriteString("CPU burst: " + m.burstIn.View())
		b.WriteString("\n")
	}

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render(truncate(m.lastErr.Error(), 70)))
		b.WriteString("\n")
	} else if m.lastAction != "" {
		b.WriteString(dimStyle.Render(m.lastAction))
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.Render("Events"))
	b.WriteString("\n")
	b.WriteString(m.eventView.View())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("space tick · t x10 · n new · c child · p promote · b block · x kill · r reap · tab tree · ? help · q quit"))
	return b.String()
}

func (m Model) helpView() string {
	help := [][2]string{
		{"space", "advance one tick"},
		{"t", "advance ten ticks"},
		{"n", "create process (prompts for CPU burst)"},
		{"c", "create child of selection"},
		{"p", "promote selection NEW -> READY"},
		{"P", "promote all NEW processes"},
		{"b", "force-block selection"},
		{"x", "force-terminate selection"},
		{"r", "reap selected zombie"},
		{"R", "reset the simulation"},
		{"tab", "process tree view"},
		{"up/down", "move selection"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("procsim - key bindings"))
	b.WriteString("\n\n")
	for _, h := range help {
		b.WriteString(fmt.Sprintf("  %-9s %s\n", h[0], h[1]))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("press any key to return"))
	return b.String()
}

// treeView renders the parent/child hierarchy as an ASCII tree from the
// core's adjacency view.
func (m Model) treeView() string {
	byPID := make(map[sim.PID]sim.Process, len(m.processes))
	for _, p := range m.processes {
		byPID[p.PID] = p
	}
	roots, children := m.sim.Tree()

	var b strings.Builder
	b.WriteString(titleStyle.Render("process tree"))
	b.WriteString("\n\n")
	for _, root := range roots {
		renderSubtree(&b, root, "", "", byPID, children)
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab/esc to return"))
	return b.String()
}

func renderSubtree(b *strings.Builder, pid sim.PID, linePrefix, childPrefix string, byPID map[sim.PID]sim.Process, children map[sim.PID][]sim.PID) {
	p, ok := byPID[pid]
	if !ok {
		return
	}
	label := fmt.Sprintf("%s (PID %d, %s)", p.Name, p.PID, p.State)
	b.WriteString(linePrefix)
	b.WriteString(stateStyle(p.State).Render(label))
	b.WriteString("\n")
	kids := children[pid]
	for i, kid := range kids {
		if i == len(kids)-1 {
			renderSubtree(b, kid, childPrefix+"└── ", childPrefix+"    ", byPID, children)
		} else {
			renderSubtree(b, kid, childPrefix+"├── ", childPrefix+"│   ", byPID, children)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
