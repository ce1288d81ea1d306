// Tracks simulation-wide performance metrics derived from the process table
// and the tick counters.

package sim

import "fmt"

// Snapshot is a read-only view of the simulation's derived metrics, computed
// on demand from the process table and clock. It is what dashboards and
// exporters consume.
type Snapshot struct {
	CurrentTick     int
	TotalProcesses  int // all pids ever created in this run
	ContextSwitches int
	CPUBusyTicks    int
	IdleTicks       int

	// Per-state counts at the snapshot instant.
	NewProcesses        int
	ReadyProcesses      int
	RunningProcesses    int
	BlockedProcesses    int
	ActiveZombies       int
	TerminatedProcesses int

	// CPUUtilization is cpu-busy-ticks / current-tick, 0 before the first tick.
	CPUUtilization float64
	// AverageTurnaround is the mean creation-to-termination time over
	// TERMINATED processes, 0 when none have terminated.
	AverageTurnaround float64
	// AverageWaiting is the mean time TERMINATED processes spent neither
	// executing nor in I/O, 0 when none have terminated.
	AverageWaiting float64
}

// Snapshot computes the current metrics. Pure read, no mutation.
func (s *Simulator) Snapshot() Snapshot {
	snap := Snapshot{
		CurrentTick:     s.clock,
		TotalProcesses:  len(s.table),
		ContextSwitches: s.contextSwitches,
		CPUBusyTicks:    s.cpuBusyTicks,
		IdleTicks:       s.idleTicks,
	}
	if s.clock > 0 {
		snap.CPUUtilization = float64(s.cpuBusyTicks) / float64(s.clock)
	}

	turnaroundSum, waitingSum := 0, 0
	for _, p := range s.table {
		switch p.State {
		case StateNew:
			snap.NewProcesses++
		case StateReady:
			snap.ReadyProcesses++
		case StateRunning:
			snap.RunningProcesses++
		case StateBlocked:
			snap.BlockedProcesses++
		case StateZombie:
			snap.ActiveZombies++
		case StateTerminated:
			snap.TerminatedProcesses++
			if tat, ok := p.Turnaround(); ok {
				turnaroundSum += tat
			}
			if w, ok := p.Waiting(); ok {
				waitingSum += w
			}
		}
	}
	if snap.TerminatedProcesses > 0 {
		snap.AverageTurnaround = float64(turnaroundSum) / float64(snap.TerminatedProcesses)
		snap.AverageWaiting = float64(waitingSum) / float64(snap.TerminatedProcesses)
	}
	return snap
}

// Print displays the aggregated metrics, typically at the end of a headless run.
func (m Snapshot) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Ticks                : %d\n", m.CurrentTick)
	fmt.Printf("Total Processes      : %d\n", m.TotalProcesses)
	fmt.Printf("CPU Utilization      : %.2f%%\n", m.CPUUtilization*100)
	fmt.Printf("Context Switches     : %d\n", m.ContextSwitches)
	fmt.Printf("Active Zombies       : %d\n", m.ActiveZombies)
	fmt.Printf("Terminated           : %d\n", m.TerminatedProcesses)
	if m.TerminatedProcesses > 0 {
		fmt.Printf("Average Turnaround   : %.2f ticks\n", m.AverageTurnaround)
		fmt.Printf("Average Waiting      : %.2f ticks\n", m.AverageWaiting)
	}
}
