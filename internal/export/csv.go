// Package export writes simulation state to CSV files. It operates purely on
// the core's snapshot and enumeration views; the engine knows nothing about
// file formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/procsim/procsim/sim"
)

var processHeader = []string{
	"pid", "name", "state", "total_cpu_time", "remaining_cpu_time",
	"io_remaining", "parent_pid", "blocked_count", "preempt_count",
	"creation_tick", "termination_tick",
}

// WriteProcesses writes one row per process, in pid order.
func WriteProcesses(w io.Writer, procs []sim.Process) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(processHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range procs {
		row := []string{
			strconv.Itoa(int(p.PID)),
			p.Name,
			string(p.State),
			strconv.Itoa(p.TotalCPUTime),
			strconv.Itoa(p.RemainingCPUTime),
			strconv.Itoa(p.IORemaining),
			strconv.Itoa(int(p.ParentPID)),
			strconv.Itoa(p.BlockedCount),
			strconv.Itoa(p.PreemptCount),
			strconv.Itoa(p.CreationTick),
			strconv.Itoa(p.TerminationTick),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write pid %d: %w", p.PID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMetrics writes the metrics snapshot as metric,value rows.
func WriteMetrics(w io.Writer, m sim.Snapshot) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"metric", "value"},
		{"current_tick", strconv.Itoa(m.CurrentTick)},
		{"total_processes", strconv.Itoa(m.TotalProcesses)},
		{"cpu_utilization", strconv.FormatFloat(m.CPUUtilization, 'f', 4, 64)},
		{"cpu_busy_ticks", strconv.Itoa(m.CPUBusyTicks)},
		{"idle_ticks", strconv.Itoa(m.IdleTicks)},
		{"context_switches", strconv.Itoa(m.ContextSwitches)},
		{"active_zombies", strconv.Itoa(m.ActiveZombies)},
		{"terminated_processes", strconv.Itoa(m.TerminatedProcesses)},
		{"average_turnaround", strconv.FormatFloat(m.AverageTurnaround, 'f', 4, 64)},
		{"average_waiting", strconv.FormatFloat(m.AverageWaiting, 'f', 4, 64)},
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write metric row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ProcessesToFile writes the process table to path, creating or truncating it.
func ProcessesToFile(path string, procs []sim.Process) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteProcesses(f, procs)
}

// MetricsToFile writes the metrics snapshot to path, creating or truncating it.
func MetricsToFile(path string, m sim.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteMetrics(f, m)
}
