// Read-only views exposed to display and export collaborators. All returned
// data is copied; callers can never mutate engine state through a view.

package sim

import (
	"fmt"
	"sort"
)

// Processes returns a copy of every process ever created in this run,
// ordered by pid.
func (s *Simulator) Processes() []Process {
	out := make([]Process, 0, len(s.table))
	for _, pid := range s.sortedPIDs() {
		out = append(out, s.copyOf(s.table[pid]))
	}
	return out
}

// Process returns a copy of the process identified by pid.
func (s *Simulator) Process(pid PID) (Process, error) {
	p, ok := s.table[pid]
	if !ok {
		return Process{}, fmt.Errorf("%w: pid %d", ErrNoSuchProcess, pid)
	}
	return s.copyOf(p), nil
}

// Tree returns the parent→children adjacency of the process table: the root
// pids (no live parent link) in ascending order, and each process's children
// sorted by pid. The core exports structure only; rendering belongs to the
// collaborators.
func (s *Simulator) Tree() (roots []PID, children map[PID][]PID) {
	children = make(map[PID][]PID, len(s.table))
	for _, pid := range s.sortedPIDs() {
		p := s.table[pid]
		if p.ParentPID == 0 {
			roots = append(roots, pid)
		}
		kids := make([]PID, len(p.Children))
		copy(kids, p.Children)
		sort.Slice(kids, func(i, j int) bool { return kids[i] < kids[j] })
		children[pid] = kids
	}
	return roots, children
}

// Events returns the retained event-log lines, oldest first.
func (s *Simulator) Events() []string {
	return s.events.Lines()
}

func (s *Simulator) copyOf(p *Process) Process {
	cp := *p
	cp.Children = make([]PID, len(p.Children))
	copy(cp.Children, p.Children)
	return cp
}
