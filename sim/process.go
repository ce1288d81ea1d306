// Defines the Process struct that models a single simulated task.
// Tracks CPU demand, parent/child links, and the timestamps and counters
// the metrics layer derives turnaround and waiting time from.

package sim

import "fmt"

// PID identifies a process within one simulation run. Pids are assigned in
// monotonically increasing order starting at 1 and are never reused. The
// zero value means "no process".
type PID int

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	StateNew        ProcessState = "NEW"
	StateReady      ProcessState = "READY"
	StateRunning    ProcessState = "RUNNING"
	StateBlocked    ProcessState = "BLOCKED"
	StateZombie     ProcessState = "ZOMBIE"
	StateTerminated ProcessState = "TERMINATED"
)

// Process models a single process in the simulation.
// It is a value object mutated exclusively by the Simulator; the transition
// helpers below enforce the state machine but perform no scheduling.
type Process struct {
	PID  PID    // Unique identifier, immutable
	Name string // Display label, immutable

	State ProcessState

	TotalCPUTime     int // CPU ticks required to complete, fixed at creation
	RemainingCPUTime int // CPU ticks still needed; 0 triggers termination
	IORemaining      int // Ticks left in the current I/O burst; meaningful only while BLOCKED

	ParentPID PID   // Creating process, 0 for root processes
	Children  []PID // Pids created by this process, in creation order

	BlockedCount int // Cumulative count of BLOCKED entries
	PreemptCount int // Cumulative count of quantum-expiry preemptions

	CreationTick      int // Clock reading at creation
	FirstDispatchTick int // Clock reading at first dispatch; 0 = never dispatched
	TerminationTick   int // Clock reading when remaining CPU hit 0; set exactly once

	Reaped bool // True once the parent has collected this process via reap
}

// validFrom lists, per target state, the states a process may come from.
var validFrom = map[ProcessState][]ProcessState{
	StateReady:      {StateNew, StateRunning, StateBlocked},
	StateRunning:    {StateReady},
	StateBlocked:    {StateReady, StateRunning},
	StateZombie:     {StateNew, StateReady, StateRunning, StateBlocked},
	StateTerminated: {StateNew, StateReady, StateRunning, StateBlocked, StateZombie},
}

// setState moves the process to the target state, rejecting transitions the
// state machine does not permit. Terminal means terminal: nothing leaves
// TERMINATED, and ZOMBIE only leaves via reap (modelled as ZOMBIE → TERMINATED).
func (p *Process) setState(to ProcessState) error {
	for _, from := range validFrom[to] {
		if p.State == from {
			p.State = to
			return nil
		}
	}
	return fmt.Errorf("%w: pid %d cannot go %s -> %s", ErrInvalidTransition, p.PID, p.State, to)
}

// consumeCPU decrements the remaining CPU time by one tick, clamped at zero.
// Only a RUNNING process may consume CPU.
func (p *Process) consumeCPU() error {
	if p.State != StateRunning {
		return fmt.Errorf("%w: pid %d consumed CPU while %s", ErrInvalidTransition, p.PID, p.State)
	}
	if p.RemainingCPUTime > 0 {
		p.RemainingCPUTime--
	}
	return nil
}

// block moves the process to BLOCKED with the given I/O burst length and
// bumps the blocked counter.
func (p *Process) block(ioTicks int) error {
	if err := p.setState(StateBlocked); err != nil {
		return err
	}
	p.IORemaining = ioTicks
	p.BlockedCount++
	return nil
}

// Finished reports whether the process has ceased to execute, i.e. it is
// ZOMBIE or TERMINATED.
func (p *Process) Finished() bool {
	return p.State == StateZombie || p.State == StateTerminated
}

// Turnaround returns the ticks elapsed from creation to termination, and
// false if the process has not finished yet.
func (p *Process) Turnaround() (int, bool) {
	if !p.Finished() {
		return 0, false
	}
	return p.TerminationTick - p.CreationTick, true
}

// Waiting returns the ticks the process spent neither executing nor in I/O,
// approximated as turnaround minus total CPU demand, clamped at zero.
// False if the process has not finished yet.
func (p *Process) Waiting() (int, bool) {
	tat, ok := p.Turnaround()
	if !ok {
		return 0, false
	}
	w := tat - p.TotalCPUTime
	if w < 0 {
		w = 0
	}
	return w, true
}

// This method returns a human-readable string representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (PID: %d, Name: %s, State: %s, Remaining: %d/%d)",
		p.PID, p.Name, p.State, p.RemainingCPUTime, p.TotalCPUTime)
}
