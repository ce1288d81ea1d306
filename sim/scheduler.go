// Implements the round-robin ready queue. The scheduler holds only an
// ordering of pids currently READY plus the identity of the RUNNING pid;
// process data lives in the Simulator's table.

package sim

import "fmt"

// RoundRobin maintains the FIFO ready queue and the quantum counter for the
// current dispatch slice. Arrival order into READY strictly determines
// dispatch order; there is no priority or aging.
type RoundRobin struct {
	quantum     int
	ready       []PID
	running     PID // 0 when the CPU is idle
	quantumLeft int // ticks remaining in the current dispatch slice
}

// NewRoundRobin creates a scheduler with the given quantum. The quantum must
// have been validated by Config.Validate.
func NewRoundRobin(quantum int) *RoundRobin {
	return &RoundRobin{quantum: quantum}
}

// Enqueue appends pid to the tail of the ready queue. A pid that is already
// queued or currently running is rejected.
func (rr *RoundRobin) Enqueue(pid PID) error {
	if rr.running == pid {
		return fmt.Errorf("%w: pid %d is already running", ErrInvalidTransition, pid)
	}
	for _, q := range rr.ready {
		if q == pid {
			return fmt.Errorf("%w: pid %d is already queued", ErrInvalidTransition, pid)
		}
	}
	rr.ready = append(rr.ready, pid)
	return nil
}

// DispatchNext removes and returns the head of the ready queue, making it the
// running pid and resetting the quantum counter. Returns false if nothing is
// runnable (CPU idle) or a process is already running.
func (rr *RoundRobin) DispatchNext() (PID, bool) {
	if rr.running != 0 || len(rr.ready) == 0 {
		return 0, false
	}
	rr.running = rr.ready[0]
	rr.ready = rr.ready[1:]
	rr.quantumLeft = rr.quantum
	return rr.running, true
}

// PreemptCurrent moves the running pid to the tail of the ready queue and
// clears the running slot. Used when the quantum expires but the process
// still needs CPU.
func (rr *RoundRobin) PreemptCurrent() {
	if rr.running == 0 {
		return
	}
	rr.ready = append(rr.ready, rr.running)
	rr.running = 0
	rr.quantumLeft = 0
}

// RemoveCurrent clears the running slot without re-enqueuing. Used when the
// running process blocks or terminates.
func (rr *RoundRobin) RemoveCurrent() {
	rr.running = 0
	rr.quantumLeft = 0
}

// Remove drops pid from the ready queue if present, preserving the order of
// the remaining entries. Reports whether pid was queued.
func (rr *RoundRobin) Remove(pid PID) bool {
	for i, q := range rr.ready {
		if q == pid {
			rr.ready = append(rr.ready[:i], rr.ready[i+1:]...)
			return true
		}
	}
	return false
}

// TickQuantum consumes one tick of the current dispatch slice and reports
// whether the quantum has expired.
func (rr *RoundRobin) TickQuantum() bool {
	if rr.running == 0 {
		return false
	}
	if rr.quantumLeft > 0 {
		rr.quantumLeft--
	}
	return rr.quantumLeft == 0
}

// Running returns the running pid, or 0 when the CPU is idle.
func (rr *RoundRobin) Running() PID {
	return rr.running
}

// QuantumLeft returns the ticks remaining in the current dispatch slice.
func (rr *RoundRobin) QuantumLeft() int {
	return rr.quantumLeft
}

// Queued returns a copy of the ready queue in dispatch order.
func (rr *RoundRobin) Queued() []PID {
	out := make([]PID, len(rr.ready))
	copy(out, rr.ready)
	return out
}

// Len returns the number of pids waiting in the ready queue.
func (rr *RoundRobin) Len() int {
	return len(rr.ready)
}

// reset empties the queue and the running slot, keeping the quantum.
func (rr *RoundRobin) reset() {
	rr.ready = nil
	rr.running = 0
	rr.quantumLeft = 0
}
