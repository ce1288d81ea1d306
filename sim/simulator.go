// sim/simulator.go
package sim

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Simulator is the core object that owns the process table, the round-robin
// scheduler, the seeded arrival source, the simulation clock, and the
// metrics accumulators.
//
// Every public action validates its preconditions before mutating any state
// and fails atomically with one of the sentinel errors in errors.go; an
// invalid action never leaves the table or scheduler inconsistent.
type Simulator struct {
	cfg Config

	// Clock counts completed ticks; the first Tick executes at clock 1.
	clock   int
	nextPID PID

	table     map[PID]*Process
	scheduler *RoundRobin
	arrivals  *ArrivalSource

	cpuBusyTicks    int
	idleTicks       int
	contextSwitches int
	// ranLastTick is the pid that held the CPU during the previous tick,
	// 0 if the CPU was idle for the whole tick. Dispatching a pid that
	// differs from it records a context switch.
	ranLastTick PID

	events *EventLog
}

// NewSimulator creates a Simulator from cfg, validating it first.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		cfg:       cfg,
		nextPID:   1,
		table:     make(map[PID]*Process),
		scheduler: NewRoundRobin(cfg.Quantum),
		arrivals:  NewArrivalSource(cfg),
		events:    newEventLog(defaultEventLogCapacity),
	}, nil
}

// Config returns the configuration the Simulator was built with.
func (s *Simulator) Config() Config {
	return s.cfg
}

// Clock returns the number of completed ticks.
func (s *Simulator) Clock() int {
	return s.clock
}

// Running returns the pid currently holding the CPU, 0 when idle.
func (s *Simulator) Running() PID {
	return s.scheduler.Running()
}

// ReadyQueue returns the ready queue contents in dispatch order.
func (s *Simulator) ReadyQueue() []PID {
	return s.scheduler.Queued()
}

// CreateProcess inserts a new root process in NEW with the given CPU demand
// and returns its pid. An empty name defaults to "P<pid>".
func (s *Simulator) CreateProcess(name string, totalCPUTime int) (PID, error) {
	if totalCPUTime <= 0 {
		return 0, fmt.Errorf("%w: total CPU time must be positive, got %d", ErrInvalidConfiguration, totalCPUTime)
	}
	return s.insert(name, totalCPUTime, 0), nil
}

// CreateChild inserts a new process in NEW whose parent is parentPID and
// registers it in the parent's children. The parent must name a live
// (non-TERMINATED) process.
func (s *Simulator) CreateChild(parentPID PID, name string, totalCPUTime int) (PID, error) {
	if totalCPUTime <= 0 {
		return 0, fmt.Errorf("%w: total CPU time must be positive, got %d", ErrInvalidConfiguration, totalCPUTime)
	}
	parent, ok := s.table[parentPID]
	if !ok || parent.State == StateTerminated {
		return 0, fmt.Errorf("%w: parent pid %d is not live", ErrNoSuchProcess, parentPID)
	}
	pid := s.insert(name, totalCPUTime, parentPID)
	parent.Children = append(parent.Children, pid)
	return pid, nil
}

func (s *Simulator) insert(name string, totalCPUTime int, parentPID PID) PID {
	pid := s.nextPID
	s.nextPID++
	if name == "" {
		name = fmt.Sprintf("P%d", pid)
	}
	p := &Process{
		PID:              pid,
		Name:             name,
		State:            StateNew,
		TotalCPUTime:     totalCPUTime,
		RemainingCPUTime: totalCPUTime,
		ParentPID:        parentPID,
		CreationTick:     s.clock,
	}
	s.table[pid] = p
	s.logf("%s (PID %d) created with burst %d", name, pid, totalCPUTime)
	return pid
}

// Promote moves a NEW process to READY and enqueues it for dispatch.
func (s *Simulator) Promote(pid PID) error {
	p, ok := s.table[pid]
	if !ok {
		return fmt.Errorf("%w: pid %d", ErrNoSuchProcess, pid)
	}
	if p.State != StateNew {
		return fmt.Errorf("%w: pid %d is %s, only NEW can be promoted", ErrInvalidTransition, pid, p.State)
	}
	if err := s.scheduler.Enqueue(pid); err != nil {
		return err
	}
	p.State = StateReady
	s.logf("%s (PID %d) NEW -> READY", p.Name, pid)
	return nil
}

// PromoteAll promotes every NEW process in pid order and returns how many
// were moved to READY.
func (s *Simulator) PromoteAll() int {
	moved := 0
	for _, pid := range s.sortedPIDs() {
		if s.table[pid].State == StateNew {
			if err := s.Promote(pid); err == nil {
				moved++
			}
		}
	}
	return moved
}

// ForceBlock moves a READY or RUNNING process to BLOCKED with a freshly
// drawn I/O burst length. A running process releases the CPU without being
// re-enqueued.
func (s *Simulator) ForceBlock(pid PID) error {
	p, ok := s.table[pid]
	if !ok {
		return fmt.Errorf("%w: pid %d", ErrNoSuchProcess, pid)
	}
	if p.State != StateReady && p.State != StateRunning {
		return fmt.Errorf("%w: pid %d is %s, only READY/RUNNING can block", ErrInvalidTransition, pid, p.State)
	}
	ioTicks := s.arrivals.IOTime()
	if p.State == StateRunning {
		s.scheduler.RemoveCurrent()
	} else {
		s.scheduler.Remove(pid)
	}
	if err := p.block(ioTicks); err != nil {
		return err
	}
	s.logf("%s (PID %d) blocked for %d ticks", p.Name, pid, ioTicks)
	return nil
}

// ForceTerminate ends a NEW, READY, RUNNING, or BLOCKED process immediately,
// zeroing its remaining CPU time and applying the zombie rule.
func (s *Simulator) ForceTerminate(pid PID) error {
	p, ok := s.table[pid]
	if !ok {
		return fmt.Errorf("%w: pid %d", ErrNoSuchProcess, pid)
	}
	if p.Finished() {
		return fmt.Errorf("%w: pid %d is already %s", ErrInvalidTransition, pid, p.State)
	}
	if s.scheduler.Running() == pid {
		s.scheduler.RemoveCurrent()
	} else {
		s.scheduler.Remove(pid)
	}
	p.RemainingCPUTime = 0
	return s.finish(p)
}

// Reap collects a ZOMBIE child on behalf of its parent, releasing it to
// TERMINATED. Fails with ErrNotAZombie unless the child is a zombie owned by
// the given parent.
func (s *Simulator) Reap(parentPID, childPID PID) error {
	if _, ok := s.table[parentPID]; !ok {
		return fmt.Errorf("%w: parent pid %d", ErrNoSuchProcess, parentPID)
	}
	child, ok := s.table[childPID]
	if !ok {
		return fmt.Errorf("%w: child pid %d", ErrNoSuchProcess, childPID)
	}
	if child.State != StateZombie || child.ParentPID != parentPID {
		return fmt.Errorf("%w: pid %d (state %s, parent %d) reaped by pid %d",
			ErrNotAZombie, childPID, child.State, child.ParentPID, parentPID)
	}
	child.Reaped = true
	s.markTerminated(child)
	s.logf("%s (PID %d) reaped by PID %d", child.Name, childPID, parentPID)
	return nil
}

// finish applies the termination rule: a process with a live parent becomes
// ZOMBIE awaiting reap; one without a parent goes straight to TERMINATED.
// The termination tick is recorded exactly once, here.
func (s *Simulator) finish(p *Process) error {
	p.TerminationTick = s.clock
	parent, hasParent := s.table[p.ParentPID]
	if p.ParentPID != 0 && hasParent && parent.State != StateTerminated {
		if err := p.setState(StateZombie); err != nil {
			return err
		}
		s.logf("%s (PID %d) terminated -> ZOMBIE", p.Name, p.PID)
		return nil
	}
	s.markTerminated(p)
	s.logf("%s (PID %d) terminated -> TERMINATED", p.Name, p.PID)
	return nil
}

// markTerminated finalizes a process and applies the orphan policy: with no
// reaper left, living children lose their parent link and zombie children
// are released immediately.
func (s *Simulator) markTerminated(p *Process) {
	p.State = StateTerminated
	for _, childPID := range p.Children {
		child, ok := s.table[childPID]
		if !ok || child.State == StateTerminated {
			continue
		}
		if child.State == StateZombie {
			s.markTerminated(child)
			s.logf("%s (PID %d) released, no reaper left", child.Name, child.PID)
			continue
		}
		child.ParentPID = 0
		s.logf("%s (PID %d) orphaned", child.Name, child.PID)
	}
}

// Tick advances the simulation by exactly one time unit. The per-tick order
// is fixed: dispatch, execute (block / consume / terminate / preempt),
// I/O countdown, auto-arrival, bookkeeping.
func (s *Simulator) Tick() error {
	s.clock++
	logrus.Debugf("[tick %07d] executing", s.clock)

	// Step 1: dispatch if the CPU is idle.
	if s.scheduler.Running() == 0 {
		if pid, ok := s.scheduler.DispatchNext(); ok {
			p, present := s.table[pid]
			if !present {
				return fmt.Errorf("%w: dispatched pid %d missing from table", ErrNoSuchProcess, pid)
			}
			if err := p.setState(StateRunning); err != nil {
				return err
			}
			if p.FirstDispatchTick == 0 {
				p.FirstDispatchTick = s.clock
			}
			if pid != s.ranLastTick {
				s.contextSwitches++
			}
			s.logf("%s (PID %d) dispatched", p.Name, pid)
		}
	}

	// Step 2: execute the running process for one tick.
	// A process blocked here must not be I/O-decremented in step 3; it is
	// observable as BLOCKED for this whole tick.
	justBlocked := PID(0)
	ran := PID(0)
	if pid := s.scheduler.Running(); pid != 0 {
		p := s.table[pid]
		if s.arrivals.ShouldBlock() {
			ioTicks := s.arrivals.IOTime()
			s.scheduler.RemoveCurrent()
			if err := p.block(ioTicks); err != nil {
				return err
			}
			justBlocked = pid
			s.logf("%s (PID %d) blocked on I/O for %d ticks", p.Name, pid, ioTicks)
		} else {
			if err := p.consumeCPU(); err != nil {
				return err
			}
			s.cpuBusyTicks++
			ran = pid
			expired := s.scheduler.TickQuantum()
			switch {
			case p.RemainingCPUTime == 0:
				// Termination precedes the quantum check: a process is
				// never both preempted and terminated in one tick.
				s.scheduler.RemoveCurrent()
				if err := s.finish(p); err != nil {
					return err
				}
			case expired:
				s.scheduler.PreemptCurrent()
				if err := p.setState(StateReady); err != nil {
					return err
				}
				p.PreemptCount++
				s.logf("%s (PID %d) preempted -> READY", p.Name, pid)
			}
		}
	} else {
		s.idleTicks++
	}

	// Step 3: advance every blocked process's I/O, independent of the CPU.
	for _, pid := range s.sortedPIDs() {
		p := s.table[pid]
		if p.State != StateBlocked || pid == justBlocked {
			continue
		}
		if p.IORemaining > 0 {
			p.IORemaining--
		}
		if p.IORemaining == 0 {
			if err := p.setState(StateReady); err != nil {
				return err
			}
			if err := s.scheduler.Enqueue(pid); err != nil {
				return err
			}
			s.logf("%s (PID %d) I/O complete -> READY", p.Name, pid)
		}
	}

	// Step 4: randomized arrival. Auto-created processes do not sit in NEW.
	if s.cfg.AutoCreate && s.arrivals.ShouldSpawn() {
		burst := s.arrivals.ServiceTime()
		pid := s.insert("", burst, 0)
		if err := s.Promote(pid); err != nil {
			return err
		}
	}

	// Step 5: bookkeeping for context-switch detection.
	s.ranLastTick = ran
	return nil
}

// RunTicks calls Tick n times, stopping early only on an unrecoverable
// internal error.
func (s *Simulator) RunTicks(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Tick(); err != nil {
			return fmt.Errorf("tick %d of %d: %w", i+1, n, err)
		}
	}
	return nil
}

// Reset discards all processes and counters and starts a fresh run with the
// same configuration, reseeding the arrival source.
func (s *Simulator) Reset() {
	s.clock = 0
	s.nextPID = 1
	s.table = make(map[PID]*Process)
	s.scheduler.reset()
	s.arrivals = NewArrivalSource(s.cfg)
	s.cpuBusyTicks = 0
	s.idleTicks = 0
	s.contextSwitches = 0
	s.ranLastTick = 0
	s.events.reset()
	s.logf("simulation reset")
}

func (s *Simulator) sortedPIDs() []PID {
	pids := make([]PID, 0, len(s.table))
	for pid := range s.table {
		pids = append(pids, pid)
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids
}

func (s *Simulator) logf(format string, args ...any) {
	line := fmt.Sprintf("[T%03d] %s", s.clock, fmt.Sprintf(format, args...))
	s.events.Append(line)
	logrus.Debug(line)
}
