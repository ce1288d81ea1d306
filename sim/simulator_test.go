package sim

import (
	"errors"
	"reflect"
	"testing"
)

// newQuietSim builds a simulator with all randomness disabled so tests
// control every transition explicitly.
func newQuietSim(t *testing.T, mutate func(*Config)) *Simulator {
	t.Helper()
	cfg := DefaultConfig()
	cfg.AutoCreate = false
	cfg.BlockProbability = 0
	cfg.ArrivalProbability = 0
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewSimulator(cfg)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return s
}

func mustCreate(t *testing.T, s *Simulator, name string, burst int) PID {
	t.Helper()
	pid, err := s.CreateProcess(name, burst)
	if err != nil {
		t.Fatalf("CreateProcess(%s): %v", name, err)
	}
	return pid
}

func mustPromote(t *testing.T, s *Simulator, pid PID) {
	t.Helper()
	if err := s.Promote(pid); err != nil {
		t.Fatalf("Promote(%d): %v", pid, err)
	}
}

func mustTicks(t *testing.T, s *Simulator, n int) {
	t.Helper()
	if err := s.RunTicks(n); err != nil {
		t.Fatalf("RunTicks(%d): %v", n, err)
	}
}

func processState(t *testing.T, s *Simulator, pid PID) Process {
	t.Helper()
	p, err := s.Process(pid)
	if err != nil {
		t.Fatalf("Process(%d): %v", pid, err)
	}
	return p
}

func TestSimulator_SingleProcessLifecycle_QuantumThree(t *testing.T) {
	// GIVEN quantum=3 and one process needing 7 CPU ticks, promoted to READY
	s := newQuietSim(t, func(c *Config) { c.Quantum = 3 })
	pid := mustCreate(t, s, "worker", 7)
	mustPromote(t, s, pid)

	// WHEN running 3 ticks
	mustTicks(t, s, 3)

	// THEN the quantum has expired exactly once
	p := processState(t, s, pid)
	if p.PreemptCount != 1 {
		t.Errorf("PreemptCount after 3 ticks: got %d, want 1", p.PreemptCount)
	}
	if p.State != StateReady {
		t.Errorf("State after 3 ticks: got %s, want READY", p.State)
	}

	// WHEN running through tick 10
	mustTicks(t, s, 7)

	// THEN the parentless process terminated directly, exactly at tick 7
	p = processState(t, s, pid)
	if p.State != StateTerminated {
		t.Errorf("State: got %s, want TERMINATED", p.State)
	}
	if p.TerminationTick != 7 {
		t.Errorf("TerminationTick: got %d, want 7", p.TerminationTick)
	}
	if p.RemainingCPUTime != 0 {
		t.Errorf("RemainingCPUTime: got %d, want 0", p.RemainingCPUTime)
	}

	snap := s.Snapshot()
	if snap.CPUUtilization != 0.7 {
		t.Errorf("CPUUtilization at tick 10: got %v, want 0.7", snap.CPUUtilization)
	}
	if snap.ContextSwitches != 1 {
		t.Errorf("ContextSwitches: got %d, want 1", snap.ContextSwitches)
	}
}

func TestSimulator_ChildTerminates_ZombieUntilReaped(t *testing.T) {
	// GIVEN a parent with a 2-tick child, child promoted first
	s := newQuietSim(t, nil)
	parent := mustCreate(t, s, "parent", 20)
	child, err := s.CreateChild(parent, "child", 2)
	if err != nil {
		t.Fatalf("CreateChild: %v", err)
	}
	mustPromote(t, s, child)
	mustPromote(t, s, parent)

	// WHEN the child's CPU demand is consumed
	mustTicks(t, s, 2)

	// THEN the child is a zombie awaiting reap
	c := processState(t, s, child)
	if c.State != StateZombie {
		t.Fatalf("child state: got %s, want ZOMBIE", c.State)
	}
	if got := s.Snapshot().ActiveZombies; got != 1 {
		t.Errorf("ActiveZombies: got %d, want 1", got)
	}

	// WHEN the parent reaps it
	if err := s.Reap(parent, child); err != nil {
		t.Fatalf("Reap: %v", err)
	}

	// THEN the child is terminated and the zombie count drops
	c = processState(t, s, child)
	if c.State != StateTerminated {
		t.Errorf("child state after reap: got %s, want TERMINATED", c.State)
	}
	if !c.Reaped {
		t.Error("child Reaped flag: got false, want true")
	}
	if got := s.Snapshot().ActiveZombies; got != 0 {
		t.Errorf("ActiveZombies after reap: got %d, want 0", got)
	}
}

func TestSimulator_ForceBlock_RunningProcess_IOCountdown(t *testing.T) {
	// GIVEN a running process and a fixed 4-tick I/O draw
	s := newQuietSim(t, func(c *Config) { c.IOTime = Range{Min: 4, Max: 4} })
	pid := mustCreate(t, s, "io-bound", 10)
	mustPromote(t, s, pid)
	mustTicks(t, s, 1)

	// WHEN force-blocking it
	if err := s.ForceBlock(pid); err != nil {
		t.Fatalf("ForceBlock: %v", err)
	}
	p := processState(t, s, pid)
	if p.State != StateBlocked || p.IORemaining != 4 {
		t.Fatalf("after ForceBlock: state %s io %d, want BLOCKED io 4", p.State, p.IORemaining)
	}
	if p.BlockedCount != 1 {
		t.Errorf("BlockedCount: got %d, want 1", p.BlockedCount)
	}
	if s.Running() != 0 {
		t.Errorf("Running: got %d, want 0 (released without re-enqueue)", s.Running())
	}

	// THEN after 3 ticks it is still blocked, after the 4th it is READY
	mustTicks(t, s, 3)
	if got := processState(t, s, pid).State; got != StateBlocked {
		t.Errorf("state after 3 ticks: got %s, want BLOCKED", got)
	}
	mustTicks(t, s, 1)
	if got := processState(t, s, pid).State; got != StateReady {
		t.Errorf("state after 4 ticks: got %s, want READY", got)
	}

	// AND it is dispatched again on the next idle-CPU tick
	mustTicks(t, s, 1)
	if s.Running() != pid {
		t.Errorf("Running: got %d, want %d", s.Running(), pid)
	}
}

func TestSimulator_ZeroTickIOBurst_ObservableForOneTick(t *testing.T) {
	// GIVEN an I/O range that draws 0-tick bursts
	s := newQuietSim(t, func(c *Config) { c.IOTime = Range{Min: 0, Max: 0} })
	pid := mustCreate(t, s, "blip", 5)
	mustPromote(t, s, pid)
	mustTicks(t, s, 1)

	// WHEN the running process blocks with a 0-tick burst
	if err := s.ForceBlock(pid); err != nil {
		t.Fatalf("ForceBlock: %v", err)
	}

	// THEN it stays BLOCKED through the tick boundary and is READY only
	// after the next tick's I/O pass
	if got := processState(t, s, pid).State; got != StateBlocked {
		t.Fatalf("state before next tick: got %s, want BLOCKED", got)
	}
	mustTicks(t, s, 1)
	if got := processState(t, s, pid).State; got != StateReady {
		t.Errorf("state after next tick: got %s, want READY", got)
	}
}

func TestSimulator_Reap_NonZombie_FailsAndLeavesStateUnchanged(t *testing.T) {
	// GIVEN a parent with a still-running child
	s := newQuietSim(t, nil)
	parent := mustCreate(t, s, "parent", 10)
	child, _ := s.CreateChild(parent, "child", 10)
	mustPromote(t, s, child)
	mustTicks(t, s, 1)

	before := s.Processes()
	snapBefore := s.Snapshot()

	// WHEN reaping the non-zombie child
	err := s.Reap(parent, child)

	// THEN the action fails with ErrNotAZombie and nothing changed
	if !errors.Is(err, ErrNotAZombie) {
		t.Fatalf("Reap: got %v, want ErrNotAZombie", err)
	}
	if !reflect.DeepEqual(before, s.Processes()) {
		t.Error("process table mutated by failed reap")
	}
	if snapBefore != s.Snapshot() {
		t.Error("metrics mutated by failed reap")
	}
}

func TestSimulator_Reap_WrongParent_Fails(t *testing.T) {
	s := newQuietSim(t, nil)
	parent := mustCreate(t, s, "parent", 20)
	other := mustCreate(t, s, "other", 20)
	child, _ := s.CreateChild(parent, "child", 1)
	mustPromote(t, s, child)
	mustTicks(t, s, 1)

	if got := processState(t, s, child).State; got != StateZombie {
		t.Fatalf("child state: got %s, want ZOMBIE", got)
	}
	if err := s.Reap(other, child); !errors.Is(err, ErrNotAZombie) {
		t.Errorf("Reap by non-parent: got %v, want ErrNotAZombie", err)
	}
}

func TestSimulator_RoundRobinFairness_NoStarvation(t *testing.T) {
	// GIVEN three processes continuously READY and no blocking, quantum=2
	s := newQuietSim(t, func(c *Config) { c.Quantum = 2 })
	pids := []PID{
		mustCreate(t, s, "a", 50),
		mustCreate(t, s, "b", 50),
		mustCreate(t, s, "c", 50),
	}
	for _, pid := range pids {
		mustPromote(t, s, pid)
	}

	// WHEN running one full rotation (3 processes x quantum 2)
	mustTicks(t, s, 6)

	// THEN every process got exactly one quantum of CPU
	for _, pid := range pids {
		p := processState(t, s, pid)
		if consumed := p.TotalCPUTime - p.RemainingCPUTime; consumed != 2 {
			t.Errorf("pid %d consumed %d ticks in first rotation, want 2", pid, consumed)
		}
	}
}

func TestSimulator_ExclusivityInvariant_AtMostOneRunning(t *testing.T) {
	// GIVEN a busy randomized simulation
	s := newQuietSim(t, func(c *Config) {
		c.AutoCreate = true
		c.ArrivalProbability = 0.4
		c.BlockProbability = 0.2
		c.Seed = 99
	})

	// WHEN ticking many times
	for i := 0; i < 200; i++ {
		mustTicks(t, s, 1)

		// THEN at most one process is RUNNING after every tick
		running := 0
		for _, p := range s.Processes() {
			if p.State == StateRunning {
				running++
			}
			if p.RemainingCPUTime < 0 || p.RemainingCPUTime > p.TotalCPUTime {
				t.Fatalf("tick %d: pid %d remaining %d outside [0,%d]", i, p.PID, p.RemainingCPUTime, p.TotalCPUTime)
			}
		}
		if running > 1 {
			t.Fatalf("tick %d: %d processes RUNNING", i, running)
		}
	}
}

func TestSimulator_Reproducibility_IdenticalRuns(t *testing.T) {
	// GIVEN two simulators with identical configuration
	run := func() ([]Process, Snapshot) {
		s := newQuietSim(t, func(c *Config) {
			c.AutoCreate = true
			c.ArrivalProbability = 0.3
			c.BlockProbability = 0.15
			c.Seed = 1234
		})
		mustTicks(t, s, 300)
		return s.Processes(), s.Snapshot()
	}

	// WHEN running the same action sequence twice
	procsA, snapA := run()
	procsB, snapB := run()

	// THEN the process tables and metrics are identical
	if !reflect.DeepEqual(procsA, procsB) {
		t.Error("process tables diverged between identical runs")
	}
	if snapA != snapB {
		t.Errorf("metrics diverged: %+v vs %+v", snapA, snapB)
	}
}

func TestSimulator_TerminatedIsImmutable(t *testing.T) {
	// GIVEN a terminated process
	s := newQuietSim(t, nil)
	pid := mustCreate(t, s, "done", 1)
	mustPromote(t, s, pid)
	mustTicks(t, s, 1)
	before := processState(t, s, pid)
	if before.State != StateTerminated {
		t.Fatalf("state: got %s, want TERMINATED", before.State)
	}

	// WHEN every mutating action is attempted against it
	actions := map[string]error{
		"Promote":        s.Promote(pid),
		"ForceBlock":     s.ForceBlock(pid),
		"ForceTerminate": s.ForceTerminate(pid),
	}

	// THEN each fails and no field changed
	for name, err := range actions {
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s on TERMINATED: got %v, want ErrInvalidTransition", name, err)
		}
	}
	if !reflect.DeepEqual(before, processState(t, s, pid)) {
		t.Error("terminated process mutated")
	}
}

func TestSimulator_ForceTerminate_NewProcessWithParent_BecomesZombie(t *testing.T) {
	s := newQuietSim(t, nil)
	parent := mustCreate(t, s, "parent", 10)
	child, _ := s.CreateChild(parent, "child", 5)

	if err := s.ForceTerminate(child); err != nil {
		t.Fatalf("ForceTerminate: %v", err)
	}
	c := processState(t, s, child)
	if c.State != StateZombie {
		t.Errorf("state: got %s, want ZOMBIE", c.State)
	}
	if c.RemainingCPUTime != 0 {
		t.Errorf("RemainingCPUTime: got %d, want 0", c.RemainingCPUTime)
	}
}

func TestSimulator_OrphanPolicy_ParentTermination(t *testing.T) {
	// GIVEN a parent with one live child and one zombie child
	s := newQuietSim(t, nil)
	parent := mustCreate(t, s, "parent", 10)
	live, _ := s.CreateChild(parent, "live", 6)
	zombie, _ := s.CreateChild(parent, "zombie", 5)
	mustPromote(t, s, live)
	if err := s.ForceTerminate(zombie); err != nil {
		t.Fatalf("ForceTerminate(zombie): %v", err)
	}
	if got := processState(t, s, zombie).State; got != StateZombie {
		t.Fatalf("zombie child state: got %s, want ZOMBIE", got)
	}

	// WHEN the parent is force-terminated
	if err := s.ForceTerminate(parent); err != nil {
		t.Fatalf("ForceTerminate(parent): %v", err)
	}

	// THEN the zombie child is released (no reaper remains) and the live
	// child is orphaned
	if got := processState(t, s, zombie).State; got != StateTerminated {
		t.Errorf("zombie child state: got %s, want TERMINATED", got)
	}
	orphan := processState(t, s, live)
	if orphan.ParentPID != 0 {
		t.Errorf("orphan ParentPID: got %d, want 0", orphan.ParentPID)
	}

	// AND the orphan later terminates directly, never visiting ZOMBIE
	mustTicks(t, s, 10)
	if got := processState(t, s, live).State; got != StateTerminated {
		t.Errorf("orphan final state: got %s, want TERMINATED", got)
	}
}

func TestSimulator_CreateChild_DeadParent_Fails(t *testing.T) {
	s := newQuietSim(t, nil)
	parent := mustCreate(t, s, "parent", 1)
	mustPromote(t, s, parent)
	mustTicks(t, s, 1)

	_, err := s.CreateChild(parent, "late", 5)
	if !errors.Is(err, ErrNoSuchProcess) {
		t.Errorf("CreateChild of terminated parent: got %v, want ErrNoSuchProcess", err)
	}
	_, err = s.CreateChild(999, "ghost", 5)
	if !errors.Is(err, ErrNoSuchProcess) {
		t.Errorf("CreateChild of missing parent: got %v, want ErrNoSuchProcess", err)
	}
}

func TestSimulator_Promote_NonNew_Fails(t *testing.T) {
	s := newQuietSim(t, nil)
	pid := mustCreate(t, s, "p", 5)
	mustPromote(t, s, pid)

	if err := s.Promote(pid); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Promote READY: got %v, want ErrInvalidTransition", err)
	}
	if err := s.Promote(999); !errors.Is(err, ErrNoSuchProcess) {
		t.Errorf("Promote missing pid: got %v, want ErrNoSuchProcess", err)
	}
}

func TestSimulator_PromoteAll_MovesEveryNewProcess(t *testing.T) {
	s := newQuietSim(t, nil)
	a := mustCreate(t, s, "a", 5)
	b := mustCreate(t, s, "b", 5)
	mustPromote(t, s, a)

	if moved := s.PromoteAll(); moved != 1 {
		t.Errorf("PromoteAll: got %d, want 1", moved)
	}
	if got := processState(t, s, b).State; got != StateReady {
		t.Errorf("state of b: got %s, want READY", got)
	}
}

func TestSimulator_AutoCreate_ArrivalsSkipNew(t *testing.T) {
	// GIVEN certain arrival every tick
	s := newQuietSim(t, func(c *Config) {
		c.AutoCreate = true
		c.ArrivalProbability = 1
		c.ServiceTime = Range{Min: 3, Max: 3}
	})

	// WHEN ticking
	mustTicks(t, s, 5)

	// THEN auto-created processes never sit in NEW
	procs := s.Processes()
	if len(procs) != 5 {
		t.Fatalf("processes: got %d, want 5", len(procs))
	}
	for _, p := range procs {
		if p.State == StateNew {
			t.Errorf("pid %d still NEW after auto-create", p.PID)
		}
		if p.CreationTick == 0 {
			t.Errorf("pid %d creation tick 0, want the arrival tick", p.PID)
		}
	}
}

func TestSimulator_PIDsMonotonicallyIncrease(t *testing.T) {
	s := newQuietSim(t, nil)
	var last PID
	for i := 0; i < 5; i++ {
		pid := mustCreate(t, s, "", 3)
		if pid <= last {
			t.Fatalf("pid %d not greater than previous %d", pid, last)
		}
		last = pid
	}
	// Termination does not free pids for reuse.
	mustPromote(t, s, 1)
	if err := s.ForceTerminate(1); err != nil {
		t.Fatalf("ForceTerminate: %v", err)
	}
	if pid := mustCreate(t, s, "", 3); pid != 6 {
		t.Errorf("pid after termination: got %d, want 6", pid)
	}
}

func TestSimulator_Reset_StartsFreshRun(t *testing.T) {
	// GIVEN a simulator that has done some work
	s := newQuietSim(t, func(c *Config) {
		c.AutoCreate = true
		c.ArrivalProbability = 0.5
	})
	mustTicks(t, s, 50)
	if len(s.Processes()) == 0 {
		t.Fatal("expected some auto-created processes")
	}

	// WHEN resetting
	s.Reset()

	// THEN the run starts over: empty table, zeroed clock and counters
	if s.Clock() != 0 || len(s.Processes()) != 0 {
		t.Errorf("after reset: clock %d, %d processes", s.Clock(), len(s.Processes()))
	}
	snap := s.Snapshot()
	if snap.ContextSwitches != 0 || snap.CPUBusyTicks != 0 {
		t.Errorf("after reset: counters not zeroed: %+v", snap)
	}

	// AND the reseeded run reproduces the original one
	mustTicks(t, s, 50)
	first := s.Processes()
	s.Reset()
	mustTicks(t, s, 50)
	if !reflect.DeepEqual(first, s.Processes()) {
		t.Error("reset run diverged from previous run with same seed")
	}
}

func TestSimulator_ContextSwitches_Alternation(t *testing.T) {
	// GIVEN two processes alternating under quantum=1
	s := newQuietSim(t, func(c *Config) { c.Quantum = 1 })
	a := mustCreate(t, s, "a", 3)
	b := mustCreate(t, s, "b", 3)
	mustPromote(t, s, a)
	mustPromote(t, s, b)

	// WHEN running 6 ticks (a,b,a,b,a,b)
	mustTicks(t, s, 6)

	// THEN every dispatch changed the running identity
	if got := s.Snapshot().ContextSwitches; got != 6 {
		t.Errorf("ContextSwitches: got %d, want 6", got)
	}
}

func TestSimulator_ContextSwitches_RedispatchSameProcessNotCounted(t *testing.T) {
	// GIVEN a single process preempted and immediately redispatched
	s := newQuietSim(t, func(c *Config) { c.Quantum = 2 })
	pid := mustCreate(t, s, "solo", 8)
	mustPromote(t, s, pid)

	// WHEN it runs through several quantum expiries
	mustTicks(t, s, 8)

	// THEN only the initial idle->running dispatch counted
	if got := s.Snapshot().ContextSwitches; got != 1 {
		t.Errorf("ContextSwitches: got %d, want 1", got)
	}
}
