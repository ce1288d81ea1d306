// Package sim provides the core tick-driven process-state simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process lifecycle (NEW → READY → RUNNING → BLOCKED/ZOMBIE/TERMINATED) and state machine
//   - scheduler.go: the round-robin ready queue and quantum bookkeeping
//   - simulator.go: the tick loop, process table, and zombie/reap semantics
//
// # Architecture
//
// The Simulator exclusively owns all mutable state: the process table, the
// RoundRobin scheduler, the seeded ArrivalSource, the simulation clock, and
// the metrics accumulators. The scheduler holds only an ordering of READY
// pids, never process data. External collaborators (TUI, HTTP API, CSV
// export) consume the read-only views (Processes, Snapshot, Tree, Events)
// and drive the engine through the action API; they contain no scheduling
// logic.
//
// A Simulator instance is single-writer: callers issuing actions concurrently
// must serialize access themselves. Independent instances share no state and
// may run side by side.
package sim
