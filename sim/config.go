package sim

import "fmt"

// Range is an inclusive integer interval used for drawing service and I/O
// burst lengths.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Config groups the construction-time parameters of a Simulator.
// All randomness is derived from Seed; two Simulators built from equal
// Configs and driven by the same action sequence produce identical runs.
type Config struct {
	// Quantum is the maximum consecutive ticks a process may hold the CPU
	// before mandatory preemption. Must be positive.
	Quantum int `yaml:"quantum"`
	// Seed initializes the simulator-owned random generator.
	Seed int64 `yaml:"seed"`
	// AutoCreate enables randomized process arrival during Tick.
	AutoCreate bool `yaml:"autoCreate"`
	// ArrivalProbability is the per-tick chance of a new process arriving
	// when AutoCreate is enabled. Must be in [0,1].
	ArrivalProbability float64 `yaml:"arrivalProbability"`
	// BlockProbability is the per-tick chance of the running process
	// entering a spontaneous I/O wait. Must be in [0,1].
	BlockProbability float64 `yaml:"blockProbability"`
	// ServiceTime bounds the CPU demand drawn for auto-created processes.
	// Min must be at least 1.
	ServiceTime Range `yaml:"serviceTime"`
	// IOTime bounds the I/O burst lengths drawn on blocking. Min must be
	// non-negative.
	IOTime Range `yaml:"ioTime"`
}

// DefaultConfig returns the stock configuration: quantum 3, moderate random
// blocking, slow arrivals, service bursts of 5..15 ticks and I/O waits of
// 2..8 ticks.
func DefaultConfig() Config {
	return Config{
		Quantum:            3,
		Seed:               1,
		AutoCreate:         false,
		ArrivalProbability: 0.05,
		BlockProbability:   0.10,
		ServiceTime:        Range{Min: 5, Max: 15},
		IOTime:             Range{Min: 2, Max: 8},
	}
}

// Validate checks the configuration, reporting ErrInvalidConfiguration for
// a non-positive quantum, an out-of-range probability, or an inverted time
// range.
func (c Config) Validate() error {
	if c.Quantum <= 0 {
		return fmt.Errorf("%w: quantum must be positive, got %d", ErrInvalidConfiguration, c.Quantum)
	}
	if c.ArrivalProbability < 0 || c.ArrivalProbability > 1 {
		return fmt.Errorf("%w: arrival probability %v outside [0,1]", ErrInvalidConfiguration, c.ArrivalProbability)
	}
	if c.BlockProbability < 0 || c.BlockProbability > 1 {
		return fmt.Errorf("%w: block probability %v outside [0,1]", ErrInvalidConfiguration, c.BlockProbability)
	}
	if c.ServiceTime.Min < 1 {
		return fmt.Errorf("%w: service time min must be at least 1, got %d", ErrInvalidConfiguration, c.ServiceTime.Min)
	}
	if c.ServiceTime.Max < c.ServiceTime.Min {
		return fmt.Errorf("%w: service time range %d..%d is inverted", ErrInvalidConfiguration, c.ServiceTime.Min, c.ServiceTime.Max)
	}
	if c.IOTime.Min < 0 {
		return fmt.Errorf("%w: io time min must be non-negative, got %d", ErrInvalidConfiguration, c.IOTime.Min)
	}
	if c.IOTime.Max < c.IOTime.Min {
		return fmt.Errorf("%w: io time range %d..%d is inverted", ErrInvalidConfiguration, c.IOTime.Min, c.IOTime.Max)
	}
	return nil
}
