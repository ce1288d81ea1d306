package sim

import "math/rand"

// ArrivalSource wraps an explicitly seeded pseudo-random generator and owns
// every random decision the engine makes: process arrival, spontaneous
// blocking of the running process, and fresh service/I/O burst lengths.
//
// Reproducibility contract: the same seed plus the same sequence of
// Simulator actions MUST produce a bit-for-bit identical run. The generator
// is therefore an instance owned by the Simulator, never the package-global
// one, and draws happen in a fixed order inside each tick.
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
type ArrivalSource struct {
	rng *rand.Rand

	arrivalProbability float64
	blockProbability   float64
	serviceTime        Range
	ioTime             Range
}

// NewArrivalSource creates an ArrivalSource from a validated Config.
func NewArrivalSource(cfg Config) *ArrivalSource {
	return &ArrivalSource{
		rng:                rand.New(rand.NewSource(cfg.Seed)),
		arrivalProbability: cfg.ArrivalProbability,
		blockProbability:   cfg.BlockProbability,
		serviceTime:        cfg.ServiceTime,
		ioTime:             cfg.IOTime,
	}
}

// ShouldSpawn draws the Bernoulli arrival decision for the current tick.
func (a *ArrivalSource) ShouldSpawn() bool {
	return a.rng.Float64() < a.arrivalProbability
}

// ShouldBlock draws the Bernoulli blocking decision for the currently
// RUNNING process.
func (a *ArrivalSource) ShouldBlock() bool {
	return a.rng.Float64() < a.blockProbability
}

// ServiceTime draws a total CPU demand for a new process, uniform over the
// configured inclusive range.
func (a *ArrivalSource) ServiceTime() int {
	return a.intn(a.serviceTime)
}

// IOTime draws an I/O burst length, uniform over the configured inclusive range.
func (a *ArrivalSource) IOTime() int {
	return a.intn(a.ioTime)
}

func (a *ArrivalSource) intn(r Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + a.rng.Intn(r.Max-r.Min+1)
}
