package sim

import "errors"

var (
	// ErrNoSuchProcess is returned when an action references a pid that is
	// not present in the process table.
	ErrNoSuchProcess = errors.New("no such process")
	// ErrInvalidTransition is returned when an action is attempted from a
	// state that does not permit it.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrNotAZombie is returned when a reap targets a child that is not a
	// zombie or is not owned by the given parent.
	ErrNotAZombie = errors.New("not a zombie child of this parent")
	// ErrInvalidConfiguration is returned when a constructor is given a
	// non-positive quantum, an out-of-range probability, or an inverted
	// time range.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
