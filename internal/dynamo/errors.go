package dynamo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is a state holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: state is not finite")

	// ErrGroundContact is a trajectory that reached z <= 0.
	ErrGroundContact = errors.New("dynamo: aircraft reached the ground")

	// ErrParameterBounds is a model or planner parameter outside its range.
	ErrParameterBounds = errors.New("dynamo: parameter out of bounds")

	// ErrDimensionMismatch is a state whose length differs from the model's.
	ErrDimensionMismatch = errors.New("dynamo: state dimension mismatch")
)

// SimulationError locates a flight-ending event in the outer loop.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.3f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
