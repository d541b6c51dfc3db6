package ode

import (
	"errors"
	"fmt"
)

// ErrNonConvergence is matched by every NonConvergenceError.
var ErrNonConvergence = errors.New("solver did not converge")

// ErrNonFinite reports a NaN or Inf produced by the right-hand side or by a
// step.
var ErrNonFinite = errors.New("non-finite value")

// NonConvergenceError reports that the solver gave up before reaching the
// end of the interval. The partial solution is discarded.
type NonConvergenceError struct {
	T      float64
	Steps  int
	Reason string
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("%v at t=%.10g after %d steps: %s",
		ErrNonConvergence, e.T, e.Steps, e.Reason)
}

// Is makes errors.Is(err, ErrNonConvergence) true.
func (e *NonConvergenceError) Is(target error) bool {
	return target == ErrNonConvergence
}
