package ode

// Solution holds every accepted step, starting with the initial condition.
type Solution struct {
	T     []float64
	Y     [][]float64
	Stats Stats
}

// Last returns the final time and state.
func (s *Solution) Last() (float64, []float64) {
	n := len(s.T) - 1
	return s.T[n], s.Y[n]
}

// Solve integrates p to its end and returns all accepted steps. Any error,
// including non-convergence, discards the partial solution.
func Solve(p Problem, opts Options) (*Solution, error) {
	stepper, err := NewStepper(p, opts)
	if err != nil {
		return nil, err
	}

	sol := &Solution{
		T: []float64{stepper.Time()},
		Y: [][]float64{stepper.State(nil)},
	}

	for !stepper.Done() {
		if err := stepper.Step(); err != nil {
			return nil, err
		}

		sol.T = append(sol.T, stepper.Time())
		sol.Y = append(sol.Y, stepper.State(nil))
	}

	sol.Stats = stepper.Stats()

	return sol, nil
}
