package ode

import (
	"errors"
	"math"
)

// DefaultMaxSteps is the step attempt budget used when Options.MaxSteps is 0.
const DefaultMaxSteps = 100000

// Options controls the step size selection.
type Options struct {
	AbsTol float64
	RelTol float64

	// MaxStep bounds every step. Zero means unbounded.
	MaxStep float64

	// FirstStep overrides the initial step heuristic when positive.
	FirstStep float64

	// MaxSteps bounds the number of step attempts, accepted or rejected.
	MaxSteps int
}

// DefaultOptions returns tolerances of 1e-6 (relative) and 1e-9 (absolute).
func DefaultOptions() Options {
	return Options{
		AbsTol:   1e-9,
		RelTol:   1e-6,
		MaxSteps: DefaultMaxSteps,
	}
}

func (o Options) normalized() (Options, error) {
	if !(o.AbsTol > 0) || !(o.RelTol > 0) {
		return o, errors.New("tolerances must be positive")
	}

	if o.MaxStep < 0 || math.IsNaN(o.MaxStep) {
		return o, errors.New("max step must not be negative")
	}

	if o.MaxStep == 0 {
		o.MaxStep = math.Inf(1)
	}

	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps
	}

	return o, nil
}
