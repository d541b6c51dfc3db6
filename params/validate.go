package params

import "math"

// Validate returns a *PreconditionError for the first violated invariant.
func (s Set) Validate() error {
	checks := []func() error{
		s.validateRelaxation,
		s.validateSolver,
		s.validateHorizon,
		s.validateQuantum,
		s.validateConstants,
	}

	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}

	return nil
}

// ValidateFractionalOrder checks that alpha lies strictly inside (0, 1).
func ValidateFractionalOrder(alpha float64) error {
	if !(alpha > 0 && alpha < 1) {
		return &PreconditionError{
			Field:  "FractionalOrder",
			Value:  alpha,
			Reason: "must be strictly between 0 and 1",
		}
	}

	return nil
}

// ValidateProbability checks that p lies strictly inside (0, 1).
func ValidateProbability(field string, p float64) error {
	if !(p > 0 && p < 1) {
		return &PreconditionError{
			Field:  field,
			Value:  p,
			Reason: "must be strictly between 0 and 1",
		}
	}

	return nil
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &PreconditionError{Field: field, Value: v, Reason: "must be finite"}
	}

	return nil
}

func positive(field string, v float64) error {
	if err := finite(field, v); err != nil {
		return err
	}

	if v <= 0 {
		return &PreconditionError{Field: field, Value: v, Reason: "must be positive"}
	}

	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

func (s Set) validateRelaxation() error {
	if err := ValidateFractionalOrder(s.FractionalOrder); err != nil {
		return err
	}

	if s.MemoryForm != MemoryOnDeviation && s.MemoryForm != MemoryOnValue {
		return &PreconditionError{
			Field:  "MemoryForm",
			Value:  int(s.MemoryForm),
			Reason: "unknown memory form",
		}
	}

	return firstError(
		finite("DecayRate", s.DecayRate),
		finite("MemoryCoupling", s.MemoryCoupling),
		positive("MemoryOffset", s.MemoryOffset),
		finite("InitialValue", s.InitialValue),
		finite("TargetValue", s.TargetValue),
		positive("ConvergenceTolerance", s.ConvergenceTolerance),
	)
}

func (s Set) validateSolver() error {
	if s.MaxSolverSteps <= 0 {
		return &PreconditionError{
			Field:  "MaxSolverSteps",
			Value:  s.MaxSolverSteps,
			Reason: "must be positive",
		}
	}

	return firstError(
		positive("MaxStep", s.MaxStep),
		positive("AbsTol", s.AbsTol),
		positive("RelTol", s.RelTol),
	)
}

func (s Set) validateHorizon() error {
	if err := firstError(
		finite("Horizon.Start", s.Horizon.Start),
		finite("Horizon.End", s.Horizon.End),
	); err != nil {
		return err
	}

	if s.Horizon.End <= s.Horizon.Start {
		return &PreconditionError{
			Field:  "Horizon",
			Value:  s.Horizon,
			Reason: "end must be after start",
		}
	}

	if s.StepCount < 2 {
		return &PreconditionError{
			Field:  "StepCount",
			Value:  s.StepCount,
			Reason: "must be at least 2",
		}
	}

	return nil
}

func (s Set) validateQuantum() error {
	if err := firstError(
		positive("Quantum.BaseFrequency", s.Quantum.BaseFrequency),
		finite("Quantum.CouplingScale", s.Quantum.CouplingScale),
		finite("Quantum.DephasingRate", s.Quantum.DephasingRate),
		positive("Quantum.PurityTolerance", s.Quantum.PurityTolerance),
	); err != nil {
		return err
	}

	if s.Quantum.DephasingRate < 0 {
		return &PreconditionError{
			Field:  "Quantum.DephasingRate",
			Value:  s.Quantum.DephasingRate,
			Reason: "must not be negative",
		}
	}

	return nil
}

func (s Set) validateConstants() error {
	return firstError(
		finite("Area.Gamma", s.Area.Gamma),
		finite("Area.PlanckLength", s.Area.PlanckLength),
		finite("Area.Spin", s.Area.Spin),
		finite("Posterior.Likelihood", s.Posterior.Likelihood),
		finite("Posterior.Prior", s.Posterior.Prior),
		positive("Posterior.Normalizer", s.Posterior.Normalizer),
		ValidateProbability(
			"Posterior.TailProbability", s.Posterior.TailProbability),
	)
}
