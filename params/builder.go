package params

// Builder creates parameter sets, starting from the reference set.
type Builder struct {
	set Set
}

// MakeBuilder creates a builder preloaded with Reference().
func MakeBuilder() Builder {
	return Builder{set: Reference()}
}

// WithDecayRate sets k.
func (b Builder) WithDecayRate(k float64) Builder {
	b.set.DecayRate = k
	return b
}

// WithFractionalOrder sets alpha.
func (b Builder) WithFractionalOrder(alpha float64) Builder {
	b.set.FractionalOrder = alpha
	return b
}

// WithMemoryCoupling sets delta.
func (b Builder) WithMemoryCoupling(delta float64) Builder {
	b.set.MemoryCoupling = delta
	return b
}

// WithMemoryForm sets which quantity the memory term acts on.
func (b Builder) WithMemoryForm(form MemoryForm) Builder {
	b.set.MemoryForm = form
	return b
}

// WithMaxStep sets the solver step bound.
func (b Builder) WithMaxStep(maxStep float64) Builder {
	b.set.MaxStep = maxStep
	return b
}

// WithTolerances sets the absolute and relative solver tolerances.
func (b Builder) WithTolerances(absTol, relTol float64) Builder {
	b.set.AbsTol = absTol
	b.set.RelTol = relTol
	return b
}

// WithMaxSolverSteps sets the solver step budget.
func (b Builder) WithMaxSolverSteps(n int) Builder {
	b.set.MaxSolverSteps = n
	return b
}

// WithHorizon sets the simulated time span.
func (b Builder) WithHorizon(start, end float64) Builder {
	b.set.Horizon = Horizon{Start: start, End: end}
	return b
}

// WithStepCount sets the number of quantum grid intervals.
func (b Builder) WithStepCount(n int) Builder {
	b.set.StepCount = n
	return b
}

// WithInitialValue sets R0.
func (b Builder) WithInitialValue(r0 float64) Builder {
	b.set.InitialValue = r0
	return b
}

// WithTargetValue sets R_eq.
func (b Builder) WithTargetValue(req float64) Builder {
	b.set.TargetValue = req
	return b
}

// WithDephasingRate enables the dephasing channel when rate > 0.
func (b Builder) WithDephasingRate(rate float64) Builder {
	b.set.Quantum.DephasingRate = rate
	return b
}

// WithQuantum replaces the spin pair configuration.
func (b Builder) WithQuantum(q QuantumSet) Builder {
	b.set.Quantum = q
	return b
}

// WithPosterior replaces the posterior constants.
func (b Builder) WithPosterior(p PosteriorSet) Builder {
	b.set.Posterior = p
	return b
}

// Build validates and returns the parameter set.
func (b Builder) Build() (Set, error) {
	if err := b.set.Validate(); err != nil {
		return Set{}, err
	}

	return b.set, nil
}
