package quantum

// Sample is the state of the spin pair at one grid point.
type Sample struct {
	Time        float64
	Purity      float64
	Expectation complex128
	Energy      float64
	Density     Operator
}

// Trajectory is the list of samples on the uniform grid.
type Trajectory struct {
	Samples []Sample
}

// Len returns the number of samples.
func (t Trajectory) Len() int {
	return len(t.Samples)
}

// Times returns the grid times.
func (t Trajectory) Times() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.Time
	}

	return out
}

// Purities returns Tr(rho^2) per sample.
func (t Trajectory) Purities() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.Purity
	}

	return out
}

// Expectations returns the observable expectation per sample.
func (t Trajectory) Expectations() []complex128 {
	out := make([]complex128, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.Expectation
	}

	return out
}

// Energies returns Tr(H rho) per sample.
func (t Trajectory) Energies() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.Energy
	}

	return out
}

// Last returns the final sample. ok is false for an empty trajectory.
func (t Trajectory) Last() (s Sample, ok bool) {
	if len(t.Samples) == 0 {
		return Sample{}, false
	}

	return t.Samples[len(t.Samples)-1], true
}
