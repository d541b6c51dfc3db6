package relaxation

// Sample is one point of the scalar trajectory.
type Sample struct {
	Time  float64
	Value float64
}

// Trajectory is the ordered list of accepted solver steps, starting at the
// initial condition and ending at the horizon end.
type Trajectory struct {
	Samples []Sample
}

// Len returns the number of samples.
func (t Trajectory) Len() int {
	return len(t.Samples)
}

// Times returns the sample times.
func (t Trajectory) Times() []float64 {
	times := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		times[i] = s.Time
	}

	return times
}

// Values returns the sample values.
func (t Trajectory) Values() []float64 {
	values := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		values[i] = s.Value
	}

	return values
}

// Last returns the final sample. ok is false for an empty trajectory.
func (t Trajectory) Last() (s Sample, ok bool) {
	if len(t.Samples) == 0 {
		return Sample{}, false
	}

	return t.Samples[len(t.Samples)-1], true
}
