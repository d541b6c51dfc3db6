package analysis

import (
	"fmt"
	"math"

	"github.com/sarchlab/fracflow/params"
	"github.com/sarchlab/fracflow/quantum"
	"github.com/sarchlab/fracflow/relaxation"
)

// Summary collects the derived scalars of a run.
type Summary struct {
	FinalScalarValue   float64
	FinalScalarError   float64
	Converged          bool
	FinalPurity        float64
	MeanAbsExpectation float64
	AreaProxy          float64
	Posterior          float64
	SigmaEquivalent    float64
}

// Summarize derives the summary of a run. It never fills in placeholder
// values: any failure is returned instead.
func Summarize(
	p params.Set,
	scalar relaxation.Trajectory,
	q quantum.Trajectory,
) (Summary, error) {
	var s Summary
	var err error

	last, ok := scalar.Last()
	if !ok {
		return Summary{}, fmt.Errorf("scalar: %w", ErrEmptyTrajectory)
	}
	s.FinalScalarValue = last.Value

	s.FinalScalarError, s.Converged, err = FinalScalarError(
		scalar, p.TargetValue, p.ConvergenceTolerance)
	if err != nil {
		return Summary{}, err
	}

	if s.FinalPurity, err = FinalPurity(q); err != nil {
		return Summary{}, err
	}

	tol := p.Quantum.PurityTolerance
	if s.FinalPurity < -tol || s.FinalPurity > 1+tol {
		return Summary{}, fmt.Errorf("%w: final purity %g",
			ErrOutOfRange, s.FinalPurity)
	}

	if s.MeanAbsExpectation, err = MeanAbsExpectation(q); err != nil {
		return Summary{}, err
	}

	s.AreaProxy = AreaProxy(p.Area, p.StepCount)
	s.Posterior = Posterior(p.Posterior)

	if s.SigmaEquivalent, err = SigmaEquivalent(p.Posterior.TailProbability); err != nil {
		return Summary{}, err
	}

	if err := s.checkFinite(); err != nil {
		return Summary{}, err
	}

	return s, nil
}

func (s Summary) checkFinite() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"final scalar value", s.FinalScalarValue},
		{"final scalar error", s.FinalScalarError},
		{"final purity", s.FinalPurity},
		{"mean abs expectation", s.MeanAbsExpectation},
		{"area proxy", s.AreaProxy},
		{"posterior", s.Posterior},
		{"sigma equivalent", s.SigmaEquivalent},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is %g", ErrOutOfRange, f.name, f.value)
		}
	}

	return nil
}
