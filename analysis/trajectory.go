package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/sarchlab/fracflow/quantum"
	"github.com/sarchlab/fracflow/relaxation"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyTrajectory is returned when a trajectory has no samples.
var ErrEmptyTrajectory = errors.New("trajectory has no samples")

// ErrOutOfRange is returned when a derived quantity falls outside the range
// its definition allows.
var ErrOutOfRange = errors.New("derived quantity out of range")

// FinalScalarError returns |R(T) - target| and whether it is below tol.
func FinalScalarError(
	traj relaxation.Trajectory,
	target, tol float64,
) (float64, bool, error) {
	last, ok := traj.Last()
	if !ok {
		return 0, false, fmt.Errorf("scalar: %w", ErrEmptyTrajectory)
	}

	e := math.Abs(last.Value - target)

	return e, e < tol, nil
}

// FinalPurity returns the purity of the last quantum sample.
func FinalPurity(traj quantum.Trajectory) (float64, error) {
	last, ok := traj.Last()
	if !ok {
		return 0, fmt.Errorf("quantum: %w", ErrEmptyTrajectory)
	}

	return last.Purity, nil
}

// MeanAbsExpectation averages |<O>| over all quantum samples.
func MeanAbsExpectation(traj quantum.Trajectory) (float64, error) {
	if traj.Len() == 0 {
		return 0, fmt.Errorf("quantum: %w", ErrEmptyTrajectory)
	}

	abs := make([]float64, traj.Len())
	for i, e := range traj.Expectations() {
		abs[i] = cmplx.Abs(e)
	}

	return stat.Mean(abs, nil), nil
}
