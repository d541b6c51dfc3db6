package analysis

import (
	"fmt"
	"math"

	"github.com/sarchlab/fracflow/params"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	sigmaMaxIter = 64
	sigmaRelTol  = 1e-15
)

// AreaProxy returns 8*pi*gamma*lP^2*sqrt(j(j+1))*log10(n).
func AreaProxy(a params.AreaSet, n int) float64 {
	j := a.Spin

	return 8 * math.Pi * a.Gamma * a.PlanckLength * a.PlanckLength *
		math.Sqrt(j*(j+1)) * math.Log10(float64(n))
}

// Posterior returns likelihood * prior / normalizer.
func Posterior(p params.PosteriorSet) float64 {
	return p.Likelihood * p.Prior / p.Normalizer
}

// SigmaEquivalent returns the z for which the standard normal upper tail
// Q(z) equals p. The quantile gives the starting point and Newton's method
// on log Q(z) refines it, which keeps the result accurate for p far below
// the double precision epsilon.
func SigmaEquivalent(p float64) (float64, error) {
	if err := params.ValidateProbability("Posterior.TailProbability", p); err != nil {
		return 0, err
	}

	n := distuv.UnitNormal
	logP := math.Log(p)
	z := -n.Quantile(p)

	for i := 0; i < sigmaMaxIter; i++ {
		logQ := logSurvival(z)

		// d/dz log Q(z) = -phi(z) / Q(z)
		dz := (logQ - logP) * math.Exp(logQ-n.LogProb(z))
		if math.IsNaN(dz) || math.IsInf(dz, 0) {
			break
		}
		z += dz

		if math.Abs(dz) <= sigmaRelTol*math.Max(1, math.Abs(z)) {
			break
		}
	}

	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 0, fmt.Errorf("%w: sigma equivalent of p=%g is %g",
			ErrOutOfRange, p, z)
	}

	return z, nil
}

// logSurvival returns log Q(z). Erfc stays representable down to about
// 1e-308; past that the leading terms of the asymptotic series are used.
func logSurvival(z float64) float64 {
	q := 0.5 * math.Erfc(z/math.Sqrt2)
	if q >= math.SmallestNonzeroFloat64*(1<<52) {
		return math.Log(q)
	}

	z2 := z * z

	return -z2/2 - math.Log(z*math.Sqrt(2*math.Pi)) +
		math.Log1p(-1/z2+3/(z2*z2))
}
