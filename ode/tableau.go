package ode

const nStages = 6

// Dormand-Prince 5(4) coefficients.
var (
	dpC = [nStages]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1}

	dpA = [nStages][nStages]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
	}

	dpB = [nStages]float64{
		35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84,
	}

	// dpE is the difference between the 5th and the embedded 4th order
	// weights, including the FSAL stage.
	dpE = [nStages + 1]float64{
		-71.0 / 57600, 0, 71.0 / 16695, -71.0 / 1920,
		17253.0 / 339200, -22.0 / 525, 1.0 / 40,
	}
)

const (
	errorEstimatorOrder = 4
	safety              = 0.9
	minFactor           = 0.2
	maxFactor           = 10
	errorExponent       = -1.0 / (errorEstimatorOrder + 1)
)
