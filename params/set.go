package params

import "math"

// MemoryForm selects which quantity the fractional memory term acts on.
type MemoryForm int

const (
	// MemoryOnDeviation applies the memory kernel to R - R_eq.
	MemoryOnDeviation MemoryForm = iota

	// MemoryOnValue applies the memory kernel to R itself.
	MemoryOnValue
)

func (f MemoryForm) String() string {
	switch f {
	case MemoryOnDeviation:
		return "deviation"
	case MemoryOnValue:
		return "value"
	default:
		return "unknown"
	}
}

// ParseMemoryForm converts "deviation" or "value" to a MemoryForm.
func ParseMemoryForm(s string) (MemoryForm, error) {
	switch s {
	case "deviation":
		return MemoryOnDeviation, nil
	case "value":
		return MemoryOnValue, nil
	default:
		return 0, &PreconditionError{
			Field:  "MemoryForm",
			Value:  s,
			Reason: `must be "deviation" or "value"`,
		}
	}
}

// Horizon is the simulated time span shared by both experiments.
type Horizon struct {
	Start float64
	End   float64
}

// Duration returns End - Start.
func (h Horizon) Duration() float64 {
	return h.End - h.Start
}

// QuantumSet configures the coupled spin pair.
type QuantumSet struct {
	// BaseFrequency is f in Hz; the angular frequency is 2*pi*f.
	BaseFrequency float64

	// CouplingScale is J / omega.
	CouplingScale float64

	// DephasingRate adds a sqrt(rate)*sigma_z collapse operator on each
	// qubit when positive.
	DephasingRate float64

	// PurityTolerance bounds |purity - 1| for the closed system.
	PurityTolerance float64
}

// Omega returns the angular frequency.
func (q QuantumSet) Omega() float64 {
	return 2 * math.Pi * q.BaseFrequency
}

// Coupling returns J.
func (q QuantumSet) Coupling() float64 {
	return q.CouplingScale * q.Omega()
}

// AreaSet holds the constants of the area proxy.
type AreaSet struct {
	Gamma        float64
	PlanckLength float64
	Spin         float64
}

// PosteriorSet holds the constants of the posterior and the tail
// probability that is converted into a sigma equivalent.
type PosteriorSet struct {
	Likelihood      float64
	Prior           float64
	Normalizer      float64
	TailProbability float64
}

// Set is the immutable parameter set of a run.
type Set struct {
	DecayRate       float64
	FractionalOrder float64
	MemoryCoupling  float64
	MemoryOffset    float64
	MemoryForm      MemoryForm

	MaxStep        float64
	AbsTol         float64
	RelTol         float64
	MaxSolverSteps int

	Horizon   Horizon
	StepCount int

	InitialValue         float64
	TargetValue          float64
	ConvergenceTolerance float64

	Quantum   QuantumSet
	Area      AreaSet
	Posterior PosteriorSet
}

// Reference returns the documented reference configuration.
func Reference() Set {
	return Set{
		DecayRate:       2,
		FractionalOrder: 0.621568,
		MemoryCoupling:  0.621568,
		MemoryOffset:    1e-10,
		MemoryForm:      MemoryOnDeviation,

		MaxStep:        0.378432,
		AbsTol:         1e-10,
		RelTol:         1e-10,
		MaxSolverSteps: 100000,

		Horizon:   Horizon{Start: 0, End: 12.49},
		StepCount: 33,

		InitialValue:         6.0001,
		TargetValue:          6,
		ConvergenceTolerance: 1e-7,

		Quantum: QuantumSet{
			BaseFrequency:   2.642,
			CouplingScale:   0.01,
			DephasingRate:   0,
			PurityTolerance: 1e-6,
		},
		Area: AreaSet{
			Gamma:        0.274,
			PlanckLength: 1.616e-35,
			Spin:         0.5,
		},
		Posterior: PosteriorSet{
			Likelihood:      0.999,
			Prior:           0.95,
			Normalizer:      1.0,
			TailProbability: 1e-141,
		},
	}
}

// QuantumGridSize returns the number of quantum samples, StepCount+1.
func (s Set) QuantumGridSize() int {
	return s.StepCount + 1
}
