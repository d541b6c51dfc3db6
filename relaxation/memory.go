package relaxation

import (
	"fmt"
	"math"

	"github.com/sarchlab/fracflow/params"
)

// DomainError reports an operand outside the domain of the memory term.
type DomainError struct {
	Operand string
	Value   float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("memory term undefined: %s = %g", e.Operand, e.Value)
}

type memoryKernel struct {
	decayRate float64
	coupling  float64
	invGamma  float64
	exponent  float64
	offset    float64
	form      params.MemoryForm
	target    float64
}

func newMemoryKernel(p params.Set) (memoryKernel, error) {
	if err := params.ValidateFractionalOrder(p.FractionalOrder); err != nil {
		return memoryKernel{}, err
	}

	g := math.Gamma(2 - p.FractionalOrder)
	if math.IsInf(g, 0) || math.IsNaN(g) || g == 0 {
		return memoryKernel{}, &DomainError{
			Operand: "Gamma(2-alpha)",
			Value:   g,
		}
	}

	return memoryKernel{
		decayRate: p.DecayRate,
		coupling:  p.MemoryCoupling,
		invGamma:  1 / g,
		exponent:  1 - p.FractionalOrder,
		offset:    p.MemoryOffset,
		form:      p.MemoryForm,
		target:    p.TargetValue,
	}, nil
}

// term returns delta * M(t, r).
func (k memoryKernel) term(t, r float64) (float64, error) {
	base := t + k.offset
	if !(base > 0) {
		return 0, &DomainError{Operand: "t+eps", Value: base}
	}

	x := r
	if k.form == params.MemoryOnDeviation {
		x = r - k.target
	}

	m := k.coupling * x * k.invGamma * math.Pow(base, k.exponent)
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return 0, &DomainError{Operand: "memory term", Value: m}
	}

	return m, nil
}

func (k memoryKernel) derivative(t float64, y, dydt []float64) error {
	m, err := k.term(t, y[0])
	if err != nil {
		return err
	}

	dydt[0] = -k.decayRate*(y[0]-k.target) + m

	return nil
}

// MemoryTerm evaluates delta * M(t, r) for the parameter set.
func MemoryTerm(p params.Set, t, r float64) (float64, error) {
	k, err := newMemoryKernel(p)
	if err != nil {
		return 0, err
	}

	return k.term(t, r)
}
