package quantum

import (
	"log"
	"math"
	"math/cmplx"
)

// Ket is a state vector.
type Ket []complex128

// Basis returns the i-th computational basis vector of a dim-dimensional
// space.
func Basis(dim, i int) Ket {
	if i < 0 || i >= dim {
		log.Panicf("basis index %d out of range for dimension %d", i, dim)
	}

	v := make(Ket, dim)
	v[i] = 1

	return v
}

// Add returns v + w.
func (v Ket) Add(w Ket) Ket {
	if len(v) != len(w) {
		log.Panicf("ket dimension mismatch: %d vs %d", len(v), len(w))
	}

	out := make(Ket, len(v))
	for i := range v {
		out[i] = v[i] + w[i]
	}

	return out
}

// Norm returns the Euclidean norm.
func (v Ket) Norm() float64 {
	s := 0.0
	for _, c := range v {
		a := cmplx.Abs(c)
		s += a * a
	}

	return math.Sqrt(s)
}

// Unit returns v scaled to unit norm.
func (v Ket) Unit() Ket {
	n := v.Norm()
	if n == 0 {
		log.Panic("cannot normalize a zero ket")
	}

	out := make(Ket, len(v))
	for i, c := range v {
		out[i] = c / complex(n, 0)
	}

	return out
}

// Kron returns the tensor product v (x) w.
func (v Ket) Kron(w Ket) Ket {
	out := make(Ket, 0, len(v)*len(w))
	for _, a := range v {
		for _, b := range w {
			out = append(out, a*b)
		}
	}

	return out
}

// Density returns the projector |v><v|.
func (v Ket) Density() Operator {
	n := len(v)
	rho := NewOperator(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			rho.data[i*n+j] = v[i] * cmplx.Conj(v[j])
		}
	}

	return rho
}

// Purity returns Tr(rho^2).
func Purity(rho Operator) float64 {
	return real(rho.Mul(rho).Trace())
}

// Expectation returns Tr(op rho).
func Expectation(op, rho Operator) complex128 {
	return op.Mul(rho).Trace()
}
