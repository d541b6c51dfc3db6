package quantum

import "github.com/sarchlab/fracflow/ode"

func ketToVec(v Ket, dst []float64) []float64 {
	for i, c := range v {
		dst[2*i] = real(c)
		dst[2*i+1] = imag(c)
	}

	return dst
}

func vecToKet(y []float64) Ket {
	v := make(Ket, len(y)/2)
	for i := range v {
		v[i] = complex(y[2*i], y[2*i+1])
	}

	return v
}

func operatorToVec(op Operator, dst []float64) []float64 {
	for i, c := range op.data {
		dst[2*i] = real(c)
		dst[2*i+1] = imag(c)
	}

	return dst
}

func vecToOperator(y []float64, dim int) Operator {
	op := NewOperator(dim)
	for i := range op.data {
		op.data[i] = complex(y[2*i], y[2*i+1])
	}

	return op
}

// schrodinger returns d|psi>/dt = -i H |psi> on the real/imaginary
// interleaved state vector.
func schrodinger(h Operator) ode.Func {
	return func(t float64, y, dydt []float64) error {
		hpsi := h.Apply(vecToKet(y))
		for i, c := range hpsi {
			d := -1i * c
			dydt[2*i] = real(d)
			dydt[2*i+1] = imag(d)
		}

		return nil
	}
}

// lindblad returns the master equation
//
//	drho/dt = -i[H, rho] + sum_k (L_k rho L_k^+ - 1/2 {L_k^+ L_k, rho})
//
// on the real/imaginary interleaved density operator.
func lindblad(h Operator, collapse []Operator) ode.Func {
	dim := h.Dim()

	daggers := make([]Operator, len(collapse))
	anti := NewOperator(dim)
	for i, l := range collapse {
		daggers[i] = l.Dagger()
		anti = anti.Add(daggers[i].Mul(l))
	}
	anti = anti.Scale(0.5)

	return func(t float64, y, dydt []float64) error {
		rho := vecToOperator(y, dim)

		d := h.Mul(rho).Sub(rho.Mul(h)).Scale(-1i)
		for i, l := range collapse {
			d = d.Add(l.Mul(rho).Mul(daggers[i]))
		}
		d = d.Sub(anti.Mul(rho)).Sub(rho.Mul(anti))

		operatorToVec(d, dydt)

		return nil
	}
}
