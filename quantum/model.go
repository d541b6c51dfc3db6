package quantum

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/fracflow/params"
	"gonum.org/v1/gonum/mat"
)

// HilbertDim is the dimension of the two-qubit space.
const HilbertDim = 4

const hermitianTol = 1e-12

// DimensionError reports an operator or state of the wrong size.
type DimensionError struct {
	What string
	Got  int
	Want int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s has dimension %d, want %d", e.What, e.Got, e.Want)
}

// Model describes what is evolved and what is measured.
type Model struct {
	Hamiltonian Operator
	Initial     Ket
	Observable  Operator
	CollapseOps []Operator
}

// TransverseIsing returns omega/2 * Z(x)I + coupling/4 * X(x)X.
func TransverseIsing(omega, coupling float64) Operator {
	field := SigmaZ().Kron(Identity(2)).Scale(complex(omega/2, 0))
	ising := SigmaX().Kron(SigmaX()).Scale(complex(coupling/4, 0))

	return field.Add(ising)
}

// DephasingOps returns sqrt(rate) * Z on each qubit, or nil when rate is 0.
func DephasingOps(rate float64) []Operator {
	if rate <= 0 {
		return nil
	}

	amp := complex(math.Sqrt(rate), 0)

	return []Operator{
		SigmaZ().Kron(Identity(2)).Scale(amp),
		Identity(2).Kron(SigmaZ()).Scale(amp),
	}
}

// ReferenceModel builds the spin pair described by q.
func ReferenceModel(q params.QuantumSet) Model {
	return Model{
		Hamiltonian: TransverseIsing(q.Omega(), q.Coupling()),
		Initial:     PlusState().Kron(PlusState()),
		Observable:  SigmaX().Kron(SigmaX()),
		CollapseOps: DephasingOps(q.DephasingRate),
	}
}

// Closed reports whether the model has no collapse operators.
func (m Model) Closed() bool {
	return len(m.CollapseOps) == 0
}

// Validate checks dimensions, hermiticity and normalization.
func (m Model) Validate() error {
	checks := []struct {
		what string
		dim  int
	}{
		{"hamiltonian", m.Hamiltonian.Dim()},
		{"initial state", len(m.Initial)},
		{"observable", m.Observable.Dim()},
	}
	for i, c := range m.CollapseOps {
		checks = append(checks, struct {
			what string
			dim  int
		}{fmt.Sprintf("collapse operator %d", i), c.Dim()})
	}

	for _, c := range checks {
		if c.dim != HilbertDim {
			return &DimensionError{What: c.what, Got: c.dim, Want: HilbertDim}
		}
	}

	if !m.Hamiltonian.IsHermitian(hermitianTol) {
		return errors.New("hamiltonian is not hermitian")
	}

	if math.Abs(m.Initial.Norm()-1) > 1e-12 {
		return fmt.Errorf("initial state has norm %g, want 1", m.Initial.Norm())
	}

	return nil
}

// Spectrum returns the eigenvalues of the Hamiltonian in ascending order.
// The Hermitian matrix H = A + iB is embedded in the real symmetric matrix
// [[A, -B], [B, A]], whose spectrum is that of H with every eigenvalue
// doubled.
func (m Model) Spectrum() ([]float64, error) {
	h := m.Hamiltonian
	if !h.IsHermitian(hermitianTol) {
		return nil, errors.New("hamiltonian is not hermitian")
	}

	n := h.Dim()
	sym := mat.NewSymDense(2*n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := h.At(i, j)
			sym.SetSym(i, j, real(v))
			sym.SetSym(n+i, n+j, real(v))
		}
		for j := 0; j < n; j++ {
			sym.SetSym(i, n+j, -imag(h.At(i, j)))
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, false); !ok {
		return nil, errors.New("eigen decomposition failed")
	}

	doubled := es.Values(nil)
	values := make([]float64, n)
	for i := range values {
		values[i] = doubled[2*i]
	}

	return values, nil
}
