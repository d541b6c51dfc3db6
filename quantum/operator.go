package quantum

import (
	"fmt"
	"log"
	"math"
	"math/cmplx"
	"strings"
)

// Operator is a dense square complex matrix stored in row-major order.
// Operations return new operators and never modify their receivers.
type Operator struct {
	dim  int
	data []complex128
}

// NewOperator creates a dim x dim zero operator.
func NewOperator(dim int) Operator {
	if dim <= 0 {
		log.Panicf("operator dimension must be positive, got %d", dim)
	}

	return Operator{dim: dim, data: make([]complex128, dim*dim)}
}

// Identity creates the dim x dim identity.
func Identity(dim int) Operator {
	op := NewOperator(dim)
	for i := 0; i < dim; i++ {
		op.data[i*dim+i] = 1
	}

	return op
}

// OperatorFromRows creates an operator from a square list of rows.
func OperatorFromRows(rows [][]complex128) (Operator, error) {
	n := len(rows)
	if n == 0 {
		return Operator{}, &DimensionError{What: "operator rows", Got: 0, Want: 1}
	}

	op := NewOperator(n)
	for i, row := range rows {
		if len(row) != n {
			return Operator{}, &DimensionError{
				What: fmt.Sprintf("operator row %d", i),
				Got:  len(row),
				Want: n,
			}
		}

		copy(op.data[i*n:(i+1)*n], row)
	}

	return op, nil
}

func mustOperator(rows [][]complex128) Operator {
	op, err := OperatorFromRows(rows)
	if err != nil {
		log.Panic(err)
	}

	return op
}

// Dim returns the dimension of the space the operator acts on.
func (a Operator) Dim() int {
	return a.dim
}

// At returns the (i, j) element.
func (a Operator) At(i, j int) complex128 {
	return a.data[i*a.dim+j]
}

func (a Operator) sameShape(b Operator) {
	if a.dim != b.dim {
		log.Panicf("operator dimension mismatch: %d vs %d", a.dim, b.dim)
	}
}

// Add returns a + b.
func (a Operator) Add(b Operator) Operator {
	a.sameShape(b)

	out := NewOperator(a.dim)
	for i := range out.data {
		out.data[i] = a.data[i] + b.data[i]
	}

	return out
}

// Sub returns a - b.
func (a Operator) Sub(b Operator) Operator {
	return a.Add(b.Scale(-1))
}

// Scale returns c * a.
func (a Operator) Scale(c complex128) Operator {
	out := NewOperator(a.dim)
	for i, v := range a.data {
		out.data[i] = c * v
	}

	return out
}

// Mul returns the matrix product a * b.
func (a Operator) Mul(b Operator) Operator {
	a.sameShape(b)

	n := a.dim
	out := NewOperator(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			aik := a.data[i*n+k]
			if aik == 0 {
				continue
			}

			for j := 0; j < n; j++ {
				out.data[i*n+j] += aik * b.data[k*n+j]
			}
		}
	}

	return out
}

// Dagger returns the conjugate transpose.
func (a Operator) Dagger() Operator {
	n := a.dim
	out := NewOperator(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.data[j*n+i] = cmplx.Conj(a.data[i*n+j])
		}
	}

	return out
}

// Kron returns the tensor product a (x) b.
func (a Operator) Kron(b Operator) Operator {
	n, m := a.dim, b.dim
	out := NewOperator(n * m)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			aij := a.data[i*n+j]
			for k := 0; k < m; k++ {
				for l := 0; l < m; l++ {
					out.data[(i*m+k)*n*m+j*m+l] = aij * b.data[k*m+l]
				}
			}
		}
	}

	return out
}

// Trace returns the sum of the diagonal.
func (a Operator) Trace() complex128 {
	var tr complex128
	for i := 0; i < a.dim; i++ {
		tr += a.data[i*a.dim+i]
	}

	return tr
}

// Apply returns a |v>.
func (a Operator) Apply(v Ket) Ket {
	if len(v) != a.dim {
		log.Panicf("cannot apply a %d-dim operator to a %d-dim ket",
			a.dim, len(v))
	}

	n := a.dim
	out := make(Ket, n)
	for i := 0; i < n; i++ {
		var s complex128
		for j := 0; j < n; j++ {
			s += a.data[i*n+j] * v[j]
		}
		out[i] = s
	}

	return out
}

// IsHermitian reports whether a equals its conjugate transpose within tol.
func (a Operator) IsHermitian(tol float64) bool {
	n := a.dim
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if cmplx.Abs(a.data[i*n+j]-cmplx.Conj(a.data[j*n+i])) > tol {
				return false
			}
		}
	}

	return true
}

// EqualApprox reports whether every element of a and b differs by at most
// tol.
func (a Operator) EqualApprox(b Operator, tol float64) bool {
	if a.dim != b.dim {
		return false
	}

	for i := range a.data {
		if cmplx.Abs(a.data[i]-b.data[i]) > tol {
			return false
		}
	}

	return true
}

func (a Operator) String() string {
	var sb strings.Builder
	for i := 0; i < a.dim; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}

		for j := 0; j < a.dim; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}

			v := a.data[i*a.dim+j]
			fmt.Fprintf(&sb, "%+.4f%+.4fi", real(v), imag(v))
		}
	}

	return sb.String()
}

func isFinite(v complex128) bool {
	return !cmplx.IsNaN(v) && !math.IsInf(real(v), 0) && !math.IsInf(imag(v), 0)
}
