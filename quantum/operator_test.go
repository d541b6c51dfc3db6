package quantum

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/fracflow/params"
)

var _ = Describe("Operator", func() {
	It("should satisfy the Pauli algebra", func() {
		x, z := SigmaX(), SigmaZ()
		id := Identity(2)
		y := z.Mul(x).Scale(-1i)

		Expect(x.Mul(x).EqualApprox(id, 0)).To(BeTrue())
		Expect(z.Mul(z).EqualApprox(id, 0)).To(BeTrue())
		Expect(y.Mul(y).EqualApprox(id, 0)).To(BeTrue())
		Expect(x.Mul(y).EqualApprox(z.Scale(1i), 0)).To(BeTrue())
		Expect(x.Mul(z).Add(z.Mul(x)).EqualApprox(NewOperator(2), 0)).
			To(BeTrue())
	})

	It("should build Kronecker products", func() {
		zi := SigmaZ().Kron(Identity(2))

		Expect(zi.Dim()).To(Equal(4))
		Expect(zi.At(0, 0)).To(Equal(complex128(1)))
		Expect(zi.At(1, 1)).To(Equal(complex128(1)))
		Expect(zi.At(2, 2)).To(Equal(complex128(-1)))
		Expect(zi.At(3, 3)).To(Equal(complex128(-1)))
		Expect(zi.Trace()).To(Equal(complex128(0)))
	})

	It("should reject ragged rows", func() {
		_, err := OperatorFromRows([][]complex128{{1, 0}, {0}})

		var dErr *DimensionError
		Expect(errors.As(err, &dErr)).To(BeTrue())
	})

	It("should report hermiticity", func() {
		Expect(SigmaZ().Mul(SigmaX()).Scale(1i).IsHermitian(0)).To(BeTrue())
		Expect(SigmaX().Mul(SigmaZ()).IsHermitian(1e-12)).To(BeFalse())
	})

	It("should give a pure product state unit purity", func() {
		psi := PlusState().Kron(PlusState())
		rho := psi.Density()

		Expect(psi.Norm()).To(BeNumerically("~", 1, 1e-15))
		Expect(Purity(rho)).To(BeNumerically("~", 1, 1e-15))
		Expect(real(rho.Trace())).To(BeNumerically("~", 1, 1e-15))

		xx := SigmaX().Kron(SigmaX())
		Expect(real(Expectation(xx, rho))).To(BeNumerically("~", 1, 1e-15))
	})

	It("should give the maximally mixed state purity 1/d", func() {
		rho := Identity(4).Scale(0.25)

		Expect(Purity(rho)).To(BeNumerically("~", 0.25, 1e-15))
	})
})

var _ = Describe("Model", func() {
	It("should build a valid closed reference model", func() {
		m := ReferenceModel(params.Reference().Quantum)

		Expect(m.Validate()).To(Succeed())
		Expect(m.Closed()).To(BeTrue())
		Expect(m.Hamiltonian.IsHermitian(1e-12)).To(BeTrue())
	})

	It("should have a doubly degenerate symmetric spectrum", func() {
		q := params.Reference().Quantum
		m := ReferenceModel(q)
		e := math.Hypot(q.Omega()/2, q.Coupling()/4)

		values, err := m.Spectrum()

		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(HaveLen(4))
		Expect(values[0]).To(BeNumerically("~", -e, 1e-10))
		Expect(values[1]).To(BeNumerically("~", -e, 1e-10))
		Expect(values[2]).To(BeNumerically("~", e, 1e-10))
		Expect(values[3]).To(BeNumerically("~", e, 1e-10))
	})

	It("should add collapse operators when dephasing", func() {
		q := params.Reference().Quantum
		q.DephasingRate = 0.1

		m := ReferenceModel(q)

		Expect(m.Closed()).To(BeFalse())
		Expect(m.CollapseOps).To(HaveLen(2))
		Expect(m.Validate()).To(Succeed())
	})

	It("should reject operators of the wrong size", func() {
		m := ReferenceModel(params.Reference().Quantum)
		m.Observable = SigmaX()

		err := m.Validate()

		var dErr *DimensionError
		Expect(errors.As(err, &dErr)).To(BeTrue())
		Expect(dErr.What).To(Equal("observable"))
		Expect(dErr.Got).To(Equal(2))
		Expect(dErr.Want).To(Equal(4))
	})

	It("should reject a non-normalized initial state", func() {
		m := ReferenceModel(params.Reference().Quantum)
		m.Initial = Basis(4, 0).Add(Basis(4, 1))

		Expect(m.Validate()).NotTo(Succeed())
	})
})
