package quantum

// SigmaX returns the Pauli X operator.
func SigmaX() Operator {
	return mustOperator([][]complex128{
		{0, 1},
		{1, 0},
	})
}

// SigmaZ returns the Pauli Z operator.
func SigmaZ() Operator {
	return mustOperator([][]complex128{
		{1, 0},
		{0, -1},
	})
}

// PlusState returns (|0> + |1>) / sqrt(2).
func PlusState() Ket {
	return Basis(2, 0).Add(Basis(2, 1)).Unit()
}
