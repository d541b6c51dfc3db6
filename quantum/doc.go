// Package quantum evolves a pair of coupled two-level systems.
//
// The Hamiltonian is a transverse field on the first qubit plus an
// Ising-type coupling,
//
//	H = omega/2 * Z(x)I + J/4 * X(x)X,
//
// and the initial state is |+>|+>. Without collapse operators the state
// vector follows the Schrodinger equation (hbar = 1) and every sample is a
// pure state. With collapse operators the density operator follows the
// Lindblad master equation and purity may decay.
//
// Both equations are integrated with package ode between consecutive points
// of a uniform time grid. The Evolver is an engine component that produces
// one sample per grid point.
package quantum
