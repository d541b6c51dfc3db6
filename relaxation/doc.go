// Package relaxation integrates a scalar relaxation law with a
// fractional-order memory correction:
//
//	dR/dt = -k (R - R_eq) + delta * M(t, R)
//	M(t, R) = X / Gamma(2 - alpha) * (t + eps)^(1 - alpha)
//
// where X is R - R_eq (params.MemoryOnDeviation) or R (params.MemoryOnValue).
// The small offset eps keeps the power finite at t = 0.
//
// The closed form of the perturbed curvature used to motivate the memory
// term was derived offline and is not evaluated at runtime. With the round
// S^3 baseline R = 6 it reads
//
//	R_f(t) = 6 + delta * 6 / Gamma(2 - alpha) * t^(1 - alpha)
//
// The Integrator is an engine component. Each accepted solver step becomes
// one event at the time the step lands on, so the engine clock always equals
// the time of the most recent sample.
package relaxation
