// Package ode integrates systems of ordinary differential equations with an
// adaptive explicit Runge-Kutta method.
//
// The only method provided is Dormand-Prince 5(4) with local extrapolation
// (the classic "RK45"). Steps are controlled on a mixed absolute/relative
// error norm, bounded above by a maximum step, and the final step always
// lands exactly on the end of the interval.
//
// A Stepper advances one accepted step per call, which lets event-driven
// components interleave integration with other work. Solve drives a
// Stepper to completion and collects every accepted step.
package ode
