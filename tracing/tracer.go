// Package tracing turns hook invocations of the integrators into records.
package tracing

import (
	"github.com/sarchlab/fracflow/ode"
	"github.com/sarchlab/fracflow/quantum"
	"github.com/sarchlab/fracflow/relaxation"
	"github.com/sarchlab/fracflow/sim"
)

// NamedHookable represent something both have a name and can be hooked.
type NamedHookable interface {
	sim.Named
	sim.Hookable
}

// A Tracer collects what the integrators report. The where argument is the
// name of the reporting component.
type Tracer interface {
	StepAccepted(where string, step ode.StepInfo)
	StepRejected(where string, step ode.StepInfo)
	ScalarSample(where string, sample relaxation.Sample)
	QuantumSample(where string, sample quantum.Sample)
}
