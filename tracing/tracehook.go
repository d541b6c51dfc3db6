package tracing

import (
	"github.com/sarchlab/fracflow/ode"
	"github.com/sarchlab/fracflow/quantum"
	"github.com/sarchlab/fracflow/relaxation"
	"github.com/sarchlab/fracflow/sim"
)

// CollectTrace let the tracer to collect trace from a domain.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	if domain.Name() == "" {
		panic("domain must have a name")
	}

	domain.AcceptHook(&traceHook{where: domain.Name(), t: tracer})
}

// A traceHook forwards the hook invocations of one domain to a tracer.
type traceHook struct {
	where string
	t     Tracer
}

// Func calls the tracer interfaces when the hook is triggered.
func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case ode.HookPosStepAccepted:
		h.t.StepAccepted(h.where, ctx.Item.(ode.StepInfo))
	case ode.HookPosStepRejected:
		h.t.StepRejected(h.where, ctx.Item.(ode.StepInfo))
	case relaxation.HookPosSampleRecorded:
		h.t.ScalarSample(h.where, ctx.Item.(relaxation.Sample))
	case quantum.HookPosSampleRecorded:
		h.t.QuantumSample(h.where, ctx.Item.(quantum.Sample))
	}
}
