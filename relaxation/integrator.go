package relaxation

import (
	"sync"

	"github.com/sarchlab/fracflow/ode"
	"github.com/sarchlab/fracflow/params"
	"github.com/sarchlab/fracflow/sim"
)

// HookPosSampleRecorded triggers every time the integrator records a
// sample. The item is a Sample.
var HookPosSampleRecorded = &sim.HookPos{Name: "RelaxationSample"}

type arriveEvent struct {
	*sim.EventBase
}

// Integrator is a component that integrates the relaxation law on an engine.
type Integrator struct {
	*sim.ComponentBase

	engine  sim.Engine
	horizon params.Horizon
	stepper *ode.Stepper

	lock    sync.Mutex
	samples []Sample
}

// NewIntegrator validates the parameter set and prepares the solver. An
// alpha outside (0, 1) or a horizon that starts at or before -eps fails
// here rather than during the run.
func NewIntegrator(
	name string,
	engine sim.Engine,
	p params.Set,
) (*Integrator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	kernel, err := newMemoryKernel(p)
	if err != nil {
		return nil, err
	}

	if base := p.Horizon.Start + p.MemoryOffset; !(base > 0) {
		return nil, &DomainError{Operand: "t+eps", Value: base}
	}

	stepper, err := ode.NewStepper(
		ode.Problem{
			F:    kernel.derivative,
			T0:   p.Horizon.Start,
			TEnd: p.Horizon.End,
			Y0:   []float64{p.InitialValue},
		},
		ode.Options{
			AbsTol:   p.AbsTol,
			RelTol:   p.RelTol,
			MaxStep:  p.MaxStep,
			MaxSteps: p.MaxSolverSteps,
		},
	)
	if err != nil {
		return nil, err
	}

	c := &Integrator{
		ComponentBase: sim.NewComponentBase(name),
		engine:        engine,
		horizon:       p.Horizon,
		stepper:       stepper,
	}

	stepper.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
		ctx.Domain = c
		c.InvokeHook(ctx)
	}))

	return c, nil
}

// Start schedules the first sample at the horizon start.
func (c *Integrator) Start() {
	c.engine.Schedule(arriveEvent{
		EventBase: sim.NewEventBase(sim.VTimeInSec(c.horizon.Start), c),
	})
}

// Handle records the sample the solver has arrived at and computes the next
// step.
func (c *Integrator) Handle(e sim.Event) error {
	sample := Sample{
		Time:  c.stepper.Time(),
		Value: c.stepper.State(nil)[0],
	}

	c.lock.Lock()
	c.samples = append(c.samples, sample)
	c.lock.Unlock()

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosSampleRecorded,
		Item:   sample,
	})

	if c.stepper.Done() {
		return nil
	}

	if err := c.stepper.Step(); err != nil {
		return err
	}

	c.engine.Schedule(arriveEvent{
		EventBase: sim.NewEventBase(sim.VTimeInSec(c.stepper.Time()), c),
	})

	return nil
}

// Finished reports whether the integrator has reached the horizon end.
func (c *Integrator) Finished() bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.stepper.Done() &&
		len(c.samples) > 0 &&
		c.samples[len(c.samples)-1].Time == c.horizon.End
}

// Progress returns the fraction of the horizon covered so far.
func (c *Integrator) Progress() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	if len(c.samples) == 0 {
		return 0
	}

	last := c.samples[len(c.samples)-1].Time

	return (last - c.horizon.Start) / c.horizon.Duration()
}

// Stats returns the solver work counters.
func (c *Integrator) Stats() ode.Stats {
	return c.stepper.Stats()
}

// Trajectory returns a copy of the samples recorded so far.
func (c *Integrator) Trajectory() Trajectory {
	c.lock.Lock()
	defer c.lock.Unlock()

	return Trajectory{Samples: append([]Sample(nil), c.samples...)}
}

// Integrate runs the integrator on a private serial engine.
func Integrate(p params.Set) (Trajectory, error) {
	engine := sim.NewSerialEngine()

	c, err := NewIntegrator("Relaxation", engine, p)
	if err != nil {
		return Trajectory{}, err
	}

	c.Start()

	if err := engine.Run(); err != nil {
		return Trajectory{}, err
	}

	return c.Trajectory(), nil
}

// Series returns the sample times and values recorded so far.
func (c *Integrator) Series() (times, values []float64) {
	traj := c.Trajectory()

	return traj.Times(), traj.Values()
}
