package quantum

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/sarchlab/fracflow/ode"
	"github.com/sarchlab/fracflow/params"
	"github.com/sarchlab/fracflow/sim"
	"gonum.org/v1/gonum/floats"
)

// ErrPurityDrift reports a closed-system sample whose purity left
// [1-tol, 1+tol].
var ErrPurityDrift = errors.New("purity drifted away from 1")

// HookPosSampleRecorded triggers every time the evolver records a sample.
// The item is a Sample.
var HookPosSampleRecorded = &sim.HookPos{Name: "QuantumSample"}

type sampleEvent struct {
	*sim.EventBase
}

// Evolver is a component that evolves a Model on a uniform time grid.
type Evolver struct {
	*sim.ComponentBase

	engine    sim.Engine
	model     Model
	grid      []float64
	opts      ode.Options
	purityTol float64

	f     ode.Func
	y     []float64
	next  int
	stats ode.Stats

	lock    sync.Mutex
	samples []Sample
}

// Grid returns StepCount+1 equally spaced times covering the horizon.
func Grid(p params.Set) []float64 {
	grid := floats.Span(make([]float64, p.QuantumGridSize()),
		p.Horizon.Start, p.Horizon.End)
	grid[len(grid)-1] = p.Horizon.End

	return grid
}

// NewEvolver validates the parameter set and the model. Dimension
// mismatches fail here.
func NewEvolver(
	name string,
	engine sim.Engine,
	p params.Set,
	model Model,
) (*Evolver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	c := &Evolver{
		ComponentBase: sim.NewComponentBase(name),
		engine:        engine,
		model:         model,
		grid:          Grid(p),
		opts: ode.Options{
			AbsTol:   p.AbsTol,
			RelTol:   p.RelTol,
			MaxSteps: p.MaxSolverSteps,
		},
		purityTol: p.Quantum.PurityTolerance,
	}

	if model.Closed() {
		c.f = schrodinger(model.Hamiltonian)
		c.y = ketToVec(model.Initial, make([]float64, 2*HilbertDim))
	} else {
		c.f = lindblad(model.Hamiltonian, model.CollapseOps)
		c.y = operatorToVec(model.Initial.Density(),
			make([]float64, 2*HilbertDim*HilbertDim))
	}

	return c, nil
}

// Start schedules the first sample at the horizon start.
func (c *Evolver) Start() {
	c.schedule(0)
}

func (c *Evolver) schedule(index int) {
	c.engine.Schedule(sampleEvent{
		EventBase: sim.NewEventBase(sim.VTimeInSec(c.grid[index]), c),
	})
}

// Handle records the sample at the current grid point and evolves the state
// to the next one.
func (c *Evolver) Handle(e sim.Event) error {
	index := c.next

	sample, err := c.measure(c.grid[index])
	if err != nil {
		return err
	}

	c.lock.Lock()
	c.samples = append(c.samples, sample)
	c.lock.Unlock()

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosSampleRecorded,
		Item:   sample,
	})

	c.next++
	if c.next == len(c.grid) {
		return nil
	}

	if err := c.evolve(c.grid[index], c.grid[index+1]); err != nil {
		return err
	}

	c.schedule(index + 1)

	return nil
}

func (c *Evolver) density() Operator {
	if c.model.Closed() {
		return vecToKet(c.y).Density()
	}

	return vecToOperator(c.y, HilbertDim)
}

func (c *Evolver) measure(t float64) (Sample, error) {
	rho := c.density()
	expect := Expectation(c.model.Observable, rho)

	s := Sample{
		Time:        t,
		Purity:      Purity(rho),
		Expectation: expect,
		Energy:      real(Expectation(c.model.Hamiltonian, rho)),
		Density:     rho,
	}

	if math.IsNaN(s.Purity) || !isFinite(expect) {
		return Sample{}, fmt.Errorf("%w: sample at t=%g", ode.ErrNonFinite, t)
	}

	if c.model.Closed() && math.Abs(s.Purity-1) > c.purityTol {
		return Sample{}, fmt.Errorf("%w: purity %.12f at t=%g",
			ErrPurityDrift, s.Purity, t)
	}

	return s, nil
}

func (c *Evolver) evolve(from, to float64) error {
	stepper, err := ode.NewStepper(
		ode.Problem{F: c.f, T0: from, TEnd: to, Y0: c.y},
		c.opts,
	)
	if err != nil {
		return err
	}

	stepper.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
		ctx.Domain = c
		c.InvokeHook(ctx)
	}))

	for !stepper.Done() {
		if err := stepper.Step(); err != nil {
			return err
		}
	}

	c.y = stepper.State(c.y)

	st := stepper.Stats()
	c.stats.Accepted += st.Accepted
	c.stats.Rejected += st.Rejected
	c.stats.Evaluations += st.Evaluations

	return nil
}

// Finished reports whether every grid point has been sampled.
func (c *Evolver) Finished() bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return len(c.samples) == len(c.grid)
}

// Progress returns the fraction of grid points sampled.
func (c *Evolver) Progress() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return float64(len(c.samples)) / float64(len(c.grid))
}

// Stats returns the accumulated solver work over all grid segments.
func (c *Evolver) Stats() ode.Stats {
	return c.stats
}

// Trajectory returns a copy of the samples recorded so far.
func (c *Evolver) Trajectory() Trajectory {
	c.lock.Lock()
	defer c.lock.Unlock()

	return Trajectory{Samples: append([]Sample(nil), c.samples...)}
}

// Series returns the sample times and the real part of the observable
// expectation recorded so far.
func (c *Evolver) Series() (times, values []float64) {
	traj := c.Trajectory()

	values = make([]float64, traj.Len())
	for i, e := range traj.Expectations() {
		values[i] = real(e)
	}

	return traj.Times(), values
}

// Evolve runs the reference model for p on a private serial engine.
func Evolve(p params.Set) (Trajectory, error) {
	return EvolveModel(p, ReferenceModel(p.Quantum))
}

// EvolveModel runs an arbitrary model on a private serial engine.
func EvolveModel(p params.Set, model Model) (Trajectory, error) {
	engine := sim.NewSerialEngine()

	c, err := NewEvolver("SpinPair", engine, p, model)
	if err != nil {
		return Trajectory{}, err
	}

	c.Start()

	if err := engine.Run(); err != nil {
		return Trajectory{}, err
	}

	return c.Trajectory(), nil
}
