package ode

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/fracflow/sim"
	"gonum.org/v1/gonum/floats"
)

// Func evaluates dy/dt at (t, y) into dydt. Implementations must not retain
// y or dydt.
type Func func(t float64, y, dydt []float64) error

// Problem is an initial value problem on [T0, TEnd].
type Problem struct {
	F    Func
	T0   float64
	TEnd float64
	Y0   []float64
}

// HookPosStepAccepted triggers after a step is accepted. The item is a
// StepInfo.
var HookPosStepAccepted = &sim.HookPos{Name: "StepAccepted"}

// HookPosStepRejected triggers after a step attempt is rejected. The item is
// a StepInfo.
var HookPosStepRejected = &sim.HookPos{Name: "StepRejected"}

// StepInfo describes one step attempt. T is the time the step ends at.
type StepInfo struct {
	T       float64
	H       float64
	ErrNorm float64
}

// Stats counts the work done by a Stepper.
type Stats struct {
	Accepted    int
	Rejected    int
	Evaluations int
}

// A Stepper advances the solution of a Problem one accepted step at a time.
type Stepper struct {
	sim.HookableBase

	problem Problem
	opts    Options

	t    float64
	y    []float64
	f    []float64
	hAbs float64

	k    [nStages + 1][]float64
	yNew []float64
	fNew []float64
	tmp  []float64

	stats Stats
	done  bool
}

// NewStepper validates the problem, evaluates the initial derivative and
// selects the first step size.
func NewStepper(p Problem, opts Options) (*Stepper, error) {
	if err := validateProblem(p); err != nil {
		return nil, err
	}

	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}

	n := len(p.Y0)
	s := &Stepper{
		problem: p,
		opts:    opts,
		t:       p.T0,
		y:       append([]float64(nil), p.Y0...),
		f:       make([]float64, n),
		yNew:    make([]float64, n),
		fNew:    make([]float64, n),
		tmp:     make([]float64, n),
	}
	for i := range s.k {
		s.k[i] = make([]float64, n)
	}

	if !allFinite(s.y) {
		return nil, fmt.Errorf("%w: initial state", ErrNonFinite)
	}

	if err := s.eval(s.t, s.y, s.f); err != nil {
		return nil, err
	}

	s.hAbs = opts.FirstStep
	if s.hAbs <= 0 {
		s.hAbs, err = s.selectInitialStep()
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

func validateProblem(p Problem) error {
	if p.F == nil {
		return errors.New("problem has no derivative function")
	}

	if len(p.Y0) == 0 {
		return errors.New("problem has an empty state")
	}

	if math.IsNaN(p.T0) || math.IsInf(p.T0, 0) ||
		math.IsNaN(p.TEnd) || math.IsInf(p.TEnd, 0) {
		return fmt.Errorf("%w: interval [%g, %g]", ErrNonFinite, p.T0, p.TEnd)
	}

	if p.TEnd <= p.T0 {
		return fmt.Errorf("interval end %g must be after start %g",
			p.TEnd, p.T0)
	}

	return nil
}

// Time returns the time of the last accepted step.
func (s *Stepper) Time() float64 {
	return s.t
}

// State copies the state at Time into dst, allocating when dst is too short.
func (s *Stepper) State(dst []float64) []float64 {
	if len(dst) < len(s.y) {
		dst = make([]float64, len(s.y))
	}

	copy(dst, s.y)

	return dst[:len(s.y)]
}

// Done reports whether the stepper has reached the end of the interval.
func (s *Stepper) Done() bool {
	return s.done
}

// Stats returns the work done so far.
func (s *Stepper) Stats() Stats {
	return s.stats
}

// Step advances the solution by one accepted step. It does nothing once the
// end of the interval is reached.
func (s *Stepper) Step() error {
	if s.done {
		return nil
	}

	tEnd := s.problem.TEnd
	minStep := 10 * (math.Nextafter(s.t, math.Inf(1)) - s.t)

	hAbs := s.hAbs
	if hAbs > s.opts.MaxStep {
		hAbs = s.opts.MaxStep
	} else if hAbs < minStep {
		hAbs = minStep
	}

	rejected := false
	for {
		attempts := s.stats.Accepted + s.stats.Rejected
		if attempts >= s.opts.MaxSteps {
			return &NonConvergenceError{
				T: s.t, Steps: attempts, Reason: "step budget exceeded",
			}
		}

		if hAbs < minStep {
			return &NonConvergenceError{
				T: s.t, Steps: attempts, Reason: "step size too small",
			}
		}

		tNew := s.t + hAbs
		if tNew > tEnd {
			tNew = tEnd
		}
		h := tNew - s.t
		hAbs = h

		if err := s.rkStep(h); err != nil {
			return err
		}

		errNorm := s.errorNorm(h)
		if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
			return fmt.Errorf("%w: error estimate at t=%g", ErrNonFinite, s.t)
		}

		info := StepInfo{T: tNew, H: h, ErrNorm: errNorm}

		if errNorm < 1 {
			factor := float64(maxFactor)
			if errNorm > 0 {
				factor = math.Min(maxFactor,
					safety*math.Pow(errNorm, errorExponent))
			}

			if rejected {
				factor = math.Min(1, factor)
			}

			s.accept(tNew, hAbs*factor)
			s.InvokeHook(sim.HookCtx{
				Domain: s,
				Pos:    HookPosStepAccepted,
				Item:   info,
			})

			return nil
		}

		s.stats.Rejected++
		s.InvokeHook(sim.HookCtx{
			Domain: s,
			Pos:    HookPosStepRejected,
			Item:   info,
		})

		hAbs *= math.Max(minFactor, safety*math.Pow(errNorm, errorExponent))
		rejected = true
	}
}

func (s *Stepper) accept(tNew, nextH float64) {
	s.t = tNew
	s.y, s.yNew = s.yNew, s.y
	s.f, s.fNew = s.fNew, s.f
	s.hAbs = nextH
	s.stats.Accepted++

	if s.t >= s.problem.TEnd {
		s.done = true
	}
}

func (s *Stepper) rkStep(h float64) error {
	copy(s.k[0], s.f)

	for i := 1; i < nStages; i++ {
		copy(s.tmp, s.y)
		for j := 0; j < i; j++ {
			if dpA[i][j] != 0 {
				floats.AddScaled(s.tmp, h*dpA[i][j], s.k[j])
			}
		}

		if err := s.eval(s.t+dpC[i]*h, s.tmp, s.k[i]); err != nil {
			return err
		}
	}

	copy(s.yNew, s.y)
	for j := 0; j < nStages; j++ {
		if dpB[j] != 0 {
			floats.AddScaled(s.yNew, h*dpB[j], s.k[j])
		}
	}

	if err := s.eval(s.t+h, s.yNew, s.fNew); err != nil {
		return err
	}
	copy(s.k[nStages], s.fNew)

	return nil
}

func (s *Stepper) errorNorm(h float64) float64 {
	atol, rtol := s.opts.AbsTol, s.opts.RelTol

	for i := range s.y {
		e := 0.0
		for j, w := range dpE {
			e += w * s.k[j][i]
		}

		scale := atol + rtol*math.Max(math.Abs(s.y[i]), math.Abs(s.yNew[i]))
		s.tmp[i] = h * e / scale
	}

	return rms(s.tmp)
}

func (s *Stepper) selectInitialStep() (float64, error) {
	p := s.problem
	interval := p.TEnd - p.T0
	n := len(s.y)

	scale := make([]float64, n)
	scaled := make([]float64, n)
	for i := range scale {
		scale[i] = s.opts.AbsTol + math.Abs(s.y[i])*s.opts.RelTol
	}

	d0 := rms(floats.DivTo(scaled, s.y, scale))
	d1 := rms(floats.DivTo(scaled, s.f, scale))

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, interval)

	y1 := floats.AddScaledTo(make([]float64, n), s.y, h0, s.f)
	f1 := make([]float64, n)
	if err := s.eval(p.T0+h0, y1, f1); err != nil {
		return 0, err
	}

	floats.SubTo(scaled, f1, s.f)
	floats.Div(scaled, scale)
	d2 := rms(scaled) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1.0/(errorEstimatorOrder+1))
	}

	return math.Min(math.Min(100*h0, h1), interval), nil
}

func (s *Stepper) eval(t float64, y, dydt []float64) error {
	s.stats.Evaluations++

	if err := s.problem.F(t, y, dydt); err != nil {
		return fmt.Errorf("derivative at t=%.10g: %w", t, err)
	}

	if !allFinite(dydt) {
		return fmt.Errorf("%w: derivative at t=%.10g", ErrNonFinite, t)
	}

	return nil
}

func rms(x []float64) float64 {
	return floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
