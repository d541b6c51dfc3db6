package ode

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/fracflow/sim"
)

func decay(rate float64) Func {
	return func(t float64, y, dydt []float64) error {
		dydt[0] = -rate * y[0]
		return nil
	}
}

func oscillator(t float64, y, dydt []float64) error {
	dydt[0] = y[1]
	dydt[1] = -y[0]
	return nil
}

func tightOptions() Options {
	return Options{AbsTol: 1e-10, RelTol: 1e-10}
}

var _ = Describe("Solve", func() {
	It("should integrate exponential decay", func() {
		sol, err := Solve(Problem{
			F: decay(1), T0: 0, TEnd: 5, Y0: []float64{1},
		}, tightOptions())

		Expect(err).NotTo(HaveOccurred())
		tEnd, yEnd := sol.Last()
		Expect(tEnd).To(Equal(5.0))
		Expect(yEnd[0]).To(BeNumerically("~", math.Exp(-5), 1e-9))
		Expect(sol.T[0]).To(Equal(0.0))
		Expect(sol.Stats.Accepted).To(Equal(len(sol.T) - 1))
	})

	It("should produce strictly increasing times", func() {
		sol, err := Solve(Problem{
			F: oscillator, T0: 0, TEnd: 2 * math.Pi, Y0: []float64{1, 0},
		}, tightOptions())

		Expect(err).NotTo(HaveOccurred())
		for i := 1; i < len(sol.T); i++ {
			Expect(sol.T[i]).To(BeNumerically(">", sol.T[i-1]))
		}

		_, yEnd := sol.Last()
		Expect(yEnd[0]).To(BeNumerically("~", 1, 1e-8))
		Expect(yEnd[1]).To(BeNumerically("~", 0, 1e-8))
	})

	It("should respect the maximum step", func() {
		opts := tightOptions()
		opts.MaxStep = 0.25

		sol, err := Solve(Problem{
			F: decay(0.1), T0: 1, TEnd: 4, Y0: []float64{2},
		}, opts)

		Expect(err).NotTo(HaveOccurred())
		for i := 1; i < len(sol.T); i++ {
			Expect(sol.T[i] - sol.T[i-1]).To(BeNumerically("<=", 0.25+1e-15))
		}
		Expect(len(sol.T)).To(BeNumerically(">=", 13))
	})

	It("should be deterministic", func() {
		p := Problem{F: oscillator, T0: 0, TEnd: 3, Y0: []float64{0.3, -1}}

		a, errA := Solve(p, tightOptions())
		b, errB := Solve(p, tightOptions())

		Expect(errA).NotTo(HaveOccurred())
		Expect(errB).NotTo(HaveOccurred())
		Expect(a.T).To(Equal(b.T))
		Expect(a.Y).To(Equal(b.Y))
	})

	It("should not modify the initial state", func() {
		y0 := []float64{1}

		_, err := Solve(Problem{F: decay(1), T0: 0, TEnd: 1, Y0: y0}, tightOptions())

		Expect(err).NotTo(HaveOccurred())
		Expect(y0).To(Equal([]float64{1}))
	})

	It("should report an exhausted step budget", func() {
		opts := tightOptions()
		opts.MaxStep = 0.01
		opts.MaxSteps = 5

		sol, err := Solve(Problem{
			F: decay(1), T0: 0, TEnd: 1, Y0: []float64{1},
		}, opts)

		Expect(sol).To(BeNil())
		Expect(errors.Is(err, ErrNonConvergence)).To(BeTrue())

		var ncErr *NonConvergenceError
		Expect(errors.As(err, &ncErr)).To(BeTrue())
		Expect(ncErr.Reason).To(Equal("step budget exceeded"))
		Expect(ncErr.Steps).To(Equal(5))
	})

	It("should report non-finite derivatives", func() {
		f := func(t float64, y, dydt []float64) error {
			dydt[0] = 1
			if t > 0.5 {
				dydt[0] = math.NaN()
			}
			return nil
		}

		_, err := Solve(Problem{F: f, T0: 0, TEnd: 1, Y0: []float64{0}},
			tightOptions())

		Expect(errors.Is(err, ErrNonFinite)).To(BeTrue())
	})

	It("should propagate derivative errors", func() {
		domainErr := errors.New("negative base")
		f := func(t float64, y, dydt []float64) error {
			if t > 0.5 {
				return domainErr
			}
			dydt[0] = 1
			return nil
		}

		_, err := Solve(Problem{F: f, T0: 0, TEnd: 1, Y0: []float64{0}},
			tightOptions())

		Expect(errors.Is(err, domainErr)).To(BeTrue())
		Expect(errors.Is(err, ErrNonConvergence)).To(BeFalse())
	})

	It("should reject invalid problems", func() {
		_, err := Solve(Problem{F: decay(1), T0: 1, TEnd: 1, Y0: []float64{1}},
			tightOptions())
		Expect(err).To(HaveOccurred())

		_, err = Solve(Problem{T0: 0, TEnd: 1, Y0: []float64{1}}, tightOptions())
		Expect(err).To(HaveOccurred())

		_, err = Solve(Problem{F: decay(1), T0: 0, TEnd: 1, Y0: []float64{1}},
			Options{AbsTol: 0, RelTol: 1e-6})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Stepper", func() {
	It("should advance one accepted step per call", func() {
		stepper, err := NewStepper(Problem{
			F: decay(2), T0: 0, TEnd: 1, Y0: []float64{1},
		}, tightOptions())
		Expect(err).NotTo(HaveOccurred())

		accepted := 0
		rejected := 0
		stepper.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			info := ctx.Item.(StepInfo)
			Expect(ctx.Domain).To(BeIdenticalTo(stepper))

			switch ctx.Pos {
			case HookPosStepAccepted:
				accepted++
				Expect(info.ErrNorm).To(BeNumerically("<", 1))
				Expect(info.T).To(Equal(stepper.Time()))
			case HookPosStepRejected:
				rejected++
				Expect(info.ErrNorm).To(BeNumerically(">=", 1))
			}
		}))

		prev := stepper.Time()
		for !stepper.Done() {
			Expect(stepper.Step()).To(Succeed())
			Expect(stepper.Time()).To(BeNumerically(">", prev))
			prev = stepper.Time()
		}

		Expect(stepper.Time()).To(Equal(1.0))
		Expect(accepted).To(Equal(stepper.Stats().Accepted))
		Expect(rejected).To(Equal(stepper.Stats().Rejected))
		Expect(stepper.State(nil)[0]).To(BeNumerically("~", math.Exp(-2), 1e-9))

		Expect(stepper.Step()).To(Succeed())
		Expect(stepper.Stats().Accepted).To(Equal(accepted))
	})

	It("should honor an explicit first step", func() {
		opts := tightOptions()
		opts.FirstStep = 1e-3

		stepper, err := NewStepper(Problem{
			F: decay(1), T0: 0, TEnd: 1, Y0: []float64{1},
		}, opts)
		Expect(err).NotTo(HaveOccurred())

		Expect(stepper.Step()).To(Succeed())
		Expect(stepper.Time()).To(BeNumerically("<=", 1e-3))
	})
})
