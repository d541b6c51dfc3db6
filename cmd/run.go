package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/sarchlab/fracflow/analysis"
	"github.com/sarchlab/fracflow/params"
	"github.com/sarchlab/fracflow/simulation"
	"github.com/spf13/cobra"
)

type runOptions struct {
	output      string
	noRecord    bool
	recordSteps bool
	monitor     bool
	monitorPort int
	openBrowser bool

	memoryForm string
	initial    float64
	dephasing  float64
	stepCount  int
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	ref := params.Reference()

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run both integrators and print the summary.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, root)
		},
	}

	port, _ := strconv.Atoi(envOr(envMonitorPort, "0"))

	f := runCmd.Flags()
	f.StringVar(&opts.output, "output", envOr(envOutput, ""),
		"database file name without extension (default: a unique name)")
	f.BoolVar(&opts.noRecord, "no-record", false, "do not write a database")
	f.BoolVar(&opts.recordSteps, "record-steps", false,
		"record every solver step attempt")
	f.BoolVar(&opts.monitor, "monitor", false, "serve the monitoring API")
	f.IntVar(&opts.monitorPort, "monitor-port", port,
		"monitoring port (default: random)")
	f.BoolVar(&opts.openBrowser, "open-browser", false,
		"open the monitor in a browser")
	f.StringVar(&opts.memoryForm, "memory-form", ref.MemoryForm.String(),
		`quantity the memory term acts on: "deviation" or "value"`)
	f.Float64Var(&opts.initial, "initial", ref.InitialValue,
		"initial value of the relaxation law")
	f.Float64Var(&opts.dephasing, "dephasing", ref.Quantum.DephasingRate,
		"dephasing rate of each spin; 0 keeps the system closed")
	f.IntVar(&opts.stepCount, "step-count", ref.StepCount,
		"number of intervals of the quantum sampling grid")

	return runCmd
}

func (o *runOptions) params() (params.Set, error) {
	form, err := params.ParseMemoryForm(o.memoryForm)
	if err != nil {
		return params.Set{}, err
	}

	return params.MakeBuilder().
		WithMemoryForm(form).
		WithInitialValue(o.initial).
		WithDephasingRate(o.dephasing).
		WithStepCount(o.stepCount).
		Build()
}

func (o *runOptions) builder(p params.Set, root *rootOptions, cmd *cobra.Command) simulation.Builder {
	b := simulation.MakeBuilder().
		WithParams(p).
		WithLogger(root.logger(cmd.ErrOrStderr()))

	if o.monitor {
		b = b.WithMonitorPort(o.monitorPort)
		if o.openBrowser {
			b = b.WithBrowser()
		}
	} else {
		b = b.WithoutMonitoring()
	}

	if o.noRecord {
		return b.WithoutRecording()
	}

	b = b.WithOutputFileName(o.output)
	if o.recordSteps {
		b = b.WithStepRecording()
	}

	return b
}

func (o *runOptions) run(cmd *cobra.Command, root *rootOptions) error {
	if o.openBrowser && !o.monitor {
		return fmt.Errorf("--open-browser requires --monitor")
	}

	if o.noRecord && (o.recordSteps || o.output != "") {
		return fmt.Errorf("--no-record cannot be combined with --output or --record-steps")
	}

	p, err := o.params()
	if err != nil {
		return err
	}

	s, err := o.builder(p, root, cmd).Build()
	if err != nil {
		return err
	}
	defer s.Terminate()

	res, err := s.Run()
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), p, res.Summary)

	return nil
}

func printSummary(w io.Writer, p params.Set, s analysis.Summary) {
	fmt.Fprintf(w, "Final R(t=%g) = %.10f\n", p.Horizon.End, s.FinalScalarValue)
	fmt.Fprintf(w, "Converged to %g within %g: %t (error %.3e)\n",
		p.TargetValue, p.ConvergenceTolerance, s.Converged, s.FinalScalarError)
	fmt.Fprintf(w, "Final purity = %.10f\n", s.FinalPurity)
	fmt.Fprintf(w, "Mean |<XX>| = %.10f\n", s.MeanAbsExpectation)
	fmt.Fprintf(w, "Area proxy = %.10e\n", s.AreaProxy)
	fmt.Fprintf(w, "Posterior = %.5f\n", s.Posterior)
	fmt.Fprintf(w, "Sigma equivalent of p=%g = %.4f\n",
		p.Posterior.TailProbability, s.SigmaEquivalent)
}
