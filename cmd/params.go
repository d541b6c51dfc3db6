package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sarchlab/fracflow/params"
	"github.com/spf13/cobra"
)

func newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the reference parameter set.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printParams(cmd.OutOrStdout(), params.Reference())
		},
	}
}

func printParams(out io.Writer, p params.Set) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	rows := []struct {
		name  string
		value any
	}{
		{"DecayRate", p.DecayRate},
		{"FractionalOrder", p.FractionalOrder},
		{"MemoryCoupling", p.MemoryCoupling},
		{"MemoryOffset", p.MemoryOffset},
		{"MemoryForm", p.MemoryForm},
		{"MaxStep", p.MaxStep},
		{"AbsTol", p.AbsTol},
		{"RelTol", p.RelTol},
		{"MaxSolverSteps", p.MaxSolverSteps},
		{"Horizon", fmt.Sprintf("[%g, %g]", p.Horizon.Start, p.Horizon.End)},
		{"StepCount", p.StepCount},
		{"InitialValue", p.InitialValue},
		{"TargetValue", p.TargetValue},
		{"ConvergenceTolerance", p.ConvergenceTolerance},
		{"Quantum.BaseFrequency", p.Quantum.BaseFrequency},
		{"Quantum.CouplingScale", p.Quantum.CouplingScale},
		{"Quantum.DephasingRate", p.Quantum.DephasingRate},
		{"Quantum.PurityTolerance", p.Quantum.PurityTolerance},
		{"Area.Gamma", p.Area.Gamma},
		{"Area.PlanckLength", p.Area.PlanckLength},
		{"Area.Spin", p.Area.Spin},
		{"Posterior.Likelihood", p.Posterior.Likelihood},
		{"Posterior.Prior", p.Posterior.Prior},
		{"Posterior.Normalizer", p.Posterior.Normalizer},
		{"Posterior.TailProbability", p.Posterior.TailProbability},
	}

	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%v\n", r.name, r.value)
	}
}
