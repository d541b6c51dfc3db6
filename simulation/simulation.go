// Package simulation runs the relaxation integrator and the spin-pair
// evolver side by side on one engine and derives the summary of the run.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sarchlab/fracflow/analysis"
	"github.com/sarchlab/fracflow/datarecording"
	"github.com/sarchlab/fracflow/monitoring"
	"github.com/sarchlab/fracflow/params"
	"github.com/sarchlab/fracflow/quantum"
	"github.com/sarchlab/fracflow/relaxation"
	"github.com/sarchlab/fracflow/sim"
	"github.com/sarchlab/fracflow/tracing"
)

const (
	runTable     = "run"
	summaryTable = "summary"
)

// RunEntry is the row that describes the configuration of a run.
type RunEntry struct {
	ID              string
	MemoryForm      string
	FractionalOrder float64
	InitialValue    float64
	TargetValue     float64
	StepCount       int
	DephasingRate   float64
}

// SummaryEntry is the row that holds the derived summary of a run.
type SummaryEntry struct {
	ID                 string
	FinalScalarValue   float64
	FinalScalarError   float64
	Converged          bool
	FinalPurity        float64
	MeanAbsExpectation float64
	AreaProxy          float64
	Posterior          float64
	SigmaEquivalent    float64
}

// Result is the complete output of a run.
type Result struct {
	ID      string
	Scalar  relaxation.Trajectory
	Quantum quantum.Trajectory
	Summary analysis.Summary
}

// A Simulation owns the engine and every service attached to it.
type Simulation struct {
	id     string
	params params.Set
	logger *slog.Logger

	engine       *sim.SerialEngine
	dataRecorder datarecording.DataRecorder
	dbTracer     *tracing.DBTracer
	counter      *tracing.StepCountTracer
	monitor      *monitoring.Monitor
	monitorURL   string

	relaxation *relaxation.Integrator
	spinPair   *quantum.Evolver
	energies   []float64

	components    []sim.Component
	compNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder used in the simulation. It is
// nil when recording is disabled.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitoring server.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// StepCounts returns the work each integrator has done so far.
func (s *Simulation) StepCounts() map[string]tracing.StepCount {
	counts := make(map[string]tracing.StepCount)
	for _, name := range s.counter.Components() {
		counts[name] = s.counter.Count(name)
	}

	return counts
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(c sim.Component) {
	compName := c.Name()
	if _, ok := s.compNameIndex[compName]; ok {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1
}

// GetComponentByName returns the component with the given name, or nil.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	i, ok := s.compNameIndex[name]
	if !ok {
		return nil
	}

	return s.components[i]
}

// Components returns all registered components.
func (s *Simulation) Components() []sim.Component {
	return s.components
}

// Run integrates both systems to the end of the horizon and summarizes
// them. A failure of either integrator stops the run and is returned as a
// *sim.HandlerError naming the failed component.
func (s *Simulation) Run() (Result, error) {
	start := time.Now()
	s.logger.Info("simulation started",
		"id", s.id,
		"memory_form", s.params.MemoryForm.String(),
		"dephasing", s.params.Quantum.DephasingRate,
		"energy_min", s.energies[0],
		"energy_max", s.energies[len(s.energies)-1],
	)

	s.recordRun()

	s.relaxation.Start()
	s.spinPair.Start()

	if err := s.engine.Run(); err != nil {
		var hErr *sim.HandlerError
		if errors.As(err, &hErr) {
			s.logger.Error("component failed",
				"component", hErr.Handler,
				"time", float64(hErr.Time),
				"error", hErr.Err,
			)
		}

		return Result{}, err
	}

	s.engine.Finished()

	for name, c := range s.StepCounts() {
		s.logger.Debug("component finished",
			"component", name,
			"accepted", c.Accepted,
			"rejected", c.Rejected,
			"samples", c.Samples,
		)
	}

	res := Result{
		ID:      s.id,
		Scalar:  s.relaxation.Trajectory(),
		Quantum: s.spinPair.Trajectory(),
	}

	summary, err := analysis.Summarize(s.params, res.Scalar, res.Quantum)
	if err != nil {
		return Result{}, fmt.Errorf("summarize: %w", err)
	}
	res.Summary = summary

	s.recordSummary(summary)

	s.logger.Info("simulation finished",
		"id", s.id,
		"final_error", summary.FinalScalarError,
		"converged", summary.Converged,
		"final_purity", summary.FinalPurity,
		"elapsed", time.Since(start),
	)

	return res, nil
}

func (s *Simulation) recordRun() {
	if s.dataRecorder == nil {
		return
	}

	s.dataRecorder.InsertData(runTable, RunEntry{
		ID:              s.id,
		MemoryForm:      s.params.MemoryForm.String(),
		FractionalOrder: s.params.FractionalOrder,
		InitialValue:    s.params.InitialValue,
		TargetValue:     s.params.TargetValue,
		StepCount:       s.params.StepCount,
		DephasingRate:   s.params.Quantum.DephasingRate,
	})
}

func (s *Simulation) recordSummary(summary analysis.Summary) {
	if s.dataRecorder == nil {
		return
	}

	s.dataRecorder.InsertData(summaryTable, SummaryEntry{
		ID:                 s.id,
		FinalScalarValue:   summary.FinalScalarValue,
		FinalScalarError:   summary.FinalScalarError,
		Converged:          summary.Converged,
		FinalPurity:        summary.FinalPurity,
		MeanAbsExpectation: summary.MeanAbsExpectation,
		AreaProxy:          summary.AreaProxy,
		Posterior:          summary.Posterior,
		SigmaEquivalent:    summary.SigmaEquivalent,
	})
	s.dataRecorder.Flush()
}

// Terminate stops the monitor and closes the data recorder.
func (s *Simulation) Terminate() {
	if s.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := s.monitor.StopServer(ctx); err != nil {
			s.logger.Warn("monitor did not stop cleanly", "error", err)
		}
	}

	if s.dataRecorder != nil {
		if err := s.dataRecorder.Close(); err != nil {
			s.logger.Warn("data recorder did not close cleanly", "error", err)
		}
	}
}
