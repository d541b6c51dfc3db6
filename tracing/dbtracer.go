package tracing

import (
	"github.com/sarchlab/fracflow/datarecording"
	"github.com/sarchlab/fracflow/ode"
	"github.com/sarchlab/fracflow/quantum"
	"github.com/sarchlab/fracflow/relaxation"
)

// Names of the tables written by DBTracer.
const (
	StepTable          = "solver_step"
	ScalarSampleTable  = "scalar_sample"
	QuantumSampleTable = "quantum_sample"
)

// StepEntry is a row of StepTable.
type StepEntry struct {
	Component string
	Time      float64
	StepSize  float64
	ErrNorm   float64
	Accepted  bool
}

// ScalarSampleEntry is a row of ScalarSampleTable.
type ScalarSampleEntry struct {
	Component string
	Time      float64
	Value     float64
}

// QuantumSampleEntry is a row of QuantumSampleTable. The density operator
// is not recorded.
type QuantumSampleEntry struct {
	Component     string
	Time          float64
	Purity        float64
	ExpectationRe float64
	ExpectationIm float64
	Energy        float64
}

// DBTracer is a tracer that stores everything it sees into a data recorder.
type DBTracer struct {
	backend     datarecording.DataRecorder
	recordSteps bool
}

// NewDBTracer creates the tables and returns the tracer. Individual solver
// steps are only recorded when recordSteps is set.
func NewDBTracer(
	backend datarecording.DataRecorder,
	recordSteps bool,
) *DBTracer {
	t := &DBTracer{
		backend:     backend,
		recordSteps: recordSteps,
	}

	if recordSteps {
		backend.CreateTable(StepTable, StepEntry{})
	}

	backend.CreateTable(ScalarSampleTable, ScalarSampleEntry{})
	backend.CreateTable(QuantumSampleTable, QuantumSampleEntry{})

	return t
}

// StepAccepted records an accepted step.
func (t *DBTracer) StepAccepted(where string, step ode.StepInfo) {
	t.insertStep(where, step, true)
}

// StepRejected records a rejected step attempt.
func (t *DBTracer) StepRejected(where string, step ode.StepInfo) {
	t.insertStep(where, step, false)
}

func (t *DBTracer) insertStep(where string, step ode.StepInfo, accepted bool) {
	if !t.recordSteps {
		return
	}

	t.backend.InsertData(StepTable, StepEntry{
		Component: where,
		Time:      step.T,
		StepSize:  step.H,
		ErrNorm:   step.ErrNorm,
		Accepted:  accepted,
	})
}

// ScalarSample records a sample of the relaxation law.
func (t *DBTracer) ScalarSample(where string, sample relaxation.Sample) {
	t.backend.InsertData(ScalarSampleTable, ScalarSampleEntry{
		Component: where,
		Time:      sample.Time,
		Value:     sample.Value,
	})
}

// QuantumSample records a sample of the spin pair.
func (t *DBTracer) QuantumSample(where string, sample quantum.Sample) {
	t.backend.InsertData(QuantumSampleTable, QuantumSampleEntry{
		Component:     where,
		Time:          sample.Time,
		Purity:        sample.Purity,
		ExpectationRe: real(sample.Expectation),
		ExpectationIm: imag(sample.Expectation),
		Energy:        sample.Energy,
	})
}
