package simulation

import (
	"log/slog"

	"github.com/rs/xid"
	"github.com/sarchlab/fracflow/datarecording"
	"github.com/sarchlab/fracflow/logging"
	"github.com/sarchlab/fracflow/monitoring"
	"github.com/sarchlab/fracflow/params"
	"github.com/sarchlab/fracflow/quantum"
	"github.com/sarchlab/fracflow/relaxation"
	"github.com/sarchlab/fracflow/sim"
	"github.com/sarchlab/fracflow/tracing"
)

// Names of the two integrators of a simulation.
const (
	RelaxationName = "Relaxation"
	SpinPairName   = "SpinPair"
)

// Builder can be used to build a simulation.
type Builder struct {
	params         params.Set
	monitorOn      bool
	monitorPort    int
	openBrowser    bool
	recordOn       bool
	recordSteps    bool
	outputFileName string
	logger         *slog.Logger
}

// MakeBuilder creates a new builder for the reference parameter set.
func MakeBuilder() Builder {
	return Builder{
		params:    params.Reference(),
		monitorOn: true,
		recordOn:  true,
	}
}

// WithParams sets the parameter set to simulate.
func (b Builder) WithParams(p params.Set) Builder {
	b.params = p
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitor in a browser once it is started.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithoutRecording sets the simulation to not write a database.
func (b Builder) WithoutRecording() Builder {
	b.recordOn = false
	return b
}

// WithStepRecording records every solver step attempt in addition to the
// samples.
func (b Builder) WithStepRecording() Builder {
	b.recordSteps = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithLogger sets the logger of the simulation.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && (b.monitorPort != 0 || b.openBrowser) {
		panic("monitor options cannot be set when monitoring is disabled")
	}

	if !b.recordOn && (b.recordSteps || b.outputFileName != "") {
		panic("recording options cannot be set when recording is disabled")
	}
}

// Build validates the parameter set and wires the engine, the integrators,
// the recorder and the monitor together.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	if err := b.params.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		id:            xid.New().String(),
		params:        b.params,
		logger:        b.logger,
		engine:        sim.NewSerialEngine(),
		compNameIndex: make(map[string]int),
		counter:       tracing.NewStepCountTracer(),
	}

	if s.logger == nil {
		s.logger = logging.Discard()
	}

	s.engine.AcceptHook(logging.NewEventLogger(s.logger))

	if err := b.buildIntegrators(s); err != nil {
		return nil, err
	}

	if b.recordOn {
		b.buildRecorder(s)
	}

	if b.monitorOn {
		b.buildMonitor(s)
	}

	return s, nil
}

func (b Builder) buildIntegrators(s *Simulation) error {
	var err error

	s.relaxation, err = relaxation.NewIntegrator(
		RelaxationName, s.engine, b.params)
	if err != nil {
		return err
	}

	model := quantum.ReferenceModel(b.params.Quantum)

	s.spinPair, err = quantum.NewEvolver(SpinPairName, s.engine, b.params, model)
	if err != nil {
		return err
	}

	s.energies, err = model.Spectrum()
	if err != nil {
		return err
	}

	s.RegisterComponent(s.relaxation)
	s.RegisterComponent(s.spinPair)

	tracing.CollectTrace(s.relaxation, s.counter)
	tracing.CollectTrace(s.spinPair, s.counter)

	return nil
}

func (b Builder) buildRecorder(s *Simulation) {
	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "fracflow_" + s.id
	}

	s.dataRecorder = datarecording.New(outputPath)
	s.dataRecorder.CreateTable(runTable, RunEntry{})
	s.dataRecorder.CreateTable(summaryTable, SummaryEntry{})

	s.dbTracer = tracing.NewDBTracer(s.dataRecorder, b.recordSteps)
	for _, c := range s.components {
		if h, ok := c.(tracing.NamedHookable); ok {
			tracing.CollectTrace(h, s.dbTracer)
		}
	}
}

func (b Builder) buildMonitor(s *Simulation) {
	s.monitor = monitoring.NewMonitor().
		WithPortNumber(b.monitorPort).
		WithBrowser(b.openBrowser)

	s.monitor.RegisterEngine(s.engine)
	for _, c := range s.components {
		s.monitor.RegisterComponent(c)
	}

	s.monitorURL = s.monitor.StartServer()
	s.logger.Info("monitor started", "url", s.monitorURL)
}
