package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/fracflow/ode"
	"github.com/sarchlab/fracflow/params"
	"github.com/sarchlab/fracflow/quantum"
	"github.com/sarchlab/fracflow/relaxation"
	"github.com/sarchlab/fracflow/sim"
)

type namedHookable struct {
	*sim.HookableBase
	name string
}

func (n namedHookable) Name() string {
	return n.name
}

var _ = Describe("CollectTrace", func() {
	var (
		mockCtrl *gomock.Controller
		tracer   *MockTracer
		domain   namedHookable
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		tracer = NewMockTracer(mockCtrl)
		domain = namedHookable{
			HookableBase: sim.NewHookableBase(),
			name:         "Relaxation",
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should dispatch by hook position", func() {
		step := ode.StepInfo{T: 1, H: 0.1, ErrNorm: 0.5}
		scalar := relaxation.Sample{Time: 1, Value: 6}
		q := quantum.Sample{Time: 1, Purity: 1}

		tracer.EXPECT().StepAccepted("Relaxation", step)
		tracer.EXPECT().StepRejected("Relaxation", step)
		tracer.EXPECT().ScalarSample("Relaxation", scalar)
		tracer.EXPECT().QuantumSample("Relaxation", q)

		CollectTrace(domain, tracer)

		domain.InvokeHook(sim.HookCtx{Pos: ode.HookPosStepAccepted, Item: step})
		domain.InvokeHook(sim.HookCtx{Pos: ode.HookPosStepRejected, Item: step})
		domain.InvokeHook(sim.HookCtx{
			Pos: relaxation.HookPosSampleRecorded, Item: scalar})
		domain.InvokeHook(sim.HookCtx{
			Pos: quantum.HookPosSampleRecorded, Item: q})
		domain.InvokeHook(sim.HookCtx{Pos: sim.HookPosBeforeEvent})
	})

	It("should panic on an unnamed domain", func() {
		domain.name = ""

		Expect(func() { CollectTrace(domain, tracer) }).To(Panic())
	})
})

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl *gomock.Controller
		recorder *MockDataRecorder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		recorder = NewMockDataRecorder(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should record samples without steps", func() {
		recorder.EXPECT().CreateTable(ScalarSampleTable, ScalarSampleEntry{})
		recorder.EXPECT().CreateTable(QuantumSampleTable, QuantumSampleEntry{})
		t := NewDBTracer(recorder, false)

		recorder.EXPECT().InsertData(ScalarSampleTable, ScalarSampleEntry{
			Component: "Relaxation",
			Time:      0.5,
			Value:     6.00001,
		})
		recorder.EXPECT().InsertData(QuantumSampleTable, QuantumSampleEntry{
			Component:     "SpinPair",
			Time:          0.5,
			Purity:        1,
			ExpectationRe: 0.25,
			ExpectationIm: -0.5,
			Energy:        2,
		})

		t.StepAccepted("Relaxation", ode.StepInfo{T: 0.5})
		t.ScalarSample("Relaxation", relaxation.Sample{Time: 0.5, Value: 6.00001})
		t.QuantumSample("SpinPair", quantum.Sample{
			Time:        0.5,
			Purity:      1,
			Expectation: complex(0.25, -0.5),
			Energy:      2,
		})
	})

	It("should record steps when asked", func() {
		recorder.EXPECT().CreateTable(StepTable, StepEntry{})
		recorder.EXPECT().CreateTable(gomock.Any(), gomock.Any()).Times(2)
		t := NewDBTracer(recorder, true)

		recorder.EXPECT().InsertData(StepTable, StepEntry{
			Component: "SpinPair",
			Time:      2,
			StepSize:  0.1,
			ErrNorm:   0.3,
			Accepted:  true,
		})
		recorder.EXPECT().InsertData(StepTable, StepEntry{
			Component: "SpinPair",
			Time:      2.2,
			StepSize:  0.2,
			ErrNorm:   3,
			Accepted:  false,
		})

		t.StepAccepted("SpinPair", ode.StepInfo{T: 2, H: 0.1, ErrNorm: 0.3})
		t.StepRejected("SpinPair", ode.StepInfo{T: 2.2, H: 0.2, ErrNorm: 3})
	})
})

var _ = Describe("StepCountTracer", func() {
	It("should count the work of real integrators", func() {
		engine := sim.NewSerialEngine()
		p := params.Reference()
		t := NewStepCountTracer()

		r, err := relaxation.NewIntegrator("Relaxation", engine, p)
		Expect(err).NotTo(HaveOccurred())
		q, err := quantum.NewEvolver("SpinPair", engine, p,
			quantum.ReferenceModel(p.Quantum))
		Expect(err).NotTo(HaveOccurred())

		CollectTrace(r, t)
		CollectTrace(q, t)

		r.Start()
		q.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(t.Components()).To(Equal([]string{"Relaxation", "SpinPair"}))

		rc := t.Count("Relaxation")
		Expect(rc.Samples).To(BeNumerically("==", r.Trajectory().Len()))
		Expect(rc.Accepted).To(BeNumerically("==", r.Stats().Accepted))
		Expect(rc.Rejected).To(BeNumerically("==", r.Stats().Rejected))

		qc := t.Count("SpinPair")
		Expect(qc.Samples).To(BeNumerically("==", 34))
		Expect(qc.Accepted).To(BeNumerically("==", q.Stats().Accepted))

		Expect(t.Count("Missing")).To(Equal(StepCount{}))
	})
})
