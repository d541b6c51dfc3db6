package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/fracflow/params"
	"github.com/sarchlab/fracflow/relaxation"
	"github.com/sarchlab/fracflow/sim"
)

type sampleComponent struct {
	*sim.ComponentBase

	Count int
}

func (c *sampleComponent) Handle(_ sim.Event) error {
	return nil
}

func newSampleComponent() *sampleComponent {
	return &sampleComponent{
		ComponentBase: sim.NewComponentBase("Comp"),
		Count:         3,
	}
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	return w
}

func post(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))

	return w
}

var _ = Describe("Monitor", func() {
	var (
		engine     *sim.SerialEngine
		m          *Monitor
		integrator *relaxation.Integrator
		router     http.Handler
	)

	BeforeEach(func() {
		var err error

		engine = sim.NewSerialEngine()
		integrator, err = relaxation.NewIntegrator(
			"Relaxation", engine, params.Reference())
		Expect(err).NotTo(HaveOccurred())

		m = NewMonitor().WithProfileDuration(10 * time.Millisecond)
		m.RegisterEngine(engine)
		m.RegisterComponent(integrator)
		m.RegisterComponent(newSampleComponent())

		router = m.Router()
	})

	It("should list components", func() {
		w := get(router, "/api/list_components")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal(`["Relaxation","Comp"]`))
	})

	It("should report the current time", func() {
		w := get(router, "/api/now")

		Expect(w.Body.String()).To(Equal(`{"now":0.0000000000}`))
	})

	It("should serialize a component", func() {
		w := get(router, "/api/component/Comp")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Count"))
	})

	It("should return 404 for unknown components", func() {
		Expect(get(router, "/api/component/Missing").Code).
			To(Equal(http.StatusNotFound))
		Expect(get(router, "/api/trajectory/Missing").Code).
			To(Equal(http.StatusNotFound))
	})

	It("should reject malformed field requests", func() {
		w := get(router, "/api/field/notjson")

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should serve trajectories and progress", func() {
		integrator.Start()
		Expect(engine.Run()).To(Succeed())

		w := get(router, "/api/trajectory/Relaxation")
		Expect(w.Code).To(Equal(http.StatusOK))

		rsp := trajectoryRsp{}
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Name).To(Equal("Relaxation"))
		Expect(rsp.Times).To(HaveLen(integrator.Trajectory().Len()))
		Expect(rsp.Times[len(rsp.Times)-1]).To(Equal(12.49))
		Expect(rsp.Values[0]).To(Equal(6.0001))

		w = get(router, "/api/progress")
		bars := []ProgressBarStatus{}
		Expect(json.Unmarshal(w.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("Relaxation"))
		Expect(bars[0].Finished).To(Equal(bars[0].Total))
	})

	It("should refuse trajectories of components without one", func() {
		w := get(router, "/api/trajectory/Comp")

		Expect(w.Code).To(Equal(http.StatusMethodNotAllowed))
	})

	It("should pause and continue the engine", func() {
		Expect(post(router, "/api/pause").Code).To(Equal(http.StatusOK))

		integrator.Start()
		done := make(chan error)
		go func() { done <- engine.Run() }()

		Consistently(done, 50*time.Millisecond).ShouldNot(Receive())

		Expect(post(router, "/api/continue").Code).To(Equal(http.StatusOK))
		Eventually(done, 10*time.Second).Should(Receive(BeNil()))
		Expect(integrator.Finished()).To(BeTrue())
	})

	It("should serialize a component while the engine runs", func() {
		integrator.Start()
		done := make(chan error)
		go func() { done <- engine.Run() }()

		for i := 0; i < 20; i++ {
			Expect(get(router, "/api/component/Relaxation").Code).
				To(Equal(http.StatusOK))
		}

		Eventually(done, 10*time.Second).Should(Receive(BeNil()))
		Expect(integrator.Finished()).To(BeTrue())
	})

	It("should keep a requested pause across serialization", func() {
		Expect(post(router, "/api/pause").Code).To(Equal(http.StatusOK))

		integrator.Start()
		done := make(chan error)
		go func() { done <- engine.Run() }()

		Expect(get(router, "/api/component/Relaxation").Code).
			To(Equal(http.StatusOK))
		Consistently(done, 50*time.Millisecond).ShouldNot(Receive())

		Expect(post(router, "/api/continue").Code).To(Equal(http.StatusOK))
		Eventually(done, 10*time.Second).Should(Receive(BeNil()))
	})

	It("should only pause on POST", func() {
		Expect(get(router, "/api/pause").Code).
			To(Equal(http.StatusMethodNotAllowed))
	})

	It("should report resources", func() {
		w := get(router, "/api/resource")

		Expect(w.Code).To(Equal(http.StatusOK))
		rsp := resourceRsp{}
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should collect a profile", func() {
		w := get(router, "/api/profile")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(strings.HasPrefix(w.Body.String(), "{")).To(BeTrue())
	})

	It("should serve over a real listener", func() {
		url := m.StartServer()
		defer m.StopServer(context.Background())

		rsp, err := http.Get(url + "/api/list_components")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
	})
})

var _ = Describe("ProgressBar", func() {
	It("should report the finished count", func() {
		m := NewMonitor()
		bar := m.CreateProgressBar("Bar", 10)

		bar.SetFinished(4)

		s := bar.Status()
		Expect(s.Total).To(Equal(uint64(10)))
		Expect(s.Finished).To(Equal(uint64(4)))

		m.CompleteProgressBar(bar)
		Expect(m.progressBars).To(BeEmpty())
	})

	It("should fall back to a random port for reserved ports", func() {
		m := NewMonitor().WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})
})
