package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/fracflow/ode"
	"github.com/sarchlab/fracflow/quantum"
	"github.com/sarchlab/fracflow/relaxation"
)

// StepCount is the work a StepCountTracer has seen from one component.
type StepCount struct {
	Accepted uint64
	Rejected uint64
	Samples  uint64
}

// StepCountTracer counts steps and samples per component.
type StepCountTracer struct {
	lock   sync.Mutex
	counts map[string]*StepCount
}

// NewStepCountTracer creates a new StepCountTracer.
func NewStepCountTracer() *StepCountTracer {
	return &StepCountTracer{
		counts: make(map[string]*StepCount),
	}
}

func (t *StepCountTracer) entry(where string) *StepCount {
	c, ok := t.counts[where]
	if !ok {
		c = &StepCount{}
		t.counts[where] = c
	}

	return c
}

// Components returns the names of all components seen, sorted.
func (t *StepCountTracer) Components() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	names := make([]string, 0, len(t.counts))
	for name := range t.counts {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Count returns the counters of a component.
func (t *StepCountTracer) Count(where string) StepCount {
	t.lock.Lock()
	defer t.lock.Unlock()

	if c, ok := t.counts[where]; ok {
		return *c
	}

	return StepCount{}
}

// StepAccepted counts an accepted step.
func (t *StepCountTracer) StepAccepted(where string, _ ode.StepInfo) {
	t.lock.Lock()
	t.entry(where).Accepted++
	t.lock.Unlock()
}

// StepRejected counts a rejected step.
func (t *StepCountTracer) StepRejected(where string, _ ode.StepInfo) {
	t.lock.Lock()
	t.entry(where).Rejected++
	t.lock.Unlock()
}

// ScalarSample counts a sample.
func (t *StepCountTracer) ScalarSample(where string, _ relaxation.Sample) {
	t.lock.Lock()
	t.entry(where).Samples++
	t.lock.Unlock()
}

// QuantumSample counts a sample.
func (t *StepCountTracer) QuantumSample(where string, _ quantum.Sample) {
	t.lock.Lock()
	t.entry(where).Samples++
	t.lock.Unlock()
}
