package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

func mockEventAt(
	ctrl *gomock.Controller,
	t VTimeInSec,
	handler Handler,
) *MockEvent {
	evt := NewMockEvent(ctrl)
	evt.EXPECT().Time().Return(t).AnyTimes()
	evt.EXPECT().Handler().Return(handler).AnyTimes()

	return evt
}

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should schedule events", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		evt1 := mockEventAt(mockCtrl, 4.0, handler1)
		evt2 := mockEventAt(mockCtrl, 2.0, handler2)
		evt3 := mockEventAt(mockCtrl, 3.0, handler1)
		evt4 := mockEventAt(mockCtrl, 5.0, handler1)

		handleEvt2 := handler2.EXPECT().Handle(evt2).Do(func(e Event) {
			engine.Schedule(evt3)
			engine.Schedule(evt4)
		})
		handleEvt3 := handler1.EXPECT().Handle(evt3).After(handleEvt2)
		handleEvt1 := handler1.EXPECT().Handle(evt1).After(handleEvt3)
		handler1.EXPECT().Handle(evt4).After(handleEvt1)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(5.0)))
	})

	It("should handle same-time events in scheduling order", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := mockEventAt(mockCtrl, 1.0, handler)
		evt2 := mockEventAt(mockCtrl, 1.0, handler)
		evt3 := mockEventAt(mockCtrl, 1.0, handler)

		gomock.InOrder(
			handler.EXPECT().Handle(evt1),
			handler.EXPECT().Handle(evt2),
			handler.EXPECT().Handle(evt3),
		)

		engine.Schedule(evt1)
		engine.Schedule(evt2)
		engine.Schedule(evt3)

		Expect(engine.Run()).To(Succeed())
	})

	It("should stop at the first handler error", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := mockEventAt(mockCtrl, 1.0, handler)
		evt2 := mockEventAt(mockCtrl, 2.0, handler)
		boom := errors.New("boom")

		handler.EXPECT().Handle(evt1).Return(boom)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		err := engine.Run()

		var handlerErr *HandlerError
		Expect(errors.As(err, &handlerErr)).To(BeTrue())
		Expect(handlerErr.Time).To(Equal(VTimeInSec(1.0)))
		Expect(handlerErr.Handler).To(Equal("*sim.MockHandler"))
		Expect(errors.Is(err, boom)).To(BeTrue())
		Expect(engine.queue.Len()).To(Equal(1))
	})

	It("should panic when scheduling into the past", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := mockEventAt(mockCtrl, 2.0, handler)
		evt2 := mockEventAt(mockCtrl, 1.0, handler)

		handler.EXPECT().Handle(evt1).Do(func(e Event) {
			engine.Schedule(evt2)
		})

		engine.Schedule(evt1)

		Expect(func() { _ = engine.Run() }).To(Panic())
	})

	It("should invoke hooks around every event", func() {
		handler := NewMockHandler(mockCtrl)
		hook := NewMockHook(mockCtrl)
		evt := mockEventAt(mockCtrl, 1.0, handler)
		engine.AcceptHook(hook)

		gomock.InOrder(
			hook.EXPECT().Func(HookCtx{
				Domain: engine,
				Pos:    HookPosBeforeEvent,
				Item:   evt,
			}),
			handler.EXPECT().Handle(evt),
			hook.EXPECT().Func(HookCtx{
				Domain: engine,
				Pos:    HookPosAfterEvent,
				Item:   evt,
			}),
		)

		engine.Schedule(evt)

		Expect(engine.Run()).To(Succeed())
	})

	It("should call simulation end handlers", func() {
		endHandler := NewMockSimulationEndHandler(mockCtrl)
		engine.RegisterSimulationEndHandler(endHandler)

		endHandler.EXPECT().Handle(VTimeInSec(0))

		engine.Finished()
	})

	It("should hold events while paused", func() {
		handler := NewMockHandler(mockCtrl)
		evt := mockEventAt(mockCtrl, 1.0, handler)
		handled := make(chan struct{})

		handler.EXPECT().Handle(evt).Do(func(e Event) {
			close(handled)
		})

		engine.Schedule(evt)
		engine.Pause()

		done := make(chan error)
		go func() { done <- engine.Run() }()

		Consistently(handled, "50ms").ShouldNot(BeClosed())

		engine.Continue()

		Eventually(handled).Should(BeClosed())
		Eventually(done).Should(Receive(BeNil()))
	})
})
