package queue_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	amqp "github.com/rabbitmq/amqp091-go"

	"liyu1981.xyz/safezone-service/pkg/models"
	"liyu1981.xyz/safezone-service/pkg/queue"
	"liyu1981.xyz/safezone-service/pkg/queue/mock"
)

type recordingEvaluator struct {
	mu        sync.Mutex
	events    []models.LocationEvent
	deadlines []bool
	err       error
	panicOn   string
}

func (r *recordingEvaluator) EvaluateEvent(ctx context.Context, event models.LocationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	_, hasDeadline := ctx.Deadline()
	r.deadlines = append(r.deadlines, hasDeadline)
	if event.DeviceID == r.panicOn {
		panic("evaluator blew up")
	}
	return r.err
}

func (r *recordingEvaluator) Deadlines() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.deadlines...)
}

func (r *recordingEvaluator) Events() []models.LocationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.LocationEvent(nil), r.events...)
}

var _ = Describe("Consumer", func() {
	var (
		client     *mock.MockClient
		deliveries chan amqp.Delivery
		acks       *mock.Acknowledger
		evaluator  *recordingEvaluator
		ctx        context.Context
		cancel     context.CancelFunc
	)

	deliver := func(tag uint64, body []byte) {
		deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: tag, Body: body}
	}

	BeforeEach(func() {
		deliveries = make(chan amqp.Delivery)
		client = mock.NewMockClient()
		client.ConsumeChannel = deliveries
		acks = &mock.Acknowledger{}
		evaluator = &recordingEvaluator{}
		ctx, cancel = context.WithCancel(context.Background())
	})

	AfterEach(func() {
		cancel()
	})

	Describe("NewConsumer", func() {
		It("rejects a nil client", func() {
			consumer, err := queue.NewConsumer(nil, evaluator, time.Second)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("client"))
			Expect(consumer).To(BeNil())
		})

		It("rejects a nil evaluator", func() {
			consumer, err := queue.NewConsumer(client, nil, time.Second)
			Expect(err).To(HaveOccurred())
			Expect(consumer).To(BeNil())
		})
	})

	Describe("Start", func() {
		It("surfaces subscription failures", func() {
			client.ConsumeError = queue.ErrNotConnected
			consumer, err := queue.NewConsumer(client, evaluator, time.Second)
			Expect(err).NotTo(HaveOccurred())

			err = consumer.Start(ctx)
			Expect(errors.Is(err, queue.ErrNotConnected)).To(BeTrue())
		})
	})

	Describe("processing deliveries", func() {
		var consumer *queue.Consumer

		BeforeEach(func() {
			var err error
			consumer, err = queue.NewConsumer(client, evaluator, time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(consumer.Start(ctx)).To(Succeed())
		})

		It("evaluates and acks a valid event", func() {
			body, err := json.Marshal(models.LocationEvent{DeviceID: "dev-1", Latitude: 1.5, Longitude: -2.5})
			Expect(err).NotTo(HaveOccurred())

			deliver(1, body)

			Eventually(acks.AckedTags).Should(Equal([]uint64{1}))
			Expect(evaluator.Events()).To(HaveLen(1))
			Expect(evaluator.Events()[0].DeviceID).To(Equal("dev-1"))
			Expect(evaluator.Events()[0].Latitude).To(Equal(1.5))
		})

		It("nacks undecodable payloads without requeue", func() {
			deliver(2, []byte("not json"))
			deliver(3, []byte(`{"latitude": 1}`))

			Eventually(func() int { _, nacked := acks.Counts(); return nacked }).Should(Equal(2))
			Expect(acks.Requeued()).To(Equal([]bool{false, false}))
			Expect(evaluator.Events()).To(BeEmpty())
		})

		It("acks even when evaluation fails", func() {
			evaluator.mu.Lock()
			evaluator.err = errors.New("store down")
			evaluator.mu.Unlock()

			body, _ := json.Marshal(models.LocationEvent{DeviceID: "dev-2"})
			deliver(4, body)

			Eventually(acks.AckedTags).Should(Equal([]uint64{4}))
			_, nacked := acks.Counts()
			Expect(nacked).To(BeZero())
		})

		It("bounds each evaluation with a deadline", func() {
			body, _ := json.Marshal(models.LocationEvent{DeviceID: "dev-3"})
			deliver(5, body)

			Eventually(acks.AckedTags).Should(Equal([]uint64{5}))
			Expect(evaluator.Deadlines()).To(Equal([]bool{true}))
		})

		It("survives a panicking evaluation and keeps consuming", func() {
			evaluator.mu.Lock()
			evaluator.panicOn = "dev-panic"
			evaluator.mu.Unlock()

			body, _ := json.Marshal(models.LocationEvent{DeviceID: "dev-panic"})
			deliver(6, body)
			body, _ = json.Marshal(models.LocationEvent{DeviceID: "dev-4"})
			deliver(7, body)

			Eventually(acks.AckedTags).Should(Equal([]uint64{6, 7}))
			Expect(evaluator.Events()).To(HaveLen(2))
			Consistently(consumer.Done()).ShouldNot(BeClosed())
		})

		It("stops when the context is cancelled", func() {
			cancel()
			Eventually(consumer.Done()).Should(BeClosed())
		})

		It("stops when the delivery channel closes", func() {
			close(deliveries)
			Eventually(consumer.Done()).Should(BeClosed())
		})
	})
})
