package queue_test

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"liyu1981.xyz/safezone-service/pkg/models"
	"liyu1981.xyz/safezone-service/pkg/queue"
	"liyu1981.xyz/safezone-service/pkg/queue/mock"
)

var _ = Describe("Publisher", func() {
	var (
		client    *mock.MockClient
		publisher *queue.Publisher
		event     models.LocationEvent
	)

	BeforeEach(func() {
		client = mock.NewMockClient()
		publisher = queue.NewPublisher(client, time.Second)
		event = models.LocationEvent{
			DeviceID:  "dev-1",
			Latitude:  -23.55,
			Longitude: -46.63,
			Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}
	})

	It("publishes the event as JSON", func() {
		Expect(publisher.Publish(context.Background(), event)).To(Succeed())

		pushed := client.PushedMessages()
		Expect(pushed).To(HaveLen(1))

		var decoded models.LocationEvent
		Expect(json.Unmarshal(pushed[0], &decoded)).To(Succeed())
		Expect(decoded.DeviceID).To(Equal("dev-1"))
		Expect(decoded.Timestamp.Equal(event.Timestamp)).To(BeTrue())
	})

	It("returns push failures", func() {
		client.PushError = queue.ErrNotConnected
		err := publisher.Publish(context.Background(), event)
		Expect(errors.Is(err, queue.ErrNotConnected)).To(BeTrue())
	})

	It("submits without waiting for the broker", func() {
		release := make(chan struct{})
		client.PushFunc = func(ctx context.Context, data []byte) error {
			<-release
			return nil
		}

		returned := make(chan struct{})
		go func() {
			publisher.Submit(event)
			close(returned)
		}()
		Eventually(returned).Should(BeClosed())

		close(release)
		publisher.Wait()
		Expect(client.PushedMessages()).To(HaveLen(1))
	})

	It("bounds a push by the publish timeout", func() {
		publisher = queue.NewPublisher(client, 20*time.Millisecond)
		client.PushFunc = func(ctx context.Context, data []byte) error {
			<-ctx.Done()
			return ctx.Err()
		}

		publisher.Submit(event)
		publisher.Wait()
		Expect(client.PushedMessages()).To(HaveLen(1))
	})
})
