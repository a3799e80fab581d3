// Package mock provides a hand-written ClientInterface for tests.
package mock

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MockClient records pushes and serves a caller-controlled delivery channel.
type MockClient struct {
	mu sync.Mutex

	PushFunc  func(ctx context.Context, data []byte) error
	PushError error
	Pushed    [][]byte

	ConsumeChannel <-chan amqp.Delivery
	ConsumeError   error

	CloseCalls int
}

func NewMockClient() *MockClient {
	return &MockClient{
		ConsumeChannel: make(chan amqp.Delivery),
	}
}

func (m *MockClient) Push(ctx context.Context, data []byte) error {
	m.mu.Lock()
	m.Pushed = append(m.Pushed, data)
	pushFunc, pushErr := m.PushFunc, m.PushError
	m.mu.Unlock()

	if pushFunc != nil {
		return pushFunc(ctx, data)
	}
	return pushErr
}

func (m *MockClient) PushedMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.Pushed...)
}

func (m *MockClient) Consume() (<-chan amqp.Delivery, error) {
	if m.ConsumeError != nil {
		return nil, m.ConsumeError
	}
	return m.ConsumeChannel, nil
}

func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	return nil
}

// Acknowledger records what the consumer decided for each delivery tag.
type Acknowledger struct {
	mu      sync.Mutex
	Acked   []uint64
	Nacked  []uint64
	Requeue []bool
}

func (a *Acknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Acked = append(a.Acked, tag)
	return nil
}

func (a *Acknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Nacked = append(a.Nacked, tag)
	a.Requeue = append(a.Requeue, requeue)
	return nil
}

func (a *Acknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *Acknowledger) Counts() (acked, nacked int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Acked), len(a.Nacked)
}

func (a *Acknowledger) AckedTags() []uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]uint64(nil), a.Acked...)
}

func (a *Acknowledger) Requeued() []bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]bool(nil), a.Requeue...)
}
