// Package queue moves location events between the ingestion path and the
// geofence evaluator over RabbitMQ.
package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"liyu1981.xyz/safezone-service/pkg/common"
)

const (
	reconnectDelay = 5 * time.Second
	reInitDelay    = 2 * time.Second
)

var (
	ErrNotConnected  = errors.New("not connected to a server")
	ErrAlreadyClosed = errors.New("already closed: not connected to the server")
	ErrNacked        = errors.New("publish not acknowledged by broker")
	errShutdown      = errors.New("client is shutting down")
)

// Client keeps one connection and channel to the broker alive, redialing
// in the background when either closes.
type Client struct {
	m sync.Mutex
	// pushMu pairs each publish with its own confirmation
	pushMu          sync.Mutex
	logger          *zap.Logger
	connection      *amqp.Connection
	channel         *amqp.Channel
	done            chan struct{}
	notifyConnClose chan *amqp.Error
	notifyChanClose chan *amqp.Error
	notifyConfirm   chan amqp.Confirmation
	queueName       string
	isReady         bool
}

func NewClient(queueName, addr string) *Client {
	client := &Client{
		logger:    common.GetLoggerWith(common.LoggerNameQueue, zap.String("queue", queueName)),
		queueName: queueName,
		done:      make(chan struct{}),
	}
	go client.handleReconnect(addr)
	return client
}

func (client *Client) IsReady() bool {
	client.m.Lock()
	defer client.m.Unlock()
	return client.isReady
}

// WaitReady blocks until the first channel is initialised or ctx ends.
func (client *Client) WaitReady(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for !client.IsReady() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-client.done:
			return errShutdown
		case <-ticker.C:
		}
	}
	return nil
}

func (client *Client) setReady(ready bool) {
	client.m.Lock()
	client.isReady = ready
	client.m.Unlock()
}

func (client *Client) handleReconnect(addr string) {
	for {
		client.setReady(false)
		client.logger.Info("Connecting to broker")

		conn, err := amqp.Dial(addr)
		if err != nil {
			client.logger.Error("Failed to connect, retrying", zap.Error(err))
			select {
			case <-client.done:
				return
			case <-time.After(reconnectDelay):
			}
			continue
		}
		client.changeConnection(conn)

		if done := client.handleReInit(conn); done {
			return
		}
	}
}

func (client *Client) handleReInit(conn *amqp.Connection) bool {
	for {
		client.setReady(false)

		if err := client.init(conn); err != nil {
			client.logger.Error("Failed to initialize channel, retrying", zap.Error(err))
			select {
			case <-client.done:
				return true
			case <-client.notifyConnClose:
				client.logger.Info("Connection closed, reconnecting")
				return false
			case <-time.After(reInitDelay):
			}
			continue
		}

		select {
		case <-client.done:
			return true
		case <-client.notifyConnClose:
			client.logger.Info("Connection closed, reconnecting")
			return false
		case <-client.notifyChanClose:
			client.logger.Info("Channel closed, re-running init")
		}
	}
}

func (client *Client) init(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	if err := ch.Confirm(false); err != nil {
		return err
	}
	_, err = ch.QueueDeclare(
		client.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	client.changeChannel(ch)
	client.setReady(true)
	client.logger.Info("Queue client ready")
	return nil
}

func (client *Client) changeConnection(connection *amqp.Connection) {
	client.m.Lock()
	defer client.m.Unlock()
	client.connection = connection
	client.notifyConnClose = make(chan *amqp.Error, 1)
	client.connection.NotifyClose(client.notifyConnClose)
}

func (client *Client) changeChannel(channel *amqp.Channel) {
	client.m.Lock()
	defer client.m.Unlock()
	client.channel = channel
	client.notifyChanClose = make(chan *amqp.Error, 1)
	client.notifyConfirm = make(chan amqp.Confirmation, 1)
	client.channel.NotifyClose(client.notifyChanClose)
	client.channel.NotifyPublish(client.notifyConfirm)
}

// Push does not retry; a lost reading is superseded by the next one.
func (client *Client) Push(ctx context.Context, data []byte) error {
	client.pushMu.Lock()
	defer client.pushMu.Unlock()

	client.m.Lock()
	if !client.isReady {
		client.m.Unlock()
		return ErrNotConnected
	}
	channel, confirms := client.channel, client.notifyConfirm
	client.m.Unlock()

	err := channel.PublishWithContext(
		ctx,
		"",               // exchange
		client.queueName, // routing key
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         data,
		},
	)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-client.done:
		return errShutdown
	case confirm := <-confirms:
		if !confirm.Ack {
			return ErrNacked
		}
		return nil
	}
}

func (client *Client) Consume() (<-chan amqp.Delivery, error) {
	client.m.Lock()
	if !client.isReady {
		client.m.Unlock()
		return nil, ErrNotConnected
	}
	channel := client.channel
	client.m.Unlock()

	// one unacked delivery at a time keeps evaluations in arrival order
	if err := channel.Qos(1, 0, false); err != nil {
		return nil, err
	}

	return channel.Consume(
		client.queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
}

func (client *Client) Close() error {
	client.m.Lock()
	defer client.m.Unlock()

	if !client.isReady {
		return ErrAlreadyClosed
	}
	close(client.done)
	client.isReady = false

	if err := client.channel.Close(); err != nil {
		return err
	}
	return client.connection.Close()
}
