package rabbitmq

// Interfaces for the AMQP protocol, and adapters for the real amqp091
// client. Fake implementations of the interfaces are in the package tests.

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// Many amqp091 methods take a "no-wait" parameter, which if true causes
	// the client to return without waiting for a server response. We always
	// want to wait.
	wait = false

	// Unroutable messages are dropped by the broker rather than returned;
	// there is no consumer of returns on a fire-and-forget log path.
	mandatory = false
	immediate = false
)

// Dialer opens broker connections.
type Dialer interface {
	Dial(settings Settings) (Connection, error)
}

// Connection is a single broker connection.
type Connection interface {
	Channel() (Channel, error)
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error
	CloseDeadline(deadline time.Time) error
	IsClosed() bool
}

// Channel is a multiplexed session on a connection.
type Channel interface {
	ExchangeDeclare(name, kind string, durable bool) error
	PublishWithContext(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// NewDialer returns the production dialer backed by amqp091.
func NewDialer() Dialer {
	return amqpDialer{}
}

type amqpDialer struct{}

func (amqpDialer) Dial(s Settings) (Connection, error) {
	conn, err := amqp.DialConfig(s.URI, amqp.Config{
		Heartbeat: s.Heartbeat,
		Dial:      amqp.DefaultDial(s.DialTimeout),
	})
	if err != nil {
		return nil, err
	}
	return &amqpConnection{conn: conn}, nil
}

// amqpConnection adapts an *amqp.Connection to the Connection interface.
type amqpConnection struct {
	conn *amqp.Connection
}

func (c *amqpConnection) Channel() (Channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, err
	}
	return &amqpChannel{ch: ch}, nil
}

func (c *amqpConnection) NotifyClose(receiver chan *amqp.Error) chan *amqp.Error {
	return c.conn.NotifyClose(receiver)
}

func (c *amqpConnection) CloseDeadline(deadline time.Time) error {
	return c.conn.CloseDeadline(deadline)
}

func (c *amqpConnection) IsClosed() bool {
	return c.conn.IsClosed()
}

// amqpChannel adapts an *amqp.Channel to the Channel interface.
type amqpChannel struct {
	ch *amqp.Channel
}

func (c *amqpChannel) ExchangeDeclare(name, kind string, durable bool) error {
	return c.ch.ExchangeDeclare(name, kind,
		durable,
		false, // auto-delete
		false, // internal
		wait,
		nil, // args
	)
}

func (c *amqpChannel) PublishWithContext(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) error {
	return c.ch.PublishWithContext(ctx, exchange, routingKey, mandatory, immediate, msg)
}

func (c *amqpChannel) IsClosed() bool {
	return c.ch.IsClosed()
}

func (c *amqpChannel) Close() error {
	return c.ch.Close()
}
