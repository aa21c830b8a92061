// Package queue_publisher provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned to allow callers to ignore failures without
// interrupting the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
	q "github.com/iliyamo/cinema-seat-booking/internal/queue"
)

// Publisher sends OrderConfirmedEvent messages to the orders.confirmed
// queue.  A connection is dialled per publish; confirmations are rare
// compared to reads and this keeps no broker state in the server.
type Publisher struct {
	url string
	log *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{url: url, log: log}
}

// PublishOrderConfirmed publishes the event for o.  Messages are marked as
// persistent.
func (p *Publisher) PublishOrderConfirmed(ctx context.Context, o model.Order) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.OrdersConfirmedQueue, // name
		true,                   // durable
		false,                  // autoDelete
		false,                  // exclusive
		false,                  // noWait
		nil,                    // args
	); err != nil {
		p.log.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(q.NewOrderConfirmedEvent(o))
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.OrdersConfirmedQueue, false, false, pub); err != nil {
		p.log.Warn("rabbitmq: publish failed", zap.Error(err), zap.Uint64("order_id", o.ID))
		return err
	}
	return nil
}

// Noop discards events.  Used when EVENTS_ENABLED is false.
type Noop struct{}

func (Noop) PublishOrderConfirmed(context.Context, model.Order) error { return nil }
