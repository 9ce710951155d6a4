package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange         = "storefront.events"
	OrderCreatedRoutingKey = "order.created.v1"
)

type rabbitTransport struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func newRabbitTransport(url string) (*rabbitTransport, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare %s: %w", EventsExchange, err)
	}

	return &rabbitTransport{conn: conn, ch: ch}, nil
}

func (t *rabbitTransport) send(ctx context.Context, key string, body []byte) error {
	return t.ch.PublishWithContext(
		ctx,
		EventsExchange,
		OrderCreatedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Headers:      amqp.Table{"partitionKey": key},
			Body:         body,
		},
	)
}

func (t *rabbitTransport) close() error {
	if err := t.ch.Close(); err != nil {
		t.conn.Close()
		return err
	}
	return t.conn.Close()
}
