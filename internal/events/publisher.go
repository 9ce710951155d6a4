package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

const publishTimeout = 3 * time.Second

// Publisher emits domain events. Callers treat failures as non-fatal.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *model.Order) error
	Close() error
}

// transport sends one encoded message to a broker destination.
type transport interface {
	send(ctx context.Context, key string, body []byte) error
	close() error
}

type brokerPublisher struct {
	name string
	t    transport
}

func (p *brokerPublisher) PublishOrderCreated(ctx context.Context, order *model.Order) error {
	ev := NewOrderCreated(order, RequestID(ctx))
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.EventName, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.t.send(pubCtx, ev.PartitionKey, body); err != nil {
		return fmt.Errorf("publish %s via %s: %w", ev.EventName, p.name, err)
	}

	logger.Debug("Event published", map[string]interface{}{
		"event":    ev.EventName,
		"event_id": ev.EventID,
		"broker":   p.name,
		"order_id": order.ID,
	})
	return nil
}

func (p *brokerPublisher) Close() error {
	return p.t.close()
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *model.Order) error { return nil }
func (NoopPublisher) Close() error                                            { return nil }

type requestIDKey struct{}

// WithRequestID stores the request ID used as the events' correlation ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the ID stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// New returns the publisher selected by cfg.Broker.
func New(cfg *config.EventsConfig) (Publisher, error) {
	switch cfg.Broker {
	case "", "none":
		return NoopPublisher{}, nil
	case "rabbitmq":
		t, err := newRabbitTransport(cfg.RabbitMQURL)
		if err != nil {
			return nil, err
		}
		return &brokerPublisher{name: "rabbitmq", t: t}, nil
	case "kafka":
		return &brokerPublisher{name: "kafka", t: newKafkaTransport(cfg.KafkaBrokers)}, nil
	default:
		return nil, fmt.Errorf("unsupported EVENTS_BROKER %q", cfg.Broker)
	}
}
