package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

const OrderCreatedTopic = "storefront.order-created"

type kafkaTransport struct {
	w *kafka.Writer
}

func newKafkaTransport(brokers []string) *kafkaTransport {
	return &kafkaTransport{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        OrderCreatedTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// send writes synchronously so the caller sees broker errors.
func (t *kafkaTransport) send(ctx context.Context, key string, body []byte) error {
	return t.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  time.Now(),
	})
}

func (t *kafkaTransport) close() error {
	return t.w.Close()
}
