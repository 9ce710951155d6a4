// Package events publishes storefront domain events to a message broker.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	Producer = "storefront-backend"

	OrderCreatedEventName    = "OrderCreated"
	OrderCreatedEventVersion = 1
	OrderCreatedSchema       = "storefront.order-created.v1"
)

// EventEnvelope is the wire shape of every published event.
type EventEnvelope[T any] struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	OccurredAt    time.Time `json:"occurredAt"`
	Schema        string    `json:"schema"`
	Payload       T         `json:"payload"`
}

func newEnvelope[T any](name string, version int, schema, partitionKey, correlationID string, payload T) EventEnvelope[T] {
	return EventEnvelope[T]{
		EventName:     name,
		EventVersion:  version,
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		Producer:      Producer,
		PartitionKey:  partitionKey,
		OccurredAt:    time.Now().UTC(),
		Schema:        schema,
		Payload:       payload,
	}
}

// Validate checks the envelope identity fields.
func (e EventEnvelope[T]) Validate(name string, version int) error {
	if e.EventName != name {
		return fmt.Errorf("unexpected eventName %q", e.EventName)
	}
	if e.EventVersion != version {
		return fmt.Errorf("unexpected eventVersion %d", e.EventVersion)
	}
	if e.EventID == "" {
		return errors.New("missing eventId")
	}
	if e.PartitionKey == "" {
		return errors.New("missing partitionKey")
	}
	return nil
}
