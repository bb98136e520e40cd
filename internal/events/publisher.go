// internal/events/publisher.go
package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// EventPublisher defines the interface for publishing result events. This
// allows the NATS publisher or a test double to be used.
type EventPublisher interface {
	Publish(detailType string, detail interface{}) error
}

// NATSPublisher publishes envelopes to NATS, one subject per detail type.
type NATSPublisher struct {
	conn   *nats.Conn
	source string
}

// NewNATSPublisher creates a publisher stamping source onto every envelope.
func NewNATSPublisher(conn *nats.Conn, source string) *NATSPublisher {
	return &NATSPublisher{conn: conn, source: source}
}

func (p *NATSPublisher) Publish(detailType string, detail interface{}) error {
	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to marshal event detail: %w", err)
	}
	envelope := Envelope{
		Source:     p.source,
		DetailType: detailType,
		Detail:     detailJSON,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return p.conn.Publish(detailType, data)
}
