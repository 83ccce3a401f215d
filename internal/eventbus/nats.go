// Package eventbus publishes generation events for downstream consumers.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects for generation outcomes
const (
	SubjectGenerated = "testgen.generated"
	SubjectFailed    = "testgen.failed"
)

// Publisher sends JSON-encoded events to a subject
type Publisher interface {
	Publish(ctx context.Context, subject string, v any) error
	Connected() bool
}

// NATSPublisher publishes over a core NATS connection
type NATSPublisher struct {
	conn *nats.Conn
}

var _ Publisher = (*NATSPublisher)(nil)

// Connect dials natsURL
func Connect(natsURL string) (*NATSPublisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("testgen-api"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{conn: nc}, nil
}

// NewNATSPublisher wraps an existing connection
func NewNATSPublisher(nc *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: nc}
}

// Publish encodes v as JSON and publishes it on subject
func (p *NATSPublisher) Publish(ctx context.Context, subject string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.conn == nil || p.conn.IsClosed() {
		return nats.ErrConnectionClosed
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return p.conn.Publish(subject, data)
}

// Connected reports whether the connection is currently up
func (p *NATSPublisher) Connected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Close drains pending messages and closes the connection
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

// Nop discards every event
type Nop struct{}

var _ Publisher = Nop{}

func (Nop) Publish(context.Context, string, any) error { return nil }

func (Nop) Connected() bool { return false }
