package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	model "auction-lifecycle/internal/models"

	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is the NATS subject prefix; the user id is appended as the last token
const DefaultSubjectPrefix = "notifications"

// Publisher fans committed notifications out to downstream consumers.
// Delivery is best effort; the notification row is the source of truth.
type Publisher interface {
	Publish(ctx context.Context, n model.Notification) error
	Close() error
}

// NopPublisher drops every notification. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.Notification) error { return nil }
func (NopPublisher) Close() error                                      { return nil }

// NATSPublisher publishes notifications as JSON on "<prefix>.<userID>"
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNATSPublisher connects to the NATS server at url
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("auction-lifecycle"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix}, nil
}

// Publish sends the notification without waiting for any consumer
func (p *NATSPublisher) Publish(ctx context.Context, n model.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification %s: %w", n.ID, err)
	}
	if err := p.conn.Publish(Subject(p.prefix, n.UserID), data); err != nil {
		return fmt.Errorf("failed to publish notification %s: %w", n.ID, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// Subject builds the per-user subject. NATS tokens cannot contain '.', '*', '>' or whitespace,
// so those characters in the user id are replaced with '_'.
func Subject(prefix, userID string) string {
	token := []rune(userID)
	for i, r := range token {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			token[i] = '_'
		}
	}
	if len(token) == 0 {
		return prefix + "._"
	}
	return prefix + "." + string(token)
}
