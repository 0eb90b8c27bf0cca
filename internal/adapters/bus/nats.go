// Package bus carries page messages between repolines processes over NATS.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"repolines/internal/domain"
	"repolines/logging"
)

// DefaultSubject is the subject page messages are published on
const DefaultSubject = "repolines.page"

const flushTimeout = 2 * time.Second

// Client publishes and receives page messages
type Client struct {
	conn    *nats.Conn
	subject string
}

// Connect opens a NATS connection. An empty subject selects DefaultSubject.
func Connect(url, subject string) (*Client, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	conn, err := nats.Connect(url,
		nats.Name("repolines"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logging.Logger.Warn("Disconnected from NATS", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logging.Logger.Info("Reconnected to NATS", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logging.Logger.Info("NATS client connected", "url", url, "subject", subject)
	return &Client{conn: conn, subject: subject}, nil
}

// Publish sends msg and waits until the server has it
func (c *Client) Publish(msg domain.PageMessage) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	if err := c.conn.Publish(c.subject, data); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	if err := c.conn.FlushTimeout(flushTimeout); err != nil {
		return fmt.Errorf("failed to flush message: %w", err)
	}

	logging.Logger.Debug("Published page message", "action", msg.Action, "subject", c.subject)
	return nil
}

// Subscribe delivers every valid page message to handler until ctx is done
func (c *Client) Subscribe(ctx context.Context, handler func(domain.PageMessage)) error {
	sub, err := c.conn.Subscribe(c.subject, func(m *nats.Msg) {
		msg, err := Decode(m.Data)
		if err != nil {
			logging.Logger.Warn("Ignoring malformed page message", "error", err)
			return
		}
		handler(msg)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.subject, err)
	}

	go func() {
		<-ctx.Done()
		if err := sub.Unsubscribe(); err != nil && c.conn.IsConnected() {
			logging.Logger.Debug("Failed to unsubscribe", "error", err)
		}
	}()
	return nil
}

// Close closes the connection
func (c *Client) Close() {
	c.conn.Close()
}

// Encode serializes a page message
func Encode(msg domain.PageMessage) ([]byte, error) {
	if err := validate(msg); err != nil {
		return nil, err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return data, nil
}

// Decode parses a page message
func Decode(data []byte) (domain.PageMessage, error) {
	var msg domain.PageMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return domain.PageMessage{}, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	if err := validate(msg); err != nil {
		return domain.PageMessage{}, err
	}
	return msg, nil
}

func validate(msg domain.PageMessage) error {
	switch msg.Action {
	case domain.ActionServerUpdated:
		return nil
	case domain.ActionLocaleChanged:
		if msg.Locale == "" {
			return fmt.Errorf("locale message without locale")
		}
		return nil
	case "":
		return fmt.Errorf("message without action")
	default:
		return fmt.Errorf("unknown action %q", msg.Action)
	}
}
