// Package natsbus publishes karaoke events on NATS subjects with trace context
// carried in message headers.
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"karaoke-browser/domain/model"
)

// headerCarrier adapts nats.Msg headers for the OTel TextMapCarrier.
type headerCarrier nats.Msg

func (c *headerCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *headerCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *headerCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}

type msgPublisher interface {
	PublishMsg(msg *nats.Msg) error
}

// Publisher sends each event to <subject>.<event type>.
type Publisher struct {
	conn    msgPublisher
	subject string
}

func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	return &Publisher{conn: nc, subject: subject}
}

// Connect dials url with a client name and unlimited reconnects.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("karaoke-browser"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

func (p *Publisher) Publish(ctx context.Context, evt model.KaraokeEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := &nats.Msg{
		Subject: p.subject + "." + evt.Type,
		Data:    data,
	}
	otel.GetTextMapPropagator().Inject(ctx, (*headerCarrier)(msg))
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}
