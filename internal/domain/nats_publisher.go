package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes posting events to NATS under <subject>.<site>.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to url. An empty url means the NATS default.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	conn, err := nats.Connect(url,
		nats.Name("property-poster"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Subject returns the subject an event for site is published on.
func Subject(base, site string) string {
	return base + "." + natsToken(site)
}

func (p *NATSPublisher) Publish(ctx context.Context, event PostedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject := Subject(p.subject, event.Site)
	if err := p.conn.Publish(subject, event.JSON()); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Flush(); err != nil {
		p.conn.Close()
		return err
	}
	p.conn.Close()
	return nil
}

// natsToken makes a site usable as one subject token: dots and spaces become '_'.
func natsToken(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch c {
		case '.', ' ', '*', '>':
			b[i] = '_'
		}
	}
	return string(b)
}
