package bus

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"proofmeet-backend/internal/models"
)

// Publisher pushes classified webhook lifecycle events onto NATS so
// downstream consumers (attendance reconciliation, reporting) can react
// without touching the request path.
type Publisher struct {
	nc *nats.Conn
}

func Connect(url string) (*Publisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(1 * time.Second),
		nats.ReconnectJitter(500*time.Millisecond, 2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("WARN NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("INFO NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Println("INFO NATS connection closed")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	log.Printf("INFO Connected to NATS at %s", nc.ConnectedUrl())

	return &Publisher{nc: nc}, nil
}

// PublishMeetingEvent encodes the event with msgpack and publishes it on
// meetings.events.<suffix>, where the suffix is the Zoom event name without
// its "meeting." prefix.
func (p *Publisher) PublishMeetingEvent(event models.MeetingEvent) error {
	payload, err := msgpack.Marshal(&event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	subject := "meetings.events." + strings.TrimPrefix(event.Event, "meeting.")
	if err := p.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() error {
	return p.nc.Drain()
}
