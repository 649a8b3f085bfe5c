package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/idolanuel5885/serenity-plus/internal/services"
	"github.com/nats-io/nats.go"
)

// NATSPublisher pushes progress events onto a NATS subject per partnership.
// It is injected into the session recorder; nothing in the core depends on a
// listener being present.
type NATSPublisher struct {
	conn *nats.Conn
}

// Connect dials the NATS endpoint. The reconnect options match a best-effort
// collaborator: a broker outage must never take session recording down.
func Connect(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (publisher *NATSPublisher) PublishProgress(event services.ProgressEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode progress event: %w", err)
	}
	subject := fmt.Sprintf("serenity.partnership.%d.progress", event.PartnershipID)
	if err := publisher.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish progress event: %w", err)
	}
	return nil
}

func (publisher *NATSPublisher) Close() {
	publisher.conn.Close()
}

// NoopPublisher is the default when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishProgress(services.ProgressEvent) error {
	return nil
}
