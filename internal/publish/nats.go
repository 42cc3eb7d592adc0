// Package publish fans fetched audit content records out to downstream
// collectors over NATS.
package publish

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/auditfeed-io/feedctl/internal/constants"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "o365.audit.content"

// Publisher delivers encoded records to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
	Close() error
}

// NATSPublisher publishes to a NATS server.
type NATSPublisher struct {
	conn *nats.Conn
}

// Connect establishes a NATS connection.
func Connect(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("feedctl"))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	return &NATSPublisher{conn: conn}, nil
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(subject string, data []byte) error {
	if p.conn == nil {
		return constants.ErrPublisherNotConnected
	}

	err := p.conn.Publish(subject, data)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}

	return nil
}

// Close flushes pending messages and drops the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}

	err := p.conn.Flush()
	p.conn.Close()
	p.conn = nil

	if err != nil {
		return fmt.Errorf("flushing NATS connection: %w", err)
	}

	return nil
}

// Records marshals each record to JSON and publishes it individually, so
// consumers see one message per content blob.
func Records[T any](pub Publisher, subject string, records []T) error {
	if subject == "" {
		subject = DefaultSubject
	}

	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}

		err = pub.Publish(subject, data)
		if err != nil {
			return err
		}
	}

	return nil
}
