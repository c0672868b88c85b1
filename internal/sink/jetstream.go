package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/kestrel-systems/kestrel-collector/internal/models"
)

// Stream configuration for accepted events. WorkQueue retention: each event
// is consumed exactly once by the processing tier.
const (
	eventsStream       = "EVENTS"
	eventsSubjectsWild = "events.>"
)

// JetStreamSink publishes accepted events to NATS JetStream. Safe for use
// across multiple collector instances.
type JetStreamSink struct {
	conn      *nats.Conn
	js        jetstream.JetStream
	published uint64
}

// NewJetStreamSink connects to NATS and ensures the events stream exists.
func NewJetStreamSink(ctx context.Context, url string) (*JetStreamSink, error) {
	conn, err := nats.Connect(url,
		nats.Name("kestrel-collector"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      eventsStream,
		Subjects:  []string{eventsSubjectsWild},
		MaxAge:    24 * time.Hour,
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create events stream: %w", err)
	}

	return &JetStreamSink{conn: conn, js: js}, nil
}

// Publish delivers one accepted event. Subject format:
// events.<ecosystem>.<language>, with "raw" standing in for a missing
// language segment.
func (s *JetStreamSink) Publish(ctx context.Context, event *models.AcceptedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := s.js.Publish(ctx, subjectFor(event), data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	atomic.AddUint64(&s.published, 1)
	return nil
}

// Published returns the number of events delivered since startup.
func (s *JetStreamSink) Published() uint64 {
	return atomic.LoadUint64(&s.published)
}

func (s *JetStreamSink) Close() error {
	s.conn.Close()
	return nil
}

func subjectFor(event *models.AcceptedEvent) string {
	ecosystem := sanitizeToken(event.Ecosystem)
	language := sanitizeToken(event.Language)
	if language == "" {
		language = "raw"
	}
	return fmt.Sprintf("events.%s.%s", ecosystem, language)
}

// NATS subject tokens must not contain separators or wildcards.
func sanitizeToken(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ':
			return '-'
		}
		return r
	}, s)
}
