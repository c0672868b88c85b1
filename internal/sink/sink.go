// Package sink delivers accepted events to downstream processing.
package sink

import (
	"context"

	"github.com/kestrel-systems/kestrel-collector/internal/models"
)

// Sink receives every accepted event exactly once. Implementations must be
// safe for concurrent use by request goroutines.
type Sink interface {
	Publish(ctx context.Context, event *models.AcceptedEvent) error
	Close() error
}

// Noop discards events. Used in tests and in deployments that only exercise
// the validation surface.
type Noop struct{}

func (Noop) Publish(ctx context.Context, event *models.AcceptedEvent) error { return nil }
func (Noop) Close() error                                                   { return nil }
