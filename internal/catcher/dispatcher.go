package catcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kestrel-systems/kestrel-collector/internal/models"
	"github.com/kestrel-systems/kestrel-collector/internal/sink"
)

var ErrUnsupportedCatcher = errors.New("unsupported catcher type")

// Dispatcher resolves a validated event's catcher type to a decoder and
// hands the event to the sink. By default any non-empty catcher type is
// accepted; strict mode restricts ingestion to registered decoders.
type Dispatcher struct {
	decoders []Decoder
	sink     sink.Sink
	strict   bool
}

func NewDispatcher(s sink.Sink, strict bool, decoders ...Decoder) *Dispatcher {
	return &Dispatcher{
		decoders: decoders,
		sink:     s,
		strict:   strict,
	}
}

// DefaultDecoders returns the decoder set for the catcher ecosystems the
// platform ships SDKs for.
func DefaultDecoders() []Decoder {
	return []Decoder{
		&JSONDecoder{Ecosystem: "errors"},
		&JSONDecoder{Ecosystem: "performance"},
	}
}

// Dispatch assembles an AcceptedEvent from a validated envelope and project
// context and publishes it exactly once. A payload that a decoder cannot
// parse is forwarded undecoded; payload decoding is best effort at the
// collector boundary.
func (d *Dispatcher) Dispatch(ctx context.Context, env *models.EventEnvelope, project *models.ProjectContext) error {
	desc := ParseType(env.CatcherType)

	decoder := d.resolve(desc)
	if decoder == nil && d.strict {
		return ErrUnsupportedCatcher
	}

	event := &models.AcceptedEvent{
		ID:          uuid.New().String(),
		ProjectID:   project.ProjectID,
		CatcherType: env.CatcherType,
		Ecosystem:   desc.Ecosystem,
		Language:    desc.Language,
		Payload:     env.Payload,
		ReceivedAt:  time.Now().UTC(),
	}

	if decoder != nil {
		decoded, err := decoder.Decode(ctx, env.Payload)
		if err != nil {
			slog.Debug("payload decode failed, forwarding raw",
				slog.String("catcher_type", env.CatcherType),
				slog.String("error", err.Error()),
			)
		} else {
			event.Decoded = decoded
		}
	}

	return d.sink.Publish(ctx, event)
}

func (d *Dispatcher) resolve(desc Descriptor) Decoder {
	for _, decoder := range d.decoders {
		if decoder.Supports(desc) {
			return decoder
		}
	}
	return nil
}
