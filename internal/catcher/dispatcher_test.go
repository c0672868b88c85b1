package catcher

import (
	"context"
	"errors"
	"testing"

	"github.com/kestrel-systems/kestrel-collector/internal/models"
)

type recordingSink struct {
	events []*models.AcceptedEvent
	err    error
}

func (s *recordingSink) Publish(ctx context.Context, event *models.AcceptedEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Close() error { return nil }

func TestParseType(t *testing.T) {
	tests := []struct {
		input     string
		ecosystem string
		language  string
	}{
		{"errors/python", "errors", "python"},
		{"errors/nodejs", "errors", "nodejs"},
		{"python", "python", ""},
		{"errors/", "errors", ""},
		{"a/b/c", "a", "b/c"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := ParseType(tt.input)
			if d.Ecosystem != tt.ecosystem || d.Language != tt.language {
				t.Errorf("ParseType(%q) = {%q, %q}, want {%q, %q}",
					tt.input, d.Ecosystem, d.Language, tt.ecosystem, tt.language)
			}
		})
	}
}

func TestJSONDecoder(t *testing.T) {
	d := &JSONDecoder{Ecosystem: "errors"}

	if !d.Supports(Descriptor{Ecosystem: "errors", Language: "python"}) {
		t.Error("decoder should support its own ecosystem")
	}
	if d.Supports(Descriptor{Ecosystem: "performance"}) {
		t.Error("decoder should not support other ecosystems")
	}

	decoded, err := d.Decode(context.Background(), `{"title": "ZeroDivisionError"}`)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	m, ok := decoded.(map[string]any)
	if !ok || m["title"] != "ZeroDivisionError" {
		t.Errorf("Decode() = %v, want title map", decoded)
	}

	if decoded, err := d.Decode(context.Background(), ""); err != nil || decoded != nil {
		t.Errorf("empty payload should decode to nil, got (%v, %v)", decoded, err)
	}

	if _, err := d.Decode(context.Background(), "not json"); err == nil {
		t.Error("non-JSON payload should fail to decode")
	}
}

func TestDispatch_Accepted(t *testing.T) {
	rec := &recordingSink{}
	d := NewDispatcher(rec, false, DefaultDecoders()...)

	env := &models.EventEnvelope{
		Payload:     `{"title": "boom"}`,
		CatcherType: "errors/python",
		Size:        42,
	}
	project := &models.ProjectContext{ProjectID: "projID", Secret: "s"}

	if err := d.Dispatch(context.Background(), env, project); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("published %d events, want 1", len(rec.events))
	}
	event := rec.events[0]
	if event.ID == "" {
		t.Error("event ID should be assigned")
	}
	if event.ProjectID != "projID" {
		t.Errorf("ProjectID = %q, want projID", event.ProjectID)
	}
	if event.Ecosystem != "errors" || event.Language != "python" {
		t.Errorf("descriptor = %q/%q, want errors/python", event.Ecosystem, event.Language)
	}
	if event.Decoded == nil {
		t.Error("payload should have been decoded")
	}
}

func TestDispatch_UnknownCatcherType(t *testing.T) {
	env := &models.EventEnvelope{Payload: "", CatcherType: "python"}
	project := &models.ProjectContext{ProjectID: "projID"}

	// Default mode forwards unknown descriptors undecoded.
	rec := &recordingSink{}
	d := NewDispatcher(rec, false, DefaultDecoders()...)
	if err := d.Dispatch(context.Background(), env, project); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(rec.events) != 1 || rec.events[0].Decoded != nil {
		t.Error("unknown descriptor should be forwarded undecoded")
	}

	// Strict mode rejects them.
	strict := NewDispatcher(&recordingSink{}, true, DefaultDecoders()...)
	if err := strict.Dispatch(context.Background(), env, project); !errors.Is(err, ErrUnsupportedCatcher) {
		t.Errorf("Dispatch() error = %v, want ErrUnsupportedCatcher", err)
	}
}

func TestDispatch_UndecodablePayloadForwarded(t *testing.T) {
	rec := &recordingSink{}
	d := NewDispatcher(rec, false, DefaultDecoders()...)

	env := &models.EventEnvelope{Payload: "!!not json!!", CatcherType: "errors/python"}
	project := &models.ProjectContext{ProjectID: "projID"}

	if err := d.Dispatch(context.Background(), env, project); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("published %d events, want 1", len(rec.events))
	}
	if rec.events[0].Decoded != nil {
		t.Error("undecodable payload should be forwarded raw")
	}
	if rec.events[0].Payload != "!!not json!!" {
		t.Errorf("Payload = %q, want original", rec.events[0].Payload)
	}
}

func TestDispatch_SinkFailure(t *testing.T) {
	rec := &recordingSink{err: errors.New("nats unavailable")}
	d := NewDispatcher(rec, false, DefaultDecoders()...)

	env := &models.EventEnvelope{CatcherType: "errors/python"}
	project := &models.ProjectContext{ProjectID: "projID"}

	if err := d.Dispatch(context.Background(), env, project); err == nil {
		t.Error("sink failure should propagate")
	}
}
