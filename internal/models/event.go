package models

import "time"

// EventRequest is the wire shape of an error-ingestion body. CatcherType
// keeps its historical capitalized JSON key.
type EventRequest struct {
	Payload     string `json:"payload"`
	Token       string `json:"token"`
	CatcherType string `json:"CatcherType"`
}

// EventEnvelope is a structurally validated event plus the raw body length
// the size governor judges it by.
type EventEnvelope struct {
	Payload     string
	Token       string
	CatcherType string
	Size        int64
}

// ProjectContext is the identity resolved by the authenticator. It is
// borrowed from the registry for the duration of one request and never
// cached past it.
type ProjectContext struct {
	ProjectID string
	Secret    string
}

// AcceptedEvent is the internal representation handed to the event sink
// after dispatch.
type AcceptedEvent struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	CatcherType string    `json:"catcher_type"`
	Ecosystem   string    `json:"ecosystem"`
	Language    string    `json:"language,omitempty"`
	Payload     string    `json:"payload"`
	Decoded     any       `json:"decoded,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`
}
