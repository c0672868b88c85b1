// Package catcher routes validated events to a decoder by their declared
// catcher type and hands the result to the event sink.
package catcher

import (
	"context"
	"encoding/json"
	"strings"
)

// Descriptor identifies an event payload format, e.g. errors/python is
// ecosystem "errors", language "python". A bare value without a slash is a
// descriptor with an empty language; the collector accepts it like any
// other non-empty catcher type.
type Descriptor struct {
	Ecosystem string
	Language  string
}

// ParseType splits a declared catcher type into its descriptor.
func ParseType(catcherType string) Descriptor {
	ecosystem, language, _ := strings.Cut(catcherType, "/")
	return Descriptor{Ecosystem: ecosystem, Language: language}
}

// String reassembles the declared form.
func (d Descriptor) String() string {
	if d.Language == "" {
		return d.Ecosystem
	}
	return d.Ecosystem + "/" + d.Language
}

// Decoder decodes a catcher-specific payload encoding. Decoders are
// registered per ecosystem; language selection happens downstream.
type Decoder interface {
	Decode(ctx context.Context, payload string) (any, error)
	Supports(d Descriptor) bool
}

// JSONDecoder handles ecosystems whose payloads are JSON documents.
type JSONDecoder struct {
	Ecosystem string
}

// Supports returns true for the decoder's ecosystem.
func (d *JSONDecoder) Supports(desc Descriptor) bool {
	return desc.Ecosystem == d.Ecosystem
}

// Decode parses the payload as JSON. Empty payloads decode to nil; SDKs are
// allowed to send an empty payload as a liveness probe.
func (d *JSONDecoder) Decode(ctx context.Context, payload string) (any, error) {
	if payload == "" {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}
