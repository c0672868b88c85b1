// Package pipeline implements the ordered validation chain every inbound
// error event must pass: format, emptiness, required fields, authentication,
// size governance. Stages run in fixed order and short-circuit on the first
// failure; the failing stage's message is the one reported to the caller.
package pipeline

import (
	"context"
	"encoding/json"

	"github.com/kestrel-systems/kestrel-collector/internal/auth"
	"github.com/kestrel-systems/kestrel-collector/internal/limits"
	"github.com/kestrel-systems/kestrel-collector/internal/models"
)

// Pipeline validates raw request bodies into routable event envelopes.
type Pipeline struct {
	authenticator *auth.Authenticator
	governor      limits.Governor
}

func New(authenticator *auth.Authenticator, governor limits.Governor) *Pipeline {
	return &Pipeline{
		authenticator: authenticator,
		governor:      governor,
	}
}

// state is threaded through the stages of one run.
type state struct {
	body     []byte
	request  models.EventRequest
	project  *models.ProjectContext
	envelope *models.EventEnvelope
}

type stage func(ctx context.Context, s *state) error

// Run executes all stages against body. On success it returns the envelope
// and resolved project; on failure it returns a *models.Rejection carrying
// the first failing stage's contract message. Run is a pure function of
// (body, registry state) and holds no state across calls.
func (p *Pipeline) Run(ctx context.Context, body []byte) (*models.EventEnvelope, *models.ProjectContext, error) {
	s := &state{body: body}

	stages := []stage{
		p.checkFormat,
		p.checkRequiredFields,
		p.authenticate,
		p.checkSize,
	}

	for _, st := range stages {
		if err := st(ctx, s); err != nil {
			return nil, nil, err
		}
	}

	return s.envelope, s.project, nil
}

// checkFormat requires the body to parse as a non-empty JSON object with
// the expected field types. GET requests with no body fail here like any
// other malformed input.
func (p *Pipeline) checkFormat(ctx context.Context, s *state) error {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(s.body, &outer); err != nil {
		return models.Reject(models.MsgInvalidJSON)
	}

	// Emptiness is judged on the outer object: {} is an empty payload,
	// {"payload": ""} is not.
	if len(outer) == 0 {
		return models.Reject(models.MsgEmptyPayload)
	}

	if err := json.Unmarshal(s.body, &s.request); err != nil {
		return models.Reject(models.MsgInvalidJSON)
	}
	return nil
}

// checkRequiredFields reports each missing field individually, in fixed
// priority order. An absent field and an empty one are indistinguishable.
func (p *Pipeline) checkRequiredFields(ctx context.Context, s *state) error {
	if s.request.Token == "" {
		return models.Reject(models.MsgEmptyToken)
	}
	if s.request.CatcherType == "" {
		return models.Reject(models.MsgEmptyCatcherType)
	}
	return nil
}

// authenticate runs after the cheap structural checks so no cryptographic
// work is spent on malformed input.
func (p *Pipeline) authenticate(ctx context.Context, s *state) error {
	project, err := p.authenticator.Authenticate(ctx, s.request.Token)
	if err != nil {
		return models.Reject(models.MsgInvalidSignature)
	}
	s.project = project
	return nil
}

// checkSize judges the validated message last: a malformed-but-oversized
// request must report its format error, not a size error. The measurement
// is the serialized form the client put on the wire.
func (p *Pipeline) checkSize(ctx context.Context, s *state) error {
	size := int64(len(s.body))
	if err := p.governor.Check(size); err != nil {
		return models.Reject(models.MsgTooLarge)
	}

	s.envelope = &models.EventEnvelope{
		Payload:     s.request.Payload,
		Token:       s.request.Token,
		CatcherType: s.request.CatcherType,
		Size:        size,
	}
	return nil
}
