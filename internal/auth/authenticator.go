// Package auth verifies project bearer credentials against the project
// registry. Every failure mode (malformed token, unknown project, signature
// mismatch, wrong algorithm) is collapsed into ErrInvalidSignature so callers
// cannot probe which sub-case occurred.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kestrel-systems/kestrel-collector/internal/models"
	"github.com/kestrel-systems/kestrel-collector/internal/registry"
	"github.com/kestrel-systems/kestrel-collector/pkg/tokens"
)

var ErrInvalidSignature = errors.New(models.MsgInvalidSignature)

// Authenticator resolves a bearer credential to a ProjectContext.
type Authenticator struct {
	registry      registry.Registry
	enforceExpiry bool
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithExpiryEnforcement requires tokens to carry a valid exp claim.
// Off by default: project tokens issued by the platform have no expiry.
func WithExpiryEnforcement() Option {
	return func(a *Authenticator) {
		a.enforceExpiry = true
	}
}

func New(reg registry.Registry, opts ...Option) *Authenticator {
	a := &Authenticator{registry: reg}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate verifies tokenString and returns the project it belongs to.
// The project secret is resolved through the registry using the unverified
// projectId claim, then the HS256 signature is checked against it. Registry
// unavailability is reported as an authentication failure; the pipeline
// never retries.
func (a *Authenticator) Authenticate(ctx context.Context, tokenString string) (*models.ProjectContext, error) {
	if strings.Count(tokenString, ".") != 2 {
		return nil, ErrInvalidSignature
	}

	var secret string

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if a.enforceExpiry {
		parserOpts = append(parserOpts, jwt.WithExpirationRequired())
	}

	token, err := jwt.ParseWithClaims(tokenString, &tokens.ProjectClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Keyfunc runs after claims are decoded but before signature
		// verification: the projectId claim selects the secret to verify
		// against.
		claims, ok := t.Claims.(*tokens.ProjectClaims)
		if !ok || claims.ProjectID == "" {
			return nil, ErrInvalidSignature
		}

		s, err := a.registry.LookupSecret(ctx, claims.ProjectID)
		if err != nil {
			return nil, ErrInvalidSignature
		}
		secret = s
		return []byte(s), nil
	}, parserOpts...)

	if err != nil || !token.Valid {
		return nil, ErrInvalidSignature
	}

	claims, ok := token.Claims.(*tokens.ProjectClaims)
	if !ok || claims.ProjectID == "" {
		return nil, ErrInvalidSignature
	}

	return &models.ProjectContext{
		ProjectID: claims.ProjectID,
		Secret:    secret,
	}, nil
}
