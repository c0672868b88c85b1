package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// ProjectClaims are the claims carried by a project ingestion token.
// ProjectID is the only claim the collector requires; iat is informational.
type ProjectClaims struct {
	ProjectID string `json:"projectId"`
	jwt.RegisteredClaims
}

// Generate mints an HS256 project token signed with the project secret.
// A zero ttl produces a token without an expiry claim, matching tokens
// issued by the platform's project settings page.
func Generate(projectID, secret string, ttl time.Duration) (string, error) {
	if projectID == "" {
		return "", ErrInvalidToken
	}

	claims := ProjectClaims{
		ProjectID: projectID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Inspect decodes a token's claims without verifying the signature.
// Intended for operator tooling only; never use it to authenticate.
func Inspect(tokenString string) (*ProjectClaims, error) {
	parser := jwt.NewParser()
	claims := &ProjectClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
