package registry

import (
	"context"
	"errors"
)

var ErrProjectNotFound = errors.New("project not found")

// Registry resolves a project identifier to its signing secret. The
// ingestion path only ever reads; implementations must support concurrent
// point lookups.
type Registry interface {
	LookupSecret(ctx context.Context, projectID string) (string, error)
}

// Project is a registered project identity.
type Project struct {
	ID     string `mapstructure:"id" json:"id"`
	Secret string `mapstructure:"secret" json:"secret"`
}
