package registry

import (
	"context"
	"sync"
)

// InMemoryRegistry keeps project secrets in a map. Used for tests and for
// deployments that seed projects from the config file.
type InMemoryRegistry struct {
	secrets map[string]string
	mu      sync.RWMutex
}

// NewInMemoryRegistry builds a registry seeded with the given projects.
func NewInMemoryRegistry(projects ...Project) *InMemoryRegistry {
	r := &InMemoryRegistry{
		secrets: make(map[string]string, len(projects)),
	}
	for _, p := range projects {
		r.secrets[p.ID] = p.Secret
	}
	return r
}

func (r *InMemoryRegistry) LookupSecret(ctx context.Context, projectID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	secret, exists := r.secrets[projectID]
	if !exists {
		return "", ErrProjectNotFound
	}
	return secret, nil
}

// Add registers or replaces a project secret.
func (r *InMemoryRegistry) Add(p Project) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.secrets[p.ID] = p.Secret
}

// Remove deletes a project from the registry.
func (r *InMemoryRegistry) Remove(projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.secrets, projectID)
}
