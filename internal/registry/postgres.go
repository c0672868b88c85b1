package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRegistry resolves project secrets from the platform's project
// table. The collector only ever reads from it.
type PostgresRegistry struct {
	pool *pgxpool.Pool
}

func NewPostgresRegistry(ctx context.Context, connString string) (*PostgresRegistry, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Read-only point lookups; a small pool is enough.
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRegistry{pool: pool}, nil
}

func (r *PostgresRegistry) Close() {
	r.pool.Close()
}

// EnsureSchema creates the projects table when it does not exist yet.
// Development convenience; production deployments own the schema.
func (r *PostgresRegistry) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS projects (
			id         TEXT PRIMARY KEY,
			secret     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create projects table: %w", err)
	}
	return nil
}

func (r *PostgresRegistry) LookupSecret(ctx context.Context, projectID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT secret FROM projects WHERE id = $1`

	var secret string
	err := r.pool.QueryRow(ctx, query, projectID).Scan(&secret)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrProjectNotFound
		}
		return "", fmt.Errorf("failed to look up project: %w", err)
	}

	return secret, nil
}

// CreateProject registers a project. Used by operator tooling and tests.
func (r *PostgresRegistry) CreateProject(ctx context.Context, p Project) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO projects (id, secret)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET secret = EXCLUDED.secret
	`

	if _, err := r.pool.Exec(ctx, query, p.ID, p.Secret); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}
