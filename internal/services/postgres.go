package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"
)

// PostgresProvider checks that the database is reachable and migrated.
// It keeps its own small database/sql pool so readiness probes never queue
// behind application queries.
type PostgresProvider struct {
	BaseProvider
	db   *sql.DB
	host string
}

// NewPostgresProvider creates a new PostgreSQL provider
func NewPostgresProvider(ctx context.Context, dsn string) (*PostgresProvider, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(10 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresProvider{
		BaseProvider: BaseProvider{serviceType: "postgres"},
		db:           db,
		host:         dsnHost(dsn),
	}, nil
}

// dsnHost pulls the host out of a URL-style DSN. Keyword DSNs and sockets
// report localhost.
func dsnHost(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return "localhost"
}

// HealthCheck verifies connectivity and that at least one migration has been applied
func (p *PostgresProvider) HealthCheck(ctx context.Context) error {
	var applied int
	err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied)
	if err != nil {
		return fmt.Errorf("postgres not ready: %w", err)
	}
	if applied == 0 {
		return fmt.Errorf("postgres not ready: no migrations applied")
	}
	return nil
}

// Host returns the database host, for logging
func (p *PostgresProvider) Host() string {
	return p.host
}

// Close closes the health-check pool
func (p *PostgresProvider) Close() error {
	return p.db.Close()
}
