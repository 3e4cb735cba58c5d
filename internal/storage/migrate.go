package storage

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const migrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		name VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)
`

// Migrator applies ordered .sql files from a filesystem exactly once each
type Migrator struct {
	pool   *pgxpool.Pool
	source fs.FS
}

// NewMigrator creates a migrator reading from source. Use os.DirFS for an
// on-disk directory or the embedded migrations package.
func NewMigrator(pool *pgxpool.Pool, source fs.FS) *Migrator {
	return &Migrator{pool: pool, source: source}
}

// Pending lists migration files that have not been recorded yet, in apply order
func (m *Migrator) Pending(ctx context.Context) ([]string, error) {
	if _, err := m.pool.Exec(ctx, migrationsTable); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	names, err := migrationFiles(m.source)
	if err != nil {
		return nil, err
	}

	pending := make([]string, 0, len(names))
	for _, name := range names {
		if applied[name] {
			slog.Debug("migration already applied", "migration", name)
			continue
		}
		pending = append(pending, name)
	}

	return pending, nil
}

// Up applies every pending migration, each in its own transaction
func (m *Migrator) Up(ctx context.Context) error {
	pending, err := m.Pending(ctx)
	if err != nil {
		return err
	}

	for _, name := range pending {
		if err := m.apply(ctx, name); err != nil {
			return err
		}
	}

	slog.Info("migrations up to date", "applied", len(pending))
	return nil
}

func (m *Migrator) apply(ctx context.Context, name string) error {
	slog.Info("applying migration", "migration", name)

	content, err := fs.ReadFile(m.source, name)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", name, err)
	}

	err = pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("migration applied successfully", "migration", name)
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.pool.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}

	return applied, rows.Err()
}

// migrationFiles returns the top-level .sql files of source, sorted by name
func migrationFiles(source fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(path.Ext(e.Name()), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

// MigrateFromDSN connects with dsn and applies migrations from source.
// A nil source falls back to dir on disk.
func MigrateFromDSN(ctx context.Context, dsn string, source fs.FS, dir string) error {
	if source == nil {
		if dir == "" {
			return fmt.Errorf("no migrations source configured")
		}
		source = os.DirFS(dir)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	return NewMigrator(pool, source).Up(ctx)
}
