package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/smd-api/pkg/logger"
)

// Migrator aplica los archivos *.sql pendientes y registra cada uno en schema_migrations.
type Migrator struct {
	pool  *pgxpool.Pool
	files fs.FS
	log   *logger.Logger
}

// NewMigrator construye el migrador sobre un FS (normalmente migrations.FS).
func NewMigrator(pool *pgxpool.Pool, files fs.FS, log *logger.Logger) *Migrator {
	return &Migrator{pool: pool, files: files, log: log.Named("migrator")}
}

// Run ejecuta en orden alfabético los archivos no aplicados. Cada archivo corre en su propia transacción.
func (m *Migrator) Run(ctx context.Context) error {
	if _, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}

	names, err := fs.Glob(m.files, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	ran := 0
	for _, name := range names {
		if applied[name] {
			continue
		}
		content, err := fs.ReadFile(m.files, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := m.apply(ctx, name, string(content)); err != nil {
			return err
		}
		m.log.Info().Str("file", name).Msg("migración aplicada")
		ran++
	}
	m.log.Info().Int("applied", ran).Msg("esquema actualizado")
	return nil
}

func (m *Migrator) apply(ctx context.Context, name, sql string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, sql); err != nil {
		return fmt.Errorf("run migration %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1) ON CONFLICT DO NOTHING`, name); err != nil {
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	return tx.Commit(ctx)
}

func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.pool.Query(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}
