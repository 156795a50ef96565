// Package migrations применяет встроенные SQL-миграции схемы календаря.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
)

//go:embed sql/*.sql
var files embed.FS

var fileNamePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_-]+)\.sql$`)

var (
	// ErrInvalidFileName возвращается для файла, не подходящего под {version}_{name}.sql
	ErrInvalidFileName = errors.New("migrations: invalid migration file name")

	// ErrDuplicateVersion возвращается, если два файла имеют одну версию
	ErrDuplicateVersion = errors.New("migrations: duplicate migration version")

	// ErrApply возвращается при ошибке применения миграции
	ErrApply = errors.New("migrations: failed to apply migration")
)

// Migration одна миграция
type Migration struct {
	Version string
	Name    string
	SQL     string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Runner применяет миграции, записывая версии в schema_migrations
type Runner struct {
	db     *sql.DB
	source fs.FS
	logger Logger
}

// NewRunner создает Runner для встроенных миграций
func NewRunner(db *sql.DB, logger Logger) *Runner {
	return &Runner{db: db, source: files, logger: logger}
}

// Load читает и сортирует миграции из source
func Load(source fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(source, "sql")
	if err != nil {
		return nil, fmt.Errorf("migrations: read dir: %w", err)
	}

	seen := make(map[string]string)
	result := make([]Migration, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := fileNamePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFileName, entry.Name())
		}
		if prev, ok := seen[match[1]]; ok {
			return nil, fmt.Errorf("%w: %s and %s", ErrDuplicateVersion, prev, entry.Name())
		}
		seen[match[1]] = entry.Name()

		body, err := fs.ReadFile(source, path.Join("sql", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("migrations: read %s: %w", entry.Name(), err)
		}

		result = append(result, Migration{Version: match[1], Name: match[2], SQL: string(body)})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})

	return result, nil
}

// Run применяет все ещё не применённые миграции, каждую в своей транзакции
func (r *Runner) Run(ctx context.Context) (int, error) {
	if _, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return 0, fmt.Errorf("%w: create schema_migrations: %v", ErrApply, err)
	}

	all, err := Load(r.source)
	if err != nil {
		return 0, err
	}

	applied, err := r.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range all {
		if applied[m.Version] {
			continue
		}

		r.logger.Info("Applying migration %s_%s", m.Version, m.Name)
		if err := r.apply(ctx, m); err != nil {
			r.logger.Error("Migration %s_%s failed: %v", m.Version, m.Name, err)
			return count, err
		}
		count++
	}

	r.logger.Info("Migrations complete: %d applied, %d total", count, len(all))
	return count, nil
}

func (r *Runner) apply(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %s begin: %v", ErrApply, m.Version, err)
	}

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %s: %v", ErrApply, m.Version, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %s record version: %v", ErrApply, m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %s commit: %v", ErrApply, m.Version, err)
	}
	return nil
}

func (r *Runner) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("%w: read schema_migrations: %v", ErrApply, err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("%w: scan version: %v", ErrApply, err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}
