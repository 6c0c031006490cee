package persistence

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ErrNoDatabase is returned when a command needs Postgres but no DSN is set.
var ErrNoDatabase = errors.New("POSTGRES_DSN is not configured")

// Migrations lists the embedded schema files in the order they are applied.
func Migrations() ([]string, error) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// RunMigrations executes the embedded SQL migrations in lexical order.
// Every statement is idempotent, so running it twice is harmless.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) (int, error) {
	if pool == nil {
		return 0, ErrNoDatabase
	}

	names, err := Migrations()
	if err != nil {
		return 0, errors.Wrap(err, "list migrations")
	}

	for _, name := range names {
		content, err := migrationFiles.ReadFile(name)
		if err != nil {
			return 0, errors.Wrapf(err, "read migration %s", name)
		}

		logger.Info("applying migration", zap.String("file", name))
		if _, err := pool.Exec(ctx, string(content)); err != nil {
			return 0, errors.Wrapf(err, "apply migration %s", name)
		}
	}

	logger.Info("migrations applied", zap.Int("count", len(names)))
	return len(names), nil
}
