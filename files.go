package gymauth

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// RunMigrations applies the embedded schema to the session database. It is
// idempotent, statements use IF NOT EXISTS guards.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	entries, err := fs.Glob(migrationsFS, "data/sql/migrations/*.sql")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list migrations")
	}
	sort.Strings(entries)

	for _, entry := range entries {
		contents, err := migrationsFS.ReadFile(entry)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migration").
				WithMetadata(map[string]any{"file": entry})
		}
		if _, err := db.ExecContext(ctx, string(contents)); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to apply migration").
				WithMetadata(map[string]any{"file": entry})
		}
	}

	return nil
}
