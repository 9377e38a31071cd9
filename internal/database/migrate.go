package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Migrate executes every .sql file in migrations in name order.
// Migration files must be idempotent, e.g. CREATE TABLE IF NOT EXISTS.
func Migrate(ctx context.Context, db *sqlx.DB, migrations fs.FS) ([]string, error) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("fs.Glob() > %w", err)
	}
	sort.Strings(files)

	applied := make([]string, 0, len(files))
	for _, file := range files {
		content, err := fs.ReadFile(migrations, file)
		if err != nil {
			return applied, fmt.Errorf("fs.ReadFile(%s) > %w", file, err)
		}
		statement := strings.TrimSpace(string(content))
		if statement == "" {
			continue
		}

		slog.Debug("applying migration", "file", file)
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", file, err)
		}
		applied = append(applied, file)
	}
	return applied, nil
}
