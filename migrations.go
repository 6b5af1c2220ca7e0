package pageresolver

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

const migrationSplit = "---bun:split"

// GetMigrationsFS returns the embedded migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// Migrate applies every embedded up migration in file name order. Statements
// are idempotent so repeated runs are safe.
func Migrate(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("pageresolver: migrate requires a database")
	}
	names, err := fs.Glob(migrationsFS, "data/sql/migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("pageresolver: list migrations: %w", err)
	}
	sort.Strings(names)

	sqlite := db.Dialect().Name() == dialect.SQLite
	for _, name := range names {
		raw, err := fs.ReadFile(migrationsFS, name)
		if err != nil {
			return fmt.Errorf("pageresolver: read migration %s: %w", name, err)
		}
		for _, statement := range migrationStatements(string(raw), sqlite) {
			if _, err := db.ExecContext(ctx, statement); err != nil {
				return fmt.Errorf("pageresolver: apply migration %s: %w", name, err)
			}
		}
	}
	return nil
}

func migrationStatements(content string, sqlite bool) []string {
	if sqlite {
		// SQLite doesn't understand Postgres JSONB casts in defaults.
		content = strings.ReplaceAll(content, "::jsonb", "")
	}
	var out []string
	for _, chunk := range strings.Split(content, migrationSplit) {
		if statement := strings.TrimSpace(chunk); statement != "" {
			out = append(out, statement)
		}
	}
	return out
}
