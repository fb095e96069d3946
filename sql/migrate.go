package sql

import (
	"context"
	"embed"
	"io/fs"

	"maragu.dev/errors"
	"maragu.dev/migrate"
)

//go:embed migrations
var migrations embed.FS

func (h *Helper) migrations() fs.FS {
	dir := "migrations/sqlite"
	if h.IsPostgres() {
		dir = "migrations/postgres"
	}

	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		panic(err)
	}
	return fsys
}

// MigrateUp the database to the latest version, creating the sessions and job queue tables.
func (h *Helper) MigrateUp(ctx context.Context) error {
	if err := migrate.Up(ctx, h.DB.DB, h.migrations()); err != nil {
		return errors.Wrap(err, "error migrating up")
	}
	return nil
}

// MigrateDown the database, removing everything.
func (h *Helper) MigrateDown(ctx context.Context) error {
	if err := migrate.Down(ctx, h.DB.DB, h.migrations()); err != nil {
		return errors.Wrap(err, "error migrating down")
	}
	return nil
}
