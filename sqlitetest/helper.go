// Package sqlitetest provides a migrated SQLite database for tests.
package sqlitetest

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/glue-apps/dashboard/sql"
)

// NewHelper for testing, connected to a fresh, migrated database in a temporary directory.
func NewHelper(t *testing.T) *sql.Helper {
	t.Helper()

	h := sql.NewHelper(sql.NewHelperOptions{
		Log: slog.New(slog.NewTextHandler(&testWriter{t: t}, nil)),
		SQLite: sql.SQLiteOptions{
			Path: filepath.Join(t.TempDir(), "test.db"),
		},
	})
	if err := h.Connect(t.Context()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := h.Close(); err != nil {
			t.Error(err)
		}
	})

	if err := h.MigrateUp(t.Context()); err != nil {
		t.Fatal(err)
	}

	return h
}

type testWriter struct {
	t *testing.T
}

func (t *testWriter) Write(p []byte) (n int, err error) {
	t.t.Log(string(p))
	return len(p), nil
}
