package sql

import (
	"context"
	"time"

	"github.com/alexedwards/scs/pgxstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"maragu.dev/errors"
)

// SessionStore for login sessions, in the same database as everything else.
// Expired sessions are deleted every cleanupInterval. Zero disables cleanup.
// [Helper.Close] stops the cleanup and closes any connections the store opened.
func (h *Helper) SessionStore(ctx context.Context, cleanupInterval time.Duration) (scs.Store, error) {
	if !h.IsPostgres() {
		store := sqlite3store.NewWithCleanupInterval(h.DB.DB, cleanupInterval)
		if cleanupInterval > 0 {
			h.stopSessionCleanup = store.StopCleanup
		}
		return store, nil
	}

	// pgxstore needs a native pgx pool rather than database/sql
	pool, err := pgxpool.New(ctx, h.url)
	if err != nil {
		return nil, errors.Wrap(err, "error creating database pool for sessions")
	}
	h.sessionPool = pool

	store := pgxstore.NewWithCleanupInterval(pool, cleanupInterval)
	if cleanupInterval > 0 {
		h.stopSessionCleanup = store.StopCleanup
	}
	return store, nil
}
