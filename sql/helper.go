package sql

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	"maragu.dev/errors"
	"maragu.dev/goqite"
)

// Helper for the dashboard's own database, which holds sessions and the job queue.
// Users and notifications live in the remote API, never here.
// The database is either SQLite (given a path) or PostgreSQL (given a URL).
type Helper struct {
	DB                    *sqlx.DB
	JobsQ                 *goqite.Queue
	attributes            []attribute.KeyValue
	connectionMaxIdleTime time.Duration
	connectionMaxLifetime time.Duration
	flavor                goqite.SQLFlavor
	jobQueueTimeout       time.Duration
	log                   *slog.Logger
	maxIdleConnections    int
	maxOpenConnections    int
	path                  string
	sessionPool           *pgxpool.Pool
	stopSessionCleanup    func()
	tracer                trace.Tracer
	url                   string
}

type NewHelperOptions struct {
	JobQueue JobQueueOptions
	Log      *slog.Logger
	Postgres PostgresOptions
	SQLite   SQLiteOptions
}

type PostgresOptions struct {
	ConnectionMaxIdleTime time.Duration
	ConnectionMaxLifetime time.Duration
	MaxIdleConnections    int
	MaxOpenConnections    int
	URL                   string
}

type SQLiteOptions struct {
	Path string
}

type JobQueueOptions struct {
	// Timeout before a received job is visible in the queue again, if it's not extended or deleted.
	Timeout time.Duration
}

// NewHelper with the given options.
// If no logger is provided, logs are discarded.
// For documentation on OTel spans and attributes, see https://opentelemetry.io/docs/specs/semconv/database/database-spans/
func NewHelper(opts NewHelperOptions) *Helper {
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}

	return &Helper{
		connectionMaxIdleTime: opts.Postgres.ConnectionMaxIdleTime,
		connectionMaxLifetime: opts.Postgres.ConnectionMaxLifetime,
		jobQueueTimeout:       opts.JobQueue.Timeout,
		log:                   opts.Log,
		maxIdleConnections:    opts.Postgres.MaxIdleConnections,
		maxOpenConnections:    opts.Postgres.MaxOpenConnections,
		path:                  opts.SQLite.Path,
		tracer:                otel.Tracer("github.com/glue-apps/dashboard/sql"),
		url:                   opts.Postgres.URL,
	}
}

// Connect to the database and set up the job queue.
// Panics if neither a SQLite path nor a PostgreSQL URL was given.
func (h *Helper) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	switch {
	case h.path != "":
		err = h.connectSQLite(ctx)
	case h.url != "":
		err = h.connectPostgres(ctx)
	default:
		panic("neither postgres url nor sqlite path given")
	}
	if err != nil {
		return err
	}

	h.JobsQ = goqite.New(goqite.NewOpts{
		DB:        h.DB.DB,
		Name:      "jobs",
		SQLFlavor: h.flavor,
		Timeout:   h.jobQueueTimeout,
	})

	return nil
}

func (h *Helper) connectSQLite(ctx context.Context) error {
	// WAL mode, wait on busy writers, foreign keys, and immediate transaction locking
	path := h.path + "?_journal=WAL&_timeout=5000&_fk=true&_txlock=immediate"
	h.log.Info("Starting database", "path", path)

	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return errors.Wrap(err, "error connecting to sqlite database")
	}

	h.DB = db
	h.flavor = goqite.SQLFlavorSQLite
	h.attributes = []attribute.KeyValue{semconv.DBSystemNameSQLite}
	return nil
}

func (h *Helper) connectPostgres(ctx context.Context) error {
	h.log.Info("Connecting to database", "url", scrubURL(h.url))

	db, err := sqlx.ConnectContext(ctx, "pgx", h.url)
	if err != nil {
		return errors.Wrap(err, "error connecting to postgres database")
	}

	h.log.Debug("Setting connection pool options",
		"max open connections", h.maxOpenConnections,
		"max idle connections", h.maxIdleConnections,
		"connection max lifetime", h.connectionMaxLifetime,
		"connection max idle time", h.connectionMaxIdleTime)
	db.SetMaxOpenConns(h.maxOpenConnections)
	db.SetMaxIdleConns(h.maxIdleConnections)
	db.SetConnMaxLifetime(h.connectionMaxLifetime)
	db.SetConnMaxIdleTime(h.connectionMaxIdleTime)

	h.DB = db
	h.flavor = goqite.SQLFlavorPostgreSQL
	h.attributes = []attribute.KeyValue{semconv.DBSystemNamePostgreSQL}
	return nil
}

// Close the database connection, along with the session store's cleanup and connection pool.
// Closing more than once is fine.
func (h *Helper) Close() error {
	if h.stopSessionCleanup != nil {
		h.stopSessionCleanup()
		h.stopSessionCleanup = nil
	}

	if h.sessionPool != nil {
		h.sessionPool.Close()
		h.sessionPool = nil
	}

	if h.DB == nil {
		return nil
	}
	h.log.Info("Closing database")
	return h.DB.Close()
}

// IsPostgres reports whether the helper is connected to PostgreSQL rather than SQLite.
func (h *Helper) IsPostgres() bool {
	return h.flavor == goqite.SQLFlavorPostgreSQL
}

// scrubURL replaces any password in the connection URL, for logging.
func scrubURL(connectionURL string) string {
	u, err := url.Parse(connectionURL)
	if err != nil {
		return "(invalid url)"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxx")
	}
	return u.String()
}

// Ping the database, for health checks.
func (h *Helper) Ping(ctx context.Context) error {
	var one int
	return h.Get(ctx, &one, `select 1`)
}

// Get a single row into dest.
func (h *Helper) Get(ctx context.Context, dest any, query string, args ...any) error {
	return h.traced(ctx, query, func(ctx context.Context) error {
		return h.DB.GetContext(ctx, dest, query, args...)
	})
}

// traced runs the query callback in a client span, recording any error on it.
func (h *Helper) traced(ctx context.Context, query string, cb func(ctx context.Context) error) error {
	ctx, span := h.tracer.Start(ctx, "query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(h.attributes...),
		trace.WithAttributes(attribute.String("db.query.text", normalizeQuery(query))),
	)
	defer span.End()

	if err := cb(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return err
	}

	return nil
}

// normalizeQuery by collapsing whitespace and cutting off long queries.
func normalizeQuery(query string) string {
	const maxLength = 1000

	normalized := strings.Join(strings.Fields(query), " ")
	if utf8.RuneCountInString(normalized) <= maxLength {
		return normalized
	}
	return string([]rune(normalized)[:maxLength]) + "…"
}
