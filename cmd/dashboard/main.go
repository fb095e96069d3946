// Command dashboard serves the admin dashboard.
package main

import (
	"context"
	"log/slog"
	"time"

	"maragu.dev/env"
	"maragu.dev/errors"

	"github.com/glue-apps/dashboard/apiclient"
	"github.com/glue-apps/dashboard/app"
	"github.com/glue-apps/dashboard/email"
	"github.com/glue-apps/dashboard/email/postmark"
	"github.com/glue-apps/dashboard/http"
	"github.com/glue-apps/dashboard/jobs"
	"github.com/glue-apps/dashboard/model"
	"github.com/glue-apps/dashboard/sql"
	"github.com/glue-apps/dashboard/users"
)

func main() {
	app.Start(start)
}

func start(ctx context.Context, log *slog.Logger, eg app.Goer) error {
	baseURL := env.GetStringOrDefault("BASE_URL", "http://localhost:8080")

	// PostgreSQL if a URL is given, SQLite otherwise
	databaseURL := env.GetStringOrDefault("DATABASE_URL", "")
	var databasePath string
	if databaseURL == "" {
		databasePath = env.GetStringOrDefault("DATABASE_PATH", "app.db")
	}

	db := sql.NewHelper(sql.NewHelperOptions{
		JobQueue: sql.JobQueueOptions{
			Timeout: env.GetDurationOrDefault("JOB_QUEUE_TIMEOUT", 5*time.Second),
		},
		Log: log,
		Postgres: sql.PostgresOptions{
			ConnectionMaxIdleTime: time.Minute,
			ConnectionMaxLifetime: time.Hour,
			MaxIdleConnections:    env.GetIntOrDefault("DATABASE_MAX_IDLE_CONNECTIONS", 10),
			MaxOpenConnections:    env.GetIntOrDefault("DATABASE_MAX_OPEN_CONNECTIONS", 10),
			URL:                   databaseURL,
		},
		SQLite: sql.SQLiteOptions{
			Path: databasePath,
		},
	})
	if err := db.Connect(ctx); err != nil {
		return errors.Wrap(err, "error connecting to database")
	}

	if err := db.MigrateUp(ctx); err != nil {
		return errors.Wrap(err, "error migrating database")
	}

	sessionStore, err := db.SessionStore(ctx, 10*time.Minute)
	if err != nil {
		return errors.Wrap(err, "error creating session store")
	}

	api := apiclient.NewClient(apiclient.NewClientOptions{
		BaseURL: env.GetStringOrDefault("API_BASE_URL", "http://localhost:3000"),
		Log:     log,
		Timeout: env.GetDurationOrDefault("API_TIMEOUT", 10*time.Second),
	})

	modals := users.NewModals(users.NewModalsOptions{Log: log})

	var sender email.Sender
	if key := env.GetStringOrDefault("POSTMARK_KEY", ""); key != "" {
		sender = postmark.NewSender(postmark.NewSenderOptions{
			BaseURL:          baseURL,
			FromEmailAddress: model.EmailAddress(env.GetStringOrDefault("EMAIL_FROM_ADDRESS", "")),
			FromEmailName:    env.GetStringOrDefault("EMAIL_FROM_NAME", "Dashboard"),
			Key:              key,
			Log:              log,
		})
	} else {
		log.Info("No Postmark key, welcome emails will not be sent")
	}

	runner := jobs.NewRunner(jobs.NewRunnerOpts{
		Extend:       5 * time.Second,
		Limit:        10,
		Log:          log,
		PollInterval: 100 * time.Millisecond,
		Queue:        db.JobsQ,
	})
	jobs.Register(runner, jobs.RegisterOpts{Log: log, Sender: sender})

	s := http.NewServer(http.NewServerOptions{
		API:            api,
		BaseURL:        baseURL,
		DB:             db,
		Log:            log,
		LoginRateLimit: env.GetIntOrDefault("LOGIN_RATE_LIMIT", 10),
		Modals:         modals,
		Port:           env.GetIntOrDefault("PORT", 8080),
		Queue:          db.JobsQ,
		SecureCookie:   env.GetBoolOrDefault("SECURE_COOKIE", true),
		SessionStore:   sessionStore,
	})

	eg.Go(func() error {
		return s.Start()
	})

	runnerDone := make(chan struct{})
	eg.Go(func() error {
		defer close(runnerDone)
		runner.Start(ctx)
		return nil
	})

	eg.Go(func() error {
		return modals.Start(ctx, time.Minute)
	})

	// The database closes last, after the server and the job runner have stopped using it
	eg.Go(func() error {
		<-ctx.Done()
		if err := s.Stop(); err != nil {
			return err
		}
		<-runnerDone
		return db.Close()
	})

	return nil
}
