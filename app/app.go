// Package app runs the dashboard process: configuration, logging, telemetry, and the lifecycle of its components.
package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/honeycombio/otel-config-go/otelconfig"
	"golang.org/x/sync/errgroup"
	"maragu.dev/env"
	"maragu.dev/errors"

	"github.com/glue-apps/dashboard/log"
)

// Goer is just the executing part of [errgroup.Group].
type Goer interface {
	Go(func() error)
}

// StartFunc is given to [Start] and should not block, instead starting components with the given error group.
type StartFunc = func(ctx context.Context, log *slog.Logger, eg Goer) error

// Start sets up the main application context, the [slog.Logger], an [errgroup.Group], and Open Telemetry tracing, and calls the given callback.
// The callback function should start the server, job runner and so on using the error group, and not block itself.
func Start(startCallback StartFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// .env in development, /run/secrets/env in containers. Neither has to exist.
	_ = env.Load(".env")
	_ = env.Load("/run/secrets/env")

	level, levelErr := log.ParseLevel(env.GetStringOrDefault("LOG_LEVEL", "info"))

	log := log.NewLogger(log.NewLoggerOptions{
		JSON:   env.GetBoolOrDefault("LOG_JSON", true),
		Level:  level,
		NoTime: env.GetBoolOrDefault("LOG_NO_TIME", false),
	})

	if levelErr != nil {
		log.Warn("Invalid log level, using info", "error", levelErr)
	}

	name := env.GetStringOrDefault("APP_NAME", "Dashboard")
	log.Info("Starting app", "name", name, "version", Version())

	if err := start(ctx, log, name, startCallback); err != nil {
		log.Error("Error starting app", "name", name, "error", err)
		os.Exit(1)
	}

	log.Info("Stopped app", "name", name)
}

func start(ctx context.Context, log *slog.Logger, name string, startCallback StartFunc) error {
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(name), otelconfig.WithServiceVersion(Version()),
		otelconfig.WithMetricsEnabled(false),
		otelconfig.WithExporterProtocol(otelconfig.ProtocolHTTPProto),
		otelconfig.WithExporterEndpoint(env.GetStringOrDefault("OTEL_EXPORTER_ENDPOINT", "https://api.honeycomb.io")),
	)
	if err != nil {
		return errors.Wrap(err, "error configuring open telemetry")
	}
	defer otelShutdown()

	eg, ctx := errgroup.WithContext(ctx)

	if err := startCallback(ctx, log, eg); err != nil {
		return err
	}

	// Blocks until SIGTERM/SIGINT, or until a component in the group fails.
	<-ctx.Done()
	log.Info("Stopping app", "name", name)

	return eg.Wait()
}

// Version of the running binary, from the VCS revision it was built from.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return "unknown"
}
