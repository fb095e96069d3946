package jobs_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"maragu.dev/is"

	"github.com/glue-apps/dashboard/jobs"
	"github.com/glue-apps/dashboard/sqlitetest"
)

func setupTracing(t *testing.T) {
	t.Helper()

	otel.SetTracerProvider(sdktrace.NewTracerProvider())
	otel.SetTextMapPropagator(propagation.TraceContext{})
}

type receivedJob struct {
	body    string
	traceID trace.TraceID
	valid   bool
}

func TestCreate(t *testing.T) {
	setupTracing(t)

	t.Run("runs the job with its original body, continuing the trace of the creator", func(t *testing.T) {
		h := sqlitetest.NewHelper(t)

		r := jobs.NewRunner(jobs.NewRunnerOpts{
			Limit:        1,
			Log:          slog.New(slog.DiscardHandler),
			PollInterval: 10 * time.Millisecond,
			Queue:        h.JobsQ,
		})

		received := make(chan receivedJob, 1)
		r.Register("greet", jobs.WithTracing("greet", func(ctx context.Context, m []byte) error {
			sc := trace.SpanFromContext(ctx).SpanContext()
			received <- receivedJob{body: string(m), traceID: sc.TraceID(), valid: sc.IsValid()}
			return nil
		}))

		ctx, span := otel.Tracer("test").Start(t.Context(), "POST /users/new/{id}")
		err := jobs.Create(ctx, h.JobsQ, "greet", []byte(`{"email":"ada@example.com"}`))
		span.End()
		is.NotError(t, err)

		runCtx, cancel := context.WithCancel(t.Context())
		defer cancel()
		go r.Start(runCtx)

		select {
		case job := <-received:
			is.Equal(t, `{"email":"ada@example.com"}`, job.body)
			is.True(t, job.valid)
			is.Equal(t, span.SpanContext().TraceID(), job.traceID)
		case <-time.After(5 * time.Second):
			t.Fatal("job did not run")
		}
	})
}

func TestWithTracing(t *testing.T) {
	setupTracing(t)

	t.Run("passes messages not made with Create on as they are, in a new trace", func(t *testing.T) {
		var job receivedJob
		f := jobs.WithTracing("greet", func(ctx context.Context, m []byte) error {
			sc := trace.SpanFromContext(ctx).SpanContext()
			job = receivedJob{body: string(m), traceID: sc.TraceID(), valid: sc.IsValid()}
			return nil
		})

		err := f(t.Context(), []byte(`{"email":"bob@example.com"}`))
		is.NotError(t, err)
		is.Equal(t, `{"email":"bob@example.com"}`, job.body)
		is.True(t, job.valid)
	})

	t.Run("returns the error of the job", func(t *testing.T) {
		f := jobs.WithTracing("greet", func(ctx context.Context, m []byte) error {
			return context.DeadlineExceeded
		})

		err := f(t.Context(), []byte(`{}`))
		is.Error(t, context.DeadlineExceeded, err)
	})
}
