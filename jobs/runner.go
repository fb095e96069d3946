// Package jobs runs background work from the job queue, like sending welcome emails to created users.
package jobs

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"maragu.dev/errors"
	"maragu.dev/goqite"
	"maragu.dev/goqite/jobs"
)

type Runner = jobs.Runner

type Func = jobs.Func

type NewRunnerOpts struct {
	Extend       time.Duration
	Limit        int
	Log          logger
	PollInterval time.Duration
	Queue        *goqite.Queue
}

// NewRunner just calls [jobs.NewRunner].
func NewRunner(opts NewRunnerOpts) *Runner {
	return jobs.NewRunner(jobs.NewRunnerOpts{
		Extend:       opts.Extend,
		Limit:        opts.Limit,
		Log:          opts.Log,
		PollInterval: opts.PollInterval,
		Queue:        opts.Queue,
	})
}

type logger interface {
	Info(msg string, args ...any)
}

// tracedMessage wraps a job payload with the trace context of whoever created the job,
// so the job's span continues the trace of the request that caused it.
type tracedMessage struct {
	Body         json.RawMessage
	TraceContext map[string]string
}

// Create a job with the given name and JSON body, carrying the trace context from ctx.
func Create(ctx context.Context, q *goqite.Queue, name string, body []byte) error {
	carrier := map[string]string{}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(carrier))

	m, err := json.Marshal(tracedMessage{Body: body, TraceContext: carrier})
	if err != nil {
		return errors.Wrap(err, "error marshalling traced job message")
	}

	if _, err := jobs.Create(ctx, q, name, goqite.Message{Body: m}); err != nil {
		return errors.Wrap(err, "error creating job %v", name)
	}
	return nil
}

// WithTracing wraps a job [Func] in a span named name.
// If the message was created with [Create], the span continues the creator's trace and the job gets
// the original body. Otherwise, the message is passed on as is.
func WithTracing(name string, f Func) Func {
	tracer := otel.Tracer("github.com/glue-apps/dashboard/jobs")

	return func(ctx context.Context, m []byte) error {
		var tm tracedMessage
		if err := json.Unmarshal(m, &tm); err == nil && len(tm.Body) > 0 {
			ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(tm.TraceContext))
			m = tm.Body
		}

		ctx, span := tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindConsumer))
		defer span.End()

		if err := f(ctx, m); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "job failed")
			return err
		}

		span.SetStatus(codes.Ok, "")
		return nil
	}
}
