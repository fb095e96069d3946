package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
)

const contextRootSpanKey = contextKey("rootSpan")

// OpenTelemetry is [Middleware] that starts a root span per request, named after the matched route.
// Handlers further down add attributes to it through [GetRootSpanFromContext], so each request is one wide event.
func OpenTelemetry(next http.Handler) http.Handler {
	return otelhttp.NewHandler(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			span := trace.SpanFromContext(r.Context())
			r = r.WithContext(context.WithValue(r.Context(), contextRootSpanKey, span))

			next.ServeHTTP(w, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			span.SetName(r.Method + " " + route)
			span.SetAttributes(semconv.HTTPRoute(route), attribute.Bool("main", true))
		}),
		"", // Named above, once the route is known
	)
}

// GetRootSpanFromContext stored by the [OpenTelemetry] middleware, or nil outside of it.
func GetRootSpanFromContext(ctx context.Context) trace.Span {
	span, _ := ctx.Value(contextRootSpanKey).(trace.Span)
	return span
}
