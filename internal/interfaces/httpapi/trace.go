package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("matchcast/internal/interfaces/httpapi")

// handlerSpan opens "httpapi.<op>" as a child of the otelhttp request span.
// Untraced requests (health checks, tests) get the context back unchanged.
func handlerSpan(r *http.Request, op string) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return apiTracer.Start(ctx, "httpapi."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("http.route", r.Pattern)),
	)
}
