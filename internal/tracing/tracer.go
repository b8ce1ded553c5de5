// Package tracing is a thin shim over OpenTelemetry. When tracing is
// disabled every span operation is a no-op; callers never branch on the
// toggle themselves.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps an otel tracer.
type Tracer struct {
	tracer trace.Tracer
}

// New returns a tracer bound to the globally configured provider, or a no-op
// tracer when disabled.
func New(enabled bool, service string) *Tracer {
	if !enabled {
		return &Tracer{tracer: noop.NewTracerProvider().Tracer(service)}
	}
	return &Tracer{tracer: otel.Tracer(service)}
}

// Start opens a span. The caller must End it.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
