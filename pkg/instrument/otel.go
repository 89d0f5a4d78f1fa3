package instrument

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for Lumen applications.
const defaultTracerName = "lumen"

// TracingConfig configures the OpenTelemetry flush tracing.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "lumen").
	TracerName string

	// IncludeWatcherEvents adds a span event per watcher run. Large flushes
	// produce large spans - disabled by default.
	IncludeWatcherEvents bool

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// TracingOption configures the OpenTelemetry flush tracing.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithWatcherEvents enables a span event per watcher run.
func WithWatcherEvents(include bool) TracingOption {
	return func(c *TracingConfig) {
		c.IncludeWatcherEvents = include
	}
}

// Tracing records one span per scheduler flush. The span carries the number
// of watchers run; flushes aborted by the loop guard are marked as errors
// with the offending watcher's expression.
type Tracing struct {
	config TracingConfig

	span    trace.Span
	aborted bool
}

// NewTracing creates the flush tracing observer.
func NewTracing(opts ...TracingOption) *Tracing {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)
	return &Tracing{config: config}
}

// FlushStart implements reactive.FlushObserver.
func (t *Tracing) FlushStart(at time.Time) {
	_, t.span = t.config.tracer.Start(context.Background(), "scheduler.flush",
		trace.WithTimestamp(at),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	t.aborted = false
}

// WatcherRan implements reactive.FlushObserver.
func (t *Tracing) WatcherRan(id uint64, expression string) {
	if t.span == nil || !t.config.IncludeWatcherEvents {
		return
	}
	t.span.AddEvent("watcher.run", trace.WithAttributes(
		attribute.Int64("watcher.id", int64(id)),
		attribute.String("watcher.expression", expression),
	))
}

// LoopAborted implements reactive.FlushObserver.
func (t *Tracing) LoopAborted(id uint64, expression string) {
	if t.span == nil {
		return
	}
	t.aborted = true
	t.span.SetStatus(codes.Error, "infinite update loop")
	t.span.SetAttributes(
		attribute.Int64("lumen.aborted_watcher.id", int64(id)),
		attribute.String("lumen.aborted_watcher.expression", expression),
	)
}

// FlushEnd implements reactive.FlushObserver.
func (t *Tracing) FlushEnd(at time.Time, watchersRan int) {
	if t.span == nil {
		return
	}
	t.span.SetAttributes(attribute.Int("lumen.watchers_run", watchersRan))
	if !t.aborted {
		t.span.SetStatus(codes.Ok, "")
	}
	t.span.End(trace.WithTimestamp(at))
	t.span = nil
}
