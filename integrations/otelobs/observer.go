// Package otelobs annotates the caller's active trace span with retry run
// events. It creates no spans of its own; runs executed outside a span are
// no-ops.
package otelobs

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/reboundio/rebound/observe"
)

// Observer implements observe.Observer by adding span events to the span in
// the run's context.
type Observer struct{}

// NewObserver returns an Observer.
func NewObserver() Observer { return Observer{} }

func (Observer) OnStart(ctx context.Context, run observe.Run) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("rebound.run.start", trace.WithAttributes(
		attribute.String("rebound.run_id", run.ID.String()),
		attribute.Int("rebound.max_attempts", run.Policy.MaxAttempts),
		attribute.Bool("rebound.infinite", run.Policy.Infinite),
		attribute.Bool("rebound.jitter", run.Policy.Jitter),
	))
}

func (Observer) OnAttempt(ctx context.Context, rec observe.AttemptRecord) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("rebound.run_id", rec.RunID.String()),
		attribute.Int("rebound.attempt", rec.Attempt),
	}
	if rec.Err != nil {
		attrs = append(attrs,
			attribute.String("rebound.error", rec.Err.Error()),
			attribute.Int64("rebound.backoff_ms", rec.Wait.Milliseconds()),
		)
	}
	span.AddEvent("rebound.attempt", trace.WithAttributes(attrs...))
}

func (Observer) OnSuccess(ctx context.Context, tl observe.Timeline) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("rebound.run.success", trace.WithAttributes(
		attribute.String("rebound.run_id", tl.Run.ID.String()),
		attribute.Int("rebound.attempts", len(tl.Attempts)),
	))
}

func (Observer) OnFailure(ctx context.Context, tl observe.Timeline) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if tl.FinalErr != nil {
		span.RecordError(tl.FinalErr)
	}
	span.AddEvent("rebound.run.failure", trace.WithAttributes(
		attribute.String("rebound.run_id", tl.Run.ID.String()),
		attribute.Int("rebound.attempts", len(tl.Attempts)),
	))
}
