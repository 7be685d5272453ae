package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "research-assistant"

// Metrics holds the client's metric instruments.
type Metrics struct {
	InvocationsStarted   metric.Int64Counter
	InvocationsSucceeded metric.Int64Counter
	InvocationsFailed    metric.Int64Counter
	InvocationsStale     metric.Int64Counter
	DocumentsUploaded    metric.Int64Counter
	InvocationDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.InvocationsStarted, err = meter.Int64Counter("research.invocations.started",
		metric.WithDescription("Number of feature invocations dispatched"))
	if err != nil {
		return nil, err
	}

	m.InvocationsSucceeded, err = meter.Int64Counter("research.invocations.succeeded",
		metric.WithDescription("Number of feature invocations that resolved successfully"))
	if err != nil {
		return nil, err
	}

	m.InvocationsFailed, err = meter.Int64Counter("research.invocations.failed",
		metric.WithDescription("Number of feature invocations that resolved with an error"))
	if err != nil {
		return nil, err
	}

	m.InvocationsStale, err = meter.Int64Counter("research.invocations.stale",
		metric.WithDescription("Number of responses discarded by the invocation counter gate"))
	if err != nil {
		return nil, err
	}

	m.DocumentsUploaded, err = meter.Int64Counter("research.documents.uploaded",
		metric.WithDescription("Number of documents uploaded"))
	if err != nil {
		return nil, err
	}

	m.InvocationDuration, err = meter.Float64Histogram("research.invocation.duration_seconds",
		metric.WithDescription("Wall time from dispatch to resolution"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Feature returns the standard attribute set for a feature-scoped metric.
func Feature(id string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("feature", id))
}

// The event helpers below tolerate a nil receiver so call sites need no
// enablement checks.

// Started records a dispatched invocation.
func (m *Metrics) Started(ctx context.Context, feature string) {
	if m == nil {
		return
	}
	m.InvocationsStarted.Add(ctx, 1, Feature(feature))
}

// Resolved records a terminal invocation outcome and its duration.
func (m *Metrics) Resolved(ctx context.Context, feature string, failed bool, seconds float64) {
	if m == nil {
		return
	}
	if failed {
		m.InvocationsFailed.Add(ctx, 1, Feature(feature))
	} else {
		m.InvocationsSucceeded.Add(ctx, 1, Feature(feature))
	}
	m.InvocationDuration.Record(ctx, seconds, Feature(feature))
}

// Stale records a response discarded by the invocation counter gate.
func (m *Metrics) Stale(ctx context.Context, feature string) {
	if m == nil {
		return
	}
	m.InvocationsStale.Add(ctx, 1, Feature(feature))
}

// Uploaded records a successful document upload.
func (m *Metrics) Uploaded(ctx context.Context) {
	if m == nil {
		return
	}
	m.DocumentsUploaded.Add(ctx, 1)
}
