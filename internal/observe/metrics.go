// Package observe provides application-wide observability primitives:
// OpenTelemetry metrics, structured logging helpers, and HTTP middleware
// tying them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so metrics can be scraped
// via the standard /metrics endpoint. A package-level default [Metrics]
// instance ([DefaultMetrics]) backs the convenience functions the rest of the
// codebase calls; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/pizzavox/pizzavox"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use.
type Metrics struct {
	// ParseDuration tracks utterance parsing latency.
	ParseDuration metric.Float64Histogram

	// Turns counts conversation turns. Use with attribute:
	//   attribute.String("outcome", ...)
	Turns metric.Int64Counter

	// MatchScores tracks accepted fuzzy-match scores. Use with attribute:
	//   attribute.String("kind", "pizza"|"ingredient")
	MatchScores metric.Int64Histogram

	// ActiveConversations tracks the number of in-flight conversations.
	ActiveConversations metric.Int64UpDownCounter

	// HTTPRequestDuration tracks HTTP request processing time. Use with
	// attributes: attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Parsing is
// CPU-bound and fast; the catalog round-trips dominate.
var latencyBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
}

// scoreBuckets covers the 0-100 fuzzy-match score range.
var scoreBuckets = []float64{50, 60, 70, 80, 90, 95, 100}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.ParseDuration, err = m.Float64Histogram("pizzavox.parse.duration",
		metric.WithDescription("Latency of utterance parsing including catalog lookups."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Turns, err = m.Int64Counter("pizzavox.conversation.turns",
		metric.WithDescription("Total conversation turns by outcome."),
	); err != nil {
		return nil, err
	}
	if met.MatchScores, err = m.Int64Histogram("pizzavox.fuzzy.match_score",
		metric.WithDescription("Accepted fuzzy-match scores by kind."),
		metric.WithExplicitBucketBoundaries(scoreBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ActiveConversations, err = m.Int64UpDownCounter("pizzavox.active_conversations",
		metric.WithDescription("Number of in-flight conversations."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("pizzavox.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Panics if instrument creation
// fails, which should not happen with the global provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordTurn increments the turn counter with the given outcome.
func (m *Metrics) RecordTurn(ctx context.Context, outcome string) {
	m.Turns.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordParseDuration records one parse latency sample.
func (m *Metrics) RecordParseDuration(ctx context.Context, d time.Duration) {
	m.ParseDuration.Record(ctx, d.Seconds())
}

// RecordMatchScore records one accepted fuzzy-match score.
func (m *Metrics) RecordMatchScore(ctx context.Context, kind string, score int) {
	m.MatchScores.Record(ctx, int64(score), metric.WithAttributes(attribute.String("kind", kind)))
}

// AddActiveConversations moves the in-flight conversation gauge.
func (m *Metrics) AddActiveConversations(ctx context.Context, delta int64) {
	m.ActiveConversations.Add(ctx, delta)
}

// Package-level shortcuts over [DefaultMetrics].

func RecordTurn(ctx context.Context, outcome string) {
	DefaultMetrics().RecordTurn(ctx, outcome)
}

func RecordParseDuration(ctx context.Context, d time.Duration) {
	DefaultMetrics().RecordParseDuration(ctx, d)
}

func RecordMatchScore(ctx context.Context, kind string, score int) {
	DefaultMetrics().RecordMatchScore(ctx, kind, score)
}

func AddActiveConversations(ctx context.Context, delta int64) {
	DefaultMetrics().AddActiveConversations(ctx, delta)
}
