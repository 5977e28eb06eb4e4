package observability

import (
	otelmetric "go.opentelemetry.io/otel/metric"
)

// Metrics holds the metric instruments shared by the twin's middleware
// and handlers. Instruments are created once at startup.
type Metrics struct {
	// HTTP metrics
	HTTPRequestDuration otelmetric.Float64Histogram
	HTTPRequestTotal    otelmetric.Int64Counter
	HTTPRequestErrors   otelmetric.Int64Counter

	// SDK traffic metrics
	EventsReceived     otelmetric.Int64Counter
	EventsDeduplicated otelmetric.Int64Counter
	SessionsStarted    otelmetric.Int64Counter
	AttributeSnapshots otelmetric.Int64Counter
	ActionsTriggered   otelmetric.Int64Counter
	RequestsThrottled  otelmetric.Int64Counter
}

// NewMetrics creates all instruments from the given Meter, following
// OpenTelemetry naming conventions.
func NewMetrics(meter otelmetric.Meter) (*Metrics, error) {
	var m Metrics
	var err error

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http.request.duration",
		otelmetric.WithUnit("ms"),
		otelmetric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err != nil {
		return nil, err
	}

	m.HTTPRequestTotal, err = meter.Int64Counter(
		"http.request.total",
		otelmetric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	m.HTTPRequestErrors, err = meter.Int64Counter(
		"http.request.errors",
		otelmetric.WithDescription("HTTP request errors (4xx and 5xx)"),
	)
	if err != nil {
		return nil, err
	}

	m.EventsReceived, err = meter.Int64Counter(
		"sdk.events.received",
		otelmetric.WithDescription("SDK events accepted by the twin"),
	)
	if err != nil {
		return nil, err
	}

	m.EventsDeduplicated, err = meter.Int64Counter(
		"sdk.events.deduplicated",
		otelmetric.WithDescription("SDK events dropped as idempotency-key duplicates"),
	)
	if err != nil {
		return nil, err
	}

	m.SessionsStarted, err = meter.Int64Counter(
		"sdk.sessions.started",
		otelmetric.WithDescription("SDK session starts"),
	)
	if err != nil {
		return nil, err
	}

	m.AttributeSnapshots, err = meter.Int64Counter(
		"sdk.attributes.snapshots",
		otelmetric.WithDescription("User attribute snapshot replacements"),
	)
	if err != nil {
		return nil, err
	}

	m.ActionsTriggered, err = meter.Int64Counter(
		"sdk.actions.triggered",
		otelmetric.WithDescription("Action templates named in start responses"),
	)
	if err != nil {
		return nil, err
	}

	m.RequestsThrottled, err = meter.Int64Counter(
		"http.request.throttled",
		otelmetric.WithDescription("Requests rejected by the per-key rate limit"),
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}
