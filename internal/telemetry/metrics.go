package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	restMeterName   = "bybitconn.rest"
	streamMeterName = "bybitconn.stream"
)

// RESTMetrics groups the instruments recorded by the request executor.
// A nil *RESTMetrics is valid and records nothing.
type RESTMetrics struct {
	attempts     metric.Int64Counter
	retries      metric.Int64Counter
	failures     metric.Int64Counter
	recvWindow   metric.Int64Counter
	latency      metric.Float64Histogram
	bulkInFlight metric.Int64UpDownCounter
}

// NewRESTMetrics builds REST instruments from provider, falling back to the global provider.
func NewRESTMetrics(provider metric.MeterProvider) *RESTMetrics {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(restMeterName)
	m := &RESTMetrics{
		attempts:     nil,
		retries:      nil,
		failures:     nil,
		recvWindow:   nil,
		latency:      nil,
		bulkInFlight: nil,
	}
	m.attempts, _ = meter.Int64Counter("bybitconn_rest_attempts",
		metric.WithDescription("REST transmissions performed by the executor"),
		metric.WithUnit("{attempt}"))
	m.retries, _ = meter.Int64Counter("bybitconn_rest_retries",
		metric.WithDescription("REST attempts that were retried after a recoverable failure"),
		metric.WithUnit("{retry}"))
	m.failures, _ = meter.Int64Counter("bybitconn_rest_failures",
		metric.WithDescription("REST calls that surfaced an error to the caller"),
		metric.WithUnit("{error}"))
	m.recvWindow, _ = meter.Int64Counter("bybitconn_rest_recv_window_growth",
		metric.WithDescription("Milliseconds added to recv_window after timestamp skew replies"),
		metric.WithUnit("ms"))
	m.latency, _ = meter.Float64Histogram("bybitconn_rest_latency",
		metric.WithDescription("Round-trip latency of a single REST transmission"),
		metric.WithUnit("ms"))
	m.bulkInFlight, _ = meter.Int64UpDownCounter("bybitconn_rest_bulk_in_flight",
		metric.WithDescription("Bulk calls currently in flight"),
		metric.WithUnit("{call}"))
	return m
}

// RecordAttempt records one transmission and its latency.
func (m *RESTMetrics) RecordAttempt(ctx context.Context, method, path, result string, latency time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(RESTAttributes(method, path, result)...)
	if m.attempts != nil {
		m.attempts.Add(ctx, 1, attrs)
	}
	if m.latency != nil {
		m.latency.Record(ctx, float64(latency.Microseconds())/1000.0, attrs)
	}
}

// RecordRetry records a recoverable failure that triggers another attempt.
func (m *RESTMetrics) RecordRetry(ctx context.Context, method, path string, retCode int) {
	if m == nil || m.retries == nil {
		return
	}
	m.retries.Add(ctx, 1, metric.WithAttributes(
		AttrMethod.String(method),
		AttrPath.String(path),
		AttrRetCode.Int(retCode),
	))
}

// RecordFailure records an error surfaced to the caller.
func (m *RESTMetrics) RecordFailure(ctx context.Context, method, path, errorType string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(
		AttrMethod.String(method),
		AttrPath.String(path),
		AttrErrorType.String(errorType),
	))
}

// RecordRecvWindowGrowth records the recv_window increment applied after a skew reply.
func (m *RESTMetrics) RecordRecvWindowGrowth(ctx context.Context, delta time.Duration) {
	if m == nil || m.recvWindow == nil {
		return
	}
	m.recvWindow.Add(ctx, delta.Milliseconds())
}

// BulkInFlight adjusts the in-flight bulk call gauge by delta.
func (m *RESTMetrics) BulkInFlight(ctx context.Context, delta int64) {
	if m == nil || m.bulkInFlight == nil {
		return
	}
	m.bulkInFlight.Add(ctx, delta)
}

// StreamMetrics groups the instruments recorded by streaming sessions.
// A nil *StreamMetrics is valid and records nothing.
type StreamMetrics struct {
	dialect     string
	connects    metric.Int64Counter
	reconnects  metric.Int64Counter
	transitions metric.Int64Counter
	frames      metric.Int64Counter
	dispatched  metric.Int64Counter
	errors      metric.Int64Counter
}

// NewStreamMetrics builds stream instruments labelled with dialect.
func NewStreamMetrics(provider metric.MeterProvider, dialect string) *StreamMetrics {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(streamMeterName)
	m := &StreamMetrics{
		dialect:     dialect,
		connects:    nil,
		reconnects:  nil,
		transitions: nil,
		frames:      nil,
		dispatched:  nil,
		errors:      nil,
	}
	m.connects, _ = meter.Int64Counter("bybitconn_stream_connects",
		metric.WithDescription("Websocket dial attempts"),
		metric.WithUnit("{attempt}"))
	m.reconnects, _ = meter.Int64Counter("bybitconn_stream_reconnects",
		metric.WithDescription("Reconnects initiated by the supervisor"),
		metric.WithUnit("{reconnect}"))
	m.transitions, _ = meter.Int64Counter("bybitconn_stream_state_transitions",
		metric.WithDescription("Connection state transitions"),
		metric.WithUnit("{transition}"))
	m.frames, _ = meter.Int64Counter("bybitconn_stream_frames",
		metric.WithDescription("Inbound frames read from the socket"),
		metric.WithUnit("{frame}"))
	m.dispatched, _ = meter.Int64Counter("bybitconn_stream_dispatched",
		metric.WithDescription("Messages routed to handlers or dropped as unbound"),
		metric.WithUnit("{message}"))
	m.errors, _ = meter.Int64Counter("bybitconn_stream_errors",
		metric.WithDescription("Errors observed by the supervisor"),
		metric.WithUnit("{error}"))
	return m
}

// RecordConnect records a dial attempt outcome.
func (m *StreamMetrics) RecordConnect(ctx context.Context, result string) {
	if m == nil || m.connects == nil {
		return
	}
	m.connects.Add(ctx, 1, metric.WithAttributes(StreamAttributes(m.dialect, result)...))
}

// RecordReconnect records a supervisor-driven reconnect.
func (m *StreamMetrics) RecordReconnect(ctx context.Context) {
	if m == nil || m.reconnects == nil {
		return
	}
	m.reconnects.Add(ctx, 1, metric.WithAttributes(AttrDialect.String(m.dialect)))
}

// RecordTransition records a connection state change.
func (m *StreamMetrics) RecordTransition(ctx context.Context, state string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		AttrDialect.String(m.dialect),
		AttrConnectionState.String(state),
	))
}

// RecordFrame records one inbound frame.
func (m *StreamMetrics) RecordFrame(ctx context.Context) {
	if m == nil || m.frames == nil {
		return
	}
	m.frames.Add(ctx, 1, metric.WithAttributes(AttrDialect.String(m.dialect)))
}

// RecordDispatch records whether a message reached a handler.
func (m *StreamMetrics) RecordDispatch(ctx context.Context, topic string, handled bool) {
	if m == nil || m.dispatched == nil {
		return
	}
	result := ResultSuccess
	if !handled {
		result = ResultDropped
	}
	m.dispatched.Add(ctx, 1, metric.WithAttributes(
		AttrDialect.String(m.dialect),
		AttrTopic.String(topic),
		AttrResult.String(result),
	))
}

// RecordError records an error class observed on the connection.
func (m *StreamMetrics) RecordError(ctx context.Context, errorType string) {
	if m == nil || m.errors == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		AttrDialect.String(m.dialect),
		AttrErrorType.String(errorType),
	))
}
