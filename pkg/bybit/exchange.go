// Package bybit is the public entry point of the connector. An Exchange owns
// the HTTP client shared by every REST and websocket session it creates.
package bybit

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/coachpo/bybitconn/config"
	"github.com/coachpo/bybitconn/internal/endpoints"
	"github.com/coachpo/bybitconn/internal/observability"
	"github.com/coachpo/bybitconn/internal/rest"
	"github.com/coachpo/bybitconn/internal/signer"
	"github.com/coachpo/bybitconn/internal/stream"
)

// Params is the parameter map passed to venue operations.
type Params = signer.Params

// Envelope is a decoded venue reply.
type Envelope = rest.Envelope

// Result is one entry of a bulk reply.
type Result = rest.Result

// Option customises an Exchange.
type Option func(*Exchange)

// WithLogger injects the logger used by every session.
func WithLogger(logger observability.Logger) Option {
	return func(x *Exchange) {
		x.logger = logger
	}
}

// WithHTTPClient replaces the shared HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(x *Exchange) {
		if client != nil {
			x.client = client
		}
	}
}

// WithMeterProvider routes metrics to provider instead of the global one.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(x *Exchange) {
		x.meter = provider
	}
}

// WithTracerProvider routes spans to provider instead of the global one.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(x *Exchange) {
		x.tracer = provider
	}
}

// Exchange creates REST and websocket sessions from one Settings tree.
type Exchange struct {
	settings config.Settings
	client   *http.Client
	logger   observability.Logger
	meter    metric.MeterProvider
	tracer   trace.TracerProvider
}

// NewExchange validates settings and prepares the shared client.
func NewExchange(settings config.Settings, opts ...Option) (*Exchange, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("bybit: %w", err)
	}
	x := &Exchange{
		settings: settings,
		client:   nil,
		logger:   nil,
		meter:    nil,
		tracer:   nil,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(x)
		}
	}
	if x.client == nil {
		x.client = &http.Client{Timeout: settings.REST.Timeout}
	}
	x.logger = observability.OrNop(x.logger)
	return x, nil
}

// Settings returns the configuration the exchange was built from.
func (x *Exchange) Settings() config.Settings {
	return x.settings
}

func (x *Exchange) credentials() signer.Credentials {
	return signer.Credentials{Key: x.settings.Credentials.APIKey, Secret: x.settings.Credentials.APISecret}
}

// HTTP returns a REST session for the configured segment.
func (x *Exchange) HTTP() (*HTTP, error) {
	segment, err := endpoints.ParseSegment(x.settings.REST.Segment)
	if err != nil {
		return nil, err
	}
	return x.REST(segment), nil
}

// REST returns a REST session bound to segment.
func (x *Exchange) REST(segment endpoints.Segment) *HTTP {
	s := x.settings.REST
	policy := rest.NewRetryPolicy(s.MaxRetries, s.RetryDelay, codesOr(s.RetryCodes, rest.DefaultRetryCodes), s.IgnoreCodes)
	if segment != endpoints.SegmentNone {
		x.logger.Info("Using " + segment.String() + " contract type endpoints.")
	}
	exec := rest.NewExecutor(rest.Options{
		BaseURL:           s.BaseURL,
		Credentials:       x.credentials(),
		HTTPClient:        x.client,
		Timeout:           s.Timeout,
		RecvWindow:        s.RecvWindow,
		MaxRecvWindow:     s.MaxRecvWindow,
		ForceRetry:        s.ForceRetry,
		Policy:            policy,
		ReferralID:        s.ReferralID,
		QueryOnMutations:  segment.QueryOnMutations(),
		LogRequests:       s.LogRequests,
		RequestsPerSecond: s.RequestsPerSecond,
		Logger:            x.logger,
		MeterProvider:     x.meter,
		TracerProvider:    x.tracer,
	})
	return &HTTP{
		exchange:      x,
		exec:          exec,
		catalog:       endpoints.New(segment),
		maxInParallel: s.MaxInParallel,
	}
}

// WebSocket opens a session description for endpoint. When endpoint is empty
// the configured stream URL is used; when subs is empty the configured topic
// strings are parsed with stream.ParseTopics.
func (x *Exchange) WebSocket(endpoint string, subs []stream.Subscription, opts ...WebSocketOption) (*WebSocket, error) {
	s := x.settings.Stream
	if endpoint == "" {
		endpoint = s.URL
	}
	if len(subs) == 0 && len(s.Subscriptions) > 0 {
		parsed, err := stream.ParseTopics(stream.DetectDialect(endpoint), s.Subscriptions...)
		if err != nil {
			return nil, err
		}
		subs = parsed
	}
	cfg := wsConfig{
		credentials:    x.credentials(),
		restartOnError: s.RestartOnError,
		pingInterval:   s.PingInterval,
		errorHandler:   nil,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return newWebSocket(x, endpoint, subs, cfg)
}

// Close releases idle connections of the shared client.
func (x *Exchange) Close() {
	x.client.CloseIdleConnections()
	x.logger.Info("HTTP session closed.")
}

// codesOr keeps an explicitly empty set so code-based retries can be disabled.
func codesOr(codes, fallback []int) []int {
	if codes == nil {
		return fallback
	}
	return codes
}
