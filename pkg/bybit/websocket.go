package bybit

import (
	"context"
	"time"

	"github.com/coachpo/bybitconn/internal/signer"
	"github.com/coachpo/bybitconn/internal/stream"
)

// Re-exported stream types so callers need not import internal packages.
type (
	Subscription = stream.Subscription
	Message      = stream.Message
	Handler      = stream.Handler
	ErrorHandler = stream.ErrorHandler
)

// WebSocketOption customises a WebSocket.
type WebSocketOption func(*wsConfig)

type wsConfig struct {
	credentials    signer.Credentials
	restartOnError bool
	pingInterval   time.Duration
	errorHandler   ErrorHandler
}

// WithRestartOnError overrides the configured reconnect behaviour.
func WithRestartOnError(enabled bool) WebSocketOption {
	return func(c *wsConfig) {
		c.restartOnError = enabled
	}
}

// WithErrorHandler binds handler to the reserved error topic.
func WithErrorHandler(handler ErrorHandler) WebSocketOption {
	return func(c *wsConfig) {
		c.errorHandler = handler
	}
}

// WithPingInterval overrides the transport ping cadence. A negative interval
// disables pings.
func WithPingInterval(interval time.Duration) WebSocketOption {
	return func(c *wsConfig) {
		c.pingInterval = interval
	}
}

// WithoutCredentials opens a public session even when keys are configured.
func WithoutCredentials() WebSocketOption {
	return func(c *wsConfig) {
		c.credentials = signer.Credentials{}
	}
}

// WebSocket is a supervised streaming session.
type WebSocket struct {
	manager    *stream.Manager
	router     *stream.Router
	supervisor *stream.Supervisor
}

func newWebSocket(x *Exchange, endpoint string, subs []stream.Subscription, cfg wsConfig) (*WebSocket, error) {
	s := x.settings.Stream
	router := stream.NewRouter()
	if cfg.errorHandler != nil {
		router.BindError(cfg.errorHandler)
	}
	manager, err := stream.NewManager(stream.Options{
		Endpoint:          endpoint,
		Credentials:       cfg.credentials,
		Subscriptions:     subs,
		PingInterval:      cfg.pingInterval,
		ConnectRetries:    s.ConnectRetries,
		ConnectRetryDelay: s.ConnectRetryDelay,
		HandshakeTimeout:  s.HandshakeTimeout,
		HTTPClient:        x.client,
		Logger:            x.logger,
		MeterProvider:     x.meter,
	}, router)
	if err != nil {
		return nil, err
	}
	supervisor := stream.NewSupervisor(manager, stream.SupervisorOptions{
		RestartOnError: cfg.restartOnError,
		Logger:         x.logger,
		MeterProvider:  x.meter,
	})
	return &WebSocket{manager: manager, router: router, supervisor: supervisor}, nil
}

// Bind registers handler for a canonical topic. Binding may happen before or
// while RunForever is active.
func (w *WebSocket) Bind(topic string, handler Handler) error {
	return w.router.Bind(topic, handler)
}

// Unbind removes the handler for topic.
func (w *WebSocket) Unbind(topic string) {
	w.router.Unbind(topic)
}

// BindError registers the handler for the reserved error topic.
func (w *WebSocket) BindError(handler ErrorHandler) {
	w.router.BindError(handler)
}

// Topics lists the bound canonical topics.
func (w *WebSocket) Topics() []string {
	return w.router.Topics()
}

// RunForever connects and serves messages until Exit, ctx cancellation or a
// terminal failure.
func (w *WebSocket) RunForever(ctx context.Context) error {
	return w.supervisor.Run(ctx)
}

// Ping writes an application-level ping frame.
func (w *WebSocket) Ping(ctx context.Context) error {
	return w.manager.Ping(ctx)
}

// Exit stops the session permanently.
func (w *WebSocket) Exit() {
	w.supervisor.Exit()
}

// Subscribed lists topics the venue acknowledged on the current connection.
func (w *WebSocket) Subscribed() []string {
	return w.manager.Subscribed()
}

// State reports the connection state.
func (w *WebSocket) State() stream.State {
	return w.manager.State()
}

// Dialect reports the wire dialect detected from the endpoint.
func (w *WebSocket) Dialect() stream.Dialect {
	return w.manager.Dialect()
}
