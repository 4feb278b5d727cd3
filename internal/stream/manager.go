package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/coder/websocket"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/coachpo/bybitconn/errs"
	"github.com/coachpo/bybitconn/internal/observability"
	"github.com/coachpo/bybitconn/internal/signer"
	"github.com/coachpo/bybitconn/internal/telemetry"
)

// ErrConnectRetriesExhausted is wrapped by the error Connect returns after the last failed dial.
var ErrConnectRetriesExhausted = errors.New("websocket connect retries exhausted")

const (
	defaultConnectRetries    = 10
	defaultConnectRetryDelay = time.Second
	defaultPingInterval      = 20 * time.Second
	defaultHandshakeTimeout  = 10 * time.Second
	defaultWriteTimeout      = 5 * time.Second
	defaultReadLimit         = 4 * 1024 * 1024
	authExpiry               = time.Second
)

// Options configures a Manager.
type Options struct {
	Endpoint      string
	Credentials   signer.Credentials
	Subscriptions []Subscription
	// PingInterval paces transport pings; the pong timeout is half of it.
	PingInterval      time.Duration
	ConnectRetries    int
	ConnectRetryDelay time.Duration
	HandshakeTimeout  time.Duration
	WriteTimeout      time.Duration
	ReadLimit         int64
	HTTPClient        *http.Client
	Logger            observability.Logger
	MeterProvider     metric.MeterProvider
	Clock             func() time.Time
}

func (o Options) withDefaults() Options {
	o.Endpoint = strings.TrimSpace(o.Endpoint)
	if o.PingInterval == 0 {
		o.PingInterval = defaultPingInterval
	}
	if o.ConnectRetries <= 0 {
		o.ConnectRetries = defaultConnectRetries
	}
	if o.ConnectRetryDelay <= 0 {
		o.ConnectRetryDelay = defaultConnectRetryDelay
	}
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = defaultHandshakeTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = defaultWriteTimeout
	}
	if o.ReadLimit <= 0 {
		o.ReadLimit = defaultReadLimit
	}
	o.Logger = observability.OrNop(o.Logger)
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// Manager owns one websocket transport and its state machine.
type Manager struct {
	opts    Options
	dialect Dialect
	subs    []Subscription
	router  *Router
	logger  observability.Logger
	metrics *telemetry.StreamMetrics

	mu         sync.RWMutex
	state      State
	conn       *websocket.Conn
	subscribed []string
}

// NewManager validates the subscriptions for the endpoint's dialect.
func NewManager(opts Options, router *Router) (*Manager, error) {
	opts = opts.withDefaults()
	if opts.Endpoint == "" {
		return nil, configError("websocket endpoint required")
	}
	if router == nil {
		router = NewRouter()
	}
	dialect := DetectDialect(opts.Endpoint)
	subs, err := PrepareSubscriptions(dialect, opts.Subscriptions, opts.Credentials)
	if err != nil {
		return nil, err
	}
	name := "Non-Authenticated"
	if opts.Credentials.Key != "" {
		name = "Authenticated"
	}
	m := &Manager{
		opts:       opts,
		dialect:    dialect,
		subs:       subs,
		router:     router,
		logger:     observability.With(opts.Logger, observability.F("ws", name), observability.F("dialect", dialect.String())),
		metrics:    telemetry.NewStreamMetrics(opts.MeterProvider, dialect.String()),
		mu:         sync.RWMutex{},
		state:      StateDisconnected,
		conn:       nil,
		subscribed: nil,
	}
	m.logger.Info("Initializing WebSocket.")
	return m, nil
}

// Dialect returns the wire dialect of the endpoint.
func (m *Manager) Dialect() Dialect { return m.dialect }

// Router returns the router messages are dispatched to.
func (m *Manager) Router() *Router { return m.router }

// Subscriptions returns the validated subscription list.
func (m *Manager) Subscriptions() []Subscription {
	return append([]Subscription(nil), m.subs...)
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Connected reports whether a transport is open.
func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conn != nil
}

// Subscribed returns the topics acknowledged on the current connection.
func (m *Manager) Subscribed() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.subscribed...)
}

// Connect dials with bounded retries, then authenticates and subscribes.
func (m *Manager) Connect(ctx context.Context) error {
	m.transition(ctx, StateConnecting)
	connID := uuid.NewString()
	logger := observability.With(m.logger, observability.F("conn_id", connID))

	pacing := backoff.NewConstantBackOff(m.opts.ConnectRetryDelay)
	var conn *websocket.Conn
	for attempt := 1; ; attempt++ {
		dialCtx, cancel := context.WithTimeout(ctx, m.opts.HandshakeTimeout)
		c, _, err := websocket.Dial(dialCtx, m.opts.Endpoint, &websocket.DialOptions{HTTPClient: m.opts.HTTPClient})
		cancel()
		if err == nil {
			conn = c
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			m.transition(ctx, StateDisconnected)
			return fmt.Errorf("websocket connect: %w", ctxErr)
		}
		m.metrics.RecordConnect(ctx, telemetry.ResultError)
		logger.Error("WebSocket connection failed", observability.F("error", err.Error()), observability.F("attempt", attempt))
		if attempt >= m.opts.ConnectRetries {
			m.transition(ctx, StateDisconnected)
			return errs.New(errs.CodeNetwork,
				errs.WithMessage(fmt.Sprintf("websocket connect failed after %d attempts", attempt)),
				errs.WithRequest(m.opts.Endpoint),
				errs.WithTime(m.opts.Clock()),
				errs.WithCause(fmt.Errorf("%w: %w", ErrConnectRetriesExhausted, err)))
		}
		select {
		case <-ctx.Done():
			m.transition(ctx, StateDisconnected)
			return fmt.Errorf("websocket connect: %w", ctx.Err())
		case <-time.After(pacing.NextBackOff()):
		}
	}

	conn.SetReadLimit(m.opts.ReadLimit)
	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()
	m.metrics.RecordConnect(ctx, telemetry.ResultSuccess)
	logger.Info("WebSocket opened.")

	if m.opts.Credentials.Valid() {
		m.transition(ctx, StateAuthenticating)
		if err := m.authenticate(ctx); err != nil {
			return err
		}
	}
	m.transition(ctx, StateSubscribing)
	if err := m.subscribe(ctx); err != nil {
		return err
	}
	m.transition(ctx, StateStreaming)
	return nil
}

func (m *Manager) authenticate(ctx context.Context) error {
	expires := m.opts.Clock().Add(authExpiry).UnixMilli()
	frame := map[string]any{
		"op":   "auth",
		"args": []any{m.opts.Credentials.Key, expires, signer.AuthSignature(m.opts.Credentials.Secret, expires)},
	}
	return m.write(ctx, frame)
}

func (m *Manager) subscribe(ctx context.Context) error {
	switch m.dialect {
	case DialectSpotPublic:
		for _, sub := range m.subs {
			topic, _ := Canonicalize(m.dialect, sub)
			m.logger.Debug("Subscribing to " + topic)
			if err := m.write(ctx, sub.fields()); err != nil {
				return err
			}
		}
	case DialectDerivatives:
		args := make([]string, 0, len(m.subs))
		for _, sub := range m.subs {
			args = append(args, sub.Topic)
		}
		return m.write(ctx, map[string]any{"op": "subscribe", "args": args})
	}
	return nil
}

// Ping sends the application-level ping frame.
func (m *Manager) Ping(ctx context.Context) error {
	return m.write(ctx, map[string]any{"op": "ping"})
}

func (m *Manager) write(ctx context.Context, frame any) error {
	conn := m.current()
	if conn == nil {
		return errs.New(errs.CodeNetwork, errs.WithMessage("websocket not connected"))
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return errs.New(errs.CodeProtocol, errs.WithMessage("encode frame"), errs.WithCause(err))
	}
	writeCtx, cancel := context.WithTimeout(ctx, m.opts.WriteTimeout)
	defer cancel()
	if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errs.New(errs.CodeNetwork, errs.WithMessage("write frame"), errs.WithCause(err))
	}
	return nil
}

// Receive reads frames in arrival order and dispatches them until the
// connection fails or ctx is done.
func (m *Manager) Receive(ctx context.Context) error {
	conn := m.current()
	if conn == nil {
		return errs.New(errs.CodeNetwork, errs.WithMessage("websocket not connected"))
	}
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if status := websocket.CloseStatus(err); status != -1 {
				return errs.New(errs.CodeProtocol,
					errs.WithMessage(fmt.Sprintf("WebSocket connection closed. Code: %d", status)),
					errs.WithCause(err))
			}
			return errs.New(errs.CodeNetwork, errs.WithMessage("WebSocket connection error"), errs.WithCause(err))
		}
		m.metrics.RecordFrame(ctx)
		if typ != websocket.MessageText {
			continue
		}
		if err := m.consume(ctx, data); err != nil {
			return err
		}
	}
}

func (m *Manager) consume(ctx context.Context, data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '[' {
		if m.dialect != DialectSpotPrivate {
			return protocolError("unexpected array frame on %s stream", m.dialect)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return errs.New(errs.CodeProtocol, errs.WithMessage("decode frame"), errs.WithCause(err))
		}
		for _, raw := range items {
			var fields map[string]any
			if err := json.Unmarshal(raw, &fields); err != nil {
				return errs.New(errs.CodeProtocol, errs.WithMessage("decode event"), errs.WithCause(err))
			}
			topic, err := CanonicalMessage(m.dialect, fields)
			if err != nil {
				return err
			}
			m.dispatch(ctx, Message{Topic: topic, Fields: fields, Raw: raw})
		}
		return nil
	}

	var fields map[string]any
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return errs.New(errs.CodeProtocol, errs.WithMessage("decode frame"), errs.WithCause(err))
	}
	switch m.dialect {
	case DialectSpotPublic:
		return m.consumeSpotPublic(ctx, fields, trimmed)
	case DialectSpotPrivate:
		return m.consumeSpotPrivate(fields)
	default:
		return m.consumeDerivatives(ctx, fields, trimmed)
	}
}

func (m *Manager) consumeDerivatives(ctx context.Context, fields map[string]any, raw []byte) error {
	if topic, ok := fields["topic"].(string); ok {
		m.dispatch(ctx, Message{Topic: topic, Fields: fields, Raw: raw})
		return nil
	}
	success, ok := fields["success"].(bool)
	if !ok {
		return nil
	}
	request, _ := fields["request"].(map[string]any)
	op, _ := request["op"].(string)
	if success {
		switch op {
		case "auth":
			m.logger.Info("Authorization successful.")
		case "subscribe":
			args, _ := request["args"].([]any)
			for _, arg := range args {
				m.recordSubscribed(scalar(arg))
			}
		}
		return nil
	}
	switch op {
	case "subscribe":
		retMsg := scalar(fields["ret_msg"])
		return errs.New(errs.CodeExchange,
			errs.WithMessage(fmt.Sprintf("Couldn't subscribe to topic. Error: %s.", retMsg)),
			errs.WithRawMessage(retMsg))
	case "auth":
		return authFailure()
	}
	return nil
}

func (m *Manager) consumeSpotPublic(ctx context.Context, fields map[string]any, raw []byte) error {
	// subscribe acks also carry a topic, so check them first
	if msg, ok := fields["msg"].(string); ok && msg == "Success" {
		topic, err := spotTopic(fields)
		if err != nil {
			return err
		}
		m.recordSubscribed(topic)
		return nil
	}
	if _, ok := fields["topic"]; ok {
		topic, err := spotTopic(fields)
		if err != nil {
			return err
		}
		m.dispatch(ctx, Message{Topic: topic, Fields: fields, Raw: raw})
		return nil
	}
	if code, ok := fields["code"]; ok {
		if c := scalar(code); c != "0" {
			desc := scalar(fields["desc"])
			return errs.New(errs.CodeExchange,
				errs.WithMessage(fmt.Sprintf("Couldn't subscribe to topic. Error %s: %s.", c, desc)),
				errs.WithRawCode(c),
				errs.WithRawMessage(desc))
		}
	}
	return nil
}

func (m *Manager) consumeSpotPrivate(fields map[string]any) error {
	if auth, ok := fields["auth"]; ok {
		if scalar(auth) != "success" {
			return authFailure()
		}
		m.logger.Info("Authorization successful.")
		for _, sub := range m.subs {
			m.recordSubscribed(sub.Topic)
		}
	}
	return nil
}

func (m *Manager) dispatch(ctx context.Context, msg Message) {
	handled := m.router.Dispatch(ctx, msg)
	m.metrics.RecordDispatch(ctx, msg.Topic, handled)
}

func (m *Manager) recordSubscribed(topic string) {
	m.logger.Info("Subscription to " + topic + " successful.")
	m.mu.Lock()
	m.subscribed = append(m.subscribed, topic)
	m.mu.Unlock()
}

// Keepalive sends transport pings every PingInterval and fails when a pong
// does not arrive within half the interval. Receive must be running.
func (m *Manager) Keepalive(ctx context.Context) error {
	if m.opts.PingInterval < 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(m.opts.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		conn := m.current()
		if conn == nil {
			return errs.New(errs.CodeNetwork, errs.WithMessage("websocket not connected"))
		}
		pingCtx, cancel := context.WithTimeout(ctx, m.opts.PingInterval/2)
		err := conn.Ping(pingCtx)
		cancel()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return errs.New(errs.CodeNetwork, errs.WithMessage("pong not received"), errs.WithCause(err))
		}
	}
}

// Heartbeat writes the application heartbeat the spot public endpoints need
// to keep an idle connection open.
func (m *Manager) Heartbeat(ctx context.Context) error {
	interval := m.opts.PingInterval
	if interval <= 0 {
		interval = defaultPingInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := m.write(ctx, map[string]any{"ping": m.opts.Clock().UnixMilli()}); err != nil {
				return err
			}
		}
	}
}

// Close closes the transport and moves to Closing.
func (m *Manager) Close() {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()
	if conn == nil {
		return
	}
	m.transition(context.Background(), StateClosing)
	_ = conn.Close(websocket.StatusNormalClosure, "")
	m.logger.Info("WebSocket closed.")
}

// Exit closes the transport and marks the manager terminal.
func (m *Manager) Exit() {
	m.Close()
	m.transition(context.Background(), StateExited)
}

// Reset drops per-connection bookkeeping so the next Connect starts clean.
// Router bindings are untouched.
func (m *Manager) Reset() {
	m.transition(context.Background(), StateReconnecting)
	m.mu.Lock()
	m.subscribed = nil
	m.conn = nil
	m.mu.Unlock()
	m.transition(context.Background(), StateDisconnected)
}

func (m *Manager) current() *websocket.Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conn
}

func (m *Manager) transition(ctx context.Context, next State) {
	m.mu.Lock()
	prev := m.state
	m.state = next
	m.mu.Unlock()
	if prev != next {
		m.metrics.RecordTransition(ctx, next.String())
		m.logger.Debug("state change", observability.F("from", prev.String()), observability.F("to", next.String()))
	}
}

func authFailure() error {
	return errs.New(errs.CodeAuth,
		errs.WithMessage("Authorization failed. Please check your API keys and restart."))
}
