package stream

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/metric"

	"github.com/coachpo/bybitconn/errs"
	"github.com/coachpo/bybitconn/internal/observability"
	"github.com/coachpo/bybitconn/internal/telemetry"
)

const defaultReconnectDelay = 10 * time.Millisecond

// SupervisorOptions configures a Supervisor.
type SupervisorOptions struct {
	RestartOnError bool
	// ReconnectDelay is waited between a failed session and the next connect.
	ReconnectDelay time.Duration
	Logger         observability.Logger
	MeterProvider  metric.MeterProvider
}

// Supervisor runs a Manager until it exits, reconnecting after recoverable failures.
type Supervisor struct {
	manager *Manager
	router  *Router
	logger  observability.Logger
	metrics *telemetry.StreamMetrics
	pacing  backoff.BackOff

	restart atomic.Bool
	exited  atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSupervisor wires a supervisor around manager. Errors are routed through
// manager's router.
func NewSupervisor(manager *Manager, opts SupervisorOptions) *Supervisor {
	delay := opts.ReconnectDelay
	if delay <= 0 {
		delay = defaultReconnectDelay
	}
	s := &Supervisor{
		manager: manager,
		router:  manager.Router(),
		logger:  observability.With(observability.OrNop(opts.Logger), observability.F("component", "supervisor")),
		metrics: telemetry.NewStreamMetrics(opts.MeterProvider, manager.Dialect().String()),
		pacing:  backoff.NewConstantBackOff(delay),
		restart: atomic.Bool{},
		exited:  atomic.Bool{},
		mu:      sync.Mutex{},
		cancel:  nil,
	}
	s.restart.Store(opts.RestartOnError)
	return s
}

// RestartEnabled reports whether failures will trigger a reconnect.
func (s *Supervisor) RestartEnabled() bool {
	return s.restart.Load()
}

// Exit stops Run from another goroutine.
func (s *Supervisor) Exit() {
	s.exited.Store(true)
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.manager.Exit()
}

// Run drives the connection until cancellation, Exit, or an unrecoverable
// failure. Cancellation returns nil. A failure that ends the session is
// returned unless an error handler consumed it; connect exhaustion is always returned.
func (s *Supervisor) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.logger.Debug("WebSocket starting stream.")
	for {
		if s.exited.Load() || runCtx.Err() != nil {
			return s.shutdown()
		}

		err := s.manager.Connect(runCtx)
		if err == nil {
			err = s.session(runCtx)
		}
		if s.exited.Load() || runCtx.Err() != nil {
			return s.shutdown()
		}
		if err == nil {
			continue
		}
		if errors.Is(err, ErrConnectRetriesExhausted) {
			s.fail(runCtx, err)
			s.exited.Store(true)
			s.manager.Exit()
			return err
		}
		if done, out := s.handle(runCtx, err); done {
			return out
		}
		select {
		case <-runCtx.Done():
			return s.shutdown()
		case <-time.After(s.pacing.NextBackOff()):
		}
	}
}

// session runs receive and keepalive tasks, plus the heartbeat for spot public,
// until the first of them fails.
func (s *Supervisor) session(ctx context.Context) error {
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(s.manager.Receive)
	p.Go(s.manager.Keepalive)
	if s.manager.Dialect() == DialectSpotPublic {
		p.Go(s.manager.Heartbeat)
	}
	return p.Wait()
}

// handle applies the error policy and reports whether Run should return.
func (s *Supervisor) handle(ctx context.Context, err error) (bool, error) {
	if errs.Is(err, errs.CodeAuth) {
		s.restart.Store(false)
	}
	s.fail(ctx, err)
	if s.restart.Load() {
		s.logger.Info("WebSocket reconnecting.")
		s.metrics.RecordReconnect(ctx)
		s.manager.Reset()
		return false, nil
	}
	s.exited.Store(true)
	s.manager.Exit()
	s.logger.Info("WebSocket exited.")
	if s.router.HasErrorHandler() {
		return true, nil
	}
	return true, err
}

// fail logs err, closes the transport and forwards err to the error handler.
func (s *Supervisor) fail(ctx context.Context, err error) {
	code, _ := errs.CodeOf(err)
	s.metrics.RecordError(ctx, string(code))
	s.logger.Error("WebSocket encountered an error",
		observability.F("error", err.Error()),
		observability.F("err_time", time.Now().UTC().Format("15:04:05")))
	s.manager.Close()
	s.router.EmitError(ctx, err)
}

func (s *Supervisor) shutdown() error {
	s.logger.Warn("WebSocket interrupt received.")
	s.exited.Store(true)
	s.manager.Exit()
	return nil
}
