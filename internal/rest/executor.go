// Package rest implements the signed request executor: signing, transmission,
// response classification and the retry loop.
package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/coachpo/bybitconn/errs"
	"github.com/coachpo/bybitconn/internal/observability"
	"github.com/coachpo/bybitconn/internal/signer"
	"github.com/coachpo/bybitconn/internal/telemetry"
)

// Version is reported in the User-Agent header.
const Version = "1.0.0"

const tracerName = "bybitconn/rest"

// Options configures an Executor.
type Options struct {
	BaseURL     string
	Credentials signer.Credentials
	// HTTPClient may be shared between executors and stream sessions.
	HTTPClient    *http.Client
	Timeout       time.Duration
	RecvWindow    time.Duration
	MaxRecvWindow time.Duration
	ForceRetry    bool
	Policy        RetryPolicy
	ReferralID    string
	UserAgent     string
	// QueryOnMutations appends parameters to the path for non-GET verbs instead of sending a JSON body.
	QueryOnMutations  bool
	LogRequests       bool
	RequestsPerSecond float64
	Logger            observability.Logger
	MeterProvider     metric.MeterProvider
	TracerProvider    trace.TracerProvider
	Clock             func() time.Time
	// Sleep waits between attempts; it must return early when ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (o Options) withDefaults() Options {
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.HTTPClient == nil {
		client := new(http.Client)
		client.Timeout = o.Timeout
		o.HTTPClient = client
	}
	if o.RecvWindow <= 0 {
		o.RecvWindow = 5 * time.Second
	}
	if o.MaxRecvWindow > 0 && o.MaxRecvWindow < o.RecvWindow {
		o.MaxRecvWindow = o.RecvWindow
	}
	if o.Policy.RetryCodes == nil && o.Policy.IgnoreCodes == nil && o.Policy.MaxRetries == 0 && o.Policy.Delay == 0 {
		o.Policy = DefaultRetryPolicy()
	}
	if o.UserAgent == "" {
		o.UserAgent = "bybitconn-" + Version
	}
	o.Logger = observability.OrNop(o.Logger)
	if o.TracerProvider == nil {
		o.TracerProvider = otel.GetTracerProvider()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
	return o
}

// Executor performs signed REST calls. Safe for concurrent use: per-call
// recv-window and signature state live on the caller's stack.
type Executor struct {
	opts    Options
	policy  RetryPolicy
	limiter *rate.Limiter
	metrics *telemetry.RESTMetrics
	tracer  trace.Tracer
	logger  observability.Logger
}

// NewExecutor constructs an Executor.
func NewExecutor(opts Options) *Executor {
	opts = opts.withDefaults()
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return &Executor{
		opts:    opts,
		policy:  opts.Policy.clone(),
		limiter: limiter,
		metrics: telemetry.NewRESTMetrics(opts.MeterProvider),
		tracer:  opts.TracerProvider.Tracer(tracerName),
		logger:  observability.With(opts.Logger, observability.F("component", "rest")),
	}
}

// Policy returns a copy of the retry policy.
func (e *Executor) Policy() RetryPolicy {
	return e.policy.clone()
}

// HasCredentials reports whether private calls can be signed.
func (e *Executor) HasCredentials() bool {
	return e.opts.Credentials.Valid()
}

// Execute transmits one logical call, retrying recoverable failures.
func (e *Executor) Execute(ctx context.Context, method, path string, params signer.Params, requiresAuth bool) (Envelope, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	if requiresAuth && !e.opts.Credentials.Valid() {
		_, err := signer.Prepare(e.opts.Credentials, nil, 0, 0)
		return Envelope{}, err
	}

	requestID := uuid.NewString()
	ctx, span := e.tracer.Start(ctx, "bybit.rest.execute", trace.WithAttributes(
		telemetry.AttrMethod.String(method),
		telemetry.AttrPath.String(path),
		telemetry.AttrRequestID.String(requestID),
	))
	defer span.End()

	env, err := e.run(ctx, method, path, normalize(params), requiresAuth, requestID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		code, _ := errs.CodeOf(err)
		e.metrics.RecordFailure(ctx, method, path, string(code))
		return env, err
	}
	span.SetAttributes(telemetry.AttrRetCode.Int(env.RetCode))
	return env, nil
}

func (e *Executor) run(ctx context.Context, method, path string, params signer.Params, auth bool, requestID string) (Envelope, error) {
	logger := observability.With(e.logger, observability.F("request_id", requestID))
	style := signer.StyleBody
	if method == http.MethodGet || e.opts.QueryOnMutations {
		style = signer.StyleQuery
	}
	recvWindow := e.opts.RecvWindow
	attempts := e.policy.Attempts()
	lastRequest := describe(method, path, params)

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Envelope{}, fmt.Errorf("rest %s %s: %w", method, path, err)
		}
		remaining := attempts - attempt

		payload := params
		if auth {
			signed, signature, err := signer.Sign(e.opts.Credentials, params,
				e.opts.Clock().UnixMilli(), recvWindow.Milliseconds(), style)
			if err != nil {
				return Envelope{}, err
			}
			signed[signer.KeySign] = signature
			payload = signed
		}
		lastRequest = describe(method, path, payload)
		if e.opts.LogRequests {
			logger.Info("Request -> "+method+" "+path, observability.F("params", lastRequest), observability.F("attempt", attempt))
		}

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return Envelope{}, fmt.Errorf("rest %s %s: wait for limiter: %w", method, path, err)
			}
		}

		started := e.opts.Clock()
		env, err := e.transmit(ctx, method, path, payload, style)
		latency := e.opts.Clock().Sub(started)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Envelope{}, fmt.Errorf("rest %s %s: %w", method, path, ctxErr)
			}
			var decodeErr *decodeError
			if errors.As(err, &decodeErr) {
				e.metrics.RecordAttempt(ctx, method, path, "decode_error", latency)
				if !e.opts.ForceRetry {
					return Envelope{}, errs.New(errs.CodeProtocol,
						errs.WithHTTP(http.StatusConflict),
						errs.WithMessage("Conflict. Could not decode JSON."),
						errs.WithCanonicalCode(errs.CanonicalDecodeFailure),
						errs.WithRequest(lastRequest),
						errs.WithTime(e.opts.Clock()),
						errs.WithCause(err))
				}
			} else {
				e.metrics.RecordAttempt(ctx, method, path, "transport_error", latency)
				if !e.opts.ForceRetry {
					return Envelope{}, errs.New(errs.CodeNetwork,
						errs.WithMessage("request transport failed"),
						errs.WithRequest(lastRequest),
						errs.WithTime(e.opts.Clock()),
						errs.WithCause(err))
				}
			}
			logger.Error(fmt.Sprintf("%v. %d retries remain.", err, remaining))
			if err := e.pause(ctx, attempt, attempts, e.policy.Delay); err != nil {
				return Envelope{}, fmt.Errorf("rest %s %s: %w", method, path, err)
			}
			continue
		}

		switch {
		case env.OK():
			e.metrics.RecordAttempt(ctx, method, path, telemetry.ResultSuccess, latency)
			return env, nil

		case e.policy.Retryable(env.RetCode):
			e.metrics.RecordAttempt(ctx, method, path, telemetry.ResultRetry, latency)
			e.metrics.RecordRetry(ctx, method, path, env.RetCode)
			wait := e.policy.Delay
			msg := fmt.Sprintf("%s (ErrCode: %d)", env.RetMsg, env.RetCode)
			switch env.RetCode {
			case CodeRecvWindow:
				grown := e.growRecvWindow(recvWindow)
				e.metrics.RecordRecvWindowGrowth(ctx, grown-recvWindow)
				msg += fmt.Sprintf(". Added %s to recv_window", grown-recvWindow)
				recvWindow = grown
			case CodeRateLimit:
				wait = e.rateLimitWait(env)
				msg = fmt.Sprintf("%s. Ratelimited on current request. Sleeping for %s", msg, wait)
			}
			logger.Error(fmt.Sprintf("%s. %d retries remain.", msg, remaining), observability.F("path", path))
			if err := e.pause(ctx, attempt, attempts, wait); err != nil {
				return Envelope{}, fmt.Errorf("rest %s %s: %w", method, path, err)
			}

		case e.policy.Ignorable(env.RetCode):
			e.metrics.RecordAttempt(ctx, method, path, telemetry.ResultIgnored, latency)
			return env, nil

		default:
			e.metrics.RecordAttempt(ctx, method, path, telemetry.ResultError, latency)
			code := errs.CodeExchange
			canonical := errs.CanonicalUnknown
			switch env.RetCode {
			case CodeRateLimit:
				code = errs.CodeRateLimited
				canonical = errs.CanonicalRateLimited
			case CodeRecvWindow:
				canonical = errs.CanonicalClockSkew
			}
			return env, errs.New(code,
				errs.WithHTTP(env.HTTPStatus),
				errs.WithMessage(fmt.Sprintf("%s (ErrCode: %d)", env.RetMsg, env.RetCode)),
				errs.WithRawCode(strconv.Itoa(env.RetCode)),
				errs.WithRawMessage(env.RetMsg),
				errs.WithCanonicalCode(canonical),
				errs.WithRequest(lastRequest),
				errs.WithTime(e.opts.Clock()))
		}
	}

	return Envelope{}, errs.New(errs.CodeRetriesExceeded,
		errs.WithHTTP(http.StatusBadRequest),
		errs.WithMessage("Bad Request. Retries exceeded maximum."),
		errs.WithRequest(lastRequest),
		errs.WithTime(e.opts.Clock()))
}

func (e *Executor) transmit(ctx context.Context, method, path string, params signer.Params, style signer.Style) (Envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	target := e.opts.BaseURL + path
	var body io.Reader
	contentType := ""
	switch {
	case method == http.MethodGet:
		if q := encodeQuery(params, style); q != "" {
			target += "?" + q
		}
	case e.opts.QueryOnMutations:
		if q := encodeQuery(params, style); q != "" {
			target += "?" + q
		}
	default:
		raw, err := json.Marshal(bodyParams(params))
		if err != nil {
			return Envelope{}, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Envelope{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if e.opts.ReferralID != "" {
		req.Header.Set("Referer", e.opts.ReferralID)
	}

	resp, err := e.opts.HTTPClient.Do(req)
	if err != nil {
		return Envelope{}, fmt.Errorf("send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, fmt.Errorf("read response: %w", err)
	}
	return decodeEnvelope(resp.StatusCode, resp.Header, raw)
}

func (e *Executor) growRecvWindow(current time.Duration) time.Duration {
	next := current + RecvWindowStep
	if e.opts.MaxRecvWindow > 0 && next > e.opts.MaxRecvWindow {
		return e.opts.MaxRecvWindow
	}
	return next
}

// rateLimitWait sleeps until the advertised reset, or the policy delay when none was sent.
func (e *Executor) rateLimitWait(env Envelope) time.Duration {
	if env.RateLimitResetMs <= 0 {
		return e.policy.Delay
	}
	wait := time.UnixMilli(env.RateLimitResetMs).Sub(e.opts.Clock())
	if wait < 0 {
		return 0
	}
	return wait
}

// pause sleeps unless the attempt was the last one.
func (e *Executor) pause(ctx context.Context, attempt, attempts int, d time.Duration) error {
	if attempt >= attempts || d <= 0 {
		return ctx.Err()
	}
	return e.opts.Sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
