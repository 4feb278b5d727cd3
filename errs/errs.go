// Package errs provides structured error types and helpers for the Bybit connector.
package errs

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Exchange is the venue label attached to every error raised by the connector.
const Exchange = "bybit"

// Code identifies an error category.
type Code string

const (
	// CodeConfiguration indicates missing or invalid caller configuration, such as absent credentials.
	CodeConfiguration Code = "configuration"
	// CodeNetwork indicates a transport failure (refused, reset, handshake).
	CodeNetwork Code = "network"
	// CodeProtocol indicates a malformed payload, decode failure or unexpected close frame.
	CodeProtocol Code = "protocol"
	// CodeExchange indicates a venue-reported failure that is not recoverable locally.
	CodeExchange Code = "exchange_error"
	// CodeRateLimited indicates that the request exceeded rate limits.
	CodeRateLimited Code = "rate_limited"
	// CodeRetriesExceeded indicates that the attempt budget was exhausted.
	CodeRetriesExceeded Code = "retries_exceeded"
	// CodeAuth indicates authentication failures.
	CodeAuth Code = "auth"
	// CodeInvalid indicates invalid input provided by the caller.
	CodeInvalid Code = "invalid_request"
	// CodeNotFound indicates a missing resource.
	CodeNotFound Code = "not_found"
)

// CanonicalCode captures exchange-agnostic error categories.
type CanonicalCode string

const (
	// CanonicalUnknown captures uncategorized failures.
	CanonicalUnknown CanonicalCode = "unknown"
	// CanonicalCapabilityMissing indicates the operation is not offered for the selected segment.
	CanonicalCapabilityMissing CanonicalCode = "capability_missing"
	// CanonicalRateLimited indicates the request was rate limited.
	CanonicalRateLimited CanonicalCode = "rate_limited"
	// CanonicalClockSkew indicates the request fell outside its recv window.
	CanonicalClockSkew CanonicalCode = "clock_skew"
	// CanonicalDecodeFailure indicates the response body could not be decoded.
	CanonicalDecodeFailure CanonicalCode = "decode_failure"
)

// E captures structured error information produced across the connector.
type E struct {
	Exchange      string
	Code          Code
	HTTP          int
	RawCode       string
	RawMsg        string
	Message       string
	Canonical     CanonicalCode
	VenueMetadata map[string]string
	Remediation   string
	Request       string
	Time          time.Time

	cause error
}

// Option configures an error envelope.
type Option func(*E)

// New constructs an error envelope for the code.
func New(code Code, opts ...Option) *E {
	e := &E{
		Exchange:      Exchange,
		Code:          code,
		HTTP:          0,
		RawCode:       "",
		RawMsg:        "",
		Message:       "",
		Canonical:     CanonicalUnknown,
		VenueMetadata: nil,
		Remediation:   "",
		Request:       "",
		Time:          time.Time{},
		cause:         nil,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// WithMessage attaches a human-readable message to the error.
func WithMessage(message string) Option {
	trimmed := strings.TrimSpace(message)
	return func(e *E) {
		e.Message = trimmed
	}
}

// WithRemediation attaches remediation guidance to the error.
func WithRemediation(remediation string) Option {
	trimmed := strings.TrimSpace(remediation)
	return func(e *E) {
		e.Remediation = trimmed
	}
}

// WithHTTP records the associated HTTP status code.
func WithHTTP(status int) Option {
	return func(e *E) {
		e.HTTP = status
	}
}

// WithRawCode captures the raw venue error code.
func WithRawCode(code string) Option {
	trimmed := strings.TrimSpace(code)
	return func(e *E) {
		e.RawCode = trimmed
	}
}

// WithRawMessage captures the raw venue error message.
func WithRawMessage(msg string) Option {
	return func(e *E) {
		e.RawMsg = msg
	}
}

// WithRequest records a description of the request that failed.
func WithRequest(desc string) Option {
	return func(e *E) {
		e.Request = desc
	}
}

// WithTime records when the failure was observed.
func WithTime(ts time.Time) Option {
	return func(e *E) {
		e.Time = ts.UTC()
	}
}

// WithCause sets the underlying cause error.
func WithCause(err error) Option {
	return func(e *E) {
		e.cause = err
	}
}

// WithCanonicalCode sets the canonical error code describing the failure category.
func WithCanonicalCode(code CanonicalCode) Option {
	trimmed := strings.TrimSpace(string(code))
	return func(e *E) {
		if trimmed == "" {
			e.Canonical = CanonicalUnknown
			return
		}
		e.Canonical = CanonicalCode(trimmed)
	}
}

// WithVenueField appends a single venue metadata key/value pair.
func WithVenueField(key, value string) Option {
	return func(e *E) {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			return
		}
		if e.VenueMetadata == nil {
			e.VenueMetadata = make(map[string]string, 1)
		}
		e.VenueMetadata[trimmedKey] = strings.TrimSpace(value)
	}
}

func (e *E) Error() string {
	if e == nil {
		return "<nil>"
	}
	var parts []string

	exchange := strings.TrimSpace(e.Exchange)
	if exchange == "" {
		exchange = "unknown"
	}
	parts = append(parts, "exchange="+exchange)

	code := strings.TrimSpace(string(e.Code))
	if code == "" {
		code = "unknown"
	}
	parts = append(parts, "code="+code)

	if cc := strings.TrimSpace(string(e.Canonical)); cc != "" && cc != string(CanonicalUnknown) {
		parts = append(parts, "canonical="+cc)
	}

	if e.HTTP > 0 {
		parts = append(parts, "http="+strconv.Itoa(e.HTTP))
	}
	if e.Message != "" {
		parts = append(parts, "message="+strconv.Quote(e.Message))
	}
	if e.Remediation != "" {
		parts = append(parts, "remediation="+strconv.Quote(e.Remediation))
	}
	if e.RawCode != "" {
		parts = append(parts, "raw_code="+strconv.Quote(e.RawCode))
	}
	if e.RawMsg != "" {
		parts = append(parts, "raw_msg="+strconv.Quote(e.RawMsg))
	}
	if e.Request != "" {
		parts = append(parts, "request="+strconv.Quote(e.Request))
	}
	if !e.Time.IsZero() {
		parts = append(parts, "time="+e.Time.Format("15:04:05"))
	}
	if len(e.VenueMetadata) > 0 {
		keys := make([]string, 0, len(e.VenueMetadata))
		for k := range e.VenueMetadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+strconv.Quote(e.VenueMetadata[k]))
		}
		parts = append(parts, "venue="+strings.Join(pairs, ","))
	}
	if e.cause != nil {
		parts = append(parts, "cause="+strconv.Quote(e.cause.Error()))
	}

	return strings.Join(parts, " ")
}

func (e *E) Unwrap() error { return e.cause }

// CodeOf extracts the Code of the first envelope in the error chain.
func CodeOf(err error) (Code, bool) {
	var e *E
	if errors.As(err, &e) && e != nil {
		return e.Code, true
	}
	return "", false
}

// Is reports whether any envelope in the chain carries the code.
func Is(err error, code Code) bool {
	got, ok := CodeOf(err)
	return ok && got == code
}

// NotSupported returns a standardized error for unsupported capabilities.
func NotSupported(msg string) *E {
	return New(CodeInvalid, WithMessage(strings.TrimSpace(msg)), WithCanonicalCode(CanonicalCapabilityMissing))
}
