package rest

import (
	"fmt"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
)

// Envelope is the decoded body of a venue reply.
type Envelope struct {
	RetCode          int             `json:"ret_code"`
	RetMsg           string          `json:"ret_msg"`
	ExtCode          string          `json:"ext_code"`
	ExtInfo          string          `json:"ext_info"`
	Result           json.RawMessage `json:"result"`
	TimeNow          string          `json:"time_now"`
	RateLimitStatus  int             `json:"rate_limit_status"`
	RateLimitResetMs int64           `json:"rate_limit_reset_ms"`
	RateLimit        int             `json:"rate_limit"`

	// HTTPStatus is the transport status code, not part of the body.
	HTTPStatus int `json:"-"`
}

// Decode unmarshals Result into v.
func (e Envelope) Decode(v any) error {
	if len(e.Result) == 0 || string(e.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Result, v); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// OK reports a zero ret_code.
func (e Envelope) OK() bool {
	return e.RetCode == 0
}

type decodeError struct {
	status int
	err    error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("decode response (status %d): %v", e.status, e.err)
}

func (e *decodeError) Unwrap() error { return e.err }

func decodeEnvelope(status int, header http.Header, body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, &decodeError{status: status, err: err}
	}
	env.HTTPStatus = status
	if env.RateLimitResetMs == 0 {
		// newer gateways only report the reset in a header
		if raw := header.Get("X-Bapi-Limit-Reset-Timestamp"); raw != "" {
			if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
				env.RateLimitResetMs = ms
			}
		}
	}
	return env, nil
}
