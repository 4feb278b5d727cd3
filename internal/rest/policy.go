package rest

import (
	"time"
)

// Venue codes with dedicated recovery.
const (
	// CodeRecvWindow means the request timestamp fell outside recv_window.
	CodeRecvWindow = 10002
	// CodeRateLimit means the key exceeded its request quota.
	CodeRateLimit = 10006
)

// RecvWindowStep is added to recv_window after every CodeRecvWindow reply.
const RecvWindowStep = 2500 * time.Millisecond

// DefaultRetryCodes are retried unless the caller overrides the set.
var DefaultRetryCodes = []int{10002, 10006, 10016, 30034, 30035, 130035, 130150}

// RetryPolicy is copied into the executor at construction and never mutated afterwards.
type RetryPolicy struct {
	MaxRetries  int
	Delay       time.Duration
	RetryCodes  map[int]struct{}
	IgnoreCodes map[int]struct{}
}

// DefaultRetryPolicy returns three retries three seconds apart over DefaultRetryCodes.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(3, 3*time.Second, DefaultRetryCodes, nil)
}

// NewRetryPolicy builds a policy from code lists.
func NewRetryPolicy(maxRetries int, delay time.Duration, retryCodes, ignoreCodes []int) RetryPolicy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return RetryPolicy{
		MaxRetries:  maxRetries,
		Delay:       delay,
		RetryCodes:  codeSet(retryCodes),
		IgnoreCodes: codeSet(ignoreCodes),
	}
}

// Attempts is the total number of transmissions allowed for one call.
func (p RetryPolicy) Attempts() int {
	return p.MaxRetries + 1
}

// Retryable reports membership in the retry set.
func (p RetryPolicy) Retryable(code int) bool {
	_, ok := p.RetryCodes[code]
	return ok
}

// Ignorable reports membership in the ignore set.
func (p RetryPolicy) Ignorable(code int) bool {
	_, ok := p.IgnoreCodes[code]
	return ok
}

func (p RetryPolicy) clone() RetryPolicy {
	out := p
	out.RetryCodes = make(map[int]struct{}, len(p.RetryCodes))
	for code := range p.RetryCodes {
		out.RetryCodes[code] = struct{}{}
	}
	out.IgnoreCodes = make(map[int]struct{}, len(p.IgnoreCodes))
	for code := range p.IgnoreCodes {
		out.IgnoreCodes[code] = struct{}{}
	}
	return out
}

func codeSet(codes []int) map[int]struct{} {
	out := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		out[code] = struct{}{}
	}
	return out
}
