package rest

import (
	"context"

	"github.com/sourcegraph/conc/iter"

	"github.com/coachpo/bybitconn/internal/signer"
)

// DefaultMaxInParallel bounds bulk calls when the caller passes zero.
const DefaultMaxInParallel = 10

// Call is one request of a bulk submission.
type Call struct {
	Method string
	Path   string
	Params signer.Params
	Auth   bool
}

// Result pairs the outcome of a Call with its error.
type Result struct {
	Envelope Envelope
	Err      error
}

// ExecuteBulk runs independent calls with at most maxInParallel in flight.
// Results are returned in submission order.
func (e *Executor) ExecuteBulk(ctx context.Context, calls []Call, maxInParallel int) []Result {
	if len(calls) == 0 {
		return nil
	}
	if maxInParallel <= 0 {
		maxInParallel = DefaultMaxInParallel
	}
	mapper := iter.Mapper[Call, Result]{MaxGoroutines: maxInParallel}
	return mapper.Map(calls, func(call *Call) Result {
		e.metrics.BulkInFlight(ctx, 1)
		defer e.metrics.BulkInFlight(ctx, -1)
		env, err := e.Execute(ctx, call.Method, call.Path, call.Params, call.Auth)
		return Result{Envelope: env, Err: err}
	})
}
