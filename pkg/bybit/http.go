package bybit

import (
	"bytes"
	"context"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/coachpo/bybitconn/errs"
	"github.com/coachpo/bybitconn/internal/endpoints"
	"github.com/coachpo/bybitconn/internal/rest"
)

// HTTP is a REST session bound to one contract segment.
type HTTP struct {
	exchange      *Exchange
	exec          *rest.Executor
	catalog       endpoints.Catalog
	maxInParallel int
}

// Segment returns the contract segment the session routes to.
func (h *HTTP) Segment() endpoints.Segment {
	return h.catalog.Segment()
}

// WithSegment returns a session for another segment sharing the same client.
func (h *HTTP) WithSegment(segment endpoints.Segment) *HTTP {
	return h.exchange.REST(segment)
}

// Operations lists the operations available on the session's segment.
func (h *HTTP) Operations() []endpoints.Operation {
	return h.catalog.Operations()
}

// Call executes a catalog operation.
func (h *HTTP) Call(ctx context.Context, op endpoints.Operation, params Params) (Envelope, error) {
	route, err := h.catalog.Route(op)
	if err != nil {
		return Envelope{}, err
	}
	return h.exec.Execute(ctx, route.Method, route.Path, params, route.Auth)
}

// Bulk executes op once per parameter set with bounded concurrency. Results
// keep the order of batch. maxInParallel <= 0 uses the configured default.
func (h *HTTP) Bulk(ctx context.Context, op endpoints.Operation, batch []Params, maxInParallel int) ([]Result, error) {
	route, err := h.catalog.Route(op)
	if err != nil {
		return nil, err
	}
	if maxInParallel <= 0 {
		maxInParallel = h.maxInParallel
	}
	calls := make([]rest.Call, len(batch))
	for i, params := range batch {
		calls[i] = rest.Call{Method: route.Method, Path: route.Path, Params: params, Auth: route.Auth}
	}
	return h.exec.ExecuteBulk(ctx, calls, maxInParallel), nil
}

// position is the subset of a position record needed to flatten it.
type position struct {
	Side        string          `json:"side"`
	Size        decimal.Decimal `json:"size"`
	PositionIdx int             `json:"position_idx"`
}

// ClosePosition submits reduce-only market orders against every open
// position in symbol.
func (h *HTTP) ClosePosition(ctx context.Context, symbol string) ([]Result, error) {
	env, err := h.MyPosition(ctx, Params{"symbol": symbol})
	if err != nil {
		return nil, err
	}
	positions, err := decodePositions(env)
	if err != nil {
		return nil, err
	}

	orders := make([]Params, 0, len(positions))
	for _, p := range positions {
		if !p.Size.IsPositive() {
			continue
		}
		side := "Sell"
		if strings.EqualFold(p.Side, "Sell") {
			side = "Buy"
		}
		orders = append(orders, Params{
			"symbol":           symbol,
			"order_type":       "Market",
			"side":             side,
			"qty":              p.Size.InexactFloat64(),
			"time_in_force":    "ImmediateOrCancel",
			"reduce_only":      true,
			"close_on_trigger": true,
			"position_idx":     p.PositionIdx,
		})
	}
	if len(orders) == 0 {
		h.exchange.logger.Error("No position detected.")
		return nil, errs.New(errs.CodeNotFound, errs.WithMessage("No position detected."), errs.WithVenueField("symbol", symbol))
	}
	return h.PlaceActiveOrderBulk(ctx, orders, 0)
}

// decodePositions accepts a single record, a list, or a list of {data: record}.
func decodePositions(env Envelope) ([]position, error) {
	raw := bytes.TrimSpace(env.Result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var items []json.RawMessage
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errs.New(errs.CodeProtocol, errs.WithMessage("decode positions"), errs.WithCause(err))
		}
	} else {
		items = []json.RawMessage{raw}
	}
	out := make([]position, 0, len(items))
	for _, item := range items {
		var wrapped struct {
			Data *position `json:"data"`
		}
		if err := json.Unmarshal(item, &wrapped); err == nil && wrapped.Data != nil {
			out = append(out, *wrapped.Data)
			continue
		}
		var p position
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, errs.New(errs.CodeProtocol, errs.WithMessage("decode position"), errs.WithCause(err))
		}
		out = append(out, p)
	}
	return out, nil
}
