package bybit

import (
	"context"

	"github.com/coachpo/bybitconn/internal/endpoints"
)

// PlaceActiveOrderBulk places orders concurrently. Results follow the order
// of orders; a failed entry carries its error without aborting the rest.
func (h *HTTP) PlaceActiveOrderBulk(ctx context.Context, orders []Params, maxInParallel int) ([]Result, error) {
	return h.Bulk(ctx, endpoints.OpPlaceActiveOrder, orders, maxInParallel)
}

// CancelActiveOrderBulk cancels orders concurrently.
func (h *HTTP) CancelActiveOrderBulk(ctx context.Context, orders []Params, maxInParallel int) ([]Result, error) {
	return h.Bulk(ctx, endpoints.OpCancelActiveOrder, orders, maxInParallel)
}

// ReplaceActiveOrderBulk amends orders concurrently.
func (h *HTTP) ReplaceActiveOrderBulk(ctx context.Context, orders []Params, maxInParallel int) ([]Result, error) {
	return h.Bulk(ctx, endpoints.OpReplaceActiveOrder, orders, maxInParallel)
}

// PlaceConditionalOrderBulk places conditional orders concurrently.
func (h *HTTP) PlaceConditionalOrderBulk(ctx context.Context, orders []Params, maxInParallel int) ([]Result, error) {
	return h.Bulk(ctx, endpoints.OpPlaceConditionalOrder, orders, maxInParallel)
}

// CancelConditionalOrderBulk cancels conditional orders concurrently.
func (h *HTTP) CancelConditionalOrderBulk(ctx context.Context, orders []Params, maxInParallel int) ([]Result, error) {
	return h.Bulk(ctx, endpoints.OpCancelConditionalOrder, orders, maxInParallel)
}

// ReplaceConditionalOrderBulk amends conditional orders concurrently.
func (h *HTTP) ReplaceConditionalOrderBulk(ctx context.Context, orders []Params, maxInParallel int) ([]Result, error) {
	return h.Bulk(ctx, endpoints.OpReplaceConditionalOrder, orders, maxInParallel)
}
