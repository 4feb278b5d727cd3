package bybit

import (
	"context"

	"github.com/coachpo/bybitconn/internal/endpoints"
)

// Orderbook fetches the order book.
func (h *HTTP) Orderbook(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpOrderbook, params)
}

// MergedOrderbook fetches the merged order book (spot).
func (h *HTTP) MergedOrderbook(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpMergedOrderbook, params)
}

// QueryKline fetches candlesticks.
func (h *HTTP) QueryKline(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpQueryKline, params)
}

// LatestInformationForSymbol fetches 24h ticker information.
func (h *HTTP) LatestInformationForSymbol(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpLatestInformationForSymbol, params)
}

// LastTradedPrice fetches the last traded price (spot).
func (h *HTTP) LastTradedPrice(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpLastTradedPrice, params)
}

// BestBidAskPrice fetches the best bid and ask (spot).
func (h *HTTP) BestBidAskPrice(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpBestBidAskPrice, params)
}

// PublicTradingRecords fetches recent public trades.
func (h *HTTP) PublicTradingRecords(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpPublicTradingRecords, params)
}

// QuerySymbol lists symbols and their trading rules.
func (h *HTTP) QuerySymbol(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpQuerySymbol, params)
}

// QueryMarkPriceKline fetches mark price candlesticks.
func (h *HTTP) QueryMarkPriceKline(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpQueryMarkPriceKline, params)
}

// QueryIndexPriceKline fetches index price candlesticks.
func (h *HTTP) QueryIndexPriceKline(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpQueryIndexPriceKline, params)
}

// QueryPremiumIndexKline fetches premium index candlesticks.
func (h *HTTP) QueryPremiumIndexKline(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpQueryPremiumIndexKline, params)
}

// OpenInterest fetches open interest history.
func (h *HTTP) OpenInterest(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpOpenInterest, params)
}

// LatestBigDeal fetches recent large filled orders.
func (h *HTTP) LatestBigDeal(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpLatestBigDeal, params)
}

// LongShortRatio fetches the account long/short ratio.
func (h *HTTP) LongShortRatio(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpLongShortRatio, params)
}

// ServerTime fetches the venue clock.
func (h *HTTP) ServerTime(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpServerTime, params)
}

// Announcement fetches venue announcements.
func (h *HTTP) Announcement(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpAnnouncement, params)
}

// PlaceActiveOrder places an order.
func (h *HTTP) PlaceActiveOrder(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpPlaceActiveOrder, params)
}

// GetActiveOrder lists active orders.
func (h *HTTP) GetActiveOrder(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpGetActiveOrder, params)
}

// CancelActiveOrder cancels an order.
func (h *HTTP) CancelActiveOrder(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpCancelActiveOrder, params)
}

// FastCancelActiveOrder cancels a spot order without waiting for the matching engine.
func (h *HTTP) FastCancelActiveOrder(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpFastCancelActiveOrder, params)
}

// CancelAllActiveOrders cancels every active order of a symbol.
func (h *HTTP) CancelAllActiveOrders(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpCancelAllActiveOrders, params)
}

// BatchCancelActiveOrder cancels spot orders matching a filter.
func (h *HTTP) BatchCancelActiveOrder(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpBatchCancelActiveOrder, params)
}

// BatchFastCancelActiveOrder fast-cancels spot orders matching a filter.
func (h *HTTP) BatchFastCancelActiveOrder(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpBatchFastCancelActiveOrder, params)
}

// BatchCancelActiveOrderByIDs cancels spot orders by id.
func (h *HTTP) BatchCancelActiveOrderByIDs(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpBatchCancelActiveOrderByIDs, params)
}

// ReplaceActiveOrder amends an active order.
func (h *HTTP) ReplaceActiveOrder(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpReplaceActiveOrder, params)
}

// QueryActiveOrder fetches active orders in real time.
func (h *HTTP) QueryActiveOrder(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpQueryActiveOrder, params)
}

// OpenOrders lists open spot orders.
func (h *HTTP) OpenOrders(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpOpenOrders, params)
}

// OrderHistory lists historical spot orders.
func (h *HTTP) OrderHistory(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpOrderHistory, params)
}

// PlaceConditionalOrder places a conditional order.
func (h *HTTP) PlaceConditionalOrder(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpPlaceConditionalOrder, params)
}

// GetConditionalOrder lists conditional orders.
func (h *HTTP) GetConditionalOrder(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpGetConditionalOrder, params)
}

// CancelConditionalOrder cancels a conditional order.
func (h *HTTP) CancelConditionalOrder(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpCancelConditionalOrder, params)
}

// CancelAllConditionalOrders cancels every conditional order of a symbol.
func (h *HTTP) CancelAllConditionalOrders(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpCancelAllConditionalOrders, params)
}

// ReplaceConditionalOrder amends a conditional order.
func (h *HTTP) ReplaceConditionalOrder(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpReplaceConditionalOrder, params)
}

// QueryConditionalOrder fetches conditional orders in real time.
func (h *HTTP) QueryConditionalOrder(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpQueryConditionalOrder, params)
}

// MyPosition fetches positions.
func (h *HTTP) MyPosition(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpMyPosition, params)
}

// SetAutoAddMargin toggles automatic margin top-up.
func (h *HTTP) SetAutoAddMargin(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpSetAutoAddMargin, params)
}

// SetLeverage sets position leverage.
func (h *HTTP) SetLeverage(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpSetLeverage, params)
}

// CrossIsolatedMarginSwitch switches between cross and isolated margin.
func (h *HTTP) CrossIsolatedMarginSwitch(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpCrossIsolatedMarginSwitch, params)
}

// QueryTradingFeeRate fetches the trading fee rate.
func (h *HTTP) QueryTradingFeeRate(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpQueryTradingFeeRate, params)
}

// PositionModeSwitch switches between one-way and hedge mode.
func (h *HTTP) PositionModeSwitch(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpPositionModeSwitch, params)
}

// FullPartialPositionTPSLSwitch switches full or partial take-profit/stop-loss mode.
func (h *HTTP) FullPartialPositionTPSLSwitch(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpFullPartialPositionTPSLSwitch, params)
}

// ChangeMargin changes position margin.
func (h *HTTP) ChangeMargin(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpChangeMargin, params)
}

// SetTradingStop sets take-profit, stop-loss or trailing stop.
func (h *HTTP) SetTradingStop(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpSetTradingStop, params)
}

// AddReduceMargin adds or reduces position margin.
func (h *HTTP) AddReduceMargin(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpAddReduceMargin, params)
}

// ChangeUserLeverage changes leverage on the inverse futures account.
func (h *HTTP) ChangeUserLeverage(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpChangeUserLeverage, params)
}

// UserTradeRecords lists the user's fills.
func (h *HTTP) UserTradeRecords(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpUserTradeRecords, params)
}

// ClosedProfitAndLoss lists closed profit and loss records.
func (h *HTTP) ClosedProfitAndLoss(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpClosedProfitAndLoss, params)
}

// GetRiskLimit lists risk limit tiers.
func (h *HTTP) GetRiskLimit(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpGetRiskLimit, params)
}

// SetRiskLimit sets the position risk limit.
func (h *HTTP) SetRiskLimit(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpSetRiskLimit, params)
}

// GetTheLastFundingRate fetches the last funding rate.
func (h *HTTP) GetTheLastFundingRate(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpGetTheLastFundingRate, params)
}

// MyLastFundingFee fetches the last funding fee paid or received.
func (h *HTTP) MyLastFundingFee(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpMyLastFundingFee, params)
}

// PredictedFundingRate fetches the predicted funding rate and fee.
func (h *HTTP) PredictedFundingRate(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpPredictedFundingRate, params)
}

// APIKeyInfo fetches API key metadata.
func (h *HTTP) APIKeyInfo(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpAPIKeyInfo, params)
}

// LCPInfo fetches liquidity contribution points.
func (h *HTTP) LCPInfo(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpLCPInfo, params)
}

// GetWalletBalance fetches wallet balances.
func (h *HTTP) GetWalletBalance(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpGetWalletBalance, params)
}

// WalletFundRecords lists wallet fund records.
func (h *HTTP) WalletFundRecords(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpWalletFundRecords, params)
}

// WithdrawRecords lists withdrawals.
func (h *HTTP) WithdrawRecords(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpWithdrawRecords, params)
}

// AssetExchangeRecords lists asset exchange records.
func (h *HTTP) AssetExchangeRecords(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpAssetExchangeRecords, params)
}

// CreateInternalTransfer transfers between accounts of the same user.
func (h *HTTP) CreateInternalTransfer(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpCreateInternalTransfer, params)
}

// CreateSubaccountTransfer transfers between master and sub accounts.
func (h *HTTP) CreateSubaccountTransfer(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpCreateSubaccountTransfer, params)
}

// QueryTransferList lists internal transfers.
func (h *HTTP) QueryTransferList(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpQueryTransferList, params)
}

// QuerySubaccountList lists sub accounts.
func (h *HTTP) QuerySubaccountList(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpQuerySubaccountList, params)
}

// QuerySubaccountTransferList lists sub account transfers.
func (h *HTTP) QuerySubaccountTransferList(ctx context.Context, params Params) (Envelope, error) {
	return h.Call(ctx, endpoints.OpQuerySubaccountTransferList, params)
}
