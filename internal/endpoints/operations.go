package endpoints

import "net/http"

// Operation names a logical venue call.
type Operation string

// Market data.
const (
	OpOrderbook                  Operation = "orderbook"
	OpMergedOrderbook            Operation = "merged_orderbook"
	OpQueryKline                 Operation = "query_kline"
	OpLatestInformationForSymbol Operation = "latest_information_for_symbol"
	OpLastTradedPrice            Operation = "last_traded_price"
	OpBestBidAskPrice            Operation = "best_bid_ask_price"
	OpPublicTradingRecords       Operation = "public_trading_records"
	OpQuerySymbol                Operation = "query_symbol"
	OpQueryMarkPriceKline        Operation = "query_mark_price_kline"
	OpQueryIndexPriceKline       Operation = "query_index_price_kline"
	OpQueryPremiumIndexKline     Operation = "query_premium_index_kline"
	OpOpenInterest               Operation = "open_interest"
	OpLatestBigDeal              Operation = "latest_big_deal"
	OpLongShortRatio             Operation = "long_short_ratio"
	OpServerTime                 Operation = "server_time"
	OpAnnouncement               Operation = "announcement"
)

// Active and conditional orders.
const (
	OpPlaceActiveOrder            Operation = "place_active_order"
	OpGetActiveOrder              Operation = "get_active_order"
	OpCancelActiveOrder           Operation = "cancel_active_order"
	OpFastCancelActiveOrder       Operation = "fast_cancel_active_order"
	OpCancelAllActiveOrders       Operation = "cancel_all_active_orders"
	OpBatchCancelActiveOrder      Operation = "batch_cancel_active_order"
	OpBatchFastCancelActiveOrder  Operation = "batch_fast_cancel_active_order"
	OpBatchCancelActiveOrderByIDs Operation = "batch_cancel_active_order_by_ids"
	OpReplaceActiveOrder          Operation = "replace_active_order"
	OpQueryActiveOrder            Operation = "query_active_order"
	OpOpenOrders                  Operation = "open_orders"
	OpOrderHistory                Operation = "order_history"
	OpPlaceConditionalOrder       Operation = "place_conditional_order"
	OpGetConditionalOrder         Operation = "get_conditional_order"
	OpCancelConditionalOrder      Operation = "cancel_conditional_order"
	OpCancelAllConditionalOrders  Operation = "cancel_all_conditional_orders"
	OpReplaceConditionalOrder     Operation = "replace_conditional_order"
	OpQueryConditionalOrder       Operation = "query_conditional_order"
)

// Positions, risk and funding.
const (
	OpMyPosition                    Operation = "my_position"
	OpSetAutoAddMargin              Operation = "set_auto_add_margin"
	OpSetLeverage                   Operation = "set_leverage"
	OpCrossIsolatedMarginSwitch     Operation = "cross_isolated_margin_switch"
	OpQueryTradingFeeRate           Operation = "query_trading_fee_rate"
	OpPositionModeSwitch            Operation = "position_mode_switch"
	OpFullPartialPositionTPSLSwitch Operation = "full_partial_position_tp_sl_switch"
	OpChangeMargin                  Operation = "change_margin"
	OpSetTradingStop                Operation = "set_trading_stop"
	OpAddReduceMargin               Operation = "add_reduce_margin"
	OpChangeUserLeverage            Operation = "change_user_leverage"
	OpUserTradeRecords              Operation = "user_trade_records"
	OpClosedProfitAndLoss           Operation = "closed_profit_and_loss"
	OpGetRiskLimit                  Operation = "get_risk_limit"
	OpSetRiskLimit                  Operation = "set_risk_limit"
	OpGetTheLastFundingRate         Operation = "get_the_last_funding_rate"
	OpMyLastFundingFee              Operation = "my_last_funding_fee"
	OpPredictedFundingRate          Operation = "predicted_funding_rate"
)

// Account and wallet.
const (
	OpAPIKeyInfo                  Operation = "api_key_info"
	OpLCPInfo                     Operation = "lcp_info"
	OpGetWalletBalance            Operation = "get_wallet_balance"
	OpWalletFundRecords           Operation = "wallet_fund_records"
	OpWithdrawRecords             Operation = "withdraw_records"
	OpAssetExchangeRecords        Operation = "asset_exchange_records"
	OpCreateInternalTransfer      Operation = "create_internal_transfer"
	OpCreateSubaccountTransfer    Operation = "create_subaccount_transfer"
	OpQueryTransferList           Operation = "query_transfer_list"
	OpQuerySubaccountList         Operation = "query_subaccount_list"
	OpQuerySubaccountTransferList Operation = "query_subaccount_transfer_list"
)

type access struct {
	method string
	auth   bool
}

var (
	publicGet   = access{method: http.MethodGet, auth: false}
	privateGet  = access{method: http.MethodGet, auth: true}
	privatePost = access{method: http.MethodPost, auth: true}
	privateDel  = access{method: http.MethodDelete, auth: true}
)

// verbs holds the HTTP verb and auth requirement of every operation.
var verbs = map[Operation]access{
	OpOrderbook:                  publicGet,
	OpMergedOrderbook:            publicGet,
	OpQueryKline:                 publicGet,
	OpLatestInformationForSymbol: publicGet,
	OpLastTradedPrice:            publicGet,
	OpBestBidAskPrice:            publicGet,
	OpPublicTradingRecords:       publicGet,
	OpQuerySymbol:                publicGet,
	OpQueryMarkPriceKline:        publicGet,
	OpQueryIndexPriceKline:       publicGet,
	OpQueryPremiumIndexKline:     publicGet,
	OpOpenInterest:               publicGet,
	OpLatestBigDeal:              publicGet,
	OpLongShortRatio:             publicGet,
	OpServerTime:                 publicGet,
	OpAnnouncement:               publicGet,
	OpGetTheLastFundingRate:      publicGet,

	OpPlaceActiveOrder:            privatePost,
	OpGetActiveOrder:              privateGet,
	OpCancelActiveOrder:           privatePost,
	OpFastCancelActiveOrder:       privateDel,
	OpCancelAllActiveOrders:       privatePost,
	OpBatchCancelActiveOrder:      privateDel,
	OpBatchFastCancelActiveOrder:  privateDel,
	OpBatchCancelActiveOrderByIDs: privateDel,
	OpReplaceActiveOrder:          privatePost,
	OpQueryActiveOrder:            privateGet,
	OpOpenOrders:                  privateGet,
	OpOrderHistory:                privateGet,
	OpPlaceConditionalOrder:       privatePost,
	OpGetConditionalOrder:         privateGet,
	OpCancelConditionalOrder:      privatePost,
	OpCancelAllConditionalOrders:  privatePost,
	OpReplaceConditionalOrder:     privatePost,
	OpQueryConditionalOrder:       privateGet,

	OpMyPosition:                    privateGet,
	OpSetAutoAddMargin:              privatePost,
	OpSetLeverage:                   privatePost,
	OpCrossIsolatedMarginSwitch:     privatePost,
	OpQueryTradingFeeRate:           privatePost,
	OpPositionModeSwitch:            privatePost,
	OpFullPartialPositionTPSLSwitch: privatePost,
	OpChangeMargin:                  privatePost,
	OpSetTradingStop:                privatePost,
	OpAddReduceMargin:               privatePost,
	OpChangeUserLeverage:            privatePost,
	OpUserTradeRecords:              privateGet,
	OpClosedProfitAndLoss:           privateGet,
	OpGetRiskLimit:                  privateGet,
	OpSetRiskLimit:                  privatePost,
	OpMyLastFundingFee:              privateGet,
	OpPredictedFundingRate:          privateGet,

	OpAPIKeyInfo:                  privateGet,
	OpLCPInfo:                     privateGet,
	OpGetWalletBalance:            privateGet,
	OpWalletFundRecords:           privateGet,
	OpWithdrawRecords:             privateGet,
	OpAssetExchangeRecords:        privateGet,
	OpCreateInternalTransfer:      privatePost,
	OpCreateSubaccountTransfer:    privatePost,
	OpQueryTransferList:           privateGet,
	OpQuerySubaccountList:         privateGet,
	OpQuerySubaccountTransferList: privateGet,
}

// segmentVerbs overrides verbs for a single segment.
var segmentVerbs = map[Segment]map[Operation]access{
	SegmentSpot: {
		OpCancelActiveOrder: privateDel,
	},
}
