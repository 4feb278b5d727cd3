package endpoints

var segmentPaths = map[Segment]map[Operation]string{
	SegmentLinear: {
		OpQueryKline:                    "/public/linear/kline",
		OpPublicTradingRecords:          "/public/linear/recent-trading-records",
		OpQueryMarkPriceKline:           "/public/linear/mark-price-kline",
		OpQueryIndexPriceKline:          "/public/linear/index-price-kline",
		OpQueryPremiumIndexKline:        "/public/linear/premium-index-kline",
		OpPlaceActiveOrder:              "/private/linear/order/create",
		OpGetActiveOrder:                "/private/linear/order/list",
		OpCancelActiveOrder:             "/private/linear/order/cancel",
		OpCancelAllActiveOrders:         "/private/linear/order/cancel-all",
		OpReplaceActiveOrder:            "/private/linear/order/replace",
		OpQueryActiveOrder:              "/private/linear/order/search",
		OpPlaceConditionalOrder:         "/private/linear/stop-order/create",
		OpGetConditionalOrder:           "/private/linear/stop-order/list",
		OpCancelConditionalOrder:        "/private/linear/stop-order/cancel",
		OpCancelAllConditionalOrders:    "/private/linear/stop-order/cancel-all",
		OpReplaceConditionalOrder:       "/private/linear/stop-order/replace",
		OpQueryConditionalOrder:         "/private/linear/stop-order/search",
		OpMyPosition:                    "/private/linear/position/list",
		OpSetAutoAddMargin:              "/private/linear/position/set-auto-add-margin",
		OpSetLeverage:                   "/private/linear/position/set-leverage",
		OpCrossIsolatedMarginSwitch:     "/private/linear/position/switch-isolated",
		OpPositionModeSwitch:            "/private/linear/position/switch-mode",
		OpFullPartialPositionTPSLSwitch: "/private/linear/tpsl/switch-mode",
		OpSetTradingStop:                "/private/linear/position/trading-stop",
		OpAddReduceMargin:               "/private/linear/position/add-margin",
		OpUserTradeRecords:              "/private/linear/trade/execution/list",
		OpClosedProfitAndLoss:           "/private/linear/trade/closed-pnl/list",
		OpGetRiskLimit:                  "/public/linear/risk-limit",
		OpSetRiskLimit:                  "/private/linear/position/set-risk",
		OpGetTheLastFundingRate:         "/public/linear/funding/prev-funding-rate",
		OpMyLastFundingFee:              "/private/linear/funding/prev-funding",
		OpPredictedFundingRate:          "/private/linear/funding/predicted-funding",
	},
	SegmentInverse: {
		OpQueryKline:                    "/v2/public/kline/list",
		OpPublicTradingRecords:          "/v2/public/trading-records",
		OpQueryMarkPriceKline:           "/v2/public/mark-price-kline",
		OpQueryIndexPriceKline:          "/v2/public/index-price-kline",
		OpQueryPremiumIndexKline:        "/v2/public/premium-index-kline",
		OpPlaceActiveOrder:              "/v2/private/order/create",
		OpGetActiveOrder:                "/v2/private/order/list",
		OpCancelActiveOrder:             "/v2/private/order/cancel",
		OpCancelAllActiveOrders:         "/v2/private/order/cancelAll",
		OpReplaceActiveOrder:            "/v2/private/order/replace",
		OpQueryActiveOrder:              "/v2/private/order",
		OpPlaceConditionalOrder:         "/v2/private/stop-order/create",
		OpGetConditionalOrder:           "/v2/private/stop-order/list",
		OpCancelConditionalOrder:        "/v2/private/stop-order/cancel",
		OpCancelAllConditionalOrders:    "/v2/private/stop-order/cancelAll",
		OpReplaceConditionalOrder:       "/v2/private/stop-order/replace",
		OpQueryConditionalOrder:         "/v2/private/stop-order",
		OpMyPosition:                    "/v2/private/position/list",
		OpSetLeverage:                   "/v2/private/position/leverage/save",
		OpCrossIsolatedMarginSwitch:     "/v2/private/position/switch-isolated",
		OpQueryTradingFeeRate:           "/v2/private/position/fee-rate",
		OpPositionModeSwitch:            "/v2/private/position/switch-mode",
		OpFullPartialPositionTPSLSwitch: "/v2/private/tpsl/switch-mode",
		OpChangeMargin:                  "/v2/private/position/change-position-margin",
		OpSetTradingStop:                "/v2/private/position/trading-stop",
		OpUserTradeRecords:              "/v2/private/execution/list",
		OpClosedProfitAndLoss:           "/v2/private/trade/closed-pnl/list",
		OpGetRiskLimit:                  "/v2/public/risk-limit/list",
		OpSetRiskLimit:                  "/v2/private/position/risk-limit",
		OpGetTheLastFundingRate:         "/v2/public/funding/prev-funding-rate",
		OpMyLastFundingFee:              "/v2/private/funding/prev-funding",
		OpPredictedFundingRate:          "/v2/private/funding/predicted-funding",
	},
	SegmentFutures: {
		OpQueryKline:                    "/v2/public/kline/list",
		OpPublicTradingRecords:          "/v2/public/trading-records",
		OpQueryMarkPriceKline:           "/v2/public/mark-price-kline",
		OpQueryIndexPriceKline:          "/v2/public/index-price-kline",
		OpQueryPremiumIndexKline:        "/v2/public/premium-index-kline",
		OpPlaceActiveOrder:              "/futures/private/order/create",
		OpGetActiveOrder:                "/futures/private/order/list",
		OpCancelActiveOrder:             "/futures/private/order/cancel",
		OpCancelAllActiveOrders:         "/futures/private/order/cancelAll",
		OpReplaceActiveOrder:            "/futures/private/order/replace",
		OpQueryActiveOrder:              "/futures/private/order",
		OpPlaceConditionalOrder:         "/futures/private/stop-order/create",
		OpGetConditionalOrder:           "/futures/private/stop-order/list",
		OpCancelConditionalOrder:        "/futures/private/stop-order/cancel",
		OpCancelAllConditionalOrders:    "/futures/private/stop-order/cancelAll",
		OpReplaceConditionalOrder:       "/futures/private/stop-order/replace",
		OpQueryConditionalOrder:         "/futures/private/stop-order",
		OpMyPosition:                    "/futures/private/position/list",
		OpSetLeverage:                   "/futures/private/position/leverage/save",
		OpCrossIsolatedMarginSwitch:     "/futures/private/position/switch-mode",
		OpPositionModeSwitch:            "/futures/private/position/switch-mode",
		OpFullPartialPositionTPSLSwitch: "/futures/private/tpsl/switch-mode",
		OpChangeMargin:                  "/futures/private/position/change-position-margin",
		OpSetTradingStop:                "/futures/private/position/trading-stop",
		OpUserTradeRecords:              "/futures/private/execution/list",
		OpClosedProfitAndLoss:           "/futures/private/trade/closed-pnl/list",
		OpGetRiskLimit:                  "/v2/public/risk-limit/list",
		OpSetRiskLimit:                  "/futures/private/position/risk-limit",
	},
	SegmentSpot: {
		OpOrderbook:                   "/spot/quote/v1/depth",
		OpMergedOrderbook:             "/spot/quote/v1/depth/merged",
		OpQueryKline:                  "/spot/quote/v1/kline",
		OpLatestInformationForSymbol:  "/spot/quote/v1/ticker/24hr",
		OpLastTradedPrice:             "/spot/quote/v1/ticker/price",
		OpBestBidAskPrice:             "/spot/quote/v1/ticker/book_ticker",
		OpPublicTradingRecords:        "/spot/quote/v1/trades",
		OpQuerySymbol:                 "/spot/v1/symbols",
		OpPlaceActiveOrder:            "/spot/v1/order",
		OpCancelActiveOrder:           "/spot/v1/order",
		OpFastCancelActiveOrder:       "/spot/v1/order/fast",
		OpBatchCancelActiveOrder:      "/spot/order/batch-cancel",
		OpBatchFastCancelActiveOrder:  "/spot/order/batch-fast-cancel",
		OpBatchCancelActiveOrderByIDs: "/spot/order/batch-cancel-by-ids",
		OpGetActiveOrder:              "/spot/v1/order",
		OpOpenOrders:                  "/spot/v1/open-orders",
		OpOrderHistory:                "/spot/v1/history-orders",
		OpUserTradeRecords:            "/spot/v1/myTrades",
		OpGetWalletBalance:            "/spot/v1/account",
		OpServerTime:                  "/spot/v1/time",
	},
}

// derivativesSharedPaths apply to linear, inverse and futures.
var derivativesSharedPaths = map[Operation]string{
	OpOrderbook:                  "/v2/public/orderBook/L2",
	OpLatestInformationForSymbol: "/v2/public/tickers",
	OpQuerySymbol:                "/v2/public/symbols",
	OpOpenInterest:               "/v2/public/open-interest",
	OpLatestBigDeal:              "/v2/public/big-deal",
	OpChangeUserLeverage:         "/user/leverage/save",
	OpLongShortRatio:             "/v2/public/account-ratio",
	OpAPIKeyInfo:                 "/v2/private/account/api-key",
	OpLCPInfo:                    "/v2/private/account/lcp",
	OpGetWalletBalance:           "/v2/private/wallet/balance",
	OpWalletFundRecords:          "/v2/private/wallet/fund/records",
	OpWithdrawRecords:            "/v2/private/wallet/withdraw/list",
	OpAssetExchangeRecords:       "/v2/private/exchange-order/list",
	OpServerTime:                 "/v2/public/time",
	OpAnnouncement:               "/v2/public/announcement",
}

// accountAssetPaths apply to every segment, including SegmentNone.
var accountAssetPaths = map[Operation]string{
	OpCreateInternalTransfer:      "/asset/v1/private/transfer",
	OpCreateSubaccountTransfer:    "/asset/v1/private/sub-member/transfer",
	OpQueryTransferList:           "/asset/v1/private/transfer/list",
	OpQuerySubaccountList:         "/asset/v1/private/sub-member/member-ids",
	OpQuerySubaccountTransferList: "/asset/v1/private/sub-member/transfer/list",
}
