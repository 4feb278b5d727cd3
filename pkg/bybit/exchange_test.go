package bybit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/coachpo/bybitconn/config"
	"github.com/coachpo/bybitconn/errs"
	"github.com/coachpo/bybitconn/internal/endpoints"
	"github.com/coachpo/bybitconn/internal/stream"
)

func testSettings(baseURL string) config.Settings {
	cfg := config.Apply(config.Default(),
		config.WithCredentials("test-key", "test-secret"),
		config.WithRESTEndpoint(baseURL, "linear"),
		config.WithRetryPolicy(1, 10*time.Millisecond, nil, nil),
	)
	return cfg
}

func reply(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ret_code": 0, "ret_msg": "OK", "result": result})
}

type orderLog struct {
	mu     sync.Mutex
	orders []map[string]any
}

func (l *orderLog) add(r *http.Request) error {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return err
	}
	l.mu.Lock()
	l.orders = append(l.orders, body)
	l.mu.Unlock()
	return nil
}

func newVenue(t *testing.T, positions any, log *orderLog) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/private/linear/position/list":
			if r.Method != http.MethodGet || r.URL.Query().Get("symbol") != "BTCUSDT" {
				t.Errorf("unexpected position query: %s %s", r.Method, r.URL.RawQuery)
			}
			reply(w, positions)
		case "/private/linear/order/create":
			if r.Method != http.MethodPost {
				t.Errorf("unexpected order method %s", r.Method)
			}
			if err := log.add(r); err != nil {
				t.Errorf("decode order: %v", err)
			}
			reply(w, map[string]any{"order_id": "abc"})
		case "/v2/public/time":
			reply(w, map[string]any{})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClosePositionSubmitsOpposingReduceOnlyOrders(t *testing.T) {
	log := &orderLog{}
	srv := newVenue(t, []any{
		map[string]any{"data": map[string]any{"side": "Buy", "size": 2, "position_idx": 1}},
		map[string]any{"data": map[string]any{"side": "Sell", "size": 0, "position_idx": 2}},
	}, log)

	x, err := NewExchange(testSettings(srv.URL))
	require.NoError(t, err)
	h, err := x.HTTP()
	require.NoError(t, err)
	require.Equal(t, endpoints.SegmentLinear, h.Segment())

	results, err := h.ClosePosition(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	require.Len(t, log.orders, 1)
	order := log.orders[0]
	require.Equal(t, "Sell", order["side"])
	require.Equal(t, "Market", order["order_type"])
	require.EqualValues(t, 2, order["qty"])
	require.Equal(t, true, order["reduce_only"])
	require.Equal(t, true, order["close_on_trigger"])
	require.Equal(t, "ImmediateOrCancel", order["time_in_force"])
	require.EqualValues(t, 1, order["position_idx"])
}

func TestClosePositionAcceptsSingleRecord(t *testing.T) {
	log := &orderLog{}
	srv := newVenue(t, map[string]any{"side": "Sell", "size": "0.5", "position_idx": 0}, log)

	x, err := NewExchange(testSettings(srv.URL))
	require.NoError(t, err)
	h, err := x.HTTP()
	require.NoError(t, err)

	_, err = h.ClosePosition(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, log.orders, 1)
	require.Equal(t, "Buy", log.orders[0]["side"])
	require.EqualValues(t, 0.5, log.orders[0]["qty"])
}

func TestClosePositionWithoutOpenPositionFails(t *testing.T) {
	log := &orderLog{}
	srv := newVenue(t, []any{}, log)

	x, err := NewExchange(testSettings(srv.URL))
	require.NoError(t, err)
	h, err := x.HTTP()
	require.NoError(t, err)

	_, err = h.ClosePosition(context.Background(), "BTCUSDT")
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.CodeNotFound))
	require.Empty(t, log.orders)
}

func TestPlaceActiveOrderBulkKeepsOrder(t *testing.T) {
	log := &orderLog{}
	srv := newVenue(t, nil, log)

	x, err := NewExchange(testSettings(srv.URL))
	require.NoError(t, err)
	h, err := x.HTTP()
	require.NoError(t, err)

	batch := make([]Params, 5)
	for i := range batch {
		batch[i] = Params{"symbol": "BTCUSDT", "side": "Buy", "qty": i + 1}
	}
	results, err := h.PlaceActiveOrderBulk(context.Background(), batch, 2)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, res := range results {
		require.NoError(t, res.Err)
		require.True(t, res.Envelope.OK())
	}
	require.Len(t, log.orders, 5)
}

func TestSegmentRoutingRejectsUnavailableOperations(t *testing.T) {
	x, err := NewExchange(testSettings("http://127.0.0.1:1"))
	require.NoError(t, err)

	_, err = x.REST(endpoints.SegmentNone).PlaceActiveOrder(context.Background(), Params{"symbol": "BTCUSD"})
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.CodeInvalid))

	spot := x.REST(endpoints.SegmentLinear).WithSegment(endpoints.SegmentSpot)
	require.Equal(t, endpoints.SegmentSpot, spot.Segment())
	require.Contains(t, spot.Operations(), endpoints.OpMergedOrderbook)
}

func TestNewExchangeRejectsInvalidSettings(t *testing.T) {
	cfg := config.Apply(config.Default(), config.WithCredentials("key-only", ""))
	_, err := NewExchange(cfg)
	require.Error(t, err)
}

func TestWebSocketDispatchesBoundTopics(t *testing.T) {
	var conns atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = c.CloseNow() }()
		conns.Add(1)
		ctx := r.Context()
		_, data, err := c.Read(ctx)
		if err != nil {
			return
		}
		var sub map[string]any
		if json.Unmarshal(data, &sub) != nil || sub["op"] != "subscribe" {
			return
		}
		ack, _ := json.Marshal(map[string]any{"success": true, "request": sub})
		_ = c.Write(ctx, websocket.MessageText, ack)
		msg, _ := json.Marshal(map[string]any{"topic": "trade.BTCUSD", "data": []any{map[string]any{"price": "100"}}})
		_ = c.Write(ctx, websocket.MessageText, msg)
		for {
			if _, _, err := c.Read(ctx); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	x, err := NewExchange(config.Default())
	require.NoError(t, err)
	endpoint := "ws" + strings.TrimPrefix(srv.URL, "http") + "/realtime"
	ws, err := x.WebSocket(endpoint, []Subscription{stream.Topic("trade.BTCUSD")}, WithRestartOnError(false))
	require.NoError(t, err)
	require.Equal(t, stream.DialectDerivatives, ws.Dialect())

	got := make(chan Message, 1)
	require.NoError(t, ws.Bind("trade.BTCUSD", func(_ context.Context, msg Message) {
		select {
		case got <- msg:
		default:
		}
	}))

	done := make(chan error, 1)
	go func() { done <- ws.RunForever(context.Background()) }()

	select {
	case msg := <-got:
		require.Equal(t, "trade.BTCUSD", msg.Topic)
	case <-time.After(5 * time.Second):
		t.Fatal("no message dispatched")
	}
	require.Eventually(t, func() bool { return len(ws.Subscribed()) == 1 }, 5*time.Second, 5*time.Millisecond)

	ws.Exit()
	require.NoError(t, <-done)
	require.Equal(t, stream.StateExited, ws.State())
	require.EqualValues(t, 1, conns.Load())
}

func TestEmptyRetryCodesDisableCodeRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ret_code": 10006, "ret_msg": "too many visits"})
	}))
	t.Cleanup(srv.Close)

	cfg := config.Apply(testSettings(srv.URL), config.WithRetryCodes())
	x, err := NewExchange(cfg)
	require.NoError(t, err)
	h, err := x.HTTP()
	require.NoError(t, err)
	require.False(t, h.exec.Policy().Retryable(10006))

	_, err = h.ServerTime(context.Background(), nil)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.CodeRateLimited))
	require.EqualValues(t, 1, hits.Load())
}

func TestWebSocketParsesConfiguredSpotTopics(t *testing.T) {
	cfg := config.Apply(config.Default(), config.WithStream("", "tradeV2.BTCUSDT", "klineV1.1m.BTCUSDT"))
	x, err := NewExchange(cfg)
	require.NoError(t, err)

	ws, err := x.WebSocket("wss://stream.bybit.com/spot/quote/ws/v2", nil)
	require.NoError(t, err)
	require.Equal(t, stream.DialectSpotPublic, ws.Dialect())

	_, err = x.WebSocket("wss://stream.bybit.com/spot/quote/ws/v2", []Subscription{stream.Topic("trade")})
	require.True(t, errs.Is(err, errs.CodeConfiguration))
}
