package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coachpo/bybitconn/internal/signer"
)

func TestExecuteBulkBoundsConcurrencyAndKeepsOrder(t *testing.T) {
	var inFlight, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		idx, _ := strconv.Atoi(r.URL.Query().Get("idx"))
		// later calls finish first
		time.Sleep(time.Duration(20-idx) * time.Millisecond)
		inFlight.Add(-1)
		writeEnvelope(w, 0, map[string]any{"result": map[string]any{"idx": idx}})
	}))
	defer srv.Close()

	exec, _ := newTestExecutor(t, srv.URL, nil)
	calls := make([]Call, 20)
	for i := range calls {
		calls[i] = Call{Method: http.MethodGet, Path: "/v2/public/tickers", Params: signer.Params{"idx": i}}
	}

	results := exec.ExecuteBulk(context.Background(), calls, 3)
	require.Len(t, results, len(calls))
	for i, res := range results {
		require.NoError(t, res.Err)
		var body struct {
			Idx int `json:"idx"`
		}
		require.NoError(t, res.Envelope.Decode(&body))
		require.Equal(t, i, body.Idx)
	}
	require.LessOrEqual(t, peak.Load(), int32(3))
	require.Positive(t, peak.Load())
}

func TestExecuteBulkReportsPerCallErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("bad") != "" {
			writeEnvelope(w, 20001, nil)
			return
		}
		writeEnvelope(w, 0, nil)
	}))
	defer srv.Close()

	exec, _ := newTestExecutor(t, srv.URL, nil)
	results := exec.ExecuteBulk(context.Background(), []Call{
		{Method: http.MethodGet, Path: "/a"},
		{Method: http.MethodGet, Path: "/b", Params: signer.Params{"bad": "1"}},
		{Method: http.MethodGet, Path: "/c"},
	}, 0)
	require.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
	require.NoError(t, results[2].Err)
	require.Nil(t, exec.ExecuteBulk(context.Background(), nil, 2))
}
