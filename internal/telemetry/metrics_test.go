package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	sums := make(map[string]int64)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	return sums
}

func TestRESTMetricsRecordsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m := NewRESTMetrics(provider)
	ctx := context.Background()

	m.RecordAttempt(ctx, "GET", "/v2/public/time", ResultRetry, 5*time.Millisecond)
	m.RecordAttempt(ctx, "GET", "/v2/public/time", ResultSuccess, 3*time.Millisecond)
	m.RecordRetry(ctx, "GET", "/v2/public/time", 10006)
	m.RecordRecvWindowGrowth(ctx, 2500*time.Millisecond)
	m.RecordFailure(ctx, "POST", "/v2/private/order/create", "exchange_error")

	sums := collect(t, reader)
	require.Equal(t, int64(2), sums["bybitconn_rest_attempts"])
	require.Equal(t, int64(1), sums["bybitconn_rest_retries"])
	require.Equal(t, int64(2500), sums["bybitconn_rest_recv_window_growth"])
	require.Equal(t, int64(1), sums["bybitconn_rest_failures"])
}

func TestStreamMetricsRecordsDispatch(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m := NewStreamMetrics(provider, "derivatives")
	ctx := context.Background()

	m.RecordFrame(ctx)
	m.RecordDispatch(ctx, "trade.BTCUSD", true)
	m.RecordDispatch(ctx, "trade.ETHUSD", false)
	m.RecordReconnect(ctx)

	sums := collect(t, reader)
	require.Equal(t, int64(1), sums["bybitconn_stream_frames"])
	require.Equal(t, int64(2), sums["bybitconn_stream_dispatched"])
	require.Equal(t, int64(1), sums["bybitconn_stream_reconnects"])
}

func TestNilMetricsAreSafe(t *testing.T) {
	var rest *RESTMetrics
	var stream *StreamMetrics
	require.NotPanics(t, func() {
		rest.RecordAttempt(context.Background(), "GET", "/", ResultSuccess, time.Millisecond)
		rest.BulkInFlight(context.Background(), 1)
		stream.RecordError(context.Background(), "network")
		stream.RecordTransition(context.Background(), "Streaming")
	})
}
