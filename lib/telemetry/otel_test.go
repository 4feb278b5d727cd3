package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/coachpo/bybitconn/config"
)

func TestParseEndpoint(t *testing.T) {
	host, insecure, err := parseEndpoint("https://collector.example.com:4318")
	require.NoError(t, err)
	require.Equal(t, "collector.example.com:4318", host)
	require.False(t, insecure)

	host, insecure, err = parseEndpoint("http://localhost:4318")
	require.NoError(t, err)
	require.Equal(t, "localhost:4318", host)
	require.True(t, insecure)
}

func TestInitNoEndpointUsesNoop(t *testing.T) {
	providers, err := Init(context.Background(), config.TelemetryConfig{})
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)
	require.NotNil(t, providers.MeterProvider)
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitInvalidEndpoint(t *testing.T) {
	_, err := Init(context.Background(), config.TelemetryConfig{OTLPEndpoint: "://bad"})
	require.Error(t, err)
}

func TestInitWithEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	providers, err := Init(context.Background(), config.TelemetryConfig{OTLPEndpoint: srv.URL, ServiceName: "bybitconn-test"})
	require.NoError(t, err)
	require.Len(t, providers.shutdown, 2)
	require.Same(t, providers.TracerProvider, otel.GetTracerProvider())
	require.Same(t, providers.MeterProvider, otel.GetMeterProvider())
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestShutdownJoinsEveryFailure(t *testing.T) {
	traceErr := errors.New("trace exporter flush")
	metricErr := errors.New("metric exporter flush")
	var calls int
	providers := Providers{shutdown: []func(context.Context) error{
		func(context.Context) error { calls++; return traceErr },
		func(context.Context) error { calls++; return nil },
		func(context.Context) error { calls++; return metricErr },
	}}

	err := providers.Shutdown(context.Background())
	require.Equal(t, 3, calls)
	require.ErrorIs(t, err, traceErr)
	require.ErrorIs(t, err, metricErr)
	require.NoError(t, Providers{}.Shutdown(context.Background()))
}
