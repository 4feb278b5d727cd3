package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigProvidesVenueSettings(t *testing.T) {
	cfg := Default()
	if cfg.Environment != EnvMainnet {
		t.Fatalf("expected default environment mainnet, got %s", cfg.Environment)
	}
	if cfg.REST.RecvWindow != 5*time.Second || cfg.REST.MaxRetries != 3 || cfg.REST.RetryDelay != 3*time.Second {
		t.Fatalf("unexpected REST defaults: %+v", cfg.REST)
	}
	if cfg.Stream.ConnectRetries != 10 || cfg.Stream.PingInterval != 20*time.Second || !cfg.Stream.RestartOnError {
		t.Fatalf("unexpected stream defaults: %+v", cfg.Stream)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestFromEnvOverridesValues(t *testing.T) {
	t.Setenv("BYBIT_ENV", "TESTNET")
	t.Setenv("BYBIT_API_KEY", " key ")
	t.Setenv("BYBIT_API_SECRET", "secret")
	t.Setenv("BYBIT_SEGMENT", "Linear")
	t.Setenv("BYBIT_HTTP_TIMEOUT", "15s")
	t.Setenv("BYBIT_RECV_WINDOW", "8000")
	t.Setenv("BYBIT_MAX_RETRIES", "5")
	t.Setenv("BYBIT_FORCE_RETRY", "true")
	t.Setenv("BYBIT_WS_TOPICS", "trade.BTCUSD, orderBookL2_25.BTCUSD")

	cfg := FromEnv()
	if cfg.Environment != EnvTestnet {
		t.Fatalf("expected testnet environment, got %s", cfg.Environment)
	}
	if !strings.Contains(cfg.REST.BaseURL, "testnet") || !strings.Contains(cfg.Stream.URL, "testnet") {
		t.Fatalf("expected testnet endpoints, got %s / %s", cfg.REST.BaseURL, cfg.Stream.URL)
	}
	if cfg.Credentials.APIKey != "key" || cfg.Credentials.APISecret != "secret" {
		t.Fatalf("expected credential overrides, got %+v", cfg.Credentials)
	}
	if cfg.REST.Segment != "linear" {
		t.Fatalf("expected lower-cased segment, got %s", cfg.REST.Segment)
	}
	if cfg.REST.Timeout != 15*time.Second || cfg.REST.RecvWindow != 8*time.Second {
		t.Fatalf("expected duration overrides, got %s/%s", cfg.REST.Timeout, cfg.REST.RecvWindow)
	}
	if cfg.REST.MaxRetries != 5 || !cfg.REST.ForceRetry {
		t.Fatalf("expected retry overrides, got %+v", cfg.REST)
	}
	if len(cfg.Stream.Subscriptions) != 2 || cfg.Stream.Subscriptions[1] != "orderBookL2_25.BTCUSD" {
		t.Fatalf("expected topic list override, got %v", cfg.Stream.Subscriptions)
	}
}

func TestApplyDoesNotMutateBase(t *testing.T) {
	base := Default()
	base.REST.RetryCodes = []int{10002}

	updated := Apply(base,
		WithRetryPolicy(1, time.Second, []int{10006}, []int{30032}),
		WithCredentials("k", "s"),
		WithStream("wss://stream.bybit.com/spot/quote/ws/v2"),
		WithRestartOnError(false),
	)
	if base.REST.RetryCodes[0] != 10002 {
		t.Fatalf("base retry codes mutated: %v", base.REST.RetryCodes)
	}
	if updated.REST.MaxRetries != 1 || updated.REST.RetryCodes[0] != 10006 || updated.REST.IgnoreCodes[0] != 30032 {
		t.Fatalf("expected retry policy override, got %+v", updated.REST)
	}
	if updated.Stream.RestartOnError {
		t.Fatalf("expected restart disabled")
	}
	if updated.Credentials.APIKey != "k" {
		t.Fatalf("expected credentials applied")
	}
}

func TestDecodeLayersYAMLOverDefaults(t *testing.T) {
	doc := `
environment: testnet
credentials:
  apiKey: abc
  apiSecret: def
rest:
  segment: inverse
  retryDelay: 500ms
  retryCodes: [10002, 10006]
stream:
  subscriptions: ["position", "order"]
log:
  level: debug
`
	cfg, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.REST.BaseURL != testnetRESTURL {
		t.Fatalf("expected testnet REST url, got %s", cfg.REST.BaseURL)
	}
	if cfg.REST.RetryDelay != 500*time.Millisecond {
		t.Fatalf("expected retry delay override, got %s", cfg.REST.RetryDelay)
	}
	if cfg.REST.MaxRetries != 3 {
		t.Fatalf("expected untouched default max retries, got %d", cfg.REST.MaxRetries)
	}
	if len(cfg.Stream.Subscriptions) != 2 || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected stream/log settings: %+v %+v", cfg.Stream, cfg.Log)
	}
}

func TestValidateRejectsHalfCredentials(t *testing.T) {
	cfg := Apply(Default(), WithCredentials("only-key", ""))
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for missing secret")
	}
	bad := Default()
	bad.REST.Segment = "options"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected validation error for unknown segment")
	}
}

func TestEmptyRetryCodesSurviveApplyAndDecode(t *testing.T) {
	cfg := Apply(Default(), WithRetryCodes())
	if cfg.REST.RetryCodes == nil || len(cfg.REST.RetryCodes) != 0 {
		t.Fatalf("expected explicit empty retry codes, got %#v", cfg.REST.RetryCodes)
	}
	if Default().REST.RetryCodes != nil {
		t.Fatalf("defaults should leave retry codes nil")
	}

	decoded, err := Decode(strings.NewReader("rest:\n  retryCodes: []\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.REST.RetryCodes == nil || len(decoded.REST.RetryCodes) != 0 {
		t.Fatalf("expected empty retry codes from yaml, got %#v", decoded.REST.RetryCodes)
	}
}
