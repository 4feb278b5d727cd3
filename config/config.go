// Package config centralises runtime configuration helpers for the Bybit connector.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment identifies the Bybit deployment the connector talks to.
type Environment string

const (
	// EnvMainnet targets the production venue.
	EnvMainnet Environment = "mainnet"
	// EnvTestnet targets the public testnet.
	EnvTestnet Environment = "testnet"
)

const (
	mainnetRESTURL   = "https://api.bybit.com"
	testnetRESTURL   = "https://api-testnet.bybit.com"
	mainnetStreamURL = "wss://stream.bybit.com/realtime"
	testnetStreamURL = "wss://stream-testnet.bybit.com/realtime"
)

// Credentials captures API credentials used for authenticated requests.
type Credentials struct {
	APIKey    string `yaml:"apiKey"`
	APISecret string `yaml:"apiSecret"`
}

// RESTSettings configures the signed request executor. A nil RetryCodes
// selects the default set; an empty list disables code-based retries.
type RESTSettings struct {
	BaseURL           string        `yaml:"baseUrl"`
	Segment           string        `yaml:"segment"`
	Timeout           time.Duration `yaml:"timeout"`
	RecvWindow        time.Duration `yaml:"recvWindow"`
	MaxRecvWindow     time.Duration `yaml:"maxRecvWindow"`
	ForceRetry        bool          `yaml:"forceRetry"`
	MaxRetries        int           `yaml:"maxRetries"`
	RetryDelay        time.Duration `yaml:"retryDelay"`
	RetryCodes        []int         `yaml:"retryCodes"`
	IgnoreCodes       []int         `yaml:"ignoreCodes"`
	ReferralID        string        `yaml:"referralId"`
	LogRequests       bool          `yaml:"logRequests"`
	MaxInParallel     int           `yaml:"maxInParallel"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
}

// StreamSettings configures streaming sessions.
type StreamSettings struct {
	URL               string        `yaml:"url"`
	Subscriptions     []string      `yaml:"subscriptions"`
	PingInterval      time.Duration `yaml:"pingInterval"`
	RestartOnError    bool          `yaml:"restartOnError"`
	ConnectRetries    int           `yaml:"connectRetries"`
	ConnectRetryDelay time.Duration `yaml:"connectRetryDelay"`
	HandshakeTimeout  time.Duration `yaml:"handshakeTimeout"`
}

// TelemetryConfig configures OTLP exporters.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlpEndpoint"`
	ServiceName  string `yaml:"serviceName"`
}

// LogSettings configures the structured logger.
type LogSettings struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Settings contains the connector configuration tree loaded from defaults and overrides.
type Settings struct {
	Environment Environment     `yaml:"environment"`
	Credentials Credentials     `yaml:"credentials"`
	REST        RESTSettings    `yaml:"rest"`
	Stream      StreamSettings  `yaml:"stream"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
	Log         LogSettings     `yaml:"log"`
}

// Default returns the default connector configuration.
func Default() Settings {
	return Settings{
		Environment: EnvMainnet,
		Credentials: Credentials{APIKey: "", APISecret: ""},
		REST: RESTSettings{
			BaseURL:           mainnetRESTURL,
			Segment:           "",
			Timeout:           10 * time.Second,
			RecvWindow:        5 * time.Second,
			MaxRecvWindow:     60 * time.Second,
			ForceRetry:        false,
			MaxRetries:        3,
			RetryDelay:        3 * time.Second,
			RetryCodes:        nil,
			IgnoreCodes:       nil,
			ReferralID:        "",
			LogRequests:       false,
			MaxInParallel:     10,
			RequestsPerSecond: 0,
		},
		Stream: StreamSettings{
			URL:               mainnetStreamURL,
			Subscriptions:     nil,
			PingInterval:      20 * time.Second,
			RestartOnError:    true,
			ConnectRetries:    10,
			ConnectRetryDelay: time.Second,
			HandshakeTimeout:  10 * time.Second,
		},
		Telemetry: TelemetryConfig{OTLPEndpoint: "", ServiceName: "bybitconn"},
		Log: LogSettings{
			Level:      "info",
			File:       "",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// FromEnv loads configuration values from environment variables, overriding defaults.
func FromEnv() Settings {
	cfg := Default()
	if env := strings.TrimSpace(os.Getenv("BYBIT_ENV")); env != "" {
		cfg = Apply(cfg, WithEnvironment(Environment(strings.ToLower(env))))
	}
	if v := strings.TrimSpace(os.Getenv("BYBIT_API_KEY")); v != "" {
		cfg.Credentials.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("BYBIT_API_SECRET")); v != "" {
		cfg.Credentials.APISecret = v
	}
	if v := strings.TrimSpace(os.Getenv("BYBIT_REST_URL")); v != "" {
		cfg.REST.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("BYBIT_SEGMENT")); v != "" {
		cfg.REST.Segment = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("BYBIT_WS_URL")); v != "" {
		cfg.Stream.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("BYBIT_WS_TOPICS")); v != "" {
		cfg.Stream.Subscriptions = splitList(v)
	}
	if dur, ok := envDuration("BYBIT_HTTP_TIMEOUT"); ok {
		cfg.REST.Timeout = dur
	}
	if dur, ok := envDuration("BYBIT_RECV_WINDOW"); ok {
		cfg.REST.RecvWindow = dur
	}
	if dur, ok := envDuration("BYBIT_RETRY_DELAY"); ok {
		cfg.REST.RetryDelay = dur
	}
	if dur, ok := envDuration("BYBIT_PING_INTERVAL"); ok {
		cfg.Stream.PingInterval = dur
	}
	if v := strings.TrimSpace(os.Getenv("BYBIT_MAX_RETRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.REST.MaxRetries = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("BYBIT_FORCE_RETRY")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.REST.ForceRetry = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("BYBIT_LOG_REQUESTS")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.REST.LogRequests = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("BYBIT_REFERRAL_ID")); v != "" {
		cfg.REST.ReferralID = v
	}
	if v := strings.TrimSpace(os.Getenv("BYBIT_LOG_LEVEL")); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("BYBIT_LOG_FILE")); v != "" {
		cfg.Log.File = v
	}
	if v := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); v != "" {
		cfg.Telemetry.OTLPEndpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("OTEL_SERVICE_NAME")); v != "" {
		cfg.Telemetry.ServiceName = v
	}
	return cfg
}

// Option mutates Settings when applied via Apply.
type Option func(*Settings)

// Apply applies the provided Option set to a copy of the base Settings.
func Apply(base Settings, opts ...Option) Settings {
	cfg := base.clone()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithEnvironment selects the deployment and swaps default endpoints that were not customised.
func WithEnvironment(env Environment) Option {
	return func(s *Settings) {
		if env == "" {
			return
		}
		s.Environment = env
		if env == EnvTestnet {
			if s.REST.BaseURL == mainnetRESTURL {
				s.REST.BaseURL = testnetRESTURL
			}
			if s.Stream.URL == mainnetStreamURL {
				s.Stream.URL = testnetStreamURL
			}
		}
	}
}

// WithCredentials overrides the API credentials.
func WithCredentials(key, secret string) Option {
	key = strings.TrimSpace(key)
	secret = strings.TrimSpace(secret)
	return func(s *Settings) {
		if key != "" {
			s.Credentials.APIKey = key
		}
		if secret != "" {
			s.Credentials.APISecret = secret
		}
	}
}

// WithRESTEndpoint overrides the REST base URL and contract segment.
func WithRESTEndpoint(baseURL, segment string) Option {
	baseURL = strings.TrimSpace(baseURL)
	segment = strings.ToLower(strings.TrimSpace(segment))
	return func(s *Settings) {
		if baseURL != "" {
			s.REST.BaseURL = baseURL
		}
		if segment != "" {
			s.REST.Segment = segment
		}
	}
}

// WithRetryCodes replaces the retryable code set. Passing no codes disables
// code-based retries.
func WithRetryCodes(codes ...int) Option {
	return func(s *Settings) {
		s.REST.RetryCodes = append(make([]int, 0, len(codes)), codes...)
	}
}

// WithRetryPolicy overrides retry count, delay and code sets.
func WithRetryPolicy(maxRetries int, delay time.Duration, retryCodes, ignoreCodes []int) Option {
	return func(s *Settings) {
		if maxRetries >= 0 {
			s.REST.MaxRetries = maxRetries
		}
		if delay > 0 {
			s.REST.RetryDelay = delay
		}
		if len(retryCodes) > 0 {
			s.REST.RetryCodes = append([]int(nil), retryCodes...)
		}
		if len(ignoreCodes) > 0 {
			s.REST.IgnoreCodes = append([]int(nil), ignoreCodes...)
		}
	}
}

// WithForceRetry toggles retries on decode and transport failures.
func WithForceRetry(enabled bool) Option {
	return func(s *Settings) {
		s.REST.ForceRetry = enabled
	}
}

// WithStream overrides the stream endpoint and subscriptions.
func WithStream(url string, subscriptions ...string) Option {
	url = strings.TrimSpace(url)
	return func(s *Settings) {
		if url != "" {
			s.Stream.URL = url
		}
		if len(subscriptions) > 0 {
			s.Stream.Subscriptions = append([]string(nil), subscriptions...)
		}
	}
}

// WithRestartOnError toggles automatic reconnection.
func WithRestartOnError(enabled bool) Option {
	return func(s *Settings) {
		s.Stream.RestartOnError = enabled
	}
}

func (s Settings) clone() Settings {
	out := s
	out.REST.RetryCodes = cloneCodes(s.REST.RetryCodes)
	out.REST.IgnoreCodes = cloneCodes(s.REST.IgnoreCodes)
	out.Stream.Subscriptions = append([]string(nil), s.Stream.Subscriptions...)
	return out
}

// cloneCodes keeps nil and empty apart: nil means "use the defaults".
func cloneCodes(codes []int) []int {
	if codes == nil {
		return nil
	}
	return append(make([]int, 0, len(codes)), codes...)
}

func envDuration(name string) (time.Duration, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur, true
	}
	// bare integers are milliseconds, matching the venue's recv_window unit
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, true
	}
	return 0, false
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
