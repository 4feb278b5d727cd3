package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML document from disk and layers it over Default().
func Load(path string) (Settings, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("BYBIT_CONFIG"))
	}
	if path == "" {
		return Settings{}, fmt.Errorf("config path required")
	}
	file, err := os.Open(filepath.Clean(path)) // #nosec G304 -- configuration paths are controlled by operators.
	if err != nil {
		return Settings{}, fmt.Errorf("open config: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	return Decode(file)
}

// Decode parses YAML from r over Default() and validates the result.
func Decode(r io.Reader) (Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Settings{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	// re-apply so a testnet document picks up testnet default endpoints
	cfg = Apply(cfg, WithEnvironment(cfg.Environment))
	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// Validate performs semantic validation on the settings tree.
func (s Settings) Validate() error {
	switch s.Environment {
	case EnvMainnet, EnvTestnet:
	default:
		return fmt.Errorf("environment must be mainnet|testnet, got %q", s.Environment)
	}
	switch s.REST.Segment {
	case "", "linear", "inverse", "futures", "spot":
	default:
		return fmt.Errorf("rest.segment must be linear|inverse|futures|spot, got %q", s.REST.Segment)
	}
	if strings.TrimSpace(s.REST.BaseURL) == "" {
		return fmt.Errorf("rest.baseUrl required")
	}
	if s.REST.MaxRetries < 0 {
		return fmt.Errorf("rest.maxRetries must be >=0")
	}
	if s.REST.RetryDelay < 0 {
		return fmt.Errorf("rest.retryDelay must be >=0")
	}
	if s.REST.RecvWindow <= 0 {
		return fmt.Errorf("rest.recvWindow must be >0")
	}
	if s.REST.MaxRecvWindow > 0 && s.REST.MaxRecvWindow < s.REST.RecvWindow {
		return fmt.Errorf("rest.maxRecvWindow must be >= rest.recvWindow")
	}
	if s.REST.MaxInParallel < 0 {
		return fmt.Errorf("rest.maxInParallel must be >=0")
	}
	if s.Stream.PingInterval <= 0 {
		return fmt.Errorf("stream.pingInterval must be >0")
	}
	if s.Stream.ConnectRetries <= 0 {
		return fmt.Errorf("stream.connectRetries must be >0")
	}
	if (s.Credentials.APIKey == "") != (s.Credentials.APISecret == "") {
		return fmt.Errorf("credentials require both apiKey and apiSecret")
	}
	return nil
}
