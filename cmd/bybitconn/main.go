// Command bybitconn connects to Bybit, checks the REST session against the
// venue clock and streams the configured topics to the log until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/coachpo/bybitconn/config"
	"github.com/coachpo/bybitconn/internal/endpoints"
	"github.com/coachpo/bybitconn/internal/observability"
	"github.com/coachpo/bybitconn/internal/stream"
	"github.com/coachpo/bybitconn/lib/telemetry"
	"github.com/coachpo/bybitconn/pkg/bybit"
)

const telemetryShutdownTimeout = 5 * time.Second

type flags struct {
	configPath string
	envFile    string
	topics     string
	skipREST   bool
}

func main() {
	f := parseFlags()
	if err := run(f); err != nil {
		log.Fatalf("bybitconn: %v", err)
	}
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to YAML configuration (default: $BYBIT_CONFIG, else environment only)")
	flag.StringVar(&f.envFile, "env", ".env", "dotenv file loaded before reading the environment")
	flag.StringVar(&f.topics, "topics", "", "Comma separated topics overriding the configured subscriptions")
	flag.BoolVar(&f.skipREST, "skip-rest", false, "Skip the REST server time probe")
	flag.Parse()
	return f
}

func newSignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func run(f flags) error {
	ctx, cancel := newSignalContext()
	defer cancel()

	cfg, err := loadSettings(f)
	if err != nil {
		return err
	}

	logger := observability.NewLogrus(cfg.Log)
	defer func() {
		_ = logger.Close()
	}()

	providers, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initialise telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer shutdownCancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", observability.F("error", err))
		}
	}()

	x, err := bybit.NewExchange(cfg,
		bybit.WithLogger(logger),
		bybit.WithMeterProvider(providers.MeterProvider),
		bybit.WithTracerProvider(providers.TracerProvider),
	)
	if err != nil {
		return err
	}
	defer x.Close()

	if !f.skipREST {
		if err := probeServerTime(ctx, x, logger); err != nil {
			return err
		}
	}

	if len(cfg.Stream.Subscriptions) == 0 && cfg.Credentials.APIKey == "" {
		logger.Info("no stream subscriptions configured; exiting")
		return nil
	}
	return streamTopics(ctx, x, logger)
}

func loadSettings(f flags) (config.Settings, error) {
	if err := godotenv.Load(f.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config.Settings{}, fmt.Errorf("load %s: %w", f.envFile, err)
	}
	var (
		cfg config.Settings
		err error
	)
	if f.configPath != "" || os.Getenv("BYBIT_CONFIG") != "" {
		cfg, err = config.Load(f.configPath)
		if err != nil {
			return config.Settings{}, err
		}
	} else {
		cfg = config.FromEnv()
	}
	if topics := splitTopics(f.topics); len(topics) > 0 {
		cfg = config.Apply(cfg, config.WithStream("", topics...))
	}
	return cfg, nil
}

func splitTopics(raw string) []string {
	var out []string
	for _, topic := range strings.Split(raw, ",") {
		if topic = strings.TrimSpace(topic); topic != "" {
			out = append(out, topic)
		}
	}
	return out
}

// probeServerTime compares the venue clock with the local one. Derivative
// segments share the server time route, so an unset segment probes inverse.
func probeServerTime(ctx context.Context, x *bybit.Exchange, logger observability.Logger) error {
	h, err := x.HTTP()
	if err != nil {
		return err
	}
	if h.Segment() == endpoints.SegmentNone {
		h = h.WithSegment(endpoints.SegmentInverse)
	}
	env, err := h.ServerTime(ctx, nil)
	if err != nil {
		return fmt.Errorf("server time: %w", err)
	}
	logger.Info("venue reachable",
		observability.F("segment", h.Segment().String()),
		observability.F("time_now", env.TimeNow),
		observability.F("local", time.Now().UTC().Format(time.RFC3339Nano)),
	)
	return nil
}

func streamTopics(ctx context.Context, x *bybit.Exchange, logger observability.Logger) error {
	opts := []bybit.WebSocketOption{bybit.WithErrorHandler(func(_ context.Context, err error) {
		logger.Error("stream error", observability.F("error", err))
	})}
	// spot public sessions refuse keys
	if stream.DetectDialect(x.Settings().Stream.URL) == stream.DialectSpotPublic {
		opts = append(opts, bybit.WithoutCredentials())
	}
	ws, err := x.WebSocket("", nil, opts...)
	if err != nil {
		return err
	}
	for _, topic := range x.Settings().Stream.Subscriptions {
		if err := ws.Bind(topic, logMessage(logger)); err != nil {
			return err
		}
	}
	logger.Info("streaming", observability.F("dialect", ws.Dialect().String()), observability.F("topics", ws.Topics()))
	return ws.RunForever(ctx)
}

func logMessage(logger observability.Logger) bybit.Handler {
	return func(_ context.Context, msg bybit.Message) {
		logger.Info("message", observability.F("topic", msg.Topic), observability.F("bytes", len(msg.Raw)))
	}
}
