package stream

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coachpo/bybitconn/errs"
	"github.com/coachpo/bybitconn/internal/signer"
)

// Implicit spot private topics, added after a successful auth.
var spotPrivateTopics = []string{"outboundAccountInfo", "executionReport", "ticketInfo"}

// Derivative topics that are invalid without a ticker or currency suffix.
var bareTopicHints = map[string]string{
	"trade":       "'trade' requires a ticker, e.g. 'trade.BTCUSD'.",
	"insurance":   "'insurance' requires a currency, e.g. 'insurance.BTC'.",
	"liquidation": "'liquidation' requires a ticker, e.g. 'liquidation.BTCUSD'.",
}

var privateTopics = map[string]struct{}{
	"position":   {},
	"execution":  {},
	"order":      {},
	"stop_order": {},
	"wallet":     {},
}

// Subscription describes one stream. Derivative and spot private
// subscriptions only use Topic; spot public ones use the structured fields.
type Subscription struct {
	Topic  string
	Symbol string
	Params map[string]any
	Event  string
}

// Topic is an opaque derivatives topic such as "orderBookL2_25.BTCUSD".
func Topic(name string) Subscription {
	return Subscription{Topic: name}
}

// Public is a spot public v2 subscription; the symbol lives in params.
func Public(topic string, params map[string]any) Subscription {
	return Subscription{Topic: topic, Params: params, Event: "sub"}
}

// PublicV1 is a spot public v1 subscription carrying a bare symbol.
func PublicV1(topic, symbol string, params map[string]any) Subscription {
	return Subscription{Topic: topic, Symbol: symbol, Params: params, Event: "sub"}
}

// Topics wraps opaque topic strings.
func Topics(names ...string) []Subscription {
	out := make([]Subscription, 0, len(names))
	for _, name := range names {
		out = append(out, Topic(name))
	}
	return out
}

// fields renders the subscription the way the venue echoes it back.
func (s Subscription) fields() map[string]any {
	out := map[string]any{"topic": s.Topic}
	if s.Symbol != "" {
		out["symbol"] = s.Symbol
	}
	if s.Params != nil {
		out["params"] = s.Params
	}
	event := s.Event
	if event == "" {
		event = "sub"
	}
	out["event"] = event
	return out
}

// ParseTopics turns configured topic strings into subscriptions. Spot public
// strings use the canonical handler form, e.g. "tradeV2.BTCUSDT" or
// "klineV1.1m.BTCUSDT"; other dialects take the strings as opaque topics.
func ParseTopics(dialect Dialect, names ...string) ([]Subscription, error) {
	if dialect != DialectSpotPublic {
		return Topics(names...), nil
	}
	out := make([]Subscription, 0, len(names))
	for _, name := range names {
		sub, err := parseSpotTopic(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func parseSpotTopic(name string) (Subscription, error) {
	parts := strings.Split(name, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Subscription{}, configError(fmt.Sprintf("spot topic %q must look like tradeV2.BTCUSDT or klineV1.1m.BTCUSDT", name))
	}
	head, symbol := parts[0], parts[len(parts)-1]
	var topic string
	v1 := strings.HasSuffix(head, "V1")
	switch {
	case v1:
		topic = strings.TrimSuffix(head, "V1")
	case strings.HasSuffix(head, "V2"):
		topic = strings.TrimSuffix(head, "V2")
	}
	if topic == "" || symbol == "" {
		return Subscription{}, configError(fmt.Sprintf("spot topic %q needs a V1|V2 topic and a symbol", name))
	}
	params := map[string]any{}
	if len(parts) == 3 {
		if topic == "kline" {
			params["klineType"] = parts[1]
		} else {
			params["dumpScale"] = parts[1]
		}
	}
	if v1 {
		return PublicV1(topic, symbol, params), nil
	}
	params["symbol"] = symbol
	return Public(topic, params), nil
}

// PrepareSubscriptions validates a caller subscription list for the dialect
// and returns the list that will be sent. Private streams need both halves
// of creds.
func PrepareSubscriptions(dialect Dialect, subs []Subscription, creds signer.Credentials) ([]Subscription, error) {
	if dialect == DialectSpotPrivate {
		if !creds.Valid() {
			return nil, configError("Spot private streams require an API key and secret.")
		}
		return Topics(spotPrivateTopics...), nil
	}
	if len(subs) == 0 {
		return nil, configError("Subscription list cannot be empty!")
	}
	switch dialect {
	case DialectSpotPublic:
		if creds.Key != "" {
			return nil, configError("Public topics do not require authentication!")
		}
		for _, sub := range subs {
			if _, err := Canonicalize(dialect, sub); err != nil {
				return nil, configError(fmt.Sprintf("invalid spot subscription %+v: %v", sub.fields(), errMessage(err)))
			}
		}
	case DialectDerivatives:
		for _, sub := range subs {
			if hint, ok := bareTopicHints[sub.Topic]; ok {
				return nil, configError(hint)
			}
			if _, ok := privateTopics[sub.Topic]; ok && !creds.Valid() {
				return nil, configError("You must be authorized to use private topics!")
			}
		}
	}
	return append([]Subscription(nil), subs...), nil
}

func errMessage(err error) string {
	var e *errs.E
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

func configError(msg string) error {
	return errs.New(errs.CodeConfiguration, errs.WithMessage(msg))
}

func protocolError(format string, args ...any) error {
	return errs.New(errs.CodeProtocol, errs.WithMessage(fmt.Sprintf(format, args...)))
}
