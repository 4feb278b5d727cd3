package stream

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/coachpo/bybitconn/errs"
)

// ErrorTopic is reserved for the connection error handler.
const ErrorTopic = "error_cb"

// Message is one decoded inbound event.
type Message struct {
	Topic  string
	Fields map[string]any
	Raw    json.RawMessage
}

// Decode unmarshals the raw frame into v.
func (m Message) Decode(v any) error {
	if err := json.Unmarshal(m.Raw, v); err != nil {
		return fmt.Errorf("decode %s message: %w", m.Topic, err)
	}
	return nil
}

// Handler consumes messages of one canonical topic.
type Handler func(ctx context.Context, msg Message)

// ErrorHandler receives connection-level errors.
type ErrorHandler func(ctx context.Context, err error)

// Router maps canonical topics to handlers. Bindings survive reconnects.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	onError  ErrorHandler
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{
		mu:       sync.RWMutex{},
		handlers: make(map[string]Handler),
		onError:  nil,
	}
}

// Bind registers handler for topic, replacing any previous binding.
func (r *Router) Bind(topic string, handler Handler) error {
	topic = strings.TrimSpace(topic)
	switch {
	case topic == "":
		return errs.New(errs.CodeInvalid, errs.WithMessage("topic required"))
	case topic == ErrorTopic:
		return errs.New(errs.CodeInvalid, errs.WithMessage("topic "+ErrorTopic+" is reserved; use BindError"))
	case handler == nil:
		return errs.New(errs.CodeInvalid, errs.WithMessage("handler required for "+topic))
	}
	r.mu.Lock()
	r.handlers[topic] = handler
	r.mu.Unlock()
	return nil
}

// Unbind removes the binding for topic.
func (r *Router) Unbind(topic string) {
	r.mu.Lock()
	delete(r.handlers, strings.TrimSpace(topic))
	r.mu.Unlock()
}

// BindError sets the error handler. A nil handler clears it.
func (r *Router) BindError(handler ErrorHandler) {
	r.mu.Lock()
	r.onError = handler
	r.mu.Unlock()
}

// HasErrorHandler reports whether an error handler is bound.
func (r *Router) HasErrorHandler() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.onError != nil
}

// Dispatch invokes the handler bound to msg.Topic. Unbound topics are dropped.
func (r *Router) Dispatch(ctx context.Context, msg Message) bool {
	r.mu.RLock()
	handler, ok := r.handlers[msg.Topic]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	handler(ctx, msg)
	return true
}

// EmitError forwards err to the error handler when one is bound.
func (r *Router) EmitError(ctx context.Context, err error) bool {
	r.mu.RLock()
	handler := r.onError
	r.mu.RUnlock()
	if handler == nil {
		return false
	}
	handler(ctx, err)
	return true
}

// Topics lists bound topics in sorted order.
func (r *Router) Topics() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		out = append(out, topic)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Canonicalize returns the handler key for a subscription.
func Canonicalize(dialect Dialect, sub Subscription) (string, error) {
	if dialect == DialectSpotPublic {
		return spotTopic(sub.fields())
	}
	if sub.Topic == "" {
		return "", protocolError("subscription topic missing")
	}
	return sub.Topic, nil
}

// CanonicalMessage returns the handler key for an inbound message object.
func CanonicalMessage(dialect Dialect, fields map[string]any) (string, error) {
	switch dialect {
	case DialectSpotPublic:
		return spotTopic(fields)
	case DialectSpotPrivate:
		if e, ok := fields["e"].(string); ok && e != "" {
			return e, nil
		}
		return "", protocolError("'e' missing in %v", fields)
	default:
		if topic, ok := fields["topic"].(string); ok && topic != "" {
			return topic, nil
		}
		return "", protocolError("'topic' missing in %v", fields)
	}
}

// spotTopic builds topic + V1|V2 [+ "." + klineType|dumpScale] + "." + symbol,
// e.g. klineV1.1m.BTCUSDT, tradeV2.BTCUSDT, mergedDepthV1.1.BTCUSDT.
func spotTopic(fields map[string]any) (string, error) {
	name, ok := fields["topic"].(string)
	if !ok || name == "" {
		return "", protocolError("'topic' missing in %v", fields)
	}
	symbol, bare := fields["symbol"]

	var b strings.Builder
	b.WriteString(name)
	if bare {
		b.WriteString("V1")
	} else {
		b.WriteString("V2")
	}

	params, _ := fields["params"].(map[string]any)
	if kline, ok := params["klineType"]; ok {
		b.WriteString("." + scalar(kline))
	} else if scale, ok := params["dumpScale"]; ok {
		b.WriteString("." + scalar(scale))
	}

	if !bare {
		symbol, ok = params["symbol"]
		if !ok {
			return "", protocolError("'symbol' missing in %v", fields)
		}
	}
	b.WriteString("." + scalar(symbol))
	return b.String(), nil
}

func scalar(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
