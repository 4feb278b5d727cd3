// Package signer derives the HMAC-SHA256 signatures Bybit expects on private
// REST requests and on websocket auth frames. Everything here is pure.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/coachpo/bybitconn/errs"
)

// Reserved parameter names injected or stripped during signing.
const (
	KeyAPIKey     = "api_key"
	KeyRecvWindow = "recv_window"
	KeyTimestamp  = "timestamp"
	KeySign       = "sign"
)

// Credentials holds the API key pair. Immutable per session.
type Credentials struct {
	Key    string
	Secret string
}

// Valid reports whether both halves of the key pair are present.
func (c Credentials) Valid() bool {
	return c.Key != "" && c.Secret != ""
}

// Params is the parameter map of one request. Nil values are omitted on the wire.
type Params map[string]any

// Clone returns a shallow copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Keys returns the parameter names sorted byte-wise.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Style selects how values are serialized into the canonical string.
type Style int

const (
	// StyleQuery is used when parameters travel in a query string.
	StyleQuery Style = iota
	// StyleBody is used when parameters travel in a JSON body; booleans are lower-case there.
	StyleBody
)

// Prepare returns a copy of params with api_key, recv_window and timestamp injected.
func Prepare(creds Credentials, params Params, timestampMs, recvWindowMs int64) (Params, error) {
	if !creds.Valid() {
		return nil, errs.New(errs.CodeConfiguration,
			errs.WithMessage("Authenticated endpoints require keys."),
			errs.WithRemediation("configure api key and secret"))
	}
	out := params.Clone()
	out[KeyAPIKey] = creds.Key
	out[KeyRecvWindow] = recvWindowMs
	out[KeyTimestamp] = timestampMs
	return out, nil
}

// Canonical builds the string that is signed: sign and nil entries dropped,
// keys sorted byte-wise, key=value pairs joined with '&'.
func Canonical(params Params, style Style) string {
	var b strings.Builder
	for _, k := range params.Keys() {
		v := params[k]
		if k == KeySign || v == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(FormatValue(v, style))
	}
	return b.String()
}

// Digest returns hex(HMAC-SHA256(secret, payload)).
func Digest(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign injects the auth fields into a copy of params and signs the canonical string.
// The returned params do not carry the signature; callers add it under KeySign.
func Sign(creds Credentials, params Params, timestampMs, recvWindowMs int64, style Style) (Params, string, error) {
	prepared, err := Prepare(creds, params, timestampMs, recvWindowMs)
	if err != nil {
		return nil, "", err
	}
	return prepared, Digest(creds.Secret, Canonical(prepared, style)), nil
}

// AuthSignature signs the websocket auth template for an expiry in epoch milliseconds.
func AuthSignature(secret string, expiresMs int64) string {
	return Digest(secret, "GET/realtime"+strconv.FormatInt(expiresMs, 10))
}

// FormatValue renders a parameter value the way it is transmitted.
func FormatValue(v any, style Style) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if style == StyleBody {
			return strconv.FormatBool(val)
		}
		if val {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return formatFloat(float64(val))
	case float64:
		return formatFloat(val)
	case decimal.Decimal:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return decimal.NewFromFloat(f).String()
}
