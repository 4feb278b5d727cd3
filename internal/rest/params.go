package rest

import (
	"math"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/coachpo/bybitconn/internal/signer"
)

// normalize converts integral floats to integers so the signed string and the
// transmitted value agree.
func normalize(params signer.Params) signer.Params {
	out := make(signer.Params, len(params))
	for k, v := range params {
		switch val := v.(type) {
		case float64:
			out[k] = integral(val, v)
		case float32:
			out[k] = integral(float64(val), v)
		default:
			out[k] = v
		}
	}
	return out
}

func integral(f float64, orig any) any {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return orig
	}
	d := decimal.NewFromFloat(f)
	if !d.IsInteger() || d.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return orig
	}
	return d.IntPart()
}

// encodeQuery renders sorted k=v pairs with nil values omitted.
func encodeQuery(params signer.Params, style signer.Style) string {
	var b strings.Builder
	for _, k := range params.Keys() {
		v := params[k]
		if v == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(signer.FormatValue(v, style)))
	}
	return b.String()
}

// bodyParams drops nil values before JSON encoding.
func bodyParams(params signer.Params) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// describe renders the request for error messages with credentials masked.
func describe(method, path string, params signer.Params) string {
	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(' ')
	b.WriteString(path)
	b.WriteString(": {")
	first := true
	for _, k := range params.Keys() {
		v := params[k]
		if v == nil {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(k)
		b.WriteString(": ")
		switch k {
		case signer.KeyAPIKey, signer.KeySign:
			b.WriteString("***")
		default:
			b.WriteString(signer.FormatValue(v, signer.StyleQuery))
		}
	}
	b.WriteByte('}')
	return b.String()
}
