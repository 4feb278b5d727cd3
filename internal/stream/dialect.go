// Package stream drives Bybit websocket sessions: dialect detection,
// subscription validation, topic routing, the connection state machine and
// the reconnect supervisor.
package stream

import "strings"

// Dialect is one of the three incompatible websocket wire formats.
type Dialect int

const (
	// DialectDerivatives covers inverse, linear and futures realtime endpoints.
	DialectDerivatives Dialect = iota
	// DialectSpotPublic covers the versioned spot quote endpoints.
	DialectSpotPublic
	// DialectSpotPrivate covers the spot account endpoint.
	DialectSpotPrivate
)

func (d Dialect) String() string {
	switch d {
	case DialectSpotPublic:
		return "spot_public"
	case DialectSpotPrivate:
		return "spot_private"
	default:
		return "derivatives"
	}
}

// DetectDialect infers the dialect from the endpoint URL.
func DetectDialect(endpoint string) Dialect {
	if !strings.Contains(endpoint, "spot") {
		return DialectDerivatives
	}
	if strings.Contains(endpoint, "v1") || strings.Contains(endpoint, "v2") {
		return DialectSpotPublic
	}
	return DialectSpotPrivate
}
