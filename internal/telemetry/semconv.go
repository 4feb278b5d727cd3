// Package telemetry provides semantic conventions and instrument sets for connector observability.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys follow OpenTelemetry naming: namespace.attribute_name.
const (
	// AttrOperation differentiates connector operations (rest.execute, stream.connect, ...).
	AttrOperation = attribute.Key("operation")
	// AttrResult records the outcome of an operation (success, retry, error class).
	AttrResult = attribute.Key("result")
	// AttrMethod records the HTTP verb of a REST attempt.
	AttrMethod = attribute.Key("http.method")
	// AttrPath records the venue path without query string.
	AttrPath = attribute.Key("http.path")
	// AttrRetCode carries the venue ret_code of a response.
	AttrRetCode = attribute.Key("bybit.ret_code")
	// AttrErrorType categorizes failures by error code family.
	AttrErrorType = attribute.Key("error.type")
	// AttrDialect labels stream signals with the wire dialect.
	AttrDialect = attribute.Key("stream.dialect")
	// AttrTopic carries the canonical topic of a dispatched frame.
	AttrTopic = attribute.Key("stream.topic")
	// AttrConnectionState labels connection lifecycle signals.
	AttrConnectionState = attribute.Key("connection.state")
	// AttrRequestID correlates spans and logs for one REST call.
	AttrRequestID = attribute.Key("request.id")
)

// Result values.
const (
	ResultSuccess = "success"
	ResultIgnored = "ignored"
	ResultRetry   = "retry"
	ResultError   = "error"
	ResultDropped = "dropped"
)

// RESTAttributes returns attributes shared by REST attempt metrics.
func RESTAttributes(method, path, result string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrMethod.String(method),
		AttrPath.String(path),
		AttrResult.String(result),
	}
}

// StreamAttributes returns attributes shared by stream metrics.
func StreamAttributes(dialect, result string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrDialect.String(dialect),
		AttrResult.String(result),
	}
}
