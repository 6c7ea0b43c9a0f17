// Package logging provides structured logging utilities for portify-server.
package logging

// Standard field names. The request fields double as the keys of the JSON
// request record emitted in production.
const (
	// FieldRequestID is the correlation identifier of an HTTP request.
	FieldRequestID = "requestId"

	// FieldMethod is the HTTP method of a request.
	FieldMethod = "method"

	// FieldPath is the URL path of an HTTP request.
	FieldPath = "url"

	// FieldStatusCode is the HTTP status code of a response.
	FieldStatusCode = "statusCode"

	// FieldResponseTime is the handling time in milliseconds.
	FieldResponseTime = "responseTime"

	// FieldClientIP is the client's address.
	FieldClientIP = "ip"

	// FieldUserAgent is the client's user agent string.
	FieldUserAgent = "userAgent"

	// FieldTimestamp is the ISO-8601 completion time of a request.
	FieldTimestamp = "timestamp"

	// FieldStack carries a stack trace or the detailed form of an error.
	FieldStack = "stack"

	// FieldError is the error message.
	FieldError = "error"

	// FieldComponent identifies the component generating the log.
	FieldComponent = "component"

	// FieldInstanceID identifies this server process.
	FieldInstanceID = "instance_id"
)
