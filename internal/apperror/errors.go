// Package apperror defines the errors that cross the HTTP boundary.
//
// Every error a handler wants rendered with a specific status is an *HTTPError.
// Its Payload is decided where the error is created: either a bare
// StringMessage or a StructuredMessage carrying a message plus optional
// metadata. Anything else reaching the error handler is treated as an
// unexpected 500.
package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	// DefaultMessage is used when a payload carries no usable message.
	DefaultMessage = "An error occurred"

	// InternalMessage is the message shown for unrecognized failures.
	InternalMessage = "Internal server error"
)

// Error kinds reported in the "error" field of the envelope.
const (
	KindBadRequest         = "BadRequestError"
	KindUnauthorized       = "UnauthorizedError"
	KindForbidden          = "ForbiddenError"
	KindNotFound           = "NotFoundError"
	KindMethodNotAllowed   = "MethodNotAllowedError"
	KindConflict           = "ConflictError"
	KindTooManyRequests    = "TooManyRequestsError"
	KindInternal           = "InternalServerError"
	KindServiceUnavailable = "ServiceUnavailableError"
)

// Payload is the body an HTTPError was created with.
// It is implemented by StringMessage and StructuredMessage only.
type Payload interface {
	payload()
}

// StringMessage is a payload consisting of a single message string.
type StringMessage string

func (StringMessage) payload() {}

// StructuredMessage is a payload with a message and optional metadata.
type StructuredMessage struct {
	// Message is the human-facing message (string or list).
	Message Message

	// Error is a short description of the failure class, e.g. "Bad Request".
	Error string

	// StatusCode repeats the HTTP status inside the payload when set.
	StatusCode int

	// Fields holds any additional payload entries.
	Fields map[string]any
}

func (StructuredMessage) payload() {}

// HasDetails reports whether the payload carries anything beyond its message.
func (s StructuredMessage) HasDetails() bool {
	return s.Error != "" || s.StatusCode != 0 || len(s.Fields) > 0
}

// MarshalJSON flattens Fields next to message, error and statusCode.
func (s StructuredMessage) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Fields)+3)
	for k, v := range s.Fields {
		out[k] = v
	}
	out["message"] = s.Message
	if s.Error != "" {
		out["error"] = s.Error
	}
	if s.StatusCode != 0 {
		out["statusCode"] = s.StatusCode
	}
	return json.Marshal(out)
}

// Kinder is implemented by errors that expose a name for their kind.
type Kinder interface {
	ErrorKind() string
}

// HTTPError is an error carrying its own HTTP status and response payload.
type HTTPError struct {
	Status  int
	Kind    string
	Payload Payload
	cause   error
}

// New creates an HTTPError. A nil payload is replaced by the status text.
func New(status int, kind string, payload Payload) *HTTPError {
	if payload == nil {
		payload = StructuredMessage{Message: Text(http.StatusText(status))}
	}
	return &HTTPError{Status: status, Kind: kind, Payload: payload}
}

// Error implements error.
func (e *HTTPError) Error() string {
	msg := MessageOf(e.Payload).String()
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// ErrorKind implements Kinder.
func (e *HTTPError) ErrorKind() string {
	return e.Kind
}

// WithCause attaches the underlying error. The cause is logged, never sent to clients.
func (e *HTTPError) WithCause(err error) *HTTPError {
	e.cause = err
	return e
}

func simple(status int, kind, message string) *HTTPError {
	if message == "" {
		message = http.StatusText(status)
	}
	return New(status, kind, StructuredMessage{Message: Text(message)})
}

// BadRequest returns a 400 error.
func BadRequest(message string) *HTTPError {
	return simple(http.StatusBadRequest, KindBadRequest, message)
}

// Unauthorized returns a 401 error.
func Unauthorized(message string) *HTTPError {
	return simple(http.StatusUnauthorized, KindUnauthorized, message)
}

// Forbidden returns a 403 error.
func Forbidden(message string) *HTTPError {
	return simple(http.StatusForbidden, KindForbidden, message)
}

// NotFound returns a 404 error.
func NotFound(message string) *HTTPError {
	return simple(http.StatusNotFound, KindNotFound, message)
}

// MethodNotAllowed returns a 405 error.
func MethodNotAllowed(message string) *HTTPError {
	return simple(http.StatusMethodNotAllowed, KindMethodNotAllowed, message)
}

// Conflict returns a 409 error.
func Conflict(message string) *HTTPError {
	return simple(http.StatusConflict, KindConflict, message)
}

// TooManyRequests returns a 429 error.
func TooManyRequests(message string) *HTTPError {
	return simple(http.StatusTooManyRequests, KindTooManyRequests, message)
}

// ServiceUnavailable returns a 503 error.
func ServiceUnavailable(message string) *HTTPError {
	return simple(http.StatusServiceUnavailable, KindServiceUnavailable, message)
}

// Internal returns a 500 error hiding err from the client.
func Internal(err error) *HTTPError {
	return New(http.StatusInternalServerError, KindInternal,
		StructuredMessage{Message: Text(InternalMessage)}).WithCause(err)
}

// Wrap returns an error with the given status whose message is err's text.
// A 5xx status hides err behind the generic internal message.
func Wrap(status int, err error) *HTTPError {
	if status >= http.StatusInternalServerError {
		return New(status, KindInternal, StructuredMessage{Message: Text(InternalMessage)}).WithCause(err)
	}
	return New(status, kindForStatus(status), StructuredMessage{Message: Text(err.Error())}).WithCause(err)
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusMethodNotAllowed:
		return KindMethodNotAllowed
	case http.StatusConflict:
		return KindConflict
	case http.StatusTooManyRequests:
		return KindTooManyRequests
	default:
		return ""
	}
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Status != 0 {
		return httpErr.Status
	}
	return http.StatusInternalServerError
}

// KindOf returns the kind name exposed by err, or "".
func KindOf(err error) string {
	var k Kinder
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return ""
}

// PayloadOf returns the payload of an HTTPError in err's chain. Unrecognized
// errors get a generic internal-error payload.
func PayloadOf(err error) Payload {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Payload
	}
	return StructuredMessage{Message: Text(InternalMessage)}
}

// MessageOf extracts the human-facing message from a payload.
func MessageOf(p Payload) Message {
	switch v := p.(type) {
	case StringMessage:
		return Text(string(v))
	case StructuredMessage:
		if v.Message.IsZero() {
			return Text(DefaultMessage)
		}
		return v.Message
	default:
		return Text(DefaultMessage)
	}
}
