package apperror

import "time"

// TimestampLayout is ISO-8601 with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Envelope is the JSON body returned for every failed request.
type Envelope struct {
	StatusCode int                `json:"statusCode"`
	Timestamp  string             `json:"timestamp"`
	Path       string             `json:"path"`
	Method     string             `json:"method"`
	Message    Message            `json:"message"`
	Error      string             `json:"error,omitempty"`
	Details    *StructuredMessage `json:"details,omitempty"`
}

// NewEnvelope builds the response body for err raised while serving method path.
func NewEnvelope(err error, method, path string, now time.Time) Envelope {
	payload := PayloadOf(err)

	env := Envelope{
		StatusCode: StatusOf(err),
		Timestamp:  now.UTC().Format(TimestampLayout),
		Path:       path,
		Method:     method,
		Message:    MessageOf(payload),
		Error:      KindOf(err),
	}

	if structured, ok := payload.(StructuredMessage); ok && structured.HasDetails() {
		env.Details = &structured
	}

	return env
}
