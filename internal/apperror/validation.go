package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Validation converts a request validation failure into a 400 error.
//
// validator.ValidationErrors become one message per failed field, wrapped in a
// structured payload that also carries the error class and status. Other
// errors (malformed JSON, for example) become a plain BadRequest.
func Validation(err error) *HTTPError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return BadRequest(err.Error()).WithCause(err)
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, FieldMessage(fe))
	}

	return New(http.StatusBadRequest, KindBadRequest, StructuredMessage{
		Message:    List(messages...),
		Error:      http.StatusText(http.StatusBadRequest),
		StatusCode: http.StatusBadRequest,
	}).WithCause(err)
}

// FieldMessage renders a single field validation failure.
func FieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}
