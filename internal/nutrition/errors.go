package nutrition

import (
	"errors"
	"fmt"
)

// ValidationReason names the structural expectation a model response violated.
type ValidationReason string

const (
	MalformedResponse     ValidationReason = "MalformedResponse"
	InvalidShape          ValidationReason = "InvalidShape"
	EmptyPlan             ValidationReason = "EmptyPlan"
	MissingRequiredFields ValidationReason = "MissingRequiredFields"
)

var (
	ErrMalformedResponse     = errors.New("malformed model response")
	ErrInvalidShape          = errors.New("model response has invalid shape")
	ErrEmptyPlan             = errors.New("model response contains no days")
	ErrMissingRequiredFields = errors.New("model response is missing required fields")

	// ErrUpstreamUnavailable marks a failed call to the language model itself.
	ErrUpstreamUnavailable = errors.New("language model unavailable")
)

var reasonSentinels = map[ValidationReason]error{
	MalformedResponse:     ErrMalformedResponse,
	InvalidShape:          ErrInvalidShape,
	EmptyPlan:             ErrEmptyPlan,
	MissingRequiredFields: ErrMissingRequiredFields,
}

// ValidationError is returned when a model response cannot be used as-is.
type ValidationError struct {
	Reason ValidationReason
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return string(e.Reason)
}

// Is lets errors.Is match the reason sentinels.
func (e *ValidationError) Is(target error) bool {
	return reasonSentinels[e.Reason] == target
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(reason ValidationReason, err error) *ValidationError {
	return &ValidationError{Reason: reason, Err: err}
}

// ConfigurationError reports a profile that cannot be fed to the calculator.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid profile field %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is a model-output validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
