package services

import (
	"errors"
	"fmt"
	"strings"

	"alfredoptarigan/cv-architect/internal/models"
)

// Operation names one of the four model operations.
type Operation string

const (
	OpGenerate Operation = "generate"
	OpRefine   Operation = "refine"
	OpRate     Operation = "rate"
	OpFormat   Operation = "format"
)

// ErrorKind is the failure taxonomy surfaced to users.
type ErrorKind string

const (
	KindMissingCredential  ErrorKind = "missing-credential"
	KindInvalidCredential  ErrorKind = "invalid-credential"
	KindMalformedResponse  ErrorKind = "malformed-response"
	KindTransientService   ErrorKind = "transient-service-error"
	KindGenericService     ErrorKind = "generic-service-error"
	KindEmptyFormatting    ErrorKind = "empty-formatting-result"
	KindInvalidImageFormat ErrorKind = "invalid-image-format"
)

var (
	ErrMissingCredential  = errors.New("API Key is required.")
	ErrInvalidImageFormat = errors.New("Invalid Base64 image format provided for rating.")
	ErrEmptyFormatting    = errors.New("AI returned an empty response during formatting.")
)

// InvocationError is the single error type returned by model operations.
// Message is the final user-facing text.
type InvocationError struct {
	Op      Operation
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *InvocationError) Error() string {
	return e.Message
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// KindOf returns the taxonomy kind of err, or KindGenericService when err is
// not an InvocationError.
func KindOf(err error) ErrorKind {
	var invErr *InvocationError
	if errors.As(err, &invErr) {
		return invErr.Kind
	}
	return KindGenericService
}

// MalformedResponseError reports a decoded response that broke the contract.
// Raw holds the decoded object for diagnostics.
type MalformedResponseError struct {
	Op     Operation
	Fields []FieldError
	Raw    any
}

type FieldError struct {
	Field   string
	Message string
}

func (e *MalformedResponseError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("'%s' (%s)", f.Field, f.Message))
	}
	return fmt.Sprintf("AI response was missing required content: %s", strings.Join(parts, ", "))
}

// FieldNames lists the offending fields in report order.
func (e *MalformedResponseError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return names
}

// newInvocationError picks the user-facing message for op and kind. style is
// only used in generation messages.
func newInvocationError(op Operation, style models.CvStyle, kind ErrorKind, err error) *InvocationError {
	return &InvocationError{
		Op:      op,
		Kind:    kind,
		Message: userMessage(op, style, kind, err),
		Err:     err,
	}
}

const invalidCredentialMessage = "The provided API Key is not valid. Please check your key and try again."

func userMessage(op Operation, style models.CvStyle, kind ErrorKind, err error) string {
	switch kind {
	case KindMissingCredential, KindInvalidImageFormat, KindEmptyFormatting:
		return err.Error()

	case KindInvalidCredential:
		return invalidCredentialMessage

	case KindMalformedResponse:
		var contractErr *MalformedResponseError
		if errors.As(err, &contractErr) {
			return genericMessage(op, style, contractErr)
		}
		switch op {
		case OpRefine:
			return "The AI returned an invalid format during refinement. Please try your request again with different phrasing."
		case OpRate:
			return "The AI returned an invalid format while rating. Please try again."
		case OpFormat:
			return genericMessage(op, style, err)
		default:
			return "The AI returned an invalid format. This can happen with complex input. Please try simplifying your text."
		}

	case KindTransientService:
		switch op {
		case OpRefine:
			return "The AI service encountered a temporary error during refinement. Please try your request again."
		case OpRate:
			return "The AI service encountered a temporary error while rating the CV. Please try again in a moment."
		case OpFormat:
			return "The AI service encountered a temporary error while formatting. Please try again."
		default:
			return "The AI service encountered a temporary error. This could be due to long input. Please try again, or shorten the text in the 'Brain Dump' area."
		}
	}

	return genericMessage(op, style, err)
}

func genericMessage(op Operation, style models.CvStyle, err error) string {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}

	switch op {
	case OpGenerate:
		if style != "" {
			return fmt.Sprintf("Failed to generate CV (%s): %s", style, detail)
		}
		return fmt.Sprintf("Failed to generate CV: %s", detail)
	case OpRefine:
		return fmt.Sprintf("Failed to refine CV: %s", detail)
	case OpRate:
		return fmt.Sprintf("Failed to rate CV: %s", detail)
	case OpFormat:
		return fmt.Sprintf("Failed to format input: %s", detail)
	}
	return detail
}
