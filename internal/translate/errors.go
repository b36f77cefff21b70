package translate

import (
	"errors"
	"fmt"
)

// TranslateError reports a query the translator cannot express.
type TranslateError struct {
	Code    ErrorCode
	Message string
	Field   string // offending field, if any
}

// ErrorCode categorizes translation errors.
type ErrorCode string

const (
	// ErrCodeUnknownEntity: the query reads an entity the model does not declare.
	ErrCodeUnknownEntity ErrorCode = "UNKNOWN_ENTITY"

	// ErrCodeUnknownField: a field does not resolve to a property in scope.
	ErrCodeUnknownField ErrorCode = "UNKNOWN_FIELD"

	// ErrCodeTypeMismatch: a literal or Truth field has the wrong type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeMapping: a property's converter cannot be resolved.
	ErrCodeMapping ErrorCode = "MAPPING"

	// ErrCodeUnsupported: the dialect cannot express the construct.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED"
)

func (e *TranslateError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsTranslateError reports whether err is a *TranslateError with the given code.
func IsTranslateError(err error, code ErrorCode) bool {
	var te *TranslateError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

func errorf(code ErrorCode, field, format string, args ...any) *TranslateError {
	return &TranslateError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}
