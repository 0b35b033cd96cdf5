package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Field error kinds reported to API callers
const (
	ErrTypeMissing            = "missing"
	ErrTypeGreaterThanEqual   = "greater_than_equal"
	ErrTypeLessThanEqual      = "less_than_equal"
	ErrTypeInvalidType        = "type_error"
	ErrTypeInvalidJSON        = "json_invalid"
	ErrTypeInvalidValue       = "value_error"
	ErrTypeStringTooShort     = "string_too_short"
	ErrTypeFiniteNumber       = "finite_number"
	fieldPathSeparator        = "."
	validationErrorMessageTag = "validation failed"
)

// FieldError describes a single rejected field
type FieldError struct {
	Field   string `json:"field"`   // Dotted path, e.g. "body.structure.verse_count"
	Message string `json:"message"` // Human readable reason
	Type    string `json:"type"`    // Machine readable kind
}

// ValidationError is returned whenever input violates a bound or a required field
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return validationErrorMessageTag
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return validationErrorMessageTag + ": " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, message, kind string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message, Type: kind}}}
}

// Validator accumulates field errors under a path prefix.
// Nested validators share the same error list as their parent.
type Validator struct {
	prefix string
	errs   *[]FieldError
}

// NewValidator creates a validator rooted at prefix (may be empty)
func NewValidator(prefix string) *Validator {
	return &Validator{prefix: prefix, errs: &[]FieldError{}}
}

// Nested returns a validator writing into the same list under prefix.field
func (v *Validator) Nested(field string) *Validator {
	return &Validator{prefix: v.path(field), errs: v.errs}
}

func (v *Validator) path(field string) string {
	if v.prefix == "" {
		return field
	}
	return v.prefix + fieldPathSeparator + field
}

// Add records a field error
func (v *Validator) Add(field, message, kind string) {
	*v.errs = append(*v.errs, FieldError{Field: v.path(field), Message: message, Type: kind})
}

// Required rejects empty strings
func (v *Validator) Required(field, value string) {
	if value == "" {
		v.Add(field, "Field required", ErrTypeMissing)
	}
}

// NonEmpty rejects empty or whitespace-only strings
func (v *Validator) NonEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "String should have at least 1 character", ErrTypeStringTooShort)
	}
}

// IntRange rejects values outside [minValue, maxValue]
func (v *Validator) IntRange(field string, value, minValue, maxValue int) {
	switch {
	case value < minValue:
		v.Add(field, fmt.Sprintf("Input should be greater than or equal to %d", minValue), ErrTypeGreaterThanEqual)
	case value > maxValue:
		v.Add(field, fmt.Sprintf("Input should be less than or equal to %d", maxValue), ErrTypeLessThanEqual)
	}
}

// FloatRange rejects values outside [minValue, maxValue]. NaN and the
// infinities are rejected as well.
func (v *Validator) FloatRange(field string, value, minValue, maxValue float64) {
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0):
		v.Add(field, "Input should be a finite number", ErrTypeFiniteNumber)
	case value < minValue:
		v.Add(field, fmt.Sprintf("Input should be greater than or equal to %g", minValue), ErrTypeGreaterThanEqual)
	case value > maxValue:
		v.Add(field, fmt.Sprintf("Input should be less than or equal to %g", maxValue), ErrTypeLessThanEqual)
	}
}

// Err returns a *ValidationError when anything was recorded, nil otherwise
func (v *Validator) Err() error {
	if len(*v.errs) == 0 {
		return nil
	}
	out := make([]FieldError, len(*v.errs))
	copy(out, *v.errs)
	return &ValidationError{Errors: out}
}

// DecodeError converts a JSON decoding failure into a ValidationError so that
// wrong types surface the same way as out-of-bounds values.
func DecodeError(err error, prefix string) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		field := joinPath(prefix, typeErr.Field)
		return NewValidationError(field, fmt.Sprintf("Input should be a valid %s", typeErr.Type.String()), ErrTypeInvalidType)
	case errors.As(err, &syntaxErr):
		return NewValidationError(joinPath(prefix, ""), "JSON decode error: "+syntaxErr.Error(), ErrTypeInvalidJSON)
	default:
		return NewValidationError(joinPath(prefix, ""), err.Error(), ErrTypeInvalidJSON)
	}
}

func joinPath(prefix, field string) string {
	switch {
	case prefix == "" && field == "":
		return "body"
	case prefix == "":
		return field
	case field == "":
		return prefix
	default:
		return prefix + fieldPathSeparator + field
	}
}

// decodeMap fills out from a plain keyed mapping using the JSON field names
func decodeMap(m map[string]any, out any) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return DecodeError(err, "")
	}
	return nil
}
