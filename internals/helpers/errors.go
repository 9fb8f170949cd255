package helper

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const GenericErrorMessage = "Something went wrong, please try again"

// ValidationError carries field-keyed messages. Nothing is persisted when
// one is returned.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field, message string) *ValidationError {
	ve := &ValidationError{Fields: map[string][]string{}}
	ve.Add(field, message)
	return ve
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool { return e != nil && len(e.Fields) > 0 }

// OrNil returns nil when no field was flagged, so callers can `return ve.OrNil()`.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// BusinessError is an expected rule rejection (role in use, duplicate salary, ...).
type BusinessError struct {
	Status  int
	Message string
}

func (e *BusinessError) Error() string { return e.Message }

func Conflict(format string, args ...any) error {
	return &BusinessError{Status: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

func Rejected(format string, args ...any) error {
	return &BusinessError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func NotFound(resource string) error { return &NotFoundError{Resource: resource} }
