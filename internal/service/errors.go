package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSaveInProgress is returned by a write while another write on the
	// same view is still in flight. No request is issued.
	ErrSaveInProgress = errors.New("save already in progress")
	ErrClosed         = errors.New("view is closed")
)

// ValidationError reports per-field problems found before any request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
