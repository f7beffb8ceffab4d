package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation         = errors.New("validation")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrSearchUnavailable  = errors.New("search is not configured")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrUnknownPayment     = errors.New("unknown payment method")
)

// FieldErrors maps a payload field to a human-readable problem.
type FieldErrors map[string]string

// ValidationError carries field-level detail and matches ErrValidation
// through errors.Is.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
