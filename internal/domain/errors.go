package domain

import (
	"errors"
	"strings"
)

// Conditions reported back to the customer or operator as a toast. None of
// them leave state half-changed.
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrStoreClosed        = errors.New("store is closed")
	ErrCheckoutInFlight   = errors.New("order submission already in progress")
	ErrInvalidPIN         = errors.New("invalid operator PIN")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdviceInFlight     = errors.New("advice request already in progress")
	ErrMissingIdentity    = errors.New("device or session identity required")

	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrUnauthorized    = errors.New("operator mode is locked")
)

type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every field problem of a single submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Err returns nil when nothing was collected so callers can return it directly.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
