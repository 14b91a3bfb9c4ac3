package service

import (
	"errors"
	"fmt"

	"inventra/internal/repository"
)

// ValidationError reports malformed or missing input. Mapped to 400.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports an unresolved product, audit, user or notification id. Mapped to 404.
type NotFoundError struct{ Resource string }

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ConflictError reports a state transition that is no longer valid. Mapped to 409.
type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

// InsufficientStockError is returned by StockOut when the product holds fewer
// units than requested. The stock is left unchanged.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d, requested %d", e.Available, e.Requested)
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func notFound(resource string) error { return &NotFoundError{Resource: resource} }

func conflict(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// lookupErr turns a repository miss into a NotFoundError and wraps anything else.
func lookupErr(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(resource)
	}
	return fmt.Errorf("load %s: %w", resource, err)
}
