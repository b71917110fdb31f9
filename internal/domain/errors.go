package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors, free of transport and storage dependencies.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDuplicate       = errors.New("duplicate entry")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrMissingIdentity = errors.New("user ID is required")

	// Inventory engine failures.
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidProductData = errors.New("invalid product data")
	ErrProductNotFound    = errors.New("product not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrStorage            = errors.New("storage error")
)

// LineError ties an engine failure to the request line that caused it.
type LineError struct {
	Err       error
	Index     int
	ProductID int64
	Barcode   string
	Requested int64
	Available int64
	Reason    string
}

func (e *LineError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	switch {
	case e.ProductID != 0:
		fmt.Fprintf(&b, " for product %d", e.ProductID)
	case e.Barcode != "":
		fmt.Fprintf(&b, " for barcode %s", e.Barcode)
	default:
		fmt.Fprintf(&b, " at item %d", e.Index)
	}
	if errors.Is(e.Err, ErrInsufficientStock) {
		fmt.Fprintf(&b, ": requested %d, available %d", e.Requested, e.Available)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *LineError) Unwrap() error { return e.Err }

// StorageFault wraps a driver error so callers can match ErrStorage.
func StorageFault(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
