package billing

import (
	"errors"
	"fmt"
)

// Engine errors. Callers classify them with errors.Is.
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidLineItem     = errors.New("invalid line item")
	ErrEmptyInvoice        = errors.New("at least one item is required to create an invoice")
	ErrInvalidFilter       = errors.New("invalid report filter")
)

// LookupError carries the id that failed to resolve
type LookupError struct {
	Err error
	ID  string
}

// Error implements the error interface
func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.ID)
}

// Unwrap returns the underlying sentinel
func (e *LookupError) Unwrap() error {
	return e.Err
}

// ItemError locates a pricing failure within a request
type ItemError struct {
	Index int
	Field string
	Err   error
}

// Error implements the error interface
func (e *ItemError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("items[%d].%s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("items[%d]: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error
func (e *ItemError) Unwrap() error {
	return e.Err
}
