package repositories

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing and soft-deleted rows alike
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateEntry is returned when a unique index rejects a write
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrForeignKey is returned when a write references a row that does not exist
	ErrForeignKey = errors.New("referenced entity does not exist")

	ErrInvalidID   = errors.New("invalid ID")
	ErrValidation  = errors.New("validation error")
	ErrTransaction = errors.New("transaction error")
	ErrConnection  = errors.New("database connection error")
)

// RepositoryError records which operation on which entity failed. Field names the
// column of a constraint failure when known.
type RepositoryError struct {
	Op      string
	Entity  string
	ID      string
	Field   string
	Err     error
	Message string
}

func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.ID != "" {
		return fmt.Sprintf("%s %s operation failed for ID %s: %v", e.Entity, e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError wraps a driver failure
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{Op: op, Entity: entity, ID: id, Err: err}
}

func NotFoundError(entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:      "get",
		Entity:  entity,
		ID:      id,
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with ID %s not found", entity, id),
	}
}

// DuplicateError reports a unique index violation on field
func DuplicateError(entity, field, value string) *RepositoryError {
	return &RepositoryError{
		Op:      "create",
		Entity:  entity,
		Field:   field,
		Err:     ErrDuplicateEntry,
		Message: fmt.Sprintf("%s with %s '%s' already exists", entity, field, value),
	}
}

// ForeignKeyError reports a write naming a missing parent, e.g. an invoice for a purged client
func ForeignKeyError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Entity:  entity,
		ID:      id,
		Err:     fmt.Errorf("%w: %v", ErrForeignKey, err),
		Message: fmt.Sprintf("%s %s references a record that does not exist", entity, op),
	}
}

func ValidationError(entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      "validate",
		Entity:  entity,
		ID:      id,
		Err:     fmt.Errorf("%w: %w", ErrValidation, err),
		Message: fmt.Sprintf("validation failed for %s: %v", entity, err),
	}
}

func TransactionError(op string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Entity:  "transaction",
		Err:     fmt.Errorf("%w: %v", ErrTransaction, err),
		Message: fmt.Sprintf("transaction %s failed: %v", op, err),
	}
}

func ConnectionError(err error) *RepositoryError {
	return &RepositoryError{
		Op:      "connect",
		Entity:  "database",
		Err:     fmt.Errorf("%w: %v", ErrConnection, err),
		Message: fmt.Sprintf("database connection failed: %v", err),
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEntry)
}

func IsForeignKey(err error) bool {
	return errors.Is(err, ErrForeignKey)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// ConflictField returns the column named by a duplicate error, or ""
func ConflictField(err error) string {
	var re *RepositoryError
	if errors.As(err, &re) {
		return re.Field
	}
	return ""
}
