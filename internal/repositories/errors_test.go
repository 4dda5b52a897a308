package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepositoryErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		notFound  bool
		duplicate bool
		invalid   bool
		foreign   bool
	}{
		{"not found", NotFoundError("branch", "b1"), true, false, false, false},
		{"wrapped not found", fmt.Errorf("load: %w", NotFoundError("client", "c1")), true, false, false, false},
		{"duplicate", DuplicateError("invoice", "invoice_number", "DOW-00001"), false, true, false, false},
		{"validation", ValidationError("company", "", errors.New("name is required")), false, false, true, false},
		{"foreign key", ForeignKeyError("create", "invoice", "", errors.New("FOREIGN KEY constraint failed")), false, false, false, true},
		{"plain", errors.New("boom"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.duplicate, IsDuplicate(tt.err))
			assert.Equal(t, tt.invalid, IsValidation(tt.err))
			assert.Equal(t, tt.foreign, IsForeignKey(tt.err))
		})
	}
}

func TestRepositoryErrorMessages(t *testing.T) {
	assert.Equal(t, "branch with ID b1 not found", NotFoundError("branch", "b1").Error())
	assert.Equal(t, "invoice with invoice_number 'DOW-00001' already exists",
		DuplicateError("invoice", "invoice_number", "DOW-00001").Error())
	assert.Equal(t, "client list operation failed: boom",
		NewRepositoryError("list", "client", "", errors.New("boom")).Error())
	assert.Equal(t, "client get operation failed for ID c1: boom",
		NewRepositoryError("get", "client", "c1", errors.New("boom")).Error())
	assert.True(t, errors.Is(TransactionError("commit", errors.New("locked")), ErrTransaction))
	assert.True(t, errors.Is(ConnectionError(errors.New("refused")), ErrConnection))

	assert.Equal(t, "invoice create references a record that does not exist",
		ForeignKeyError("create", "invoice", "", errors.New("fk")).Error())
}

func TestConflictField(t *testing.T) {
	assert.Equal(t, "gst_number", ConflictField(fmt.Errorf("save: %w", DuplicateError("company", "gst_number", "X"))))
	assert.Equal(t, "", ConflictField(NotFoundError("client", "c1")))
	assert.Equal(t, "", ConflictField(errors.New("boom")))
}
