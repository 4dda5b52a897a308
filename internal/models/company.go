package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Company is the tenant that owns branches and clients
type Company struct {
	ID        string     `json:"id" db:"id" validate:"required,uuid"`
	Name      string     `json:"name" db:"name" validate:"required,max=200"`
	GSTNumber string     `json:"gstNumber" db:"gst_number" validate:"required,max=50"`
	Address   string     `json:"address" db:"address" validate:"required"`
	OwnerName string     `json:"ownerName" db:"owner_name" validate:"required,max=200"`
	Phone     string     `json:"phone" db:"phone"`
	Email     string     `json:"email" db:"email" validate:"omitempty,email"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// NewCompany creates a new company with generated ID and timestamps
func NewCompany(name, gstNumber, address, ownerName string) *Company {
	now := time.Now()
	return &Company{
		ID:        uuid.New().String(),
		Name:      SanitizeString(name),
		GSTNumber: strings.TrimSpace(gstNumber),
		Address:   strings.TrimSpace(address),
		OwnerName: strings.TrimSpace(ownerName),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the company data
func (c *Company) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("company ID is required")
	}
	if err := ValidateRequired(c.Name, "name"); err != nil {
		return err
	}
	if err := ValidateStringLength(c.Name, "name", 1, 200); err != nil {
		return err
	}
	if err := ValidateRequired(c.GSTNumber, "gstNumber"); err != nil {
		return err
	}
	if err := ValidateRequired(c.Address, "address"); err != nil {
		return err
	}
	if err := ValidateRequired(c.OwnerName, "ownerName"); err != nil {
		return err
	}
	return ValidateEmail(c.Email, "email")
}

// IsDeleted reports whether the company has been soft deleted
func (c *Company) IsDeleted() bool {
	return c.DeletedAt != nil
}

// Touch updates the modification timestamp
func (c *Company) Touch() {
	c.UpdatedAt = time.Now()
}
