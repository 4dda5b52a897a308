package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is a customer of a company, optionally flagged as regular
type Client struct {
	ID                 string     `json:"id" db:"id"`
	CompanyID          string     `json:"companyId" db:"company_id"`
	BranchID           string     `json:"branchId,omitempty" db:"branch_id"`
	Name               string     `json:"name" db:"name" validate:"required,max=200"`
	Email              string     `json:"email" db:"email" validate:"omitempty,email"`
	Phone              string     `json:"phone" db:"phone" validate:"required"`
	Address            string     `json:"address" db:"address"`
	GSTNumber          string     `json:"gstNumber" db:"gst_number"`
	IsRegular          bool       `json:"isRegular" db:"is_regular"`
	DiscountPercentage float64    `json:"discountPercentage" db:"discount_percentage" validate:"gte=0,lte=100"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt          *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// NewClient creates a new client with generated ID and timestamps
func NewClient(companyID, name, phone string) *Client {
	now := time.Now()
	return &Client{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      SanitizeString(name),
		Phone:     strings.TrimSpace(phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the client data
func (c *Client) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("client ID is required")
	}
	if c.CompanyID == "" {
		return fmt.Errorf("company ID is required")
	}
	if err := ValidateRequired(c.Name, "name"); err != nil {
		return err
	}
	if err := ValidateRequired(c.Phone, "phone"); err != nil {
		return err
	}
	if err := ValidateEmail(c.Email, "email"); err != nil {
		return err
	}
	return ValidatePercentage(c.DiscountPercentage, "discountPercentage")
}

// StandingDiscount returns the discount percentage a client is entitled to.
// Non-regular clients never get one, whatever is stored.
func (c *Client) StandingDiscount() float64 {
	if !c.IsRegular {
		return 0
	}
	return c.DiscountPercentage
}

// Type returns the client type derived from the regular flag
func (c *Client) Type() ClientType {
	if c.IsRegular {
		return ClientTypeRegular
	}
	return ClientTypeNonRegular
}

// IsDeleted reports whether the client has been soft deleted
func (c *Client) IsDeleted() bool {
	return c.DeletedAt != nil
}

// Snapshot freezes the client fields copied onto an invoice
func (c *Client) Snapshot() ClientSnapshot {
	return ClientSnapshot{
		ID:                 c.ID,
		Name:               c.Name,
		Email:              c.Email,
		Phone:              c.Phone,
		Address:            c.Address,
		GSTNumber:          c.GSTNumber,
		IsRegular:          c.IsRegular,
		DiscountPercentage: c.DiscountPercentage,
	}
}

// Touch updates the modification timestamp
func (c *Client) Touch() {
	c.UpdatedAt = time.Now()
}
