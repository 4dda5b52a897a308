package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Subcategory is a priced, GST-rated catalog entry under a category
type Subcategory struct {
	ID          string     `json:"id" db:"id"`
	CategoryID  string     `json:"categoryId" db:"category_id"`
	Name        string     `json:"name" db:"name" validate:"required,max=200"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price" validate:"gte=0"`
	Discount    float64    `json:"discount" db:"discount" validate:"gte=0"`
	GST         float64    `json:"gst" db:"gst" validate:"gte=0"`
	Position    int        `json:"-" db:"position"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// Category groups subcategories inside a branch catalog
type Category struct {
	ID            string        `json:"id" db:"id"`
	BranchID      string        `json:"branchId" db:"branch_id"`
	Name          string        `json:"name" db:"name" validate:"required,max=200"`
	Subcategories []Subcategory `json:"subcategories"`
	Position      int           `json:"-" db:"position"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
	DeletedAt     *time.Time    `json:"deletedAt,omitempty" db:"deleted_at"`
}

// Branch is a company location that owns a catalog and serves clients.
// Categories and their subcategories are exclusively owned by the branch.
type Branch struct {
	ID          string     `json:"id" db:"id"`
	CompanyID   string     `json:"companyId" db:"company_id"`
	Name        string     `json:"name" db:"name" validate:"required,max=200"`
	Location    string     `json:"location" db:"location"`
	ManagerName string     `json:"managerName" db:"manager_name"`
	Phone       string     `json:"phone" db:"phone"`
	IsDefault   bool       `json:"isDefault" db:"is_default"`
	Categories  []Category `json:"categories"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// NewBranch creates a new branch with generated ID and timestamps
func NewBranch(companyID, name string) *Branch {
	now := time.Now()
	return &Branch{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		Name:       SanitizeString(name),
		Categories: []Category{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewCategory creates a new category for a branch
func NewCategory(branchID, name string) *Category {
	now := time.Now()
	return &Category{
		ID:            uuid.New().String(),
		BranchID:      branchID,
		Name:          strings.TrimSpace(name),
		Subcategories: []Subcategory{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewSubcategory creates a new subcategory for a category
func NewSubcategory(categoryID, name string, price float64) *Subcategory {
	now := time.Now()
	return &Subcategory{
		ID:         uuid.New().String(),
		CategoryID: categoryID,
		Name:       SanitizeString(name),
		Price:      price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate validates the branch data
func (b *Branch) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("branch ID is required")
	}
	if b.CompanyID == "" {
		return fmt.Errorf("company ID is required")
	}
	if err := ValidateRequired(b.Name, "name"); err != nil {
		return err
	}
	return ValidateStringLength(b.Name, "name", 1, 200)
}

// Validate validates the category data
func (c *Category) Validate() error {
	if c.BranchID == "" {
		return fmt.Errorf("branch ID is required")
	}
	return ValidateRequired(c.Name, "name")
}

// Validate validates the subcategory data
func (s *Subcategory) Validate() error {
	if s.CategoryID == "" {
		return fmt.Errorf("category ID is required")
	}
	if err := ValidateRequired(s.Name, "name"); err != nil {
		return err
	}
	if err := ValidateNonNegative(s.Price, "price"); err != nil {
		return err
	}
	if err := ValidateNonNegative(s.Discount, "discount"); err != nil {
		return err
	}
	return ValidateNonNegative(s.GST, "gst")
}

// IsDeleted reports whether the branch has been soft deleted
func (b *Branch) IsDeleted() bool { return b.DeletedAt != nil }

// IsDeleted reports whether the category has been soft deleted
func (c *Category) IsDeleted() bool { return c.DeletedAt != nil }

// IsDeleted reports whether the subcategory has been soft deleted
func (s *Subcategory) IsDeleted() bool { return s.DeletedAt != nil }

// Category returns the category with the given id, deleted or not
func (b *Branch) Category(id string) (*Category, bool) {
	for i := range b.Categories {
		if b.Categories[i].ID == id {
			return &b.Categories[i], true
		}
	}
	return nil, false
}

// Subcategory returns the subcategory with the given id, deleted or not
func (c *Category) Subcategory(id string) (*Subcategory, bool) {
	for i := range c.Subcategories {
		if c.Subcategories[i].ID == id {
			return &c.Subcategories[i], true
		}
	}
	return nil, false
}

// ActiveCategories returns non-deleted categories with only their non-deleted subcategories
func (b *Branch) ActiveCategories() []Category {
	active := make([]Category, 0, len(b.Categories))
	for _, cat := range b.Categories {
		if cat.IsDeleted() {
			continue
		}
		subs := make([]Subcategory, 0, len(cat.Subcategories))
		for _, sub := range cat.Subcategories {
			if !sub.IsDeleted() {
				subs = append(subs, sub)
			}
		}
		cat.Subcategories = subs
		active = append(active, cat)
	}
	return active
}

// Touch updates the modification timestamp
func (b *Branch) Touch() {
	b.UpdatedAt = time.Now()
}
