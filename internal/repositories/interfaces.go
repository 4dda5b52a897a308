package repositories

import (
	"context"
	"time"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

// Fetches exclude soft-deleted records unless stated otherwise.

// CompanyRepository defines persistence operations for companies
type CompanyRepository interface {
	// Create stores a new company
	Create(ctx context.Context, company *models.Company) error

	// GetByID retrieves a live company by its ID
	GetByID(ctx context.Context, id string) (*models.Company, error)

	// GetByGSTNumber retrieves a live company by GST number
	GetByGSTNumber(ctx context.Context, gstNumber string) (*models.Company, error)

	// List retrieves all live companies
	List(ctx context.Context) ([]*models.Company, error)

	// Update updates an existing company
	Update(ctx context.Context, company *models.Company) error

	// SoftDelete marks a company deleted
	SoftDelete(ctx context.Context, id string) error
}

// BranchRepository defines persistence operations for branches and their catalog.
// A fetched branch carries its full catalog, soft-deleted entries included.
type BranchRepository interface {
	Create(ctx context.Context, branch *models.Branch) error
	GetByID(ctx context.Context, id string) (*models.Branch, error)
	ListByCompany(ctx context.Context, companyID string) ([]*models.Branch, error)
	Update(ctx context.Context, branch *models.Branch) error
	SoftDelete(ctx context.Context, id string) error

	// ClearDefault unsets the default flag on every branch of a company except keepID
	ClearDefault(ctx context.Context, companyID, keepID string) error

	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	SoftDeleteCategory(ctx context.Context, branchID, categoryID string) error

	CreateSubcategories(ctx context.Context, subcategories []*models.Subcategory) error
	UpdateSubcategory(ctx context.Context, subcategory *models.Subcategory) error
	SoftDeleteSubcategory(ctx context.Context, categoryID, subcategoryID string) error
}

// ClientFilters narrows client listings
type ClientFilters struct {
	CompanyID string
	IDs       []string
	IsRegular *bool
	// IncludeDeleted also returns soft-deleted clients
	IncludeDeleted bool
}

// ClientRepository defines persistence operations for clients
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context, filters ClientFilters) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	SoftDelete(ctx context.Context, id string) error
}

// InvoiceFilters narrows invoice listings. Zero values do not filter.
type InvoiceFilters struct {
	CompanyID     string
	BranchID      string
	ClientIDs     []string
	From          *time.Time
	To            *time.Time
	ClientType    models.ClientType
	PaymentStatus models.PaymentStatus
	// IncludeDeleted also returns soft-deleted invoices
	IncludeDeleted bool
}

// InvoiceRepository defines persistence operations for invoices and their line items
type InvoiceRepository interface {
	// Create stores an invoice with its line items
	Create(ctx context.Context, invoice *models.Invoice) error

	// GetByID retrieves a live invoice with its line items
	GetByID(ctx context.Context, id string) (*models.Invoice, error)

	// List retrieves invoices with their line items, newest first
	List(ctx context.Context, filters InvoiceFilters) ([]*models.Invoice, error)

	// CountByBranch counts every invoice ever issued by a branch, soft-deleted included
	CountByBranch(ctx context.Context, branchID string) (int, error)

	// Update updates invoice header fields and totals
	Update(ctx context.Context, invoice *models.Invoice) error

	// SoftDelete marks an invoice deleted
	SoftDelete(ctx context.Context, id string) error

	// ReplaceItems rewrites the line items of an invoice
	ReplaceItems(ctx context.Context, invoiceID string, items []models.LineItem) error
}
