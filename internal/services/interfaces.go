package services

import (
	"context"
	"time"

	"github.com/AmanMalviya08/Bill-app-backend/internal/billing"
	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

// InvoiceService defines the invoice pricing and lifecycle operations
type InvoiceService interface {
	// CreateInvoice prices, numbers and stores an invoice as one atomic operation
	CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*models.Invoice, error)
	GetInvoice(ctx context.Context, companyID, branchID, invoiceID string) (*models.InvoiceDetails, error)
	ListBranchInvoices(ctx context.Context, companyID, branchID string) ([]*models.Invoice, error)
	ListClientInvoices(ctx context.Context, companyID, clientID string) ([]*models.Invoice, error)
	UpdateInvoice(ctx context.Context, companyID, branchID, invoiceID string, req *UpdateInvoiceRequest) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, companyID, branchID, invoiceID string) error

	// Item operations re-price the touched item and recompute the invoice totals
	AddItem(ctx context.Context, companyID, branchID, invoiceID string, item billing.LineItemRequest) (*models.Invoice, error)
	UpdateItemQuantity(ctx context.Context, companyID, branchID, invoiceID, itemID string, quantity int) (*models.Invoice, error)
	RemoveItem(ctx context.Context, companyID, branchID, invoiceID, itemID string) (*models.Invoice, error)

	GetInvoiceSummary(ctx context.Context, filters *SummaryFilters) (*models.InvoiceSummary, error)
}

// ReportService defines the read-only reporting operations
type ReportService interface {
	GenerateRevenueReport(ctx context.Context, companyID, branchID string, filters *ReportFilters) (*models.RevenueReport, error)
	GetClientPortfolio(ctx context.Context, companyID, branchID string, filters *PortfolioFilters) (*models.ClientPortfolio, error)
	GetSalesReport(ctx context.Context, companyID string, from, to *time.Time) (*models.SalesReport, error)
	GetDetailedInvoiceReport(ctx context.Context, companyID string, filters *DetailedReportFilters) (*models.DetailedInvoiceReport, error)

	// ArchiveRevenueReport generates a revenue report and stores it, returning its key
	ArchiveRevenueReport(ctx context.Context, companyID, branchID string, filters *ReportFilters) (string, error)
	GetArchivedReport(ctx context.Context, key string) (*models.RevenueReport, error)
}

// CatalogService defines branch and catalog management operations
type CatalogService interface {
	CreateBranch(ctx context.Context, companyID string, req *BranchRequest) (*models.Branch, error)
	GetBranch(ctx context.Context, companyID, branchID string) (*models.Branch, error)
	GetBranchDetails(ctx context.Context, companyID, branchID string) (*BranchDetails, error)
	ListBranches(ctx context.Context, companyID string) ([]*models.Branch, error)
	UpdateBranch(ctx context.Context, companyID, branchID string, req *BranchRequest) (*models.Branch, error)
	DeleteBranch(ctx context.Context, companyID, branchID string) error

	AddCategory(ctx context.Context, companyID, branchID string, req *CategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, companyID, branchID, categoryID string, req *CategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, companyID, branchID, categoryID string) error

	AddSubcategory(ctx context.Context, companyID, branchID, categoryID string, req *SubcategoryRequest) (*models.Subcategory, error)
	UpdateSubcategory(ctx context.Context, companyID, branchID, categoryID, subcategoryID string, req *SubcategoryRequest) (*models.Subcategory, error)
	DeleteSubcategory(ctx context.Context, companyID, branchID, categoryID, subcategoryID string) error

	// ImportSubcategories adds parsed rows to a category; any invalid row rejects the whole import
	ImportSubcategories(ctx context.Context, companyID, branchID, categoryID string, rows []ImportRow) ([]*models.Subcategory, error)
}

// ClientService defines client management operations
type ClientService interface {
	CreateClient(ctx context.Context, companyID string, req *ClientRequest) (*models.Client, error)
	GetClient(ctx context.Context, companyID, clientID string) (*models.Client, error)
	ListClients(ctx context.Context, companyID string, isRegular *bool) ([]*models.Client, error)
	UpdateClient(ctx context.Context, companyID, clientID string, req *ClientRequest) (*models.Client, error)
	DeleteClient(ctx context.Context, companyID, clientID string) error
	MarkRegular(ctx context.Context, companyID, clientID string, discountPercentage float64) (*models.Client, error)
	GetClientWithPrices(ctx context.Context, companyID, clientID string) (*models.ClientPriceList, error)
}

// CompanyService defines company management operations
type CompanyService interface {
	CreateCompany(ctx context.Context, req *CompanyRequest) (*models.Company, error)
	GetCompany(ctx context.Context, companyID string) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	UpdateCompany(ctx context.Context, companyID string, req *CompanyRequest) (*models.Company, error)
	DeleteCompany(ctx context.Context, companyID string) error
}

// Invoice service types
type CreateInvoiceRequest struct {
	CompanyID     string                    `json:"companyId" validate:"required"`
	BranchID      string                    `json:"branchId" validate:"required"`
	ClientID      string                    `json:"clientId" validate:"required"`
	Items         []billing.LineItemRequest `json:"items" validate:"dive"`
	Date          *time.Time                `json:"date,omitempty"`
	DueDate       *time.Time                `json:"dueDate,omitempty"`
	Notes         string                    `json:"notes,omitempty" validate:"max=2000"`
	PaymentStatus models.PaymentStatus      `json:"paymentStatus,omitempty" validate:"omitempty,oneof=pending paid partially_paid"`
	PaymentMethod models.PaymentMethod      `json:"paymentMethod,omitempty" validate:"omitempty,oneof=cash card upi bank_transfer credit"`
}

type UpdateInvoiceRequest struct {
	PaymentStatus *models.PaymentStatus `json:"paymentStatus,omitempty" validate:"omitempty,oneof=pending paid partially_paid"`
	PaymentMethod *models.PaymentMethod `json:"paymentMethod,omitempty" validate:"omitempty,oneof=cash card upi bank_transfer credit"`
	Notes         *string               `json:"notes,omitempty" validate:"omitempty,max=2000"`
	DueDate       *time.Time            `json:"dueDate,omitempty"`
}

type SummaryFilters struct {
	CompanyID string     `json:"companyId" validate:"required"`
	BranchID  string     `json:"branchId,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
}

// Report service types
type ReportFilters struct {
	ClientType string `json:"clientType" form:"clientType" validate:"omitempty,oneof=all regular non-regular"`
	DateRange  string `json:"dateRange" form:"dateRange"`
	StartDate  string `json:"startDate" form:"startDate"`
	EndDate    string `json:"endDate" form:"endDate"`
}

type PortfolioFilters struct {
	ClientType string `json:"clientType" form:"clientType" validate:"omitempty,oneof=all regular non-regular"`
	DateRange  string `json:"dateRange" form:"dateRange"`
}

type DetailedReportFilters struct {
	From          *time.Time           `json:"from,omitempty"`
	To            *time.Time           `json:"to,omitempty"`
	BranchID      string               `json:"branchId,omitempty"`
	ClientID      string               `json:"clientId,omitempty"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus,omitempty" validate:"omitempty,oneof=pending paid partially_paid"`
}

// Catalog service types
type BranchRequest struct {
	Name        string            `json:"name" validate:"required,max=200"`
	Location    string            `json:"location" validate:"max=500"`
	ManagerName string            `json:"managerName" validate:"max=200"`
	Phone       string            `json:"phone" validate:"max=50"`
	IsDefault   bool              `json:"isDefault"`
	Categories  []CategoryRequest `json:"categories,omitempty" validate:"dive"`
}

type CategoryRequest struct {
	Name          string               `json:"name" validate:"required,max=200"`
	Subcategories []SubcategoryRequest `json:"subcategories,omitempty" validate:"dive"`
}

type SubcategoryRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=1000"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Discount    float64  `json:"discount" validate:"gte=0"`
	GST         float64  `json:"gst" validate:"gte=0,lte=100"`
}

// ImportRow is one parsed spreadsheet row. Missing cells are nil.
type ImportRow struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	GST         *float64 `json:"gst"`
}

// BranchDetails is a branch with its company header and live catalog
type BranchDetails struct {
	ID          string            `json:"_id"`
	Name        string            `json:"name"`
	Location    string            `json:"location"`
	ManagerName string            `json:"managerName"`
	Phone       string            `json:"phone"`
	IsDefault   bool              `json:"isDefault"`
	Company     models.PartyInfo  `json:"company"`
	Categories  []models.Category `json:"categories"`
}

// Client service types
type ClientRequest struct {
	Name               string  `json:"name" validate:"required,max=200"`
	Email              string  `json:"email" validate:"omitempty,email"`
	Phone              string  `json:"phone" validate:"required,max=50"`
	Address            string  `json:"address" validate:"max=500"`
	GSTNumber          string  `json:"gstNumber" validate:"max=50"`
	BranchID           string  `json:"branchId"`
	IsRegular          bool    `json:"isRegular"`
	DiscountPercentage float64 `json:"discountPercentage" validate:"gte=0,lte=100"`
}

// Company service types
type CompanyRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	GSTNumber string `json:"gstNumber" validate:"required,max=50"`
	Address   string `json:"address" validate:"required,max=500"`
	OwnerName string `json:"ownerName" validate:"required,max=200"`
	Phone     string `json:"phone" validate:"max=50"`
	Email     string `json:"email" validate:"omitempty,email"`
}
