package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	invoiceColumns = `id, invoice_number, date, company_id, branch_id, client_id, client_snapshot,
	subtotal, total_discount, total_gst, grand_total, payment_status, payment_method, client_type,
	company_gst, notes, due_date, created_at, updated_at, deleted_at`

	lineItemColumns = `id, invoice_id, category_id, subcategory_id, name, description, quantity,
	price, discount, gst, final_amount, category_name, subcategory_name, position`
)

// InvoiceRepository implements the InvoiceRepository interface for SQLite.
// Line items live in invoice_items and are always read and written with their invoice.
type InvoiceRepository struct {
	*BaseRepository
}

// NewInvoiceRepository creates a new SQLite invoice repository
func NewInvoiceRepository(db *sql.DB, logger *logrus.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		BaseRepository: NewBaseRepository(db, "invoices", "invoice", logger),
	}
}

// Create stores an invoice with its line items
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return repositories.ValidationError("invoice", invoice.ID, err)
	}

	snapshot, err := invoice.MarshalClientSnapshot()
	if err != nil {
		return repositories.NewRepositoryError("create", "invoice", invoice.ID, err)
	}

	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.executeExec(ctx, "create", query,
		invoice.ID,
		invoice.InvoiceNumber,
		utc(invoice.Date),
		invoice.CompanyID,
		invoice.BranchID,
		invoice.ClientID,
		snapshot,
		invoice.Subtotal,
		invoice.TotalDiscount,
		invoice.TotalGST,
		invoice.GrandTotal,
		invoice.PaymentStatus,
		invoice.PaymentMethod,
		invoice.ClientType,
		invoice.CompanyGST,
		invoice.Notes,
		nullableTime(invoice.DueDate),
		utc(invoice.CreatedAt),
		utc(invoice.UpdatedAt),
		nullableTime(invoice.DeletedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("invoice", "invoice_number", invoice.InvoiceNumber)
		}
		return err
	}

	return r.insertItems(ctx, invoice.ID, invoice.Items)
}

// GetByID retrieves a live invoice with its line items
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ? AND deleted_at IS NULL`
	invoice, err := scanInvoice(r.executeQueryRow(ctx, "get_by_id", query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("invoice", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "invoice", id, err)
	}

	var where whereBuilder
	where.add("invoice_id = ?", id)
	items, err := r.loadItems(ctx, where)
	if err != nil {
		return nil, err
	}
	invoice.Items = itemsOrEmpty(items[id])
	return invoice, nil
}

// List retrieves invoices matching the filters with their line items, newest first
func (r *InvoiceRepository) List(ctx context.Context, filters repositories.InvoiceFilters) ([]*models.Invoice, error) {
	where := invoiceWhere(filters)

	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where.clause() + ` ORDER BY date DESC, invoice_number DESC`
	rows, err := r.executeQuery(ctx, "list", query, where.args...)
	if err != nil {
		return nil, err
	}

	invoices := []*models.Invoice{}
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, repositories.NewRepositoryError("list", "invoice", "", err)
		}
		invoices = append(invoices, invoice)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", "invoice", "", err)
	}
	if len(invoices) == 0 {
		return invoices, nil
	}

	var itemWhere whereBuilder
	itemWhere.add("invoice_id IN (SELECT id FROM invoices"+where.clause()+")", where.args...)
	items, err := r.loadItems(ctx, itemWhere)
	if err != nil {
		return nil, err
	}
	for _, invoice := range invoices {
		invoice.Items = itemsOrEmpty(items[invoice.ID])
	}
	return invoices, nil
}

// CountByBranch counts every invoice of a branch, soft-deleted ones included,
// so that allocated numbers are never reused
func (r *InvoiceRepository) CountByBranch(ctx context.Context, branchID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM invoices WHERE branch_id = ?`
	if err := r.executeQueryRow(ctx, "count_by_branch", query, branchID).Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count_by_branch", "invoice", branchID, err)
	}
	return count, nil
}

// Update updates invoice header fields and totals
func (r *InvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	if err := r.validateID(invoice.ID); err != nil {
		return err
	}
	if err := models.ValidateEnum(string(invoice.PaymentStatus), models.PaymentStatuses, "paymentStatus"); err != nil {
		return repositories.ValidationError("invoice", invoice.ID, err)
	}
	if err := models.ValidateEnum(string(invoice.PaymentMethod), models.PaymentMethods, "paymentMethod"); err != nil {
		return repositories.ValidationError("invoice", invoice.ID, err)
	}

	invoice.Touch()

	query := `
		UPDATE invoices
		SET subtotal = ?, total_discount = ?, total_gst = ?, grand_total = ?,
			payment_status = ?, payment_method = ?, notes = ?, due_date = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`

	result, err := r.executeExec(ctx, "update", query,
		invoice.Subtotal,
		invoice.TotalDiscount,
		invoice.TotalGST,
		invoice.GrandTotal,
		invoice.PaymentStatus,
		invoice.PaymentMethod,
		invoice.Notes,
		nullableTime(invoice.DueDate),
		utc(invoice.UpdatedAt),
		invoice.ID,
	)
	if err != nil {
		return err
	}
	return r.checkRowsAffected(result, "update", invoice.ID)
}

// SoftDelete marks an invoice deleted
func (r *InvoiceRepository) SoftDelete(ctx context.Context, id string) error {
	return r.softDelete(ctx, id)
}

// ReplaceItems rewrites the line items of an invoice
func (r *InvoiceRepository) ReplaceItems(ctx context.Context, invoiceID string, items []models.LineItem) error {
	if err := r.validateID(invoiceID); err != nil {
		return err
	}
	if len(items) == 0 {
		return repositories.ValidationError("invoice", invoiceID, fmt.Errorf("invoice must contain at least one item"))
	}

	if _, err := r.executeExec(ctx, "delete_items", `DELETE FROM invoice_items WHERE invoice_id = ?`, invoiceID); err != nil {
		return err
	}
	return r.insertItems(ctx, invoiceID, items)
}

func (r *InvoiceRepository) insertItems(ctx context.Context, invoiceID string, items []models.LineItem) error {
	query := `INSERT INTO invoice_items (` + lineItemColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		if item.Quantity <= 0 {
			return repositories.ValidationError("invoice", invoiceID,
				fmt.Errorf("items[%d].quantity must be a positive integer", i))
		}
		item.InvoiceID = invoiceID
		item.Position = i

		_, err := r.executeExec(ctx, "create_item", query,
			item.ID,
			item.InvoiceID,
			item.CategoryID,
			item.SubcategoryID,
			item.Name,
			item.Description,
			item.Quantity,
			item.Price,
			item.Discount,
			item.GST,
			item.FinalAmount,
			item.CategoryName,
			item.SubcategoryName,
			item.Position,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return repositories.DuplicateError("invoice item", "id", item.ID)
			}
			return err
		}
	}
	return nil
}

// loadItems returns the line items matching where grouped by invoice id
func (r *InvoiceRepository) loadItems(ctx context.Context, where whereBuilder) (map[string][]models.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM invoice_items` + where.clause() + ` ORDER BY invoice_id, position`
	rows, err := r.executeQuery(ctx, "load_items", query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := map[string][]models.LineItem{}
	for rows.Next() {
		var item models.LineItem
		err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.CategoryID,
			&item.SubcategoryID,
			&item.Name,
			&item.Description,
			&item.Quantity,
			&item.Price,
			&item.Discount,
			&item.GST,
			&item.FinalAmount,
			&item.CategoryName,
			&item.SubcategoryName,
			&item.Position,
		)
		if err != nil {
			return nil, repositories.NewRepositoryError("load_items", "invoice", "", err)
		}
		items[item.InvoiceID] = append(items[item.InvoiceID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("load_items", "invoice", "", err)
	}
	return items, nil
}

func invoiceWhere(filters repositories.InvoiceFilters) whereBuilder {
	var where whereBuilder
	if filters.CompanyID != "" {
		where.add("company_id = ?", filters.CompanyID)
	}
	if filters.BranchID != "" {
		where.add("branch_id = ?", filters.BranchID)
	}
	if filters.ClientIDs != nil {
		where.addIn("client_id", filters.ClientIDs)
	}
	if filters.From != nil {
		where.add("date >= ?", utc(*filters.From))
	}
	if filters.To != nil {
		where.add("date <= ?", utc(*filters.To))
	}
	if filters.ClientType != "" {
		where.add("client_type = ?", filters.ClientType)
	}
	if filters.PaymentStatus != "" {
		where.add("payment_status = ?", filters.PaymentStatus)
	}
	if !filters.IncludeDeleted {
		where.add("deleted_at IS NULL")
	}
	return where
}

func itemsOrEmpty(items []models.LineItem) []models.LineItem {
	if items == nil {
		return []models.LineItem{}
	}
	return items
}

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	var (
		snapshot  string
		dueDate   sql.NullTime
		deletedAt sql.NullTime
	)
	err := row.Scan(
		&invoice.ID,
		&invoice.InvoiceNumber,
		&invoice.Date,
		&invoice.CompanyID,
		&invoice.BranchID,
		&invoice.ClientID,
		&snapshot,
		&invoice.Subtotal,
		&invoice.TotalDiscount,
		&invoice.TotalGST,
		&invoice.GrandTotal,
		&invoice.PaymentStatus,
		&invoice.PaymentMethod,
		&invoice.ClientType,
		&invoice.CompanyGST,
		&invoice.Notes,
		&dueDate,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := invoice.UnmarshalClientSnapshot(snapshot); err != nil {
		return nil, err
	}
	invoice.DueDate = timePtr(dueDate)
	invoice.DeletedAt = timePtr(deletedAt)
	return invoice, nil
}
