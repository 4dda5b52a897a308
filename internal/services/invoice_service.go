package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/AmanMalviya08/Bill-app-backend/internal/billing"
	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"
)

// invoiceService implements the InvoiceService interface
type invoiceService struct {
	store     Store
	scope     scope
	locker    *billing.BranchLocker
	validator *validator.Validate
	logger    *logrus.Logger
	now       func() time.Time
}

// NewInvoiceService creates a new invoice service instance
func NewInvoiceService(store Store, locker *billing.BranchLocker, logger *logrus.Logger) InvoiceService {
	if locker == nil {
		locker = billing.NewBranchLocker()
	}
	return &invoiceService{
		store:     store,
		scope:     scope{store: store},
		locker:    locker,
		validator: newValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// CreateInvoice prices every requested item against the branch catalog, allocates the
// next branch invoice number and stores the invoice in one transaction
func (s *invoiceService) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*models.Invoice, error) {
	if req == nil {
		return nil, invalid(CodeValidation, "", "create invoice request cannot be nil")
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, fromPricing(billing.ErrEmptyInvoice)
	}

	// Counting and inserting must not interleave for the same branch
	unlock := s.locker.Lock(req.BranchID)
	defer unlock()

	var invoice *models.Invoice
	err := s.store.WithTransaction(ctx, func(ctx context.Context) error {
		company, err := s.scope.company(ctx, req.CompanyID)
		if err != nil {
			return err
		}
		branch, err := s.scope.branch(ctx, req.CompanyID, req.BranchID)
		if err != nil {
			return err
		}
		client, err := s.scope.client(ctx, req.CompanyID, req.ClientID)
		if err != nil {
			return err
		}

		items, err := priceItems(branch, req.Items, client, 0)
		if err != nil {
			return err
		}

		inv := models.NewInvoice(company.ID, branch.ID, client)
		inv.CompanyGST = company.GSTNumber
		inv.Items = items
		inv.Notes = req.Notes
		inv.DueDate = req.DueDate
		if req.Date != nil {
			inv.Date = *req.Date
		}
		if req.PaymentStatus != "" {
			inv.PaymentStatus = req.PaymentStatus
		}
		if req.PaymentMethod != "" {
			inv.PaymentMethod = req.PaymentMethod
		}
		billing.AggregateTotals(items).Apply(inv)

		count, err := s.store.Invoices().CountByBranch(ctx, branch.ID)
		if err != nil {
			return upstream("failed to count branch invoices", err)
		}
		inv.InvoiceNumber = billing.InvoiceNumber(branch.Name, count)

		if err := s.store.Invoices().Create(ctx, inv); err != nil {
			if repositories.IsDuplicate(err) {
				return conflict(CodeInvoiceNumberConflict,
					fmt.Sprintf("invoice number %s is already taken, retry the request", inv.InvoiceNumber), err)
			}
			return fromRepository(err, CodeInvoiceNotFound, "invoice")
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"invoice_id":     invoice.ID,
		"invoice_number": invoice.InvoiceNumber,
		"branch_id":      invoice.BranchID,
		"items":          len(invoice.Items),
		"grand_total":    invoice.GrandTotal,
	}).Info("invoice created")

	return invoice, nil
}

// GetInvoice returns an invoice with its company and branch headers. Catalog names
// are refreshed from the live branch catalog.
func (s *invoiceService) GetInvoice(ctx context.Context, companyID, branchID, invoiceID string) (*models.InvoiceDetails, error) {
	company, err := s.scope.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	branch, err := s.scope.branch(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}
	inv, err := s.scope.invoice(ctx, companyID, branchID, invoiceID)
	if err != nil {
		return nil, err
	}

	for i := range inv.Items {
		inv.Items[i].CategoryName, inv.Items[i].SubcategoryName = billing.CatalogNames(branch, inv.Items[i])
	}

	return &models.InvoiceDetails{
		Invoice: inv,
		Company: partyInfo(company),
		Branch:  branchInfo(branch),
	}, nil
}

// ListBranchInvoices lists the live invoices of a branch, newest first
func (s *invoiceService) ListBranchInvoices(ctx context.Context, companyID, branchID string) ([]*models.Invoice, error) {
	if _, err := s.scope.branch(ctx, companyID, branchID); err != nil {
		return nil, err
	}
	invoices, err := s.store.Invoices().List(ctx, repositories.InvoiceFilters{CompanyID: companyID, BranchID: branchID})
	if err != nil {
		return nil, upstream("failed to list invoices", err)
	}
	return invoices, nil
}

// ListClientInvoices lists the live invoices billed to a client across all branches
func (s *invoiceService) ListClientInvoices(ctx context.Context, companyID, clientID string) ([]*models.Invoice, error) {
	if _, err := s.scope.company(ctx, companyID); err != nil {
		return nil, err
	}
	invoices, err := s.store.Invoices().List(ctx, repositories.InvoiceFilters{
		CompanyID: companyID,
		ClientIDs: []string{clientID},
	})
	if err != nil {
		return nil, upstream("failed to list invoices", err)
	}
	return invoices, nil
}

// UpdateInvoice changes invoice metadata. Totals are never recomputed here.
func (s *invoiceService) UpdateInvoice(ctx context.Context, companyID, branchID, invoiceID string, req *UpdateInvoiceRequest) (*models.Invoice, error) {
	if req == nil {
		return nil, invalid(CodeValidation, "", "update invoice request cannot be nil")
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	inv, err := s.scope.invoice(ctx, companyID, branchID, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.PaymentStatus != nil {
		inv.PaymentStatus = *req.PaymentStatus
	}
	if req.PaymentMethod != nil {
		inv.PaymentMethod = *req.PaymentMethod
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate
	}
	inv.Touch()

	if err := s.store.Invoices().Update(ctx, inv); err != nil {
		return nil, fromRepository(err, CodeInvoiceNotFound, "invoice")
	}
	return inv, nil
}

// DeleteInvoice soft deletes an invoice. Its number stays allocated.
func (s *invoiceService) DeleteInvoice(ctx context.Context, companyID, branchID, invoiceID string) error {
	if _, err := s.scope.invoice(ctx, companyID, branchID, invoiceID); err != nil {
		return err
	}
	if err := s.store.Invoices().SoftDelete(ctx, invoiceID); err != nil {
		return fromRepository(err, CodeInvoiceNotFound, "invoice")
	}
	s.logger.WithField("invoice_id", invoiceID).Info("invoice deleted")
	return nil
}

// AddItem prices a new line against the live catalog and appends it
func (s *invoiceService) AddItem(ctx context.Context, companyID, branchID, invoiceID string, req billing.LineItemRequest) (*models.Invoice, error) {
	if err := validateRequest(s.validator, &req); err != nil {
		return nil, err
	}
	return s.editItems(ctx, companyID, branchID, invoiceID, func(ctx context.Context, branch *models.Branch, inv *models.Invoice) error {
		client := s.pricingClient(ctx, inv)
		items, err := priceItems(branch, []billing.LineItemRequest{req}, client, len(inv.Items))
		if err != nil {
			return err
		}
		inv.Items = append(inv.Items, items...)
		return nil
	})
}

// UpdateItemQuantity re-prices one line for a new quantity, keeping its agreed unit
// price and discount and GST rates
func (s *invoiceService) UpdateItemQuantity(ctx context.Context, companyID, branchID, invoiceID, itemID string, quantity int) (*models.Invoice, error) {
	if quantity < 1 {
		return nil, invalid(CodeInvalidQuantity, "quantity", "quantity must be at least 1")
	}
	return s.editItems(ctx, companyID, branchID, invoiceID, func(ctx context.Context, branch *models.Branch, inv *models.Invoice) error {
		item, ok := inv.Item(itemID)
		if !ok {
			return notFound(CodeItemNotFound, "item not found", nil)
		}
		repriced, err := requantify(branch, *item, quantity)
		if err != nil {
			return fromPricing(err)
		}
		repriced.ID = item.ID
		*item = repriced
		return nil
	})
}

// RemoveItem drops one line. The last line of an invoice cannot be removed.
func (s *invoiceService) RemoveItem(ctx context.Context, companyID, branchID, invoiceID, itemID string) (*models.Invoice, error) {
	return s.editItems(ctx, companyID, branchID, invoiceID, func(_ context.Context, _ *models.Branch, inv *models.Invoice) error {
		if _, ok := inv.Item(itemID); !ok {
			return notFound(CodeItemNotFound, "item not found", nil)
		}
		if len(inv.Items) <= 1 {
			return invalid(CodeLastItem, "itemId", "cannot remove the last item from invoice")
		}
		kept := make([]models.LineItem, 0, len(inv.Items)-1)
		for _, item := range inv.Items {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		inv.Items = kept
		return nil
	})
}

// GetInvoiceSummary summarizes the live invoices of a company or one of its branches
func (s *invoiceService) GetInvoiceSummary(ctx context.Context, filters *SummaryFilters) (*models.InvoiceSummary, error) {
	if filters == nil {
		return nil, invalid(CodeValidation, "", "summary filters cannot be nil")
	}
	if err := validateRequest(s.validator, filters); err != nil {
		return nil, err
	}
	if _, err := s.scope.company(ctx, filters.CompanyID); err != nil {
		return nil, err
	}
	if filters.BranchID != "" {
		if _, err := s.scope.branch(ctx, filters.CompanyID, filters.BranchID); err != nil {
			return nil, err
		}
	}

	invoices, err := s.store.Invoices().List(ctx, repositories.InvoiceFilters{
		CompanyID: filters.CompanyID,
		BranchID:  filters.BranchID,
		From:      filters.From,
		To:        filters.To,
	})
	if err != nil {
		return nil, upstream("failed to list invoices", err)
	}

	summary := billing.SummarizeInvoices(values(invoices))
	return &summary, nil
}

// editItems loads an invoice, applies edit to its items and stores the items with
// recomputed totals in one transaction
func (s *invoiceService) editItems(ctx context.Context, companyID, branchID, invoiceID string, edit func(context.Context, *models.Branch, *models.Invoice) error) (*models.Invoice, error) {
	var updated *models.Invoice
	err := s.store.WithTransaction(ctx, func(ctx context.Context) error {
		branch, err := s.scope.branch(ctx, companyID, branchID)
		if err != nil {
			return err
		}
		inv, err := s.scope.invoice(ctx, companyID, branchID, invoiceID)
		if err != nil {
			return err
		}

		if err := edit(ctx, branch, inv); err != nil {
			return err
		}

		billing.AggregateTotals(inv.Items).Apply(inv)
		inv.Touch()

		if err := s.store.Invoices().ReplaceItems(ctx, inv.ID, inv.Items); err != nil {
			return fromRepository(err, CodeInvoiceNotFound, "invoice")
		}
		if err := s.store.Invoices().Update(ctx, inv); err != nil {
			return fromRepository(err, CodeInvoiceNotFound, "invoice")
		}

		updated, err = s.store.Invoices().GetByID(ctx, inv.ID)
		return fromRepository(err, CodeInvoiceNotFound, "invoice")
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// pricingClient returns the live client of an invoice, falling back to its snapshot
// when the client has since been deleted
func (s *invoiceService) pricingClient(ctx context.Context, inv *models.Invoice) *models.Client {
	client, err := s.store.Clients().GetByID(ctx, inv.ClientID)
	if err == nil {
		return client
	}
	if !repositories.IsNotFound(err) {
		s.logger.WithError(err).WithField("client_id", inv.ClientID).Warn("client lookup failed, pricing from snapshot")
	}
	return &models.Client{
		ID:                 inv.ClientID,
		IsRegular:          inv.Client.IsRegular,
		DiscountPercentage: inv.Client.DiscountPercentage,
	}
}

// priceItems resolves and prices requested items. offset is the index of the first
// request within the invoice, used to locate failures.
func priceItems(branch *models.Branch, reqs []billing.LineItemRequest, client *models.Client, offset int) ([]models.LineItem, error) {
	items := make([]models.LineItem, 0, len(reqs))
	for i, req := range reqs {
		category, subcategory, err := billing.Resolve(branch, req.CategoryID, req.SubcategoryID)
		if err == nil {
			var item models.LineItem
			item, err = billing.PriceLineItem(category, subcategory, req, client)
			if err == nil {
				items = append(items, item)
				continue
			}
		}
		return nil, fromPricing(atIndex(err, offset+i))
	}
	return items, nil
}

// atIndex places a pricing failure at an item index
func atIndex(err error, index int) error {
	var itemErr *billing.ItemError
	if errors.As(err, &itemErr) {
		itemErr.Index = index
		return itemErr
	}
	return &billing.ItemError{Index: index, Err: err}
}

// requantify prices an existing line for a new quantity using the rates it was sold at.
// Names come from the live catalog, or from the line itself when the entry is gone.
func requantify(branch *models.Branch, item models.LineItem, quantity int) (models.LineItem, error) {
	category, subcategory, err := billing.Resolve(branch, item.CategoryID, item.SubcategoryID)
	if err != nil {
		category = &models.Category{ID: item.CategoryID, Name: item.CategoryName}
		subcategory = &models.Subcategory{ID: item.SubcategoryID, Name: item.SubcategoryName}
	}

	gross := item.Gross()
	discountRate, gstRate := 0.0, 0.0
	if gross > 0 {
		discountRate = item.Discount / gross * 100
	}
	if net := gross - item.Discount; net > 0 {
		gstRate = item.GST / net * 100
	}

	price := item.Price
	return billing.PriceLineItem(category, subcategory, billing.LineItemRequest{
		CategoryID:         item.CategoryID,
		SubcategoryID:      item.SubcategoryID,
		Name:               item.Name,
		Description:        item.Description,
		Quantity:           &quantity,
		UnitPrice:          &price,
		DiscountPercentage: &discountRate,
		GSTPercentage:      &gstRate,
	}, nil)
}
