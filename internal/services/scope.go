package services

import (
	"context"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"
)

// Store is the persistence surface the services depend on
type Store interface {
	repositories.TransactionManager
	repositories.Repositories
}

// scope resolves tenant-scoped records. A record owned by another company or branch
// is reported exactly like a missing one.
type scope struct {
	store Store
}

func (s scope) company(ctx context.Context, companyID string) (*models.Company, error) {
	company, err := s.store.Companies().GetByID(ctx, companyID)
	if err != nil {
		return nil, fromRepository(err, CodeCompanyNotFound, "company")
	}
	return company, nil
}

func (s scope) branch(ctx context.Context, companyID, branchID string) (*models.Branch, error) {
	branch, err := s.store.Branches().GetByID(ctx, branchID)
	if err != nil {
		return nil, fromRepository(err, CodeBranchNotFound, "branch")
	}
	if branch.CompanyID != companyID {
		return nil, notFound(CodeBranchNotFound, "branch not found", nil)
	}
	return branch, nil
}

func (s scope) client(ctx context.Context, companyID, clientID string) (*models.Client, error) {
	client, err := s.store.Clients().GetByID(ctx, clientID)
	if err != nil {
		return nil, fromRepository(err, CodeClientNotFound, "client")
	}
	if client.CompanyID != companyID {
		return nil, notFound(CodeClientNotFound, "client not found", nil)
	}
	return client, nil
}

func (s scope) invoice(ctx context.Context, companyID, branchID, invoiceID string) (*models.Invoice, error) {
	invoice, err := s.store.Invoices().GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fromRepository(err, CodeInvoiceNotFound, "invoice")
	}
	if invoice.CompanyID != companyID || invoice.BranchID != branchID {
		return nil, notFound(CodeInvoiceNotFound, "invoice not found", nil)
	}
	return invoice, nil
}

func partyInfo(c *models.Company) models.PartyInfo {
	return models.PartyInfo{
		ID:        c.ID,
		Name:      c.Name,
		GSTNumber: c.GSTNumber,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
	}
}

func branchInfo(b *models.Branch) models.BranchInfo {
	return models.BranchInfo{
		ID:          b.ID,
		Name:        b.Name,
		ManagerName: b.ManagerName,
		Location:    b.Location,
		Phone:       b.Phone,
		IsDefault:   b.IsDefault,
	}
}

// values copies repository results into the slice form the billing engine folds over
func values(invoices []*models.Invoice) []models.Invoice {
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, *inv)
	}
	return out
}

func clientValues(clients []*models.Client) []models.Client {
	out := make([]models.Client, 0, len(clients))
	for _, c := range clients {
		out = append(out, *c)
	}
	return out
}
