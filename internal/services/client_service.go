package services

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/AmanMalviya08/Bill-app-backend/internal/billing"
	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"
)

// clientService implements the ClientService interface
type clientService struct {
	store     Store
	scope     scope
	validator *validator.Validate
	logger    *logrus.Logger
}

// NewClientService creates a new client service instance
func NewClientService(store Store, logger *logrus.Logger) ClientService {
	return &clientService{
		store:     store,
		scope:     scope{store: store},
		validator: newValidator(),
		logger:    logger,
	}
}

// CreateClient creates a client of a company
func (s *clientService) CreateClient(ctx context.Context, companyID string, req *ClientRequest) (*models.Client, error) {
	if req == nil {
		return nil, invalid(CodeValidation, "", "client data is required")
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}
	if _, err := s.scope.company(ctx, companyID); err != nil {
		return nil, err
	}
	if req.BranchID != "" {
		if _, err := s.scope.branch(ctx, companyID, req.BranchID); err != nil {
			return nil, err
		}
	}

	client := models.NewClient(companyID, req.Name, req.Phone)
	applyClientRequest(client, req)

	if err := s.store.Clients().Create(ctx, client); err != nil {
		return nil, fromRepository(err, CodeClientNotFound, "client")
	}

	s.logger.WithFields(logrus.Fields{"client_id": client.ID, "company_id": companyID}).Info("client created")
	return client, nil
}

// GetClient returns a live client of a company
func (s *clientService) GetClient(ctx context.Context, companyID, clientID string) (*models.Client, error) {
	return s.scope.client(ctx, companyID, clientID)
}

// ListClients lists the live clients of a company, optionally by regular flag
func (s *clientService) ListClients(ctx context.Context, companyID string, isRegular *bool) ([]*models.Client, error) {
	if _, err := s.scope.company(ctx, companyID); err != nil {
		return nil, err
	}
	clients, err := s.store.Clients().List(ctx, repositories.ClientFilters{CompanyID: companyID, IsRegular: isRegular})
	if err != nil {
		return nil, upstream("failed to list clients", err)
	}
	return clients, nil
}

// UpdateClient replaces the editable fields of a client. Existing invoices keep
// the snapshot taken when they were created.
func (s *clientService) UpdateClient(ctx context.Context, companyID, clientID string, req *ClientRequest) (*models.Client, error) {
	if req == nil {
		return nil, invalid(CodeValidation, "", "client data is required")
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	client, err := s.scope.client(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}
	if req.BranchID != "" {
		if _, err := s.scope.branch(ctx, companyID, req.BranchID); err != nil {
			return nil, err
		}
	}

	client.Name = models.SanitizeString(req.Name)
	client.Phone = strings.TrimSpace(req.Phone)
	applyClientRequest(client, req)

	if err := s.store.Clients().Update(ctx, client); err != nil {
		return nil, fromRepository(err, CodeClientNotFound, "client")
	}
	return client, nil
}

// DeleteClient soft deletes a client
func (s *clientService) DeleteClient(ctx context.Context, companyID, clientID string) error {
	if _, err := s.scope.client(ctx, companyID, clientID); err != nil {
		return err
	}
	return fromRepository(s.store.Clients().SoftDelete(ctx, clientID), CodeClientNotFound, "client")
}

// MarkRegular flags a client as regular with a standing discount
func (s *clientService) MarkRegular(ctx context.Context, companyID, clientID string, discountPercentage float64) (*models.Client, error) {
	if discountPercentage < 0 || discountPercentage > 100 {
		return nil, invalid(CodeValidation, "discountPercentage", "discountPercentage must be between 0 and 100")
	}

	client, err := s.scope.client(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}
	client.IsRegular = true
	client.DiscountPercentage = discountPercentage

	if err := s.store.Clients().Update(ctx, client); err != nil {
		return nil, fromRepository(err, CodeClientNotFound, "client")
	}

	s.logger.WithFields(logrus.Fields{
		"client_id": client.ID,
		"discount":  discountPercentage,
	}).Info("client marked regular")
	return client, nil
}

// GetClientWithPrices lists the live catalog of every company branch priced for a client
func (s *clientService) GetClientWithPrices(ctx context.Context, companyID, clientID string) (*models.ClientPriceList, error) {
	client, err := s.scope.client(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}
	branches, err := s.store.Branches().ListByCompany(ctx, companyID)
	if err != nil {
		return nil, upstream("failed to list branches", err)
	}

	list := &models.ClientPriceList{Client: client, Branches: make([]models.BranchPrices, 0, len(branches))}
	for _, branch := range branches {
		bp := models.BranchPrices{ID: branch.ID, Name: branch.Name, Location: branch.Location, Categories: []models.CategoryPrices{}}
		for _, cat := range branch.ActiveCategories() {
			cp := models.CategoryPrices{ID: cat.ID, Name: cat.Name, Subcategories: make([]models.SubcategoryPrice, 0, len(cat.Subcategories))}
			for _, sub := range cat.Subcategories {
				cp.Subcategories = append(cp.Subcategories, models.SubcategoryPrice{
					Subcategory:     sub,
					DiscountedPrice: billing.DiscountedPrice(sub.Price, client),
				})
			}
			bp.Categories = append(bp.Categories, cp)
		}
		list.Branches = append(list.Branches, bp)
	}
	return list, nil
}

func applyClientRequest(client *models.Client, req *ClientRequest) {
	client.Email = strings.TrimSpace(req.Email)
	client.Address = req.Address
	client.GSTNumber = req.GSTNumber
	client.BranchID = req.BranchID
	client.IsRegular = req.IsRegular
	client.DiscountPercentage = req.DiscountPercentage
}
