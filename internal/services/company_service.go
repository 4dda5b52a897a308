package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"
)

// companyService implements the CompanyService interface
type companyService struct {
	store     Store
	scope     scope
	validator *validator.Validate
	logger    *logrus.Logger
}

// NewCompanyService creates a new company service instance
func NewCompanyService(store Store, logger *logrus.Logger) CompanyService {
	return &companyService{
		store:     store,
		scope:     scope{store: store},
		validator: newValidator(),
		logger:    logger,
	}
}

// CreateCompany creates a company. GST numbers are unique among live companies.
func (s *companyService) CreateCompany(ctx context.Context, req *CompanyRequest) (*models.Company, error) {
	if req == nil {
		return nil, invalid(CodeValidation, "", "company data is required")
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	gst := strings.TrimSpace(req.GSTNumber)
	if err := s.ensureGSTAvailable(ctx, gst, ""); err != nil {
		return nil, err
	}

	company := models.NewCompany(req.Name, gst, req.Address, req.OwnerName)
	company.Phone = req.Phone
	company.Email = strings.TrimSpace(req.Email)

	if err := s.store.Companies().Create(ctx, company); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, gstConflict(gst, err)
		}
		return nil, fromRepository(err, CodeCompanyNotFound, "company")
	}

	s.logger.WithField("company_id", company.ID).Info("company created")
	return company, nil
}

// GetCompany returns a live company
func (s *companyService) GetCompany(ctx context.Context, companyID string) (*models.Company, error) {
	return s.scope.company(ctx, companyID)
}

// ListCompanies lists every live company
func (s *companyService) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	companies, err := s.store.Companies().List(ctx)
	if err != nil {
		return nil, upstream("failed to list companies", err)
	}
	return companies, nil
}

// UpdateCompany replaces the editable fields of a company
func (s *companyService) UpdateCompany(ctx context.Context, companyID string, req *CompanyRequest) (*models.Company, error) {
	if req == nil {
		return nil, invalid(CodeValidation, "", "company data is required")
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	company, err := s.scope.company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	gst := strings.TrimSpace(req.GSTNumber)
	if gst != company.GSTNumber {
		if err := s.ensureGSTAvailable(ctx, gst, company.ID); err != nil {
			return nil, err
		}
	}

	company.Name = models.SanitizeString(req.Name)
	company.GSTNumber = gst
	company.Address = req.Address
	company.OwnerName = strings.TrimSpace(req.OwnerName)
	company.Phone = req.Phone
	company.Email = strings.TrimSpace(req.Email)

	if err := s.store.Companies().Update(ctx, company); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, gstConflict(gst, err)
		}
		return nil, fromRepository(err, CodeCompanyNotFound, "company")
	}
	return company, nil
}

// DeleteCompany soft deletes a company
func (s *companyService) DeleteCompany(ctx context.Context, companyID string) error {
	if _, err := s.scope.company(ctx, companyID); err != nil {
		return err
	}
	return fromRepository(s.store.Companies().SoftDelete(ctx, companyID), CodeCompanyNotFound, "company")
}

func (s *companyService) ensureGSTAvailable(ctx context.Context, gst, ownID string) error {
	existing, err := s.store.Companies().GetByGSTNumber(ctx, gst)
	switch {
	case err == nil:
		if existing.ID != ownID {
			return gstConflict(gst, nil)
		}
		return nil
	case repositories.IsNotFound(err):
		return nil
	default:
		return upstream("failed to check gst number", err)
	}
}

func gstConflict(gst string, err error) error {
	se := conflict(CodeDuplicate, fmt.Sprintf("a company with GST number %s already exists", gst), err)
	se.Field = "gstNumber"
	return se
}
