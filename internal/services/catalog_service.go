package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

// catalogService implements the CatalogService interface
type catalogService struct {
	store     Store
	scope     scope
	validator *validator.Validate
	logger    *logrus.Logger
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(store Store, logger *logrus.Logger) CatalogService {
	return &catalogService{
		store:     store,
		scope:     scope{store: store},
		validator: newValidator(),
		logger:    logger,
	}
}

// CreateBranch creates a branch with an optional initial catalog. A default branch
// takes the default flag from every other branch of the company.
func (s *catalogService) CreateBranch(ctx context.Context, companyID string, req *BranchRequest) (*models.Branch, error) {
	if req == nil {
		return nil, invalid(CodeValidation, "", "branch data is required")
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	branch := models.NewBranch(companyID, req.Name)
	branch.Location = req.Location
	branch.ManagerName = req.ManagerName
	branch.Phone = req.Phone
	branch.IsDefault = req.IsDefault
	for _, catReq := range req.Categories {
		category := newCategory(branch.ID, catReq)
		branch.Categories = append(branch.Categories, *category)
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.scope.company(ctx, companyID); err != nil {
			return err
		}
		if err := s.store.Branches().Create(ctx, branch); err != nil {
			return fromRepository(err, CodeBranchNotFound, "branch")
		}
		if branch.IsDefault {
			if err := s.store.Branches().ClearDefault(ctx, companyID, branch.ID); err != nil {
				return upstream("failed to update default branch", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"branch_id": branch.ID, "company_id": companyID}).Info("branch created")
	return branch, nil
}

// GetBranch returns a branch with its live catalog
func (s *catalogService) GetBranch(ctx context.Context, companyID, branchID string) (*models.Branch, error) {
	branch, err := s.scope.branch(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}
	branch.Categories = branch.ActiveCategories()
	return branch, nil
}

// GetBranchDetails returns a branch with its company header and live catalog
func (s *catalogService) GetBranchDetails(ctx context.Context, companyID, branchID string) (*BranchDetails, error) {
	company, err := s.scope.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	branch, err := s.scope.branch(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}
	return &BranchDetails{
		ID:          branch.ID,
		Name:        branch.Name,
		Location:    branch.Location,
		ManagerName: branch.ManagerName,
		Phone:       branch.Phone,
		IsDefault:   branch.IsDefault,
		Company:     partyInfo(company),
		Categories:  branch.ActiveCategories(),
	}, nil
}

// ListBranches lists the live branches of a company, default first
func (s *catalogService) ListBranches(ctx context.Context, companyID string) ([]*models.Branch, error) {
	if _, err := s.scope.company(ctx, companyID); err != nil {
		return nil, err
	}
	branches, err := s.store.Branches().ListByCompany(ctx, companyID)
	if err != nil {
		return nil, upstream("failed to list branches", err)
	}
	for _, b := range branches {
		b.Categories = b.ActiveCategories()
	}
	return branches, nil
}

// UpdateBranch updates branch header fields. The catalog is edited through the
// category and subcategory operations.
func (s *catalogService) UpdateBranch(ctx context.Context, companyID, branchID string, req *BranchRequest) (*models.Branch, error) {
	if req == nil {
		return nil, invalid(CodeValidation, "", "update data is required")
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	var branch *models.Branch
	err := s.store.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		branch, err = s.scope.branch(ctx, companyID, branchID)
		if err != nil {
			return err
		}
		branch.Name = models.SanitizeString(req.Name)
		branch.Location = req.Location
		branch.ManagerName = req.ManagerName
		branch.Phone = req.Phone
		branch.IsDefault = req.IsDefault

		if err := s.store.Branches().Update(ctx, branch); err != nil {
			return fromRepository(err, CodeBranchNotFound, "branch")
		}
		if branch.IsDefault {
			if err := s.store.Branches().ClearDefault(ctx, companyID, branch.ID); err != nil {
				return upstream("failed to update default branch", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	branch.Categories = branch.ActiveCategories()
	return branch, nil
}

// DeleteBranch soft deletes a branch
func (s *catalogService) DeleteBranch(ctx context.Context, companyID, branchID string) error {
	if _, err := s.scope.branch(ctx, companyID, branchID); err != nil {
		return err
	}
	if err := s.store.Branches().SoftDelete(ctx, branchID); err != nil {
		return fromRepository(err, CodeBranchNotFound, "branch")
	}
	return nil
}

// AddCategory appends a category to a branch catalog
func (s *catalogService) AddCategory(ctx context.Context, companyID, branchID string, req *CategoryRequest) (*models.Category, error) {
	if req == nil {
		return nil, invalid(CodeValidation, "", "category data is required")
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	branch, err := s.scope.branch(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}

	category := newCategory(branch.ID, *req)
	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		return fromRepository(s.store.Branches().CreateCategory(ctx, category), CodeCategoryNotFound, "category")
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames a live category
func (s *catalogService) UpdateCategory(ctx context.Context, companyID, branchID, categoryID string, req *CategoryRequest) (*models.Category, error) {
	if req == nil {
		return nil, invalid(CodeValidation, "", "category data is required")
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	branch, err := s.scope.branch(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}
	category, err := liveCategory(branch, categoryID)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(req.Name)
	if err := s.store.Branches().UpdateCategory(ctx, category); err != nil {
		return nil, fromRepository(err, CodeCategoryNotFound, "category")
	}
	return category, nil
}

// DeleteCategory soft deletes a category
func (s *catalogService) DeleteCategory(ctx context.Context, companyID, branchID, categoryID string) error {
	branch, err := s.scope.branch(ctx, companyID, branchID)
	if err != nil {
		return err
	}
	if _, err := liveCategory(branch, categoryID); err != nil {
		return err
	}
	return fromRepository(s.store.Branches().SoftDeleteCategory(ctx, branch.ID, categoryID), CodeCategoryNotFound, "category")
}

// AddSubcategory appends a subcategory to a live category
func (s *catalogService) AddSubcategory(ctx context.Context, companyID, branchID, categoryID string, req *SubcategoryRequest) (*models.Subcategory, error) {
	if req == nil {
		return nil, invalid(CodeValidation, "", "subcategory data is required")
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	branch, err := s.scope.branch(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}
	category, err := liveCategory(branch, categoryID)
	if err != nil {
		return nil, err
	}

	sub := newSubcategory(category.ID, *req)
	if err := s.store.Branches().CreateSubcategories(ctx, []*models.Subcategory{sub}); err != nil {
		return nil, fromRepository(err, CodeSubcategoryNotFound, "subcategory")
	}
	return sub, nil
}

// UpdateSubcategory replaces the fields of a live subcategory
func (s *catalogService) UpdateSubcategory(ctx context.Context, companyID, branchID, categoryID, subcategoryID string, req *SubcategoryRequest) (*models.Subcategory, error) {
	if req == nil {
		return nil, invalid(CodeValidation, "", "subcategory data is required")
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	branch, err := s.scope.branch(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}
	category, err := liveCategory(branch, categoryID)
	if err != nil {
		return nil, err
	}
	sub, err := liveSubcategory(category, subcategoryID)
	if err != nil {
		return nil, err
	}

	sub.Name = strings.TrimSpace(req.Name)
	sub.Description = req.Description
	sub.Price = *req.Price
	sub.Discount = req.Discount
	sub.GST = req.GST
	if err := s.store.Branches().UpdateSubcategory(ctx, sub); err != nil {
		return nil, fromRepository(err, CodeSubcategoryNotFound, "subcategory")
	}
	return sub, nil
}

// DeleteSubcategory soft deletes a subcategory
func (s *catalogService) DeleteSubcategory(ctx context.Context, companyID, branchID, categoryID, subcategoryID string) error {
	branch, err := s.scope.branch(ctx, companyID, branchID)
	if err != nil {
		return err
	}
	category, err := liveCategory(branch, categoryID)
	if err != nil {
		return err
	}
	if _, err := liveSubcategory(category, subcategoryID); err != nil {
		return err
	}
	return fromRepository(s.store.Branches().SoftDeleteSubcategory(ctx, category.ID, subcategoryID), CodeSubcategoryNotFound, "subcategory")
}

// ImportSubcategories validates every row before storing any of them. Missing names
// and prices are reported per row, numbered as spreadsheet rows below a header.
func (s *catalogService) ImportSubcategories(ctx context.Context, companyID, branchID, categoryID string, rows []ImportRow) ([]*models.Subcategory, error) {
	if len(rows) == 0 {
		return nil, invalid(CodeImportInvalid, "rows", "no rows to import")
	}

	branch, err := s.scope.branch(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}
	category, err := liveCategory(branch, categoryID)
	if err != nil {
		return nil, err
	}

	if err := validateImportRows(rows); err != nil {
		return nil, err
	}

	subs := make([]*models.Subcategory, 0, len(rows))
	for _, row := range rows {
		sub := models.NewSubcategory(category.ID, *row.Name, *row.Price)
		if row.Description != nil {
			sub.Description = *row.Description
		}
		if row.GST != nil {
			sub.GST = *row.GST
		}
		subs = append(subs, sub)
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		return fromRepository(s.store.Branches().CreateSubcategories(ctx, subs), CodeSubcategoryNotFound, "subcategory")
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"branch_id":   branch.ID,
		"category_id": category.ID,
		"imported":    len(subs),
	}).Info("subcategories imported")
	return subs, nil
}

// validateImportRows collects every row problem into one IMPORT_INVALID error
func validateImportRows(rows []ImportRow) error {
	var result *multierror.Error
	for i, row := range rows {
		line := i + 2
		if row.Name == nil || strings.TrimSpace(*row.Name) == "" {
			result = multierror.Append(result, fmt.Errorf("Row %d: Missing name", line))
		}
		switch {
		case row.Price == nil:
			result = multierror.Append(result, fmt.Errorf("Row %d: Missing price", line))
		case *row.Price < 0:
			result = multierror.Append(result, fmt.Errorf("Row %d: Invalid price", line))
		}
		if row.GST != nil && (*row.GST < 0 || *row.GST > 100) {
			result = multierror.Append(result, fmt.Errorf("Row %d: Invalid gst", line))
		}
	}
	if result == nil {
		return nil
	}

	details := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		details = append(details, e.Error())
	}
	return &ServiceError{
		Kind:    KindValidation,
		Code:    CodeImportInvalid,
		Field:   "rows",
		Message: "missing required fields in import",
		Details: details,
		Err:     result.ErrorOrNil(),
	}
}

func liveCategory(branch *models.Branch, categoryID string) (*models.Category, error) {
	category, ok := branch.Category(categoryID)
	if !ok || category.IsDeleted() {
		return nil, notFound(CodeCategoryNotFound, "category not found or deleted", nil)
	}
	return category, nil
}

func liveSubcategory(category *models.Category, subcategoryID string) (*models.Subcategory, error) {
	sub, ok := category.Subcategory(subcategoryID)
	if !ok || sub.IsDeleted() {
		return nil, notFound(CodeSubcategoryNotFound, "subcategory not found or deleted", nil)
	}
	return sub, nil
}

func newCategory(branchID string, req CategoryRequest) *models.Category {
	category := models.NewCategory(branchID, req.Name)
	for _, subReq := range req.Subcategories {
		category.Subcategories = append(category.Subcategories, *newSubcategory(category.ID, subReq))
	}
	return category
}

func newSubcategory(categoryID string, req SubcategoryRequest) *models.Subcategory {
	price := 0.0
	if req.Price != nil {
		price = *req.Price
	}
	sub := models.NewSubcategory(categoryID, req.Name, price)
	sub.Description = req.Description
	sub.Discount = req.Discount
	sub.GST = req.GST
	return sub
}
