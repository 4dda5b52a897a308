package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/services"
)

// BranchHandler handles branch and catalog HTTP requests
type BranchHandler struct {
	responder
	catalogService services.CatalogService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(catalogService services.CatalogService, r responder) *BranchHandler {
	return &BranchHandler{responder: r, catalogService: catalogService}
}

// ImportRequest carries already parsed catalog rows
type ImportRequest struct {
	Rows []services.ImportRow `json:"rows"`
}

// ImportResponse reports the subcategories created by an import
type ImportResponse struct {
	Message       string                `json:"message"`
	Imported      int                   `json:"imported"`
	Subcategories []*models.Subcategory `json:"subcategories"`
}

// @Summary Create a branch
// @Description Create a branch, optionally with its initial catalog
// @Tags branches
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branch body services.BranchRequest true "Branch data"
// @Success 201 {object} models.Branch
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches [post]
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	var req services.BranchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	branch, err := h.catalogService.CreateBranch(c.Request.Context(), c.Param("companyId"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, branch)
}

// @Summary List branches
// @Tags branches
// @Produce json
// @Param companyId path string true "Company ID"
// @Success 200 {array} models.Branch
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches [get]
func (h *BranchHandler) ListBranches(c *gin.Context) {
	branches, err := h.catalogService.ListBranches(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, branches)
}

// @Summary Get branch details
// @Description Get a branch with its company header and live catalog
// @Tags branches
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Success 200 {object} services.BranchDetails
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId} [get]
func (h *BranchHandler) GetBranch(c *gin.Context) {
	details, err := h.catalogService.GetBranchDetails(c.Request.Context(), c.Param("companyId"), c.Param("branchId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// @Summary Update a branch
// @Tags branches
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param branch body services.BranchRequest true "Branch data"
// @Success 200 {object} models.Branch
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId} [put]
func (h *BranchHandler) UpdateBranch(c *gin.Context) {
	var req services.BranchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	branch, err := h.catalogService.UpdateBranch(c.Request.Context(), c.Param("companyId"), c.Param("branchId"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, branch)
}

// @Summary Delete a branch
// @Tags branches
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId} [delete]
func (h *BranchHandler) DeleteBranch(c *gin.Context) {
	if err := h.catalogService.DeleteBranch(c.Request.Context(), c.Param("companyId"), c.Param("branchId")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Branch deleted successfully"})
}

// @Summary List categories
// @Description List the live categories of a branch catalog
// @Tags catalog
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Success 200 {array} models.Category
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/categories [get]
func (h *BranchHandler) ListCategories(c *gin.Context) {
	branch, err := h.catalogService.GetBranch(c.Request.Context(), c.Param("companyId"), c.Param("branchId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, branch.ActiveCategories())
}

// @Summary Add a category
// @Tags catalog
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param category body services.CategoryRequest true "Category data"
// @Success 201 {object} models.Category
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/categories [post]
func (h *BranchHandler) AddCategory(c *gin.Context) {
	var req services.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.catalogService.AddCategory(c.Request.Context(), c.Param("companyId"), c.Param("branchId"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// @Summary Update a category
// @Tags catalog
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param categoryId path string true "Category ID"
// @Param category body services.CategoryRequest true "Category data"
// @Success 200 {object} models.Category
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/categories/{categoryId} [put]
func (h *BranchHandler) UpdateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), c.Param("companyId"), c.Param("branchId"), c.Param("categoryId"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// @Summary Delete a category
// @Tags catalog
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param categoryId path string true "Category ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/categories/{categoryId} [delete]
func (h *BranchHandler) DeleteCategory(c *gin.Context) {
	err := h.catalogService.DeleteCategory(c.Request.Context(), c.Param("companyId"), c.Param("branchId"), c.Param("categoryId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted successfully"})
}

// @Summary Add a subcategory
// @Tags catalog
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param categoryId path string true "Category ID"
// @Param subcategory body services.SubcategoryRequest true "Subcategory data"
// @Success 201 {object} models.Subcategory
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/categories/{categoryId}/subcategories [post]
func (h *BranchHandler) AddSubcategory(c *gin.Context) {
	var req services.SubcategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sub, err := h.catalogService.AddSubcategory(c.Request.Context(), c.Param("companyId"), c.Param("branchId"), c.Param("categoryId"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// @Summary Update a subcategory
// @Tags catalog
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param categoryId path string true "Category ID"
// @Param subcategoryId path string true "Subcategory ID"
// @Param subcategory body services.SubcategoryRequest true "Subcategory data"
// @Success 200 {object} models.Subcategory
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/categories/{categoryId}/subcategories/{subcategoryId} [put]
func (h *BranchHandler) UpdateSubcategory(c *gin.Context) {
	var req services.SubcategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sub, err := h.catalogService.UpdateSubcategory(c.Request.Context(),
		c.Param("companyId"), c.Param("branchId"), c.Param("categoryId"), c.Param("subcategoryId"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// @Summary Delete a subcategory
// @Tags catalog
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param categoryId path string true "Category ID"
// @Param subcategoryId path string true "Subcategory ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/categories/{categoryId}/subcategories/{subcategoryId} [delete]
func (h *BranchHandler) DeleteSubcategory(c *gin.Context) {
	err := h.catalogService.DeleteSubcategory(c.Request.Context(),
		c.Param("companyId"), c.Param("branchId"), c.Param("categoryId"), c.Param("subcategoryId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Subcategory deleted successfully"})
}

// @Summary Import subcategories
// @Description Add parsed rows to a category. Any invalid row rejects the whole import.
// @Tags catalog
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param categoryId path string true "Category ID"
// @Param rows body ImportRequest true "Parsed rows"
// @Success 201 {object} ImportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/categories/{categoryId}/subcategories/import [post]
func (h *BranchHandler) ImportSubcategories(c *gin.Context) {
	var req ImportRequest
	if !h.bindJSON(c, &req) {
		return
	}

	subs, err := h.catalogService.ImportSubcategories(c.Request.Context(),
		c.Param("companyId"), c.Param("branchId"), c.Param("categoryId"), req.Rows)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ImportResponse{
		Message:       "Subcategories imported successfully",
		Imported:      len(subs),
		Subcategories: subs,
	})
}
