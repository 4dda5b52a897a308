package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AmanMalviya08/Bill-app-backend/internal/services"
)

// CompanyHandler handles company-related HTTP requests
type CompanyHandler struct {
	responder
	companyService services.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService services.CompanyService, r responder) *CompanyHandler {
	return &CompanyHandler{responder: r, companyService: companyService}
}

// @Summary Create a company
// @Description Create a company. GST numbers are unique among live companies.
// @Tags companies
// @Accept json
// @Produce json
// @Param company body services.CompanyRequest true "Company data"
// @Success 201 {object} models.Company
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req services.CompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

// @Summary List companies
// @Tags companies
// @Produce json
// @Success 200 {array} models.Company
// @Failure 500 {object} ErrorResponse
// @Router /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	companies, err := h.companyService.ListCompanies(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

// @Summary Get a company
// @Tags companies
// @Produce json
// @Param companyId path string true "Company ID"
// @Success 200 {object} models.Company
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, err := h.companyService.GetCompany(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// @Summary Update a company
// @Tags companies
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param company body services.CompanyRequest true "Company data"
// @Success 200 {object} models.Company
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /companies/{companyId} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req services.CompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), c.Param("companyId"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// @Summary Delete a company
// @Description Soft delete a company
// @Tags companies
// @Produce json
// @Param companyId path string true "Company ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId} [delete]
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	if err := h.companyService.DeleteCompany(c.Request.Context(), c.Param("companyId")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Company deleted successfully"})
}
