package handlers

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/services"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	responder
	reportService services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService services.ReportService, r responder) *ReportHandler {
	return &ReportHandler{responder: r, reportService: reportService}
}

// ArchiveResponse identifies an archived report
type ArchiveResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// @Summary Branch performance report
// @Description Revenue windows, category performance, top subcategories, client insights, top clients and recommendations
// @Tags reports
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param clientType query string false "Client filter" Enums(all, regular, non-regular)
// @Param dateRange query string false "Preset range or custom" Enums(7d, 30d, 90d, custom)
// @Param startDate query string false "Custom range start (YYYY-MM-DD)"
// @Param endDate query string false "Custom range end (YYYY-MM-DD)"
// @Success 200 {object} models.RevenueReport
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/report [get]
func (h *ReportHandler) GetRevenueReport(c *gin.Context) {
	var filters services.ReportFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		h.badRequest(c, services.CodeInvalidFilter, "", "Invalid query parameters: "+err.Error())
		return
	}

	report, err := h.reportService.GenerateRevenueReport(c.Request.Context(), c.Param("companyId"), c.Param("branchId"), &filters)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Archive a branch performance report
// @Description Generate a branch report and store it in the report archive
// @Tags reports
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param clientType query string false "Client filter" Enums(all, regular, non-regular)
// @Param dateRange query string false "Preset range or custom" Enums(7d, 30d, 90d, custom)
// @Param startDate query string false "Custom range start (YYYY-MM-DD)"
// @Param endDate query string false "Custom range end (YYYY-MM-DD)"
// @Success 201 {object} ArchiveResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/report/archive [post]
func (h *ReportHandler) ArchiveRevenueReport(c *gin.Context) {
	var filters services.ReportFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		h.badRequest(c, services.CodeInvalidFilter, "", "Invalid query parameters: "+err.Error())
		return
	}

	key, err := h.reportService.ArchiveRevenueReport(c.Request.Context(), c.Param("companyId"), c.Param("branchId"), &filters)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ArchiveResponse{Key: key, Name: path.Base(key)})
}

// @Summary Get an archived report
// @Tags reports
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param name path string true "Archived report file name"
// @Success 200 {object} models.RevenueReport
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/report/archive/{name} [get]
func (h *ReportHandler) GetArchivedReport(c *gin.Context) {
	key := services.ArchivedReportKey(c.Param("companyId"), c.Param("branchId"), c.Param("name"))

	report, err := h.reportService.GetArchivedReport(c.Request.Context(), key)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Client portfolio
// @Description Segment the company clients by activity and rank them by spend at a branch
// @Tags reports
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param clientType query string false "Client filter" Enums(all, regular, non-regular)
// @Param dateRange query string false "Preset range" Enums(7d, 30d, 90d, all)
// @Success 200 {object} models.ClientPortfolio
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/portfolio [get]
func (h *ReportHandler) GetClientPortfolio(c *gin.Context) {
	var filters services.PortfolioFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		h.badRequest(c, services.CodeInvalidFilter, "", "Invalid query parameters: "+err.Error())
		return
	}

	portfolio, err := h.reportService.GetClientPortfolio(c.Request.Context(), c.Param("companyId"), c.Param("branchId"), &filters)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

// @Summary Company sales report
// @Description Sales grouped by day and by product
// @Tags reports
// @Produce json
// @Param companyId path string true "Company ID"
// @Param from query string false "Start date (YYYY-MM-DD or RFC3339)"
// @Param to query string false "End date (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} models.SalesReport
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/reports/sales [get]
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	from, ok := h.queryTime(c, "from", false)
	if !ok {
		return
	}
	to, ok := h.queryTime(c, "to", true)
	if !ok {
		return
	}

	report, err := h.reportService.GetSalesReport(c.Request.Context(), c.Param("companyId"), from, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Detailed invoice report
// @Description Company invoices with their lines, newest first
// @Tags reports
// @Produce json
// @Param companyId path string true "Company ID"
// @Param from query string false "Start date (YYYY-MM-DD or RFC3339)"
// @Param to query string false "End date (YYYY-MM-DD or RFC3339)"
// @Param branchId query string false "Restrict to one branch"
// @Param clientId query string false "Restrict to one client"
// @Param paymentStatus query string false "Payment status" Enums(pending, paid, partially_paid)
// @Success 200 {object} models.DetailedInvoiceReport
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/reports/invoices [get]
func (h *ReportHandler) GetDetailedInvoiceReport(c *gin.Context) {
	from, ok := h.queryTime(c, "from", false)
	if !ok {
		return
	}
	to, ok := h.queryTime(c, "to", true)
	if !ok {
		return
	}

	report, err := h.reportService.GetDetailedInvoiceReport(c.Request.Context(), c.Param("companyId"), &services.DetailedReportFilters{
		From:          from,
		To:            to,
		BranchID:      c.Query("branchId"),
		ClientID:      c.Query("clientId"),
		PaymentStatus: models.PaymentStatus(c.Query("paymentStatus")),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
