package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AmanMalviya08/Bill-app-backend/internal/billing"
	"github.com/AmanMalviya08/Bill-app-backend/internal/services"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	responder
	invoiceService services.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService services.InvoiceService, r responder) *InvoiceHandler {
	return &InvoiceHandler{responder: r, invoiceService: invoiceService}
}

// UpdateQuantityRequest is the body of the item quantity update
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// @Summary Create an invoice
// @Description Price, number and store an invoice. Company and branch come from the path.
// @Tags invoices
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param invoice body services.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} models.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req services.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CompanyID = c.Param("companyId")
	req.BranchID = c.Param("branchId")

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// @Summary List branch invoices
// @Tags invoices
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Success 200 {array} models.Invoice
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/invoices [get]
func (h *InvoiceHandler) ListBranchInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.ListBranchInvoices(c.Request.Context(), c.Param("companyId"), c.Param("branchId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// @Summary Get invoice details
// @Description Get an invoice enriched with live company, branch and catalog names. Also serves the print view.
// @Tags invoices
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param invoiceId path string true "Invoice ID"
// @Success 200 {object} models.InvoiceDetails
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/invoices/{invoiceId} [get]
// @Router /companies/{companyId}/branches/{branchId}/invoices/{invoiceId}/print [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	details, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("companyId"), c.Param("branchId"), c.Param("invoiceId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// @Summary Update an invoice
// @Description Update payment status, payment method, notes or due date. Items and totals are untouched.
// @Tags invoices
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param invoiceId path string true "Invoice ID"
// @Param invoice body services.UpdateInvoiceRequest true "Invoice changes"
// @Success 200 {object} models.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/invoices/{invoiceId} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req services.UpdateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("companyId"), c.Param("branchId"), c.Param("invoiceId"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// @Summary Delete an invoice
// @Description Soft delete an invoice
// @Tags invoices
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param invoiceId path string true "Invoice ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/invoices/{invoiceId} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("companyId"), c.Param("branchId"), c.Param("invoiceId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Invoice deleted successfully"})
}

// @Summary Add an invoice item
// @Tags invoices
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param invoiceId path string true "Invoice ID"
// @Param item body billing.LineItemRequest true "Line item"
// @Success 200 {object} models.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/invoices/{invoiceId}/items [post]
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	var item billing.LineItemRequest
	if !h.bindJSON(c, &item) {
		return
	}

	invoice, err := h.invoiceService.AddItem(c.Request.Context(), c.Param("companyId"), c.Param("branchId"), c.Param("invoiceId"), item)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// @Summary Update an item quantity
// @Tags invoices
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param invoiceId path string true "Invoice ID"
// @Param itemId path string true "Item ID"
// @Param quantity body UpdateQuantityRequest true "New quantity"
// @Success 200 {object} models.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/invoices/{invoiceId}/items/{itemId} [put]
func (h *InvoiceHandler) UpdateItemQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.Quantity == nil {
		h.badRequest(c, services.CodeInvalidQuantity, "quantity", "quantity is required")
		return
	}

	invoice, err := h.invoiceService.UpdateItemQuantity(c.Request.Context(),
		c.Param("companyId"), c.Param("branchId"), c.Param("invoiceId"), c.Param("itemId"), *req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// @Summary Remove an invoice item
// @Description Remove a line item. The last item of an invoice cannot be removed.
// @Tags invoices
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId path string true "Branch ID"
// @Param invoiceId path string true "Invoice ID"
// @Param itemId path string true "Item ID"
// @Success 200 {object} models.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/branches/{branchId}/invoices/{invoiceId}/items/{itemId} [delete]
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	invoice, err := h.invoiceService.RemoveItem(c.Request.Context(),
		c.Param("companyId"), c.Param("branchId"), c.Param("invoiceId"), c.Param("itemId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// @Summary Company invoice summary
// @Description Count and total invoices of a company, optionally for one branch and date range
// @Tags invoices
// @Produce json
// @Param companyId path string true "Company ID"
// @Param branchId query string false "Restrict to one branch"
// @Param from query string false "Start date (YYYY-MM-DD or RFC3339)"
// @Param to query string false "End date (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} models.InvoiceSummary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/invoices/summary [get]
func (h *InvoiceHandler) GetInvoiceSummary(c *gin.Context) {
	from, ok := h.queryTime(c, "from", false)
	if !ok {
		return
	}
	to, ok := h.queryTime(c, "to", true)
	if !ok {
		return
	}

	summary, err := h.invoiceService.GetInvoiceSummary(c.Request.Context(), &services.SummaryFilters{
		CompanyID: c.Param("companyId"),
		BranchID:  c.Query("branchId"),
		From:      from,
		To:        to,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
