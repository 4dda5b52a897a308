package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AmanMalviya08/Bill-app-backend/internal/services"
)

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	responder
	clientService  services.ClientService
	invoiceService services.InvoiceService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService services.ClientService, invoiceService services.InvoiceService, r responder) *ClientHandler {
	return &ClientHandler{responder: r, clientService: clientService, invoiceService: invoiceService}
}

// MarkRegularRequest is the body of the mark-regular operation
type MarkRegularRequest struct {
	DiscountPercentage float64 `json:"discountPercentage"`
}

// @Summary Create a client
// @Tags clients
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param client body services.ClientRequest true "Client data"
// @Success 201 {object} models.Client
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.ClientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), c.Param("companyId"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// @Summary List clients
// @Tags clients
// @Produce json
// @Param companyId path string true "Company ID"
// @Param isRegular query bool false "Filter by the regular flag"
// @Success 200 {array} models.Client
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	isRegular, ok := h.queryBool(c, "isRegular")
	if !ok {
		return
	}

	clients, err := h.clientService.ListClients(c.Request.Context(), c.Param("companyId"), isRegular)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// @Summary Get a client
// @Tags clients
// @Produce json
// @Param companyId path string true "Company ID"
// @Param clientId path string true "Client ID"
// @Success 200 {object} models.Client
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/clients/{clientId} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientService.GetClient(c.Request.Context(), c.Param("companyId"), c.Param("clientId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// @Summary Update a client
// @Tags clients
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param clientId path string true "Client ID"
// @Param client body services.ClientRequest true "Client data"
// @Success 200 {object} models.Client
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/clients/{clientId} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req services.ClientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), c.Param("companyId"), c.Param("clientId"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// @Summary Delete a client
// @Tags clients
// @Produce json
// @Param companyId path string true "Company ID"
// @Param clientId path string true "Client ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/clients/{clientId} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.clientService.DeleteClient(c.Request.Context(), c.Param("companyId"), c.Param("clientId")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Client deleted successfully"})
}

// @Summary Mark a client as regular
// @Description Flag a client as regular with a standing discount
// @Tags clients
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param clientId path string true "Client ID"
// @Param discount body MarkRegularRequest true "Standing discount"
// @Success 200 {object} models.Client
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/clients/{clientId}/regular [patch]
func (h *ClientHandler) MarkRegular(c *gin.Context) {
	var req MarkRegularRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.MarkRegular(c.Request.Context(), c.Param("companyId"), c.Param("clientId"), req.DiscountPercentage)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// @Summary Get a client price list
// @Description Get a client with the prices they would pay at every branch
// @Tags clients
// @Produce json
// @Param companyId path string true "Company ID"
// @Param clientId path string true "Client ID"
// @Success 200 {object} models.ClientPriceList
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/clients/{clientId}/prices [get]
func (h *ClientHandler) GetClientPrices(c *gin.Context) {
	prices, err := h.clientService.GetClientWithPrices(c.Request.Context(), c.Param("companyId"), c.Param("clientId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}

// @Summary List client invoices
// @Description List the invoices of a client across every branch of the company
// @Tags clients
// @Produce json
// @Param companyId path string true "Company ID"
// @Param clientId path string true "Client ID"
// @Success 200 {array} models.Invoice
// @Failure 404 {object} ErrorResponse
// @Router /companies/{companyId}/clients/{clientId}/invoices [get]
func (h *ClientHandler) ListClientInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.ListClientInvoices(c.Request.Context(), c.Param("companyId"), c.Param("clientId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}
