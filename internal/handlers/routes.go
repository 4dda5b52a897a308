package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/AmanMalviya08/Bill-app-backend/internal/middleware"
	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/services"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

const healthTimeout = 2 * time.Second

// HealthChecker reports whether a backing dependency is usable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Services    *services.ServiceContainer
	AuthService *middleware.AuthService
	// AuthEnabled guards /api/v1 with bearer tokens
	AuthEnabled bool
	Database    HealthChecker
	Logger      *logrus.Logger
	// Production hides upstream error details from responses
	Production bool
	// RateLimitRPS and RateLimitBurst size the per-caller token bucket on /api/v1.
	// RateLimitRPS <= 0 disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// MiddlewareConfig holds the global middleware settings
type MiddlewareConfig struct {
	CORSOrigins  []string
	SlowRequest  time.Duration
	MaxBodyBytes int64
}

func (config *RouterConfig) responder() responder {
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return responder{logger: logger, production: config.Production}
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	r := config.responder()
	svc := config.Services

	companyHandler := NewCompanyHandler(svc.CompanyService, r)
	branchHandler := NewBranchHandler(svc.CatalogService, r)
	clientHandler := NewClientHandler(svc.ClientService, svc.InvoiceService, r)
	invoiceHandler := NewInvoiceHandler(svc.InvoiceService, r)
	reportHandler := NewReportHandler(svc.ReportService, r)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", healthHandler(config.Database))

	v1 := router.Group("/api/v1")

	// One limiter serves every /api/v1 route. It runs after Authentication so that
	// signed-in callers get a bucket per user; anonymous callers share one per IP.
	limit := middleware.RateLimiter(r.logger, config.RateLimitRPS, config.RateLimitBurst)

	if config.AuthService != nil {
		authHandler := NewAuthHandler(config.AuthService, r)
		auth := v1.Group("/auth")
		{
			auth.POST("/refresh", limit, authHandler.RefreshToken)
			auth.POST("/validate", limit, authHandler.ValidateToken)
			auth.GET("/me", middleware.Authentication(config.AuthService, r.logger), limit, authHandler.GetCurrentUser)
		}
	}

	api := v1.Group("")
	adminOnly := []gin.HandlerFunc{}
	if config.AuthEnabled && config.AuthService != nil {
		api.Use(middleware.Authentication(config.AuthService, r.logger))
		adminOnly = append(adminOnly, middleware.Authorization(r.logger, string(middleware.RoleAdmin)))
	}
	api.Use(limit)

	companies := api.Group("/companies")
	{
		companies.POST("", companyHandler.CreateCompany)
		companies.GET("", companyHandler.ListCompanies)
		companies.GET("/:companyId", companyHandler.GetCompany)
		companies.PUT("/:companyId", companyHandler.UpdateCompany)
		companies.DELETE("/:companyId", append(adminOnly, companyHandler.DeleteCompany)...)
	}

	company := companies.Group("/:companyId")

	branches := company.Group("/branches")
	{
		branches.POST("", branchHandler.CreateBranch)
		branches.GET("", branchHandler.ListBranches)
		branches.GET("/:branchId", branchHandler.GetBranch)
		branches.PUT("/:branchId", branchHandler.UpdateBranch)
		branches.DELETE("/:branchId", branchHandler.DeleteBranch)
	}

	branch := branches.Group("/:branchId")

	categories := branch.Group("/categories")
	{
		categories.GET("", branchHandler.ListCategories)
		categories.POST("", branchHandler.AddCategory)
		categories.PUT("/:categoryId", branchHandler.UpdateCategory)
		categories.DELETE("/:categoryId", branchHandler.DeleteCategory)
		categories.POST("/:categoryId/subcategories", branchHandler.AddSubcategory)
		categories.POST("/:categoryId/subcategories/import", branchHandler.ImportSubcategories)
		categories.PUT("/:categoryId/subcategories/:subcategoryId", branchHandler.UpdateSubcategory)
		categories.DELETE("/:categoryId/subcategories/:subcategoryId", branchHandler.DeleteSubcategory)
	}

	invoices := branch.Group("/invoices")
	{
		invoices.POST("", invoiceHandler.CreateInvoice)
		invoices.GET("", invoiceHandler.ListBranchInvoices)
		invoices.GET("/:invoiceId", invoiceHandler.GetInvoice)
		invoices.GET("/:invoiceId/print", invoiceHandler.GetInvoice)
		invoices.PUT("/:invoiceId", invoiceHandler.UpdateInvoice)
		invoices.DELETE("/:invoiceId", invoiceHandler.DeleteInvoice)
		invoices.POST("/:invoiceId/items", invoiceHandler.AddItem)
		invoices.PUT("/:invoiceId/items/:itemId", invoiceHandler.UpdateItemQuantity)
		invoices.DELETE("/:invoiceId/items/:itemId", invoiceHandler.RemoveItem)
	}

	branch.GET("/report", reportHandler.GetRevenueReport)
	branch.POST("/report/archive", reportHandler.ArchiveRevenueReport)
	branch.GET("/report/archive/:name", reportHandler.GetArchivedReport)
	branch.GET("/portfolio", reportHandler.GetClientPortfolio)

	clients := company.Group("/clients")
	{
		clients.POST("", clientHandler.CreateClient)
		clients.GET("", clientHandler.ListClients)
		clients.GET("/:clientId", clientHandler.GetClient)
		clients.PUT("/:clientId", clientHandler.UpdateClient)
		clients.DELETE("/:clientId", clientHandler.DeleteClient)
		clients.PATCH("/:clientId/regular", clientHandler.MarkRegular)
		clients.GET("/:clientId/prices", clientHandler.GetClientPrices)
		clients.GET("/:clientId/invoices", clientHandler.ListClientInvoices)
	}

	company.GET("/reports/sales", reportHandler.GetSalesReport)
	company.GET("/reports/invoices", reportHandler.GetDetailedInvoiceReport)
	company.GET("/invoices/summary", invoiceHandler.GetInvoiceSummary)
}

// @Summary Health check
// @Description Report service and database health
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthCheck
// @Failure 503 {object} models.HealthCheck
// @Router /health [get]
func healthHandler(db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := models.HealthCheck{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Version:   Version,
			Services:  map[string]string{"api": "healthy"},
		}

		status := http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := db.HealthCheck(ctx); err != nil {
				health.Status = "unhealthy"
				health.Services["database"] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				health.Services["database"] = "healthy"
			}
		}
		c.JSON(status, health)
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, config *MiddlewareConfig, logger *logrus.Logger) {
	if config == nil {
		config = &MiddlewareConfig{}
	}
	if config.MaxBodyBytes == 0 {
		config.MaxBodyBytes = 10 * 1024 * 1024
	}
	if config.SlowRequest == 0 {
		config.SlowRequest = time.Second
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.CORS(config.CORSOrigins))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(config.MaxBodyBytes))
	router.Use(middleware.ContentTypeValidation("application/json"))
	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.PerformanceMonitor(logger, config.SlowRequest))
	router.Use(middleware.AuditLogger(logger))
	router.Use(middleware.ErrorHandler(logger))
}

// SetupDevelopmentRoutes adds development-only routes
func SetupDevelopmentRoutes(router *gin.Engine, config *RouterConfig) {
	if config.AuthService == nil {
		return
	}
	authHandler := NewAuthHandler(config.AuthService, config.responder())

	dev := router.Group("/dev")
	{
		dev.POST("/token", authHandler.IssueDevToken)
		dev.GET("/config", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"api_version":  Version,
				"auth_enabled": config.AuthEnabled,
				"swagger_url":  "/swagger/index.html",
				"roles":        []string{string(middleware.RoleAdmin), string(middleware.RoleAccountant), string(middleware.RoleCashier)},
			})
		})
	}
}
