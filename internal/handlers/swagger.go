package handlers

// @title Branch Billing API
// @version 1.0
// @description Multi-tenant billing for company branches: catalogs, GST-aware invoices and branch performance reports
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/AmanMalviya08/Bill-app-backend

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name companies
// @tag.description Company management operations

// @tag.name branches
// @tag.description Branch management operations

// @tag.name catalog
// @tag.description Category and subcategory catalog operations

// @tag.name clients
// @tag.description Client management and price lists

// @tag.name invoices
// @tag.description Invoice pricing and lifecycle operations

// @tag.name reports
// @tag.description Branch performance, portfolio and sales reports

// @tag.name auth
// @tag.description Token operations
