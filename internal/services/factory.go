package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/AmanMalviya08/Bill-app-backend/internal/adapters/storage"
	"github.com/AmanMalviya08/Bill-app-backend/internal/billing"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	InvoiceService InvoiceService
	ReportService  ReportService
	CatalogService CatalogService
	ClientService  ClientService
	CompanyService CompanyService
}

// ServiceConfig holds configuration for services
type ServiceConfig struct {
	Reports ReportOptions
	// Archive stores generated reports; nil disables archiving
	Archive storage.FileStorage
	Logger  *logrus.Logger
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(store Store, config *ServiceConfig) (*ServiceContainer, error) {
	if store == nil {
		return nil, fmt.Errorf("repository store cannot be nil")
	}

	if config == nil {
		config = &ServiceConfig{Reports: DefaultReportOptions()}
	}
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	// One locker per process serializes invoice numbering per branch
	locker := billing.NewBranchLocker()

	return &ServiceContainer{
		InvoiceService: NewInvoiceService(store, locker, logger),
		ReportService:  NewReportService(store, config.Archive, config.Reports, logger),
		CatalogService: NewCatalogService(store, logger),
		ClientService:  NewClientService(store, logger),
		CompanyService: NewCompanyService(store, logger),
	}, nil
}
