package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AmanMalviya08/Bill-app-backend/internal/database"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"

	"github.com/sirupsen/logrus"
)

// SQLiteRepositoryManager implements the RepositoryManager interface for SQLite
type SQLiteRepositoryManager struct {
	*TxManager

	db          *sql.DB
	logger      *logrus.Logger
	companyRepo *CompanyRepository
	branchRepo  *BranchRepository
	clientRepo  *ClientRepository
	invoiceRepo *InvoiceRepository
}

// NewSQLiteRepositoryManager creates a repository manager over an open database
func NewSQLiteRepositoryManager(db *sql.DB, logger *logrus.Logger) *SQLiteRepositoryManager {
	if logger == nil {
		logger = logrus.New()
	}

	return &SQLiteRepositoryManager{
		TxManager:   NewTxManager(db, logger),
		db:          db,
		logger:      logger,
		companyRepo: NewCompanyRepository(db, logger),
		branchRepo:  NewBranchRepository(db, logger),
		clientRepo:  NewClientRepository(db, logger),
		invoiceRepo: NewInvoiceRepository(db, logger),
	}
}

// Companies returns the company repository
func (m *SQLiteRepositoryManager) Companies() repositories.CompanyRepository {
	return m.companyRepo
}

// Branches returns the branch repository
func (m *SQLiteRepositoryManager) Branches() repositories.BranchRepository {
	return m.branchRepo
}

// Clients returns the client repository
func (m *SQLiteRepositoryManager) Clients() repositories.ClientRepository {
	return m.clientRepo
}

// Invoices returns the invoice repository
func (m *SQLiteRepositoryManager) Invoices() repositories.InvoiceRepository {
	return m.invoiceRepo
}

// Close closes the database connection
func (m *SQLiteRepositoryManager) Close() error {
	if m.db == nil {
		return nil
	}
	if err := m.db.Close(); err != nil {
		return repositories.ConnectionError(fmt.Errorf("close: %w", err))
	}
	return nil
}

// Health checks the database connection
func (m *SQLiteRepositoryManager) Health(ctx context.Context) error {
	if m.db == nil {
		return repositories.ConnectionError(fmt.Errorf("database not initialized"))
	}
	if err := database.HealthCheck(ctx, m.db); err != nil {
		return repositories.ConnectionError(err)
	}
	return nil
}

var _ repositories.RepositoryManager = (*SQLiteRepositoryManager)(nil)
