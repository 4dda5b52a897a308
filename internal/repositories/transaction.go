package repositories

import (
	"context"
)

// Transaction is an open unit of work. Any repository call made with Context()
// reads and writes inside it.
type Transaction interface {
	Commit() error
	// Rollback after Commit is a no-op
	Rollback() error
	Context() context.Context
}

// TransactionManager opens units of work. Invoice creation uses one to reserve the
// branch's next invoice number and write the invoice with its lines atomically.
type TransactionManager interface {
	BeginTransaction(ctx context.Context) (Transaction, error)

	// WithTransaction commits when fn returns nil and rolls back on an error or a
	// panic. If ctx already carries a transaction, fn joins it.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories exposes the tenant data of one store: companies, their branches with
// the branch catalogs, clients and invoices.
type Repositories interface {
	Companies() CompanyRepository
	Branches() BranchRepository
	Clients() ClientRepository
	Invoices() InvoiceRepository
}

// RepositoryManager is the store the services depend on
type RepositoryManager interface {
	TransactionManager
	Repositories

	Close() error
	// Health fails when the database is unreachable or foreign keys are off
	Health(ctx context.Context) error
}
