package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/AmanMalviya08/Bill-app-backend/internal/adapters/storage"
	"github.com/AmanMalviya08/Bill-app-backend/internal/billing"
	"github.com/AmanMalviya08/Bill-app-backend/internal/database"
	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories/sqlite"
)

// env is a migrated temp-dir store with the services built over it
type env struct {
	store    Store
	services *ServiceContainer
	files    storage.FileStorage

	company *models.Company
	branch  *models.Branch
	haircut *models.Category
	men     *models.Subcategory
	kids    *models.Subcategory
	regular *models.Client
	walkIn  *models.Client
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func newTestStore(t *testing.T) *sqlite.SQLiteRepositoryManager {
	t.Helper()

	logger := quietLogger()
	cm := database.NewConnectionManager(&database.ConnectionConfig{
		Path:            filepath.Join(t.TempDir(), "billing.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		AutoMigrate:     true,
		Logger:          logger,
	})
	require.NoError(t, cm.Connect(context.Background()))
	t.Cleanup(func() { cm.Close() })

	return sqlite.NewSQLiteRepositoryManager(cm.DB(), logger)
}

// setupEnv seeds a company with branch "Downtown" selling Haircut/Men (100, GST 18)
// and Haircut/Kids (60, no GST), a regular client with 10% off and a walk-in client
func setupEnv(t *testing.T) *env {
	return setupEnvWithStore(t, newTestStore(t))
}

func setupEnvWithStore(t *testing.T, store Store) *env {
	t.Helper()
	ctx := context.Background()

	files, err := storage.NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	services, err := NewServiceContainer(store, &ServiceConfig{
		Reports: DefaultReportOptions(),
		Archive: files,
		Logger:  quietLogger(),
	})
	require.NoError(t, err)

	company, err := services.CompanyService.CreateCompany(ctx, &CompanyRequest{
		Name:      "Acme Salons",
		GSTNumber: "29ABCDE1234F1Z5",
		Address:   "1 Main St",
		OwnerName: "Priya",
	})
	require.NoError(t, err)

	branch, err := services.CatalogService.CreateBranch(ctx, company.ID, &BranchRequest{
		Name:      "Downtown",
		IsDefault: true,
		Categories: []CategoryRequest{{
			Name: "Haircut",
			Subcategories: []SubcategoryRequest{
				{Name: "Men", Price: floatPtr(100), GST: 18},
				{Name: "Kids", Price: floatPtr(60)},
			},
		}},
	})
	require.NoError(t, err)

	regular, err := services.ClientService.CreateClient(ctx, company.ID, &ClientRequest{
		Name:               "Asha",
		Phone:              "9999999999",
		IsRegular:          true,
		DiscountPercentage: 10,
	})
	require.NoError(t, err)

	walkIn, err := services.ClientService.CreateClient(ctx, company.ID, &ClientRequest{
		Name:  "Ravi",
		Phone: "8888888888",
	})
	require.NoError(t, err)

	haircut := &branch.Categories[0]
	return &env{
		store:    store,
		services: services,
		files:    files,
		company:  company,
		branch:   branch,
		haircut:  haircut,
		men:      &haircut.Subcategories[0],
		kids:     &haircut.Subcategories[1],
		regular:  regular,
		walkIn:   walkIn,
	}
}

func (e *env) item(sub *models.Subcategory, quantity int) billing.LineItemRequest {
	return billing.LineItemRequest{
		CategoryID:    e.haircut.ID,
		SubcategoryID: sub.ID,
		Quantity:      &quantity,
	}
}

func (e *env) invoiceRequest(client *models.Client, items ...billing.LineItemRequest) *CreateInvoiceRequest {
	return &CreateInvoiceRequest{
		CompanyID: e.company.ID,
		BranchID:  e.branch.ID,
		ClientID:  client.ID,
		Items:     items,
	}
}

func (e *env) createInvoice(t *testing.T, date time.Time, client *models.Client, items ...billing.LineItemRequest) *models.Invoice {
	t.Helper()
	req := e.invoiceRequest(client, items...)
	req.Date = &date
	inv, err := e.services.InvoiceService.CreateInvoice(context.Background(), req)
	require.NoError(t, err)
	return inv
}

func requireCode(t *testing.T, err error, kind ErrorKind, code string) *ServiceError {
	t.Helper()
	require.Error(t, err)
	se, ok := AsServiceError(err)
	require.True(t, ok, "expected ServiceError, got %T: %v", err, err)
	require.Equal(t, kind, se.Kind, se.Error())
	require.Equal(t, code, se.Code, se.Error())
	return se
}

func floatPtr(v float64) *float64 { return &v }

// failingClients makes every client listing fail
type failingClients struct {
	repositories.ClientRepository
	err error
}

func (f failingClients) List(ctx context.Context, filters repositories.ClientFilters) ([]*models.Client, error) {
	return nil, f.err
}

// storeWithClients swaps the client repository of a store
type storeWithClients struct {
	Store
	clients repositories.ClientRepository
}

func (s storeWithClients) Clients() repositories.ClientRepository { return s.clients }
