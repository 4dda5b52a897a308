package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/AmanMalviya08/Bill-app-backend/internal/database"
	"github.com/AmanMalviya08/Bill-app-backend/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func setupTestManager(t *testing.T) *SQLiteRepositoryManager {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	cm := database.NewConnectionManager(&database.ConnectionConfig{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		AutoMigrate:     true,
		Logger:          logger,
	})
	require.NoError(t, cm.Connect(context.Background()))
	t.Cleanup(func() { cm.Close() })

	return NewSQLiteRepositoryManager(cm.DB(), logger)
}

type fixture struct {
	company *models.Company
	branch  *models.Branch
	client  *models.Client
}

// seed stores a company with one branch (catalog Haircut: Men, Kids) and one regular client
func seed(t *testing.T, m *SQLiteRepositoryManager) fixture {
	t.Helper()
	ctx := context.Background()

	company := models.NewCompany("Acme Salons", "29ABCDE1234F1Z5", "1 Main St", "Priya")
	require.NoError(t, m.Companies().Create(ctx, company))

	branch := models.NewBranch(company.ID, "Downtown")
	branch.IsDefault = true
	haircut := models.NewCategory(branch.ID, "Haircut")
	men := models.NewSubcategory(haircut.ID, "Men", 100)
	men.GST = 18
	kids := models.NewSubcategory(haircut.ID, "Kids", 60)
	haircut.Subcategories = []models.Subcategory{*men, *kids}
	branch.Categories = []models.Category{*haircut}
	require.NoError(t, m.Branches().Create(ctx, branch))

	client := models.NewClient(company.ID, "Asha", "9999999999")
	client.IsRegular = true
	client.DiscountPercentage = 10
	require.NoError(t, m.Clients().Create(ctx, client))

	return fixture{company: company, branch: branch, client: client}
}

func newTestInvoice(f fixture, number string, date time.Time, total float64) *models.Invoice {
	inv := models.NewInvoice(f.company.ID, f.branch.ID, f.client)
	inv.InvoiceNumber = number
	inv.Date = date
	inv.CompanyGST = f.company.GSTNumber
	cat := f.branch.Categories[0]
	sub := cat.Subcategories[0]
	inv.Items = []models.LineItem{{
		CategoryID:      cat.ID,
		SubcategoryID:   sub.ID,
		Name:            sub.Name,
		Quantity:        1,
		Price:           total,
		FinalAmount:     total,
		CategoryName:    cat.Name,
		SubcategoryName: sub.Name,
	}}
	inv.Subtotal = total
	inv.GrandTotal = total
	return inv
}
