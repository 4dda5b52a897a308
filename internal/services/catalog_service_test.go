package services

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCatalogService_DefaultBranchMovesOnCreateAndUpdate(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	catalog := e.services.CatalogService

	uptown, err := catalog.CreateBranch(ctx, e.company.ID, &BranchRequest{Name: "Uptown", IsDefault: true})
	require.NoError(t, err)

	branches, err := catalog.ListBranches(ctx, e.company.ID)
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, uptown.ID, branches[0].ID, "default branch is listed first")
	assert.True(t, branches[0].IsDefault)
	assert.False(t, branches[1].IsDefault)

	_, err = catalog.UpdateBranch(ctx, e.company.ID, e.branch.ID, &BranchRequest{Name: "Downtown", IsDefault: true})
	require.NoError(t, err)

	again, err := catalog.GetBranch(ctx, e.company.ID, uptown.ID)
	require.NoError(t, err)
	assert.False(t, again.IsDefault)

	downtown, err := catalog.GetBranch(ctx, e.company.ID, e.branch.ID)
	require.NoError(t, err)
	assert.True(t, downtown.IsDefault)
	assert.Len(t, downtown.Categories, 1, "updating a branch keeps its catalog")
}

func TestCatalogService_CreateBranchRequiresCompany(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	_, err := e.services.CatalogService.CreateBranch(ctx, "missing", &BranchRequest{Name: "Ghost"})
	requireCode(t, err, KindNotFound, CodeCompanyNotFound)

	se := requireCode(t, nilErr(e.services.CatalogService.CreateBranch(ctx, e.company.ID, &BranchRequest{})), KindValidation, CodeValidation)
	assert.Equal(t, "name", se.Field)
}

func TestCatalogService_CategoryLifecycle(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	catalog := e.services.CatalogService

	color, err := catalog.AddCategory(ctx, e.company.ID, e.branch.ID, &CategoryRequest{
		Name:          "Color",
		Subcategories: []SubcategoryRequest{{Name: "Global", Price: floatPtr(1500), GST: 18}},
	})
	require.NoError(t, err)
	require.Len(t, color.Subcategories, 1)

	renamed, err := catalog.UpdateCategory(ctx, e.company.ID, e.branch.ID, color.ID, &CategoryRequest{Name: "Hair Color"})
	require.NoError(t, err)
	assert.Equal(t, "Hair Color", renamed.Name)

	highlights, err := catalog.AddSubcategory(ctx, e.company.ID, e.branch.ID, color.ID, &SubcategoryRequest{Name: "Highlights", Price: floatPtr(900)})
	require.NoError(t, err)

	updated, err := catalog.UpdateSubcategory(ctx, e.company.ID, e.branch.ID, color.ID, highlights.ID, &SubcategoryRequest{
		Name:     "Highlights",
		Price:    floatPtr(950),
		Discount: 5,
		GST:      12,
	})
	require.NoError(t, err)
	assert.Equal(t, 950.0, updated.Price)

	require.NoError(t, catalog.DeleteSubcategory(ctx, e.company.ID, e.branch.ID, color.ID, highlights.ID))
	err = catalog.DeleteSubcategory(ctx, e.company.ID, e.branch.ID, color.ID, highlights.ID)
	requireCode(t, err, KindNotFound, CodeSubcategoryNotFound)

	require.NoError(t, catalog.DeleteCategory(ctx, e.company.ID, e.branch.ID, color.ID))

	branch, err := catalog.GetBranch(ctx, e.company.ID, e.branch.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(branch.Categories))
	for _, c := range branch.Categories {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"Haircut"}, names); diff != "" {
		t.Errorf("live categories mismatch (-want +got):\n%s", diff)
	}

	_, err = catalog.AddSubcategory(ctx, e.company.ID, e.branch.ID, color.ID, &SubcategoryRequest{Name: "Late", Price: floatPtr(1)})
	requireCode(t, err, KindNotFound, CodeCategoryNotFound)

	_, err = catalog.UpdateCategory(ctx, e.company.ID, e.branch.ID, "missing", &CategoryRequest{Name: "X"})
	requireCode(t, err, KindNotFound, CodeCategoryNotFound)
}

func TestCatalogService_ImportSubcategories(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	catalog := e.services.CatalogService

	_, err := catalog.ImportSubcategories(ctx, e.company.ID, e.branch.ID, e.haircut.ID, nil)
	requireCode(t, err, KindValidation, CodeImportInvalid)

	bad := []ImportRow{
		{Name: strPtr("Beard"), Price: floatPtr(50)},
		{Name: strPtr("  "), Price: floatPtr(10)},
		{Name: strPtr("Shave")},
		{Name: strPtr("Fade"), Price: floatPtr(-5), GST: floatPtr(140)},
	}
	_, err = catalog.ImportSubcategories(ctx, e.company.ID, e.branch.ID, e.haircut.ID, bad)
	se := requireCode(t, err, KindValidation, CodeImportInvalid)
	assert.Equal(t, "rows", se.Field)
	assert.Equal(t, []string{
		"Row 3: Missing name",
		"Row 4: Missing price",
		"Row 5: Invalid price",
		"Row 5: Invalid gst",
	}, se.Details)

	branch, err := catalog.GetBranch(ctx, e.company.ID, e.branch.ID)
	require.NoError(t, err)
	assert.Len(t, branch.Categories[0].Subcategories, 2, "a failed import stores nothing")

	imported, err := catalog.ImportSubcategories(ctx, e.company.ID, e.branch.ID, e.haircut.ID, []ImportRow{
		{Name: strPtr("Beard"), Description: strPtr("Trim and line"), Price: floatPtr(50), GST: floatPtr(5)},
		{Name: strPtr("Consultation"), Price: floatPtr(0)},
	})
	require.NoError(t, err)
	require.Len(t, imported, 2)
	assert.Equal(t, "Trim and line", imported[0].Description)
	assert.Equal(t, 5.0, imported[0].GST)
	assert.Equal(t, 0.0, imported[1].Price)

	branch, err = catalog.GetBranch(ctx, e.company.ID, e.branch.ID)
	require.NoError(t, err)
	assert.Len(t, branch.Categories[0].Subcategories, 4)
}

func TestCatalogService_GetBranchDetails(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	details, err := e.services.CatalogService.GetBranchDetails(ctx, e.company.ID, e.branch.ID)
	require.NoError(t, err)
	assert.Equal(t, "Downtown", details.Name)
	assert.True(t, details.IsDefault)
	assert.Equal(t, "Acme Salons", details.Company.Name)
	assert.Equal(t, "29ABCDE1234F1Z5", details.Company.GSTNumber)
	require.Len(t, details.Categories, 1)
	assert.Len(t, details.Categories[0].Subcategories, 2)

	other, err := e.services.CompanyService.CreateCompany(ctx, &CompanyRequest{Name: "Other", GSTNumber: "GST-OTHER", Address: "2 Side St", OwnerName: "Kim"})
	require.NoError(t, err)
	_, err = e.services.CatalogService.GetBranchDetails(ctx, other.ID, e.branch.ID)
	requireCode(t, err, KindNotFound, CodeBranchNotFound)
}

func TestCatalogService_DeleteBranch(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	require.NoError(t, e.services.CatalogService.DeleteBranch(ctx, e.company.ID, e.branch.ID))
	_, err := e.services.CatalogService.GetBranch(ctx, e.company.ID, e.branch.ID)
	requireCode(t, err, KindNotFound, CodeBranchNotFound)

	_, err = e.services.InvoiceService.CreateInvoice(ctx, e.invoiceRequest(e.regular, e.item(e.men, 1)))
	requireCode(t, err, KindNotFound, CodeBranchNotFound)
}

// nilErr discards a result and keeps its error
func nilErr[T any](_ T, err error) error { return err }
