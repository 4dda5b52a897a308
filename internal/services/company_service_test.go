package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyService_GSTNumbersAreUnique(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	companies := e.services.CompanyService

	_, err := companies.CreateCompany(ctx, &CompanyRequest{
		Name:      "Copycat",
		GSTNumber: " 29ABCDE1234F1Z5 ",
		Address:   "9 Elm St",
		OwnerName: "Sam",
	})
	se := requireCode(t, err, KindConflict, CodeDuplicate)
	assert.Equal(t, "gstNumber", se.Field)

	other, err := companies.CreateCompany(ctx, &CompanyRequest{Name: "Other", GSTNumber: "GST-OTHER", Address: "2 Side St", OwnerName: "Kim"})
	require.NoError(t, err)

	_, err = companies.UpdateCompany(ctx, other.ID, &CompanyRequest{Name: "Other", GSTNumber: e.company.GSTNumber, Address: "2 Side St", OwnerName: "Kim"})
	requireCode(t, err, KindConflict, CodeDuplicate)

	// Keeping its own number is not a conflict
	updated, err := companies.UpdateCompany(ctx, e.company.ID, &CompanyRequest{
		Name:      "Acme Salons & Spa",
		GSTNumber: e.company.GSTNumber,
		Address:   "1 Main St",
		OwnerName: "Priya",
		Email:     "hello@acme.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Salons & Spa", updated.Name)
	assert.Equal(t, "hello@acme.example", updated.Email)
}

func TestCompanyService_DeleteReleasesGSTNumber(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	companies := e.services.CompanyService

	require.NoError(t, companies.DeleteCompany(ctx, e.company.ID))

	_, err := companies.GetCompany(ctx, e.company.ID)
	requireCode(t, err, KindNotFound, CodeCompanyNotFound)

	err = companies.DeleteCompany(ctx, e.company.ID)
	requireCode(t, err, KindNotFound, CodeCompanyNotFound)

	list, err := companies.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = companies.CreateCompany(ctx, &CompanyRequest{Name: "Acme Reborn", GSTNumber: "29ABCDE1234F1Z5", Address: "1 Main St", OwnerName: "Priya"})
	require.NoError(t, err)

	// Branches of a deleted company are out of reach
	_, err = e.services.CatalogService.ListBranches(ctx, e.company.ID)
	requireCode(t, err, KindNotFound, CodeCompanyNotFound)
}

func TestCompanyService_Validation(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   *CompanyRequest
		field string
	}{
		{"nil", nil, ""},
		{"missing name", &CompanyRequest{GSTNumber: "G", Address: "A", OwnerName: "O"}, "name"},
		{"missing gst", &CompanyRequest{Name: "N", Address: "A", OwnerName: "O"}, "gstNumber"},
		{"missing owner", &CompanyRequest{Name: "N", GSTNumber: "G", Address: "A"}, "ownerName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.services.CompanyService.CreateCompany(ctx, tt.req)
			se := requireCode(t, err, KindValidation, CodeValidation)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}
