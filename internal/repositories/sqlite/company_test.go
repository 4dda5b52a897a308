package sqlite

import (
	"context"
	"testing"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyRepository_CRUD(t *testing.T) {
	m := setupTestManager(t)
	repo := m.Companies()
	ctx := context.Background()

	company := models.NewCompany("Acme", "GST-1", "1 Main St", "Priya")
	company.Email = "owner@acme.test"
	require.NoError(t, repo.Create(ctx, company))

	got, err := repo.GetByID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "owner@acme.test", got.Email)
	assert.True(t, company.CreatedAt.Equal(got.CreatedAt))

	byGST, err := repo.GetByGSTNumber(ctx, "GST-1")
	require.NoError(t, err)
	assert.Equal(t, company.ID, byGST.ID)

	got.Name = "Acme Group"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Group", got.Name)

	require.NoError(t, repo.SoftDelete(ctx, company.ID))
	_, err = repo.GetByID(ctx, company.ID)
	assert.True(t, repositories.IsNotFound(err))
	assert.True(t, repositories.IsNotFound(repo.SoftDelete(ctx, company.ID)), "second delete finds no live row")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCompanyRepository_GSTNumberUniqueAmongLiveCompanies(t *testing.T) {
	m := setupTestManager(t)
	repo := m.Companies()
	ctx := context.Background()

	first := models.NewCompany("First", "GST-DUP", "addr", "owner")
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, models.NewCompany("Second", "GST-DUP", "addr", "owner"))
	assert.True(t, repositories.IsDuplicate(err))

	require.NoError(t, repo.SoftDelete(ctx, first.ID))
	assert.NoError(t, repo.Create(ctx, models.NewCompany("Third", "GST-DUP", "addr", "owner")),
		"a deleted company releases its GST number")
}

func TestCompanyRepository_ValidationAndMissingID(t *testing.T) {
	m := setupTestManager(t)
	ctx := context.Background()

	err := m.Companies().Create(ctx, models.NewCompany("", "GST", "addr", "owner"))
	assert.True(t, repositories.IsValidation(err))

	_, err = m.Companies().GetByID(ctx, "  ")
	assert.ErrorIs(t, err, repositories.ErrInvalidID)

	_, err = m.Companies().GetByID(ctx, "missing")
	assert.True(t, repositories.IsNotFound(err))
}
