package sqlite

import (
	"context"
	"testing"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRepository_ListFilters(t *testing.T) {
	m := setupTestManager(t)
	f := seed(t, m)
	repo := m.Clients()
	ctx := context.Background()

	walkIn := models.NewClient(f.company.ID, "Bala", "8888888888")
	require.NoError(t, repo.Create(ctx, walkIn))

	gone := models.NewClient(f.company.ID, "Chitra", "7777777777")
	require.NoError(t, repo.Create(ctx, gone))
	require.NoError(t, repo.SoftDelete(ctx, gone.ID))

	regular, nonRegular := true, false

	tests := []struct {
		name    string
		filters repositories.ClientFilters
		want    []string
	}{
		{"company", repositories.ClientFilters{CompanyID: f.company.ID}, []string{"Asha", "Bala"}},
		{"regular", repositories.ClientFilters{CompanyID: f.company.ID, IsRegular: &regular}, []string{"Asha"}},
		{"non-regular", repositories.ClientFilters{CompanyID: f.company.ID, IsRegular: &nonRegular}, []string{"Bala"}},
		{"ids", repositories.ClientFilters{IDs: []string{walkIn.ID, gone.ID}}, []string{"Bala"}},
		{"empty ids", repositories.ClientFilters{IDs: []string{}}, nil},
		{"with deleted", repositories.ClientFilters{CompanyID: f.company.ID, IncludeDeleted: true}, []string{"Asha", "Bala", "Chitra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clients, err := repo.List(ctx, tt.filters)
			require.NoError(t, err)

			var names []string
			for _, c := range clients {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestClientRepository_Update(t *testing.T) {
	m := setupTestManager(t)
	f := seed(t, m)
	ctx := context.Background()

	client, err := m.Clients().GetByID(ctx, f.client.ID)
	require.NoError(t, err)
	assert.True(t, client.IsRegular)
	assert.Equal(t, 10.0, client.DiscountPercentage)

	client.IsRegular = false
	client.DiscountPercentage = 0
	require.NoError(t, m.Clients().Update(ctx, client))

	client, err = m.Clients().GetByID(ctx, f.client.ID)
	require.NoError(t, err)
	assert.False(t, client.IsRegular)

	client.DiscountPercentage = 150
	assert.True(t, repositories.IsValidation(m.Clients().Update(ctx, client)))
}

func TestClientRepository_CreateForUnknownCompany(t *testing.T) {
	m := setupTestManager(t)

	client := models.NewClient("missing-company", "Ravi", "9000000000")
	err := m.Clients().Create(context.Background(), client)
	require.Error(t, err)
	assert.True(t, repositories.IsForeignKey(err))
	assert.False(t, repositories.IsDuplicate(err))
}

func TestClientRepository_CreateDuplicateID(t *testing.T) {
	m := setupTestManager(t)
	f := seed(t, m)

	client := models.NewClient(f.company.ID, "Ravi", "9000000000")
	require.NoError(t, m.Clients().Create(context.Background(), client))

	err := m.Clients().Create(context.Background(), client)
	assert.True(t, repositories.IsDuplicate(err))
	assert.Equal(t, "id", repositories.ConflictField(err))
}
