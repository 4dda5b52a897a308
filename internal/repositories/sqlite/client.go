package sqlite

import (
	"context"
	"database/sql"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"

	"github.com/sirupsen/logrus"
)

const clientColumns = `id, company_id, branch_id, name, email, phone, address, gst_number,
	is_regular, discount_percentage, created_at, updated_at, deleted_at`

// ClientRepository implements the ClientRepository interface for SQLite
type ClientRepository struct {
	*BaseRepository
}

// NewClientRepository creates a new SQLite client repository
func NewClientRepository(db *sql.DB, logger *logrus.Logger) *ClientRepository {
	return &ClientRepository{
		BaseRepository: NewBaseRepository(db, "clients", "client", logger),
	}
}

// Create creates a new client
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	if err := client.Validate(); err != nil {
		return repositories.ValidationError("client", client.ID, err)
	}

	query := `INSERT INTO clients (` + clientColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.executeExec(ctx, "create", query,
		client.ID,
		client.CompanyID,
		client.BranchID,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
		client.GSTNumber,
		client.IsRegular,
		client.DiscountPercentage,
		utc(client.CreatedAt),
		utc(client.UpdatedAt),
		nullableTime(client.DeletedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("client", "id", client.ID)
		}
		return err
	}
	return nil
}

// GetByID retrieves a live client by ID
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ? AND deleted_at IS NULL`
	client, err := scanClient(r.executeQueryRow(ctx, "get_by_id", query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("client", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "client", id, err)
	}
	return client, nil
}

// List retrieves clients matching the filters ordered by name
func (r *ClientRepository) List(ctx context.Context, filters repositories.ClientFilters) ([]*models.Client, error) {
	var where whereBuilder
	if filters.CompanyID != "" {
		where.add("company_id = ?", filters.CompanyID)
	}
	if filters.IDs != nil {
		where.addIn("id", filters.IDs)
	}
	if filters.IsRegular != nil {
		where.add("is_regular = ?", *filters.IsRegular)
	}
	if !filters.IncludeDeleted {
		where.add("deleted_at IS NULL")
	}

	query := `SELECT ` + clientColumns + ` FROM clients` + where.clause() + ` ORDER BY name, created_at`
	rows, err := r.executeQuery(ctx, "list", query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []*models.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("list", "client", "", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", "client", "", err)
	}
	return clients, nil
}

// Update updates a live client
func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	if err := client.Validate(); err != nil {
		return repositories.ValidationError("client", client.ID, err)
	}

	client.Touch()

	query := `
		UPDATE clients
		SET branch_id = ?, name = ?, email = ?, phone = ?, address = ?, gst_number = ?,
			is_regular = ?, discount_percentage = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`

	result, err := r.executeExec(ctx, "update", query,
		client.BranchID,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
		client.GSTNumber,
		client.IsRegular,
		client.DiscountPercentage,
		utc(client.UpdatedAt),
		client.ID,
	)
	if err != nil {
		return err
	}
	return r.checkRowsAffected(result, "update", client.ID)
}

// SoftDelete marks a client deleted
func (r *ClientRepository) SoftDelete(ctx context.Context, id string) error {
	return r.softDelete(ctx, id)
}

func scanClient(row rowScanner) (*models.Client, error) {
	client := &models.Client{}
	var deletedAt sql.NullTime
	err := row.Scan(
		&client.ID,
		&client.CompanyID,
		&client.BranchID,
		&client.Name,
		&client.Email,
		&client.Phone,
		&client.Address,
		&client.GSTNumber,
		&client.IsRegular,
		&client.DiscountPercentage,
		&client.CreatedAt,
		&client.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}
	client.DeletedAt = timePtr(deletedAt)
	return client, nil
}
