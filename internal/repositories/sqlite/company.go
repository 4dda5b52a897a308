package sqlite

import (
	"context"
	"database/sql"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"

	"github.com/sirupsen/logrus"
)

const companyColumns = `id, name, gst_number, address, owner_name, phone, email, created_at, updated_at, deleted_at`

// CompanyRepository implements the CompanyRepository interface for SQLite
type CompanyRepository struct {
	*BaseRepository
}

// NewCompanyRepository creates a new SQLite company repository
func NewCompanyRepository(db *sql.DB, logger *logrus.Logger) *CompanyRepository {
	return &CompanyRepository{
		BaseRepository: NewBaseRepository(db, "companies", "company", logger),
	}
}

// Create creates a new company
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	if err := company.Validate(); err != nil {
		return repositories.ValidationError("company", company.ID, err)
	}

	query := `INSERT INTO companies (` + companyColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.executeExec(ctx, "create", query,
		company.ID,
		company.Name,
		company.GSTNumber,
		company.Address,
		company.OwnerName,
		company.Phone,
		company.Email,
		utc(company.CreatedAt),
		utc(company.UpdatedAt),
		nullableTime(company.DeletedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("company", "gst_number", company.GSTNumber)
		}
		return err
	}
	return nil
}

// GetByID retrieves a live company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = ? AND deleted_at IS NULL`
	company, err := scanCompany(r.executeQueryRow(ctx, "get_by_id", query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("company", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "company", id, err)
	}
	return company, nil
}

// GetByGSTNumber retrieves a live company by GST number
func (r *CompanyRepository) GetByGSTNumber(ctx context.Context, gstNumber string) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE gst_number = ? AND deleted_at IS NULL`
	company, err := scanCompany(r.executeQueryRow(ctx, "get_by_gst_number", query, gstNumber))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("company", gstNumber)
		}
		return nil, repositories.NewRepositoryError("get_by_gst_number", "company", gstNumber, err)
	}
	return company, nil
}

// List retrieves all live companies ordered by name
func (r *CompanyRepository) List(ctx context.Context) ([]*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE deleted_at IS NULL ORDER BY name, created_at`
	rows, err := r.executeQuery(ctx, "list", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []*models.Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("list", "company", "", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", "company", "", err)
	}
	return companies, nil
}

// Update updates a live company
func (r *CompanyRepository) Update(ctx context.Context, company *models.Company) error {
	if err := company.Validate(); err != nil {
		return repositories.ValidationError("company", company.ID, err)
	}

	company.Touch()

	query := `
		UPDATE companies
		SET name = ?, gst_number = ?, address = ?, owner_name = ?, phone = ?, email = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`

	result, err := r.executeExec(ctx, "update", query,
		company.Name,
		company.GSTNumber,
		company.Address,
		company.OwnerName,
		company.Phone,
		company.Email,
		utc(company.UpdatedAt),
		company.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("company", "gst_number", company.GSTNumber)
		}
		return err
	}
	return r.checkRowsAffected(result, "update", company.ID)
}

// SoftDelete marks a company deleted
func (r *CompanyRepository) SoftDelete(ctx context.Context, id string) error {
	return r.softDelete(ctx, id)
}

func scanCompany(row rowScanner) (*models.Company, error) {
	company := &models.Company{}
	var deletedAt sql.NullTime
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.GSTNumber,
		&company.Address,
		&company.OwnerName,
		&company.Phone,
		&company.Email,
		&company.CreatedAt,
		&company.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}
	company.DeletedAt = timePtr(deletedAt)
	return company, nil
}
