package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"

	"github.com/sirupsen/logrus"
)

const (
	branchColumns      = `id, company_id, name, location, manager_name, phone, is_default, created_at, updated_at, deleted_at`
	categoryColumns    = `id, branch_id, name, position, created_at, updated_at, deleted_at`
	subcategoryColumns = `id, category_id, name, description, price, discount, gst, position, created_at, updated_at, deleted_at`
)

// BranchRepository implements the BranchRepository interface for SQLite.
// Category and subcategory rows are owned by their branch and only reached through it.
type BranchRepository struct {
	*BaseRepository
}

// NewBranchRepository creates a new SQLite branch repository
func NewBranchRepository(db *sql.DB, logger *logrus.Logger) *BranchRepository {
	return &BranchRepository{
		BaseRepository: NewBaseRepository(db, "branches", "branch", logger),
	}
}

// Create stores a branch together with any catalog it already carries
func (r *BranchRepository) Create(ctx context.Context, branch *models.Branch) error {
	if err := branch.Validate(); err != nil {
		return repositories.ValidationError("branch", branch.ID, err)
	}

	query := `INSERT INTO branches (` + branchColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.executeExec(ctx, "create", query,
		branch.ID,
		branch.CompanyID,
		branch.Name,
		branch.Location,
		branch.ManagerName,
		branch.Phone,
		branch.IsDefault,
		utc(branch.CreatedAt),
		utc(branch.UpdatedAt),
		nullableTime(branch.DeletedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("branch", "id", branch.ID)
		}
		return err
	}

	for i := range branch.Categories {
		category := &branch.Categories[i]
		category.BranchID = branch.ID
		category.Position = i
		if err := r.insertCategory(ctx, category); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a live branch with its full catalog
func (r *BranchRepository) GetByID(ctx context.Context, id string) (*models.Branch, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = ? AND deleted_at IS NULL`
	branch, err := scanBranch(r.executeQueryRow(ctx, "get_by_id", query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("branch", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "branch", id, err)
	}

	if err := r.loadCatalog(ctx, []*models.Branch{branch}); err != nil {
		return nil, err
	}
	return branch, nil
}

// ListByCompany retrieves the live branches of a company with their catalogs
func (r *BranchRepository) ListByCompany(ctx context.Context, companyID string) ([]*models.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches
		WHERE company_id = ? AND deleted_at IS NULL
		ORDER BY is_default DESC, name, created_at`

	rows, err := r.executeQuery(ctx, "list_by_company", query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := []*models.Branch{}
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("list_by_company", "branch", "", err)
		}
		branches = append(branches, branch)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list_by_company", "branch", "", err)
	}
	rows.Close()

	if err := r.loadCatalog(ctx, branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// Update updates the header fields of a live branch
func (r *BranchRepository) Update(ctx context.Context, branch *models.Branch) error {
	if err := branch.Validate(); err != nil {
		return repositories.ValidationError("branch", branch.ID, err)
	}

	branch.Touch()

	query := `
		UPDATE branches
		SET name = ?, location = ?, manager_name = ?, phone = ?, is_default = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`

	result, err := r.executeExec(ctx, "update", query,
		branch.Name,
		branch.Location,
		branch.ManagerName,
		branch.Phone,
		branch.IsDefault,
		utc(branch.UpdatedAt),
		branch.ID,
	)
	if err != nil {
		return err
	}
	return r.checkRowsAffected(result, "update", branch.ID)
}

// SoftDelete marks a branch deleted
func (r *BranchRepository) SoftDelete(ctx context.Context, id string) error {
	return r.softDelete(ctx, id)
}

// ClearDefault unsets the default flag on every other live branch of a company
func (r *BranchRepository) ClearDefault(ctx context.Context, companyID, keepID string) error {
	query := `UPDATE branches SET is_default = 0, updated_at = ?
		WHERE company_id = ? AND id <> ? AND is_default = 1 AND deleted_at IS NULL`
	_, err := r.executeExec(ctx, "clear_default", query, utc(time.Now()), companyID, keepID)
	return err
}

// CreateCategory appends a category, with any subcategories it carries, to a branch catalog
func (r *BranchRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := category.Validate(); err != nil {
		return repositories.ValidationError("category", category.ID, err)
	}

	position, err := r.nextPosition(ctx, "categories", "branch_id", category.BranchID)
	if err != nil {
		return err
	}
	category.Position = position
	return r.insertCategory(ctx, category)
}

// UpdateCategory renames a live category
func (r *BranchRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	if err := category.Validate(); err != nil {
		return repositories.ValidationError("category", category.ID, err)
	}

	category.UpdatedAt = time.Now()
	query := `UPDATE categories SET name = ?, updated_at = ?
		WHERE id = ? AND branch_id = ? AND deleted_at IS NULL`

	result, err := r.executeExec(ctx, "update_category", query,
		category.Name, utc(category.UpdatedAt), category.ID, category.BranchID)
	if err != nil {
		return err
	}
	return r.checkEntityRows(result, "update_category", "category", category.ID)
}

// SoftDeleteCategory marks a category deleted. Its subcategories stay as they are
// and disappear from active views with their parent.
func (r *BranchRepository) SoftDeleteCategory(ctx context.Context, branchID, categoryID string) error {
	now := utc(time.Now())
	query := `UPDATE categories SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND branch_id = ? AND deleted_at IS NULL`

	result, err := r.executeExec(ctx, "soft_delete_category", query, now, now, categoryID, branchID)
	if err != nil {
		return err
	}
	return r.checkEntityRows(result, "soft_delete_category", "category", categoryID)
}

// CreateSubcategories appends subcategories to their categories in slice order
func (r *BranchRepository) CreateSubcategories(ctx context.Context, subcategories []*models.Subcategory) error {
	positions := map[string]int{}
	for _, sub := range subcategories {
		if err := sub.Validate(); err != nil {
			return repositories.ValidationError("subcategory", sub.ID, err)
		}

		next, ok := positions[sub.CategoryID]
		if !ok {
			var err error
			next, err = r.nextPosition(ctx, "subcategories", "category_id", sub.CategoryID)
			if err != nil {
				return err
			}
		}
		sub.Position = next
		positions[sub.CategoryID] = next + 1

		if err := r.insertSubcategory(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// UpdateSubcategory updates the pricing fields of a live subcategory
func (r *BranchRepository) UpdateSubcategory(ctx context.Context, sub *models.Subcategory) error {
	if err := sub.Validate(); err != nil {
		return repositories.ValidationError("subcategory", sub.ID, err)
	}

	sub.UpdatedAt = time.Now()
	query := `
		UPDATE subcategories
		SET name = ?, description = ?, price = ?, discount = ?, gst = ?, updated_at = ?
		WHERE id = ? AND category_id = ? AND deleted_at IS NULL`

	result, err := r.executeExec(ctx, "update_subcategory", query,
		sub.Name,
		sub.Description,
		sub.Price,
		sub.Discount,
		sub.GST,
		utc(sub.UpdatedAt),
		sub.ID,
		sub.CategoryID,
	)
	if err != nil {
		return err
	}
	return r.checkEntityRows(result, "update_subcategory", "subcategory", sub.ID)
}

// SoftDeleteSubcategory marks a subcategory deleted
func (r *BranchRepository) SoftDeleteSubcategory(ctx context.Context, categoryID, subcategoryID string) error {
	now := utc(time.Now())
	query := `UPDATE subcategories SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND category_id = ? AND deleted_at IS NULL`

	result, err := r.executeExec(ctx, "soft_delete_subcategory", query, now, now, subcategoryID, categoryID)
	if err != nil {
		return err
	}
	return r.checkEntityRows(result, "soft_delete_subcategory", "subcategory", subcategoryID)
}

func (r *BranchRepository) insertCategory(ctx context.Context, category *models.Category) error {
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.executeExec(ctx, "create_category", query,
		category.ID,
		category.BranchID,
		category.Name,
		category.Position,
		utc(category.CreatedAt),
		utc(category.UpdatedAt),
		nullableTime(category.DeletedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("category", "id", category.ID)
		}
		return err
	}

	for i := range category.Subcategories {
		sub := &category.Subcategories[i]
		sub.CategoryID = category.ID
		sub.Position = i
		if err := r.insertSubcategory(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

func (r *BranchRepository) insertSubcategory(ctx context.Context, sub *models.Subcategory) error {
	query := `INSERT INTO subcategories (` + subcategoryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.executeExec(ctx, "create_subcategory", query,
		sub.ID,
		sub.CategoryID,
		sub.Name,
		sub.Description,
		sub.Price,
		sub.Discount,
		sub.GST,
		sub.Position,
		utc(sub.CreatedAt),
		utc(sub.UpdatedAt),
		nullableTime(sub.DeletedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("subcategory", "id", sub.ID)
		}
		return err
	}
	return nil
}

func (r *BranchRepository) nextPosition(ctx context.Context, table, parentColumn, parentID string) (int, error) {
	query := `SELECT COALESCE(MAX(position) + 1, 0) FROM ` + table + ` WHERE ` + parentColumn + ` = ?`
	var position int
	if err := r.executeQueryRow(ctx, "next_position", query, parentID).Scan(&position); err != nil {
		return 0, repositories.NewRepositoryError("next_position", "branch", parentID, err)
	}
	return position, nil
}

func (r *BranchRepository) checkEntityRows(result sql.Result, operation, entity, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return repositories.NewRepositoryError(operation, entity, id, err)
	}
	if affected == 0 {
		return repositories.NotFoundError(entity, id)
	}
	return nil
}

// loadCatalog attaches every category and subcategory, deleted ones included, in position order
func (r *BranchRepository) loadCatalog(ctx context.Context, branches []*models.Branch) error {
	if len(branches) == 0 {
		return nil
	}

	ids := make([]string, len(branches))
	byID := make(map[string]*models.Branch, len(branches))
	for i, b := range branches {
		ids[i] = b.ID
		byID[b.ID] = b
		b.Categories = []models.Category{}
	}

	var where whereBuilder
	where.addIn("branch_id", ids)

	subQuery := `SELECT ` + subcategoryColumns + ` FROM subcategories
		WHERE category_id IN (SELECT id FROM categories` + where.clause() + `)
		ORDER BY position, created_at`
	subRows, err := r.executeQuery(ctx, "load_subcategories", subQuery, where.args...)
	if err != nil {
		return err
	}
	subsByCategory := map[string][]models.Subcategory{}
	for subRows.Next() {
		sub, err := scanSubcategory(subRows)
		if err != nil {
			subRows.Close()
			return repositories.NewRepositoryError("load_subcategories", "subcategory", "", err)
		}
		subsByCategory[sub.CategoryID] = append(subsByCategory[sub.CategoryID], *sub)
	}
	subRows.Close()
	if err := subRows.Err(); err != nil {
		return repositories.NewRepositoryError("load_subcategories", "subcategory", "", err)
	}

	catQuery := `SELECT ` + categoryColumns + ` FROM categories` + where.clause() + ` ORDER BY position, created_at`
	catRows, err := r.executeQuery(ctx, "load_categories", catQuery, where.args...)
	if err != nil {
		return err
	}
	defer catRows.Close()

	for catRows.Next() {
		category, err := scanCategory(catRows)
		if err != nil {
			return repositories.NewRepositoryError("load_categories", "category", "", err)
		}
		category.Subcategories = subsByCategory[category.ID]
		if category.Subcategories == nil {
			category.Subcategories = []models.Subcategory{}
		}
		branch := byID[category.BranchID]
		branch.Categories = append(branch.Categories, *category)
	}
	if err := catRows.Err(); err != nil {
		return repositories.NewRepositoryError("load_categories", "category", "", err)
	}
	return nil
}

func scanBranch(row rowScanner) (*models.Branch, error) {
	branch := &models.Branch{Categories: []models.Category{}}
	var deletedAt sql.NullTime
	err := row.Scan(
		&branch.ID,
		&branch.CompanyID,
		&branch.Name,
		&branch.Location,
		&branch.ManagerName,
		&branch.Phone,
		&branch.IsDefault,
		&branch.CreatedAt,
		&branch.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}
	branch.DeletedAt = timePtr(deletedAt)
	return branch, nil
}

func scanCategory(row rowScanner) (*models.Category, error) {
	category := &models.Category{}
	var deletedAt sql.NullTime
	err := row.Scan(
		&category.ID,
		&category.BranchID,
		&category.Name,
		&category.Position,
		&category.CreatedAt,
		&category.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}
	category.DeletedAt = timePtr(deletedAt)
	return category, nil
}

func scanSubcategory(row rowScanner) (*models.Subcategory, error) {
	sub := &models.Subcategory{}
	var deletedAt sql.NullTime
	err := row.Scan(
		&sub.ID,
		&sub.CategoryID,
		&sub.Name,
		&sub.Description,
		&sub.Price,
		&sub.Discount,
		&sub.GST,
		&sub.Position,
		&sub.CreatedAt,
		&sub.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.DeletedAt = timePtr(deletedAt)
	return sub, nil
}
