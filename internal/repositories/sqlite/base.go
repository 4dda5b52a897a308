package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// BaseRepository provides common functionality for all SQLite repositories
type BaseRepository struct {
	db     *sql.DB
	table  string
	entity string
	logger *logrus.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sql.DB, table, entity string, logger *logrus.Logger) *BaseRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &BaseRepository{
		db:     db,
		table:  table,
		entity: entity,
		logger: logger,
	}
}

// conn returns the transaction carried by ctx, or the database
func (r *BaseRepository) conn(ctx context.Context) querier {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return r.db
}

func (r *BaseRepository) logQuery(operation string, query string, args []interface{}, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"query":     query,
		"args":      args,
		"duration":  duration,
	}

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeQuery executes a query and logs the result
func (r *BaseRepository) executeQuery(ctx context.Context, operation, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	r.logQuery(operation, query, args, time.Since(start), err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, r.entity, "", err)
	}
	return rows, nil
}

// executeQueryRow executes a single-row query and logs it
func (r *BaseRepository) executeQueryRow(ctx context.Context, operation, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.conn(ctx).QueryRowContext(ctx, query, args...)
	r.logQuery(operation, query, args, time.Since(start), row.Err())
	return row
}

// executeExec executes a non-query statement and logs the result
func (r *BaseRepository) executeExec(ctx context.Context, operation, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	r.logQuery(operation, query, args, time.Since(start), err)

	if isForeignKeyViolation(err) {
		return nil, repositories.ForeignKeyError(operation, r.entity, "", err)
	}
	if err != nil {
		return nil, repositories.NewRepositoryError(operation, r.entity, "", err)
	}
	return result, nil
}

// checkRowsAffected reports a not found error when a write touched no row
func (r *BaseRepository) checkRowsAffected(result sql.Result, operation, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return repositories.NewRepositoryError(operation, r.entity, id, err)
	}
	if rowsAffected == 0 {
		return repositories.NotFoundError(r.entity, id)
	}
	return nil
}

// validateID validates that an ID is not empty
func (r *BaseRepository) validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return repositories.NewRepositoryError("validate", r.entity, id, repositories.ErrInvalidID)
	}
	return nil
}

// softDelete stamps deleted_at on a live row of the repository table
func (r *BaseRepository) softDelete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	now := utc(time.Now())
	query := `UPDATE ` + r.table + ` SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`
	result, err := r.executeExec(ctx, "soft_delete", query, now, now, id)
	if err != nil {
		return err
	}
	return r.checkRowsAffected(result, "soft_delete", id)
}

func constraintCode(err error) (sqlite3.ErrNoExtended, bool) {
	var sqlErr sqlite3.Error
	if !errors.As(err, &sqlErr) || sqlErr.Code != sqlite3.ErrConstraint {
		return 0, false
	}
	return sqlErr.ExtendedCode, true
}

func isUniqueViolation(err error) bool {
	code, ok := constraintCode(err)
	return ok && (code == sqlite3.ErrConstraintUnique || code == sqlite3.ErrConstraintPrimaryKey)
}

func isForeignKeyViolation(err error) bool {
	code, ok := constraintCode(err)
	return ok && code == sqlite3.ErrConstraintForeignKey
}

// Times are stored in UTC so that the driver's text encoding orders lexically.
func utc(t time.Time) time.Time {
	return t.UTC()
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
