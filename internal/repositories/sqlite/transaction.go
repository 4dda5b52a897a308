package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/AmanMalviya08/Bill-app-backend/internal/repositories"
)

type txKey struct{}

func contextWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok && tx != nil
}

// storeTx is a unit of work. Repositories handed its context read and write through it.
type storeTx struct {
	tx      *sql.Tx
	ctx     context.Context
	started time.Time
	log     *logrus.Entry
}

func (t *storeTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		t.log.WithError(err).Error("Failed to commit transaction")
		return repositories.TransactionError("commit", err)
	}
	t.log.WithField("duration", time.Since(t.started)).Debug("Transaction committed")
	return nil
}

// Rollback is a no-op on a transaction that already finished
func (t *storeTx) Rollback() error {
	err := t.tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		t.log.WithError(err).Error("Failed to roll back transaction")
		return repositories.TransactionError("rollback", err)
	}
	t.log.WithField("duration", time.Since(t.started)).Debug("Transaction rolled back")
	return nil
}

func (t *storeTx) Context() context.Context {
	return t.ctx
}

// TxManager opens transactions on one database handle
type TxManager struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewTxManager(db *sql.DB, logger *logrus.Logger) *TxManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &TxManager{db: db, logger: logger}
}

func (m *TxManager) BeginTransaction(ctx context.Context) (repositories.Transaction, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		m.logger.WithError(err).Error("Failed to begin transaction")
		return nil, repositories.TransactionError("begin", err)
	}
	return &storeTx{
		tx:      tx,
		ctx:     contextWithTx(ctx, tx),
		started: time.Now(),
		log:     m.logger.WithField("component", "tx"),
	}, nil
}

// WithTransaction runs fn in a transaction. A ctx that already carries one is
// reused as is, so only the outermost call commits or rolls back. A panic in fn
// rolls back and is re-raised.
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.BeginTransaction(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err = fn(tx.Context()); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return multierror.Append(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
