package repo

import (
	"context"
	"database/sql"

	"bookit/pkg/apperrors"
	"bookit/pkg/retry"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type txKey struct{}

// TxManager implements domain.TxManager on gorm. Serialization failures
// roll back and rerun fn from the start.
type TxManager struct {
	db    *gorm.DB
	opts  *sql.TxOptions
	retry retry.Config
	log   *zap.Logger
}

func NewTxManager(db *gorm.DB, isolation sql.IsolationLevel, attempts int, l *zap.Logger) *TxManager {
	rc := retry.DefaultConfig()
	if attempts > 0 {
		rc.MaxAttempts = attempts
	}
	rc.Retryable = IsSerializationFailure
	var opts *sql.TxOptions
	if isolation != sql.LevelDefault {
		opts = &sql.TxOptions{Isolation: isolation}
	}
	return &TxManager{db: db, opts: opts, retry: rc, log: l}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx) // already inside a transaction
	}
	err := retry.Do(ctx, m.retry, func(attempt int) error {
		if attempt > 1 {
			m.log.Warn("retrying transaction after serialization failure", zap.Int("attempt", attempt))
		}
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(context.WithValue(ctx, txKey{}, tx))
		}, m.opts)
		if err != nil && !IsSerializationFailure(err) {
			return translate(err)
		}
		return err
	})
	if err != nil && IsSerializationFailure(err) {
		m.log.Error("transaction retries exhausted", zap.Error(err))
		return apperrors.NewConflict("concurrent modification, please retry")
	}
	return err
}
