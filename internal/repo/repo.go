package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repo implements the CRUD half of domain.Repository for any gorm model
// with an integer primary key named id.
type Repo[T any] struct{ db *gorm.DB }

func NewRepo[T any](db *gorm.DB) Repo[T] { return Repo[T]{db: db} }

// conn returns the transaction bound to ctx, if any, else the pool.
func (r Repo[T]) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r Repo[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	return r.first(r.conn(ctx).Where("id = ?", id))
}

func (r Repo[T]) first(q *gorm.DB) (*T, error) {
	var m T
	err := q.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r Repo[T]) List(ctx context.Context, offset, limit int) ([]T, int64, error) {
	return r.page(r.conn(ctx).Model(new(T)), "id desc", offset, limit)
}

// page counts q, then fetches one window of it in the given order.
func (r Repo[T]) page(q *gorm.DB, order string, offset, limit int) ([]T, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	out := make([]T, 0)
	if total == 0 {
		return out, 0, nil
	}
	if err := q.Session(&gorm.Session{}).Order(order).Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, translate(err)
	}
	return out, total, nil
}

func (r Repo[T]) Create(ctx context.Context, m *T) error {
	return translate(r.conn(ctx).Omit(clause.Associations).Create(m).Error)
}

func (r Repo[T]) Update(ctx context.Context, m *T) error {
	return translate(r.conn(ctx).Omit(clause.Associations).Save(m).Error)
}

func (r Repo[T]) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.conn(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}
