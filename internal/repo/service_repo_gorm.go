package repo

import (
	"context"
	"strings"

	"bookit/internal/domain"

	"gorm.io/gorm"
)

type ServiceRepo struct{ Repo[domain.Service] }

func NewServiceRepo(db *gorm.DB) *ServiceRepo { return &ServiceRepo{NewRepo[domain.Service](db)} }

func (r *ServiceRepo) Search(ctx context.Context, q domain.ServiceQuery, offset, limit int) ([]domain.Service, int64, error) {
	tx := r.conn(ctx).Model(&domain.Service{})
	if text := strings.TrimSpace(q.Text); text != "" {
		like := "%" + strings.ToLower(text) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}
	if q.Active != nil {
		tx = tx.Where("is_active = ?", *q.Active)
	}
	return r.page(tx, "id asc", offset, limit)
}
