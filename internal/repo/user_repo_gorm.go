package repo

import (
	"context"
	"strings"

	"bookit/internal/domain"

	"gorm.io/gorm"
)

type UserRepo struct{ Repo[domain.User] }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{NewRepo[domain.User](db)} }

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(r.conn(ctx).Where("email = ?", domain.NormalizeEmail(email)))
}

// Search matches q against email and name, newest first.
func (r *UserRepo) Search(ctx context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	tx := r.conn(ctx).Model(&domain.User{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	return r.page(tx, "created_at desc, id desc", offset, limit)
}
