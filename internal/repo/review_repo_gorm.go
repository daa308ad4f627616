package repo

import (
	"context"

	"bookit/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepo struct{ Repo[domain.Review] }

func NewReviewRepo(db *gorm.DB) *ReviewRepo { return &ReviewRepo{NewRepo[domain.Review](db)} }

func (r *ReviewRepo) GetByBooking(ctx context.Context, bookingID int64) (*domain.Review, error) {
	return r.first(r.conn(ctx).Where("booking_id = ?", bookingID))
}

func (r *ReviewRepo) ListByService(ctx context.Context, serviceID int64, offset, limit int) ([]domain.Review, int64, error) {
	tx := r.conn(ctx).Model(&domain.Review{}).
		Joins("JOIN bookings ON bookings.id = reviews.booking_id").
		Where("bookings.service_id = ?", serviceID)
	return r.page(tx, "reviews.created_at desc, reviews.id desc", offset, limit)
}
