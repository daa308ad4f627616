package repo

import (
	"context"

	"bookit/internal/domain"

	"gorm.io/gorm"
)

type BookingRepo struct{ Repo[domain.Booking] }

func NewBookingRepo(db *gorm.DB) *BookingRepo { return &BookingRepo{NewRepo[domain.Booking](db)} }

func activeStatuses() []string {
	out := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

// ListOverlapping applies the half-open rule in SQL: start < iv.End AND end > iv.Start.
func (r *BookingRepo) ListOverlapping(ctx context.Context, serviceID int64, iv domain.Interval, excludeID int64) ([]domain.Booking, error) {
	tx := r.conn(ctx).
		Where("service_id = ?", serviceID).
		Where("status IN ?", activeStatuses()).
		Where("start_time < ? AND end_time > ?", iv.End.UTC(), iv.Start.UTC())
	if excludeID != 0 {
		tx = tx.Where("id <> ?", excludeID)
	}
	var out []domain.Booking
	if err := tx.Order("start_time asc").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *BookingRepo) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]domain.Booking, int64, error) {
	tx := r.conn(ctx).Model(&domain.Booking{}).Where("user_id = ?", userID)
	return r.page(tx, "start_time desc, id desc", offset, limit)
}

// ListFiltered bounds start_time by the inclusive range [From, To].
func (r *BookingRepo) ListFiltered(ctx context.Context, f domain.BookingFilter, offset, limit int) ([]domain.Booking, int64, error) {
	tx := r.conn(ctx).Model(&domain.Booking{})
	if f.UserID != 0 {
		tx = tx.Where("user_id = ?", f.UserID)
	}
	if f.ServiceID != 0 {
		tx = tx.Where("service_id = ?", f.ServiceID)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", string(f.Status))
	}
	if f.From != nil {
		tx = tx.Where("start_time >= ?", f.From.UTC())
	}
	if f.To != nil {
		tx = tx.Where("start_time <= ?", f.To.UTC())
	}
	return r.page(tx, "start_time desc, id desc", offset, limit)
}
