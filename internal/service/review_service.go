package service

import (
	"context"
	"strings"

	"bookit/internal/core/auth"
	"bookit/internal/domain"
	"bookit/pkg/apperrors"

	"go.uber.org/zap"
)

type CreateReviewInput struct {
	BookingID int64
	Rating    int
	Comment   *string
}

// ReviewService gates reviews on completed bookings: one per booking,
// written by the booking's owner.
type ReviewService struct {
	reviews  domain.ReviewRepository
	bookings domain.BookingRepository
	tx       domain.TxManager
	log      *zap.Logger
}

func NewReviewService(reviews domain.ReviewRepository, bookings domain.BookingRepository, tx domain.TxManager, l *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings, tx: tx, log: l.Named("reviews")}
}

func cleanComment(c *string) *string {
	if c == nil {
		return nil
	}
	v := strings.TrimSpace(*c)
	if v == "" {
		return nil
	}
	return &v
}

func (s *ReviewService) Create(ctx context.Context, caller auth.Identity, in CreateReviewInput) (r *domain.Review, err error) {
	defer func() {
		observe(s.log, "create_review", err, zap.Int64("booking_id", in.BookingID), zap.Int64("user_id", caller.UserID))
	}()
	if err := domain.ValidateRating(in.Rating); err != nil {
		return nil, err
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		b, err := s.bookings.GetByID(ctx, in.BookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return apperrors.NewNotFound("booking not found")
		}
		if b.UserID != caller.UserID {
			return apperrors.NewForbidden("only the booking owner can review it")
		}
		if b.Status != domain.StatusCompleted {
			return apperrors.NewInvalidState("only completed bookings can be reviewed")
		}
		existing, err := s.reviews.GetByBooking(ctx, b.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewConflict("booking already has a review")
		}
		r = &domain.Review{BookingID: b.ID, Rating: in.Rating, Comment: cleanComment(in.Comment)}
		return s.reviews.Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) ListForService(ctx context.Context, serviceID int64, p Page) (*List[domain.Review], error) {
	p = p.Normalize()
	items, total, err := s.reviews.ListByService(ctx, serviceID, p.Offset, p.Limit)
	if err != nil {
		return nil, err
	}
	return newList(items, total, p), nil
}

// loadFor resolves the review and authorizes caller against the owner of
// the reviewed booking.
func (s *ReviewService) loadFor(ctx context.Context, caller auth.Identity, id int64) (*domain.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperrors.NewNotFound("review not found")
	}
	if caller.IsAdmin() {
		return r, nil
	}
	b, err := s.bookings.GetByID(ctx, r.BookingID)
	if err != nil {
		return nil, err
	}
	if b == nil || b.UserID != caller.UserID {
		return nil, apperrors.NewForbidden("not enough permissions")
	}
	return r, nil
}

func (s *ReviewService) Update(ctx context.Context, caller auth.Identity, id int64, patch domain.ReviewPatch) (r *domain.Review, err error) {
	defer func() {
		observe(s.log, "update_review", err, zap.Int64("review_id", id), zap.Int64("user_id", caller.UserID))
	}()
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.Comment != nil {
		c := strings.TrimSpace(*patch.Comment)
		patch.Comment = &c
	}
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		if r, err = s.loadFor(ctx, caller, id); err != nil {
			return err
		}
		patch.Apply(r)
		if r.Comment != nil && *r.Comment == "" {
			r.Comment = nil
		}
		return s.reviews.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) Delete(ctx context.Context, caller auth.Identity, id int64) (err error) {
	defer func() {
		observe(s.log, "delete_review", err, zap.Int64("review_id", id), zap.Int64("user_id", caller.UserID))
	}()
	return s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.loadFor(ctx, caller, id); err != nil {
			return err
		}
		ok, err := s.reviews.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewNotFound("review not found")
		}
		return nil
	})
}
