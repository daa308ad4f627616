package service

import (
	"context"
	"time"

	"bookit/internal/core/auth"
	"bookit/internal/domain"
	"bookit/pkg/apperrors"

	"go.uber.org/zap"
)

type CreateBookingInput struct {
	ServiceID int64
	StartTime time.Time
}

// BookingService owns the booking lifecycle. Every write runs in one
// transaction so the overlap check and the write see the same snapshot.
type BookingService struct {
	bookings domain.BookingRepository
	services domain.ServiceRepository
	tx       domain.TxManager
	log      *zap.Logger
}

func NewBookingService(bookings domain.BookingRepository, services domain.ServiceRepository, tx domain.TxManager, l *zap.Logger) *BookingService {
	return &BookingService{bookings: bookings, services: services, tx: tx, log: l.Named("bookings")}
}

// normalizeStart stores instants in UTC at second precision.
func normalizeStart(t time.Time) time.Time { return t.UTC().Truncate(time.Second) }

func (s *BookingService) Create(ctx context.Context, caller auth.Identity, in CreateBookingInput) (b *domain.Booking, err error) {
	defer func() {
		observe(s.log, "create_booking", err, zap.Int64("user_id", caller.UserID), zap.Int64("service_id", in.ServiceID))
	}()
	if in.ServiceID <= 0 {
		return nil, apperrors.NewValidation("serviceId is required")
	}
	if in.StartTime.IsZero() {
		return nil, apperrors.NewValidation("startTime is required")
	}
	start := normalizeStart(in.StartTime)

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		svc, err := s.activeService(ctx, in.ServiceID)
		if err != nil {
			return err
		}
		iv := domain.NewInterval(start, svc.Duration())
		if err := s.ensureFree(ctx, svc.ID, iv, 0); err != nil {
			return err
		}
		b = &domain.Booking{
			UserID:    caller.UserID,
			ServiceID: svc.ID,
			StartTime: iv.Start,
			EndTime:   iv.End,
			Status:    domain.StatusPending,
		}
		return s.bookings.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BookingService) activeService(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil || !svc.IsActive {
		return nil, apperrors.NewNotFound("service not found or inactive")
	}
	return svc, nil
}

func (s *BookingService) ensureFree(ctx context.Context, serviceID int64, iv domain.Interval, excludeID int64) error {
	clash, err := s.bookings.ListOverlapping(ctx, serviceID, iv, excludeID)
	if err != nil {
		return err
	}
	if len(clash) > 0 {
		return apperrors.NewConflict("time slot is already booked")
	}
	return nil
}

// loadFor fetches a booking and checks that caller may act on it.
func (s *BookingService) loadFor(ctx context.Context, caller auth.Identity, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperrors.NewNotFound("booking not found")
	}
	if err := auth.RequireOwnerOrAdmin(caller, b.UserID); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BookingService) Get(ctx context.Context, caller auth.Identity, id int64) (*domain.Booking, error) {
	return s.loadFor(ctx, caller, id)
}

// List returns the caller's own bookings; admins see everything and may filter.
func (s *BookingService) List(ctx context.Context, caller auth.Identity, f domain.BookingFilter, p Page) (*List[domain.Booking], error) {
	p = p.Normalize()
	var (
		items []domain.Booking
		total int64
		err   error
	)
	if caller.IsAdmin() {
		if f.Status != "" {
			if _, err := domain.ParseBookingStatus(string(f.Status)); err != nil {
				return nil, err
			}
		}
		items, total, err = s.bookings.ListFiltered(ctx, f, p.Offset, p.Limit)
	} else {
		items, total, err = s.bookings.ListByUser(ctx, caller.UserID, p.Offset, p.Limit)
	}
	if err != nil {
		return nil, err
	}
	return newList(items, total, p), nil
}

// Update reschedules and/or moves the booking through its lifecycle.
// Owners may only cancel; the other transitions are admin-only.
func (s *BookingService) Update(ctx context.Context, caller auth.Identity, id int64, patch domain.BookingPatch) (b *domain.Booking, err error) {
	defer func() {
		observe(s.log, "update_booking", err, zap.Int64("booking_id", id), zap.Int64("user_id", caller.UserID))
	}()
	if patch.Empty() {
		return nil, apperrors.NewValidation("nothing to update")
	}
	if patch.StartTime != nil && patch.StartTime.IsZero() {
		return nil, apperrors.NewValidation("startTime is required")
	}
	if patch.Status != nil {
		if _, err := domain.ParseBookingStatus(string(*patch.Status)); err != nil {
			return nil, err
		}
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		if b, err = s.loadFor(ctx, caller, id); err != nil {
			return err
		}
		if patch.Status != nil && *patch.Status != domain.StatusCancelled && !caller.IsAdmin() {
			return apperrors.NewForbidden("only admins may confirm or complete bookings")
		}

		if patch.StartTime != nil {
			if !b.Status.IsActive() {
				return apperrors.NewInvalidState("only pending or confirmed bookings can be rescheduled")
			}
			svc, err := s.activeService(ctx, b.ServiceID)
			if err != nil {
				return err
			}
			iv := domain.NewInterval(normalizeStart(*patch.StartTime), svc.Duration())
			if err := s.ensureFree(ctx, b.ServiceID, iv, b.ID); err != nil {
				return err
			}
			if err := b.Reschedule(iv); err != nil {
				return err
			}
		}
		if patch.Status != nil {
			if err := b.Transition(*patch.Status); err != nil {
				return err
			}
		}
		return s.bookings.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Cancel is the owner-or-admin shortcut for a transition to cancelled.
func (s *BookingService) Cancel(ctx context.Context, caller auth.Identity, id int64) (b *domain.Booking, err error) {
	defer func() {
		observe(s.log, "cancel_booking", err, zap.Int64("booking_id", id), zap.Int64("user_id", caller.UserID))
	}()
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		if b, err = s.loadFor(ctx, caller, id); err != nil {
			return err
		}
		if !b.CanBeCancelled() {
			return apperrors.NewInvalidState("only pending or confirmed bookings can be cancelled")
		}
		if err := b.Transition(domain.StatusCancelled); err != nil {
			return err
		}
		return s.bookings.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
