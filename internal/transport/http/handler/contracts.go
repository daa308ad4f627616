package handler

import (
	"context"

	"bookit/internal/core/auth"
	"bookit/internal/domain"
	"bookit/internal/service"
)

// The interfaces below are the service surface the HTTP layer needs.

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, *service.TokenPair, error)
	Login(ctx context.Context, email, password string) (*service.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error)
}

type UserService interface {
	Me(ctx context.Context, caller auth.Identity) (*domain.User, error)
	UpdateMe(ctx context.Context, caller auth.Identity, in service.UpdateProfileInput) (*domain.User, error)
	List(ctx context.Context, caller auth.Identity, q string, p service.Page) (*service.List[domain.User], error)
	SetRole(ctx context.Context, caller auth.Identity, userID int64, role domain.Role) (*domain.User, error)
}

type CatalogService interface {
	Get(ctx context.Context, id int64) (*domain.Service, error)
	Search(ctx context.Context, q domain.ServiceQuery, p service.Page) (*service.List[domain.Service], error)
	Create(ctx context.Context, caller auth.Identity, in service.ServiceInput) (*domain.Service, error)
	Update(ctx context.Context, caller auth.Identity, id int64, patch domain.ServicePatch) (*domain.Service, error)
	Delete(ctx context.Context, caller auth.Identity, id int64) error
}

type BookingService interface {
	Create(ctx context.Context, caller auth.Identity, in service.CreateBookingInput) (*domain.Booking, error)
	Get(ctx context.Context, caller auth.Identity, id int64) (*domain.Booking, error)
	List(ctx context.Context, caller auth.Identity, f domain.BookingFilter, p service.Page) (*service.List[domain.Booking], error)
	Update(ctx context.Context, caller auth.Identity, id int64, patch domain.BookingPatch) (*domain.Booking, error)
	Cancel(ctx context.Context, caller auth.Identity, id int64) (*domain.Booking, error)
}

type ReviewService interface {
	Create(ctx context.Context, caller auth.Identity, in service.CreateReviewInput) (*domain.Review, error)
	ListForService(ctx context.Context, serviceID int64, p service.Page) (*service.List[domain.Review], error)
	Update(ctx context.Context, caller auth.Identity, id int64, patch domain.ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, caller auth.Identity, id int64) error
}

var (
	_ AuthService    = (*service.AuthService)(nil)
	_ UserService    = (*service.UserService)(nil)
	_ CatalogService = (*service.CatalogService)(nil)
	_ BookingService = (*service.BookingService)(nil)
	_ ReviewService  = (*service.ReviewService)(nil)
)
