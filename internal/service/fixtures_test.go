package service_test

import (
	"context"
	"testing"
	"time"

	"bookit/internal/core/auth"
	"bookit/internal/domain"
	"bookit/internal/service"
	"bookit/pkg/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() { utils.HashCost = bcrypt.MinCost }

var day = time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

type env struct {
	st       *store
	bookings *service.BookingService
	reviews  *service.ReviewService
	catalog  *service.CatalogService
	users    *service.UserService

	alice, bob, admin auth.Identity
	haircut           *domain.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := newStore()
	l := zap.NewNop()
	e := &env{
		st:       st,
		bookings: service.NewBookingService(st.bookings, st.services, st.tx, l),
		reviews:  service.NewReviewService(st.reviews, st.bookings, st.tx, l),
		catalog:  service.NewCatalogService(st.services, nil, time.Minute, l),
		users:    service.NewUserService(st.users, l),
	}
	e.alice = e.addUser(t, "alice@example.com", domain.RoleUser)
	e.bob = e.addUser(t, "bob@example.com", domain.RoleUser)
	e.admin = e.addUser(t, "admin@example.com", domain.RoleAdmin)
	e.haircut = e.addService(t, "Haircut", 60, true)
	return e
}

func (e *env) addUser(t *testing.T, email string, role domain.Role) auth.Identity {
	t.Helper()
	u := &domain.User{Email: email, Name: email[:3], PasswordHash: "x", Role: role}
	require.NoError(t, e.st.users.Create(context.Background(), u))
	return auth.IdentityOf(u)
}

func (e *env) addService(t *testing.T, title string, minutes int, active bool) *domain.Service {
	t.Helper()
	s := &domain.Service{Title: title, Price: 30, DurationMinutes: minutes, IsActive: active}
	require.NoError(t, e.st.services.Create(context.Background(), s))
	return s
}

func (e *env) book(t *testing.T, who auth.Identity, start time.Time) *domain.Booking {
	t.Helper()
	b, err := e.bookings.Create(context.Background(), who, service.CreateBookingInput{ServiceID: e.haircut.ID, StartTime: start})
	require.NoError(t, err)
	return b
}

// setStatus forces a stored booking into st, bypassing the lifecycle.
func (e *env) setStatus(t *testing.T, b *domain.Booking, st domain.BookingStatus) {
	t.Helper()
	b.Status = st
	require.NoError(t, e.st.bookings.Update(context.Background(), b))
}
