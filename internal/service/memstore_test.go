package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"bookit/internal/domain"
	"bookit/pkg/apperrors"
)

// memTable is an in-memory stand-in for one gorm table.
type memTable[T any] struct {
	mu   sync.Mutex
	rows map[int64]T
	next int64
	id   func(*T) *int64
}

func newTable[T any](id func(*T) *int64) *memTable[T] {
	return &memTable[T]{rows: map[int64]T{}, id: id}
}

func (t *memTable[T]) GetByID(_ context.Context, id int64) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.rows[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// sorted returns rows matching keep ordered by id ascending. Caller holds mu.
func (t *memTable[T]) sorted(keep func(*T) bool) []T {
	out := make([]T, 0, len(t.rows))
	for _, r := range t.rows {
		r := r
		if keep == nil || keep(&r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return *t.id(&out[i]) < *t.id(&out[j]) })
	return out
}

func (t *memTable[T]) page(keep func(*T) bool, offset, limit int) ([]T, int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	all := t.sorted(keep)
	total := int64(len(all))
	if offset >= len(all) {
		return []T{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (t *memTable[T]) List(_ context.Context, offset, limit int) ([]T, int64, error) {
	return t.page(nil, offset, limit)
}

func (t *memTable[T]) Create(_ context.Context, m *T) error { return t.createUnless(m, nil) }

// createUnless inserts m unless clash reports an existing row colliding with it.
func (t *memTable[T]) createUnless(m *T, clash func(existing, m *T) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if clash != nil {
		for _, r := range t.rows {
			r := r
			if clash(&r, m) {
				return apperrors.NewConflict("resource already exists")
			}
		}
	}
	t.next++
	*t.id(m) = t.next
	t.rows[t.next] = *m
	return nil
}

func (t *memTable[T]) Update(_ context.Context, m *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := *t.id(m)
	if _, ok := t.rows[id]; !ok {
		return apperrors.NewNotFound("row not found")
	}
	t.rows[id] = *m
	return nil
}

func (t *memTable[T]) Delete(_ context.Context, id int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false, nil
	}
	delete(t.rows, id)
	return true, nil
}

type memUsers struct{ *memTable[domain.User] }

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	return r.createUnless(u, func(e, m *domain.User) bool { return e.Email == m.Email })
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r memUsers) Search(_ context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	q = strings.ToLower(q)
	return r.page(func(u *domain.User) bool {
		return q == "" || strings.Contains(u.Email, q) || strings.Contains(strings.ToLower(u.Name), q)
	}, offset, limit)
}

type memServices struct{ *memTable[domain.Service] }

func (r memServices) Search(_ context.Context, q domain.ServiceQuery, offset, limit int) ([]domain.Service, int64, error) {
	text := strings.ToLower(q.Text)
	return r.page(func(s *domain.Service) bool {
		switch {
		case text != "" && !strings.Contains(strings.ToLower(s.Title), text):
			return false
		case q.MinPrice != nil && s.Price < *q.MinPrice:
			return false
		case q.MaxPrice != nil && s.Price > *q.MaxPrice:
			return false
		case q.Active != nil && s.IsActive != *q.Active:
			return false
		}
		return true
	}, offset, limit)
}

type memBookings struct{ *memTable[domain.Booking] }

func (r memBookings) ListOverlapping(_ context.Context, serviceID int64, iv domain.Interval, excludeID int64) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(b *domain.Booking) bool {
		return b.ServiceID == serviceID && b.ID != excludeID && b.Status.IsActive() && b.Interval().Overlaps(iv)
	}), nil
}

func (r memBookings) ListByUser(_ context.Context, userID int64, offset, limit int) ([]domain.Booking, int64, error) {
	return r.page(func(b *domain.Booking) bool { return b.UserID == userID }, offset, limit)
}

func (r memBookings) ListFiltered(_ context.Context, f domain.BookingFilter, offset, limit int) ([]domain.Booking, int64, error) {
	return r.page(func(b *domain.Booking) bool {
		switch {
		case f.UserID != 0 && b.UserID != f.UserID:
			return false
		case f.ServiceID != 0 && b.ServiceID != f.ServiceID:
			return false
		case f.Status != "" && b.Status != f.Status:
			return false
		case f.From != nil && b.StartTime.Before(*f.From):
			return false
		case f.To != nil && !b.StartTime.Before(*f.To):
			return false
		}
		return true
	}, offset, limit)
}

type memReviews struct {
	*memTable[domain.Review]
	bookings memBookings
}

func (r memReviews) Create(_ context.Context, rv *domain.Review) error {
	return r.createUnless(rv, func(e, m *domain.Review) bool { return e.BookingID == m.BookingID })
}

func (r memReviews) GetByBooking(_ context.Context, bookingID int64) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.rows {
		if rv.BookingID == bookingID {
			return &rv, nil
		}
	}
	return nil, nil
}

func (r memReviews) ListByService(ctx context.Context, serviceID int64, offset, limit int) ([]domain.Review, int64, error) {
	return r.page(func(rv *domain.Review) bool {
		b, _ := r.bookings.GetByID(ctx, rv.BookingID)
		return b != nil && b.ServiceID == serviceID
	}, offset, limit)
}

// memTx serializes transactions, standing in for serializable isolation.
type memTx struct{ mu sync.Mutex }

func (t *memTx) Do(ctx context.Context, fn func(context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type store struct {
	users    memUsers
	services memServices
	bookings memBookings
	reviews  memReviews
	tx       *memTx
}

func newStore() *store {
	bookings := memBookings{newTable(func(b *domain.Booking) *int64 { return &b.ID })}
	return &store{
		users:    memUsers{newTable(func(u *domain.User) *int64 { return &u.ID })},
		services: memServices{newTable(func(s *domain.Service) *int64 { return &s.ID })},
		bookings: bookings,
		reviews:  memReviews{memTable: newTable(func(r *domain.Review) *int64 { return &r.ID }), bookings: bookings},
		tx:       &memTx{},
	}
}

var (
	_ domain.UserRepository    = memUsers{}
	_ domain.ServiceRepository = memServices{}
	_ domain.BookingRepository = memBookings{}
	_ domain.ReviewRepository  = memReviews{}
	_ domain.TxManager         = (*memTx)(nil)
)
