package domain

import "context"

// Repository is the storage port shared by every entity. Lookups of a
// missing row return (nil, nil); the engines turn that into NotFound.
type Repository[T any] interface {
	GetByID(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context, offset, limit int) ([]T, int64, error)
	Create(ctx context.Context, m *T) error
	Update(ctx context.Context, m *T) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type UserRepository interface {
	Repository[User]
	GetByEmail(ctx context.Context, email string) (*User, error)
	Search(ctx context.Context, q string, offset, limit int) ([]User, int64, error)
}

type ServiceRepository interface {
	Repository[Service]
	Search(ctx context.Context, q ServiceQuery, offset, limit int) ([]Service, int64, error)
}

type BookingRepository interface {
	Repository[Booking]
	// ListOverlapping returns active bookings of serviceID intersecting iv, skipping excludeID.
	ListOverlapping(ctx context.Context, serviceID int64, iv Interval, excludeID int64) ([]Booking, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]Booking, int64, error)
	ListFiltered(ctx context.Context, f BookingFilter, offset, limit int) ([]Booking, int64, error)
}

type ReviewRepository interface {
	Repository[Review]
	GetByBooking(ctx context.Context, bookingID int64) (*Review, error)
	ListByService(ctx context.Context, serviceID int64, offset, limit int) ([]Review, int64, error)
}

// TxManager runs fn in one transaction; repositories called with the
// context passed to fn join it.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
