package domain

import (
	"fmt"
	"time"

	"bookit/pkg/apperrors"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ActiveStatuses occupy their interval for conflict detection.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed}

var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(s)
	if !st.Valid() {
		return "", apperrors.NewValidation(fmt.Sprintf("unknown booking status %q", s))
	}
	return st, nil
}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s BookingStatus) IsActive() bool { return s == StatusPending || s == StatusConfirmed }

func (s BookingStatus) IsTerminal() bool { return s == StatusCompleted || s == StatusCancelled }

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

// Overlaps treats touching endpoints as free.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

type Booking struct {
	ID        int64         `gorm:"primaryKey" json:"id"`
	UserID    int64         `gorm:"not null;index" json:"userId"`
	ServiceID int64         `gorm:"not null;index:idx_bookings_service_window,priority:1" json:"serviceId"`
	StartTime time.Time     `gorm:"not null;index:idx_bookings_service_window,priority:2" json:"startTime"`
	EndTime   time.Time     `gorm:"not null" json:"endTime"`
	Status    BookingStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`

	User    *User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Service *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) Interval() Interval { return Interval{Start: b.StartTime, End: b.EndTime} }

func (b *Booking) CanBeCancelled() bool { return b.Status.IsActive() }

// Transition moves the booking along the lifecycle or reports InvalidState.
func (b *Booking) Transition(next BookingStatus) error {
	if _, err := ParseBookingStatus(string(next)); err != nil {
		return err
	}
	if b.Status.IsTerminal() {
		return apperrors.NewInvalidState(fmt.Sprintf("booking is already %s", b.Status))
	}
	if !b.Status.CanTransitionTo(next) {
		return apperrors.NewInvalidState(fmt.Sprintf("booking cannot move from %s to %s", b.Status, next))
	}
	b.Status = next
	return nil
}

// Reschedule sets a new window; end is always derived from start and duration.
func (b *Booking) Reschedule(iv Interval) error {
	if !b.Status.IsActive() {
		return apperrors.NewInvalidState(fmt.Sprintf("a %s booking cannot be rescheduled", b.Status))
	}
	b.StartTime, b.EndTime = iv.Start, iv.End
	return nil
}

type BookingPatch struct {
	StartTime *time.Time
	Status    *BookingStatus
}

func (p BookingPatch) Empty() bool { return p.StartTime == nil && p.Status == nil }

// BookingFilter narrows admin listings; From/To bound StartTime.
type BookingFilter struct {
	UserID    int64
	ServiceID int64
	Status    BookingStatus
	From      *time.Time
	To        *time.Time
}
