package domain

import (
	"time"

	"bookit/pkg/apperrors"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review belongs to exactly one completed booking.
type Review struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	BookingID int64     `gorm:"uniqueIndex;not null" json:"bookingId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   *string   `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Booking *Booking `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Review) TableName() string { return "reviews" }

func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return apperrors.NewValidation("rating must be between 1 and 5")
	}
	return nil
}

type ReviewPatch struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (p ReviewPatch) Validate() error {
	if p.Rating != nil {
		return ValidateRating(*p.Rating)
	}
	return nil
}

func (p ReviewPatch) Apply(r *Review) {
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.Comment != nil {
		c := *p.Comment
		r.Comment = &c
	}
}
