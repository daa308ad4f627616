package domain

import (
	"strings"
	"time"

	"bookit/pkg/apperrors"
)

// Service is a bookable offering from the catalog.
type Service struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null;index" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Price           float64   `gorm:"not null" json:"price"`
	DurationMinutes int       `gorm:"not null" json:"durationMinutes"`
	IsActive        bool      `gorm:"not null" json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (Service) TableName() string { return "services" }

func (s *Service) Duration() time.Duration { return time.Duration(s.DurationMinutes) * time.Minute }

// Validate checks the invariants every stored service satisfies.
func (s *Service) Validate() error {
	s.Title = strings.TrimSpace(s.Title)
	switch {
	case s.Title == "":
		return apperrors.NewValidation("title is required")
	case len(s.Title) > 200:
		return apperrors.NewValidation("title must be at most 200 characters")
	case s.Price < 0:
		return apperrors.NewValidation("price must not be negative")
	case s.DurationMinutes <= 0:
		return apperrors.NewValidation("duration must be a positive number of minutes")
	}
	return nil
}

type ServicePatch struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Price           *float64 `json:"price"`
	DurationMinutes *int     `json:"durationMinutes"`
	IsActive        *bool    `json:"isActive"`
}

func (p ServicePatch) Apply(s *Service) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.DurationMinutes != nil {
		s.DurationMinutes = *p.DurationMinutes
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
}

// ServiceQuery filters the public catalog search. Zero values mean "no filter".
type ServiceQuery struct {
	Text     string
	MinPrice *float64
	MaxPrice *float64
	Active   *bool
}
