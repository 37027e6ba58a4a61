package entities

import (
	"github.com/google/uuid"
)

type Badge string

const (
	BadgePremiumDesigner Badge = "Premium Designer"
	BadgeTopRated        Badge = "Top Rated"
	BadgeMostBooked      Badge = "Most Booked"
	BadgeNewTalent       Badge = "New Talent"
	BadgeProjectMaster   Badge = "Project Master"
)

// Provider carries the reputation inputs and the derived badge set. Badges
// are never written directly; they are recomputed from ReservationCount,
// AverageRating and PublishedWorkCount after every reservation mutation.
// Version backs optimistic locking on badge updates.
type Provider struct {
	ID                 uuid.UUID `json:"provider_id" db:"provider_id"`
	Name               string    `json:"name" db:"name"`
	ReservationCount   int       `json:"reservation_count" db:"reservation_count"`
	AverageRating      float64   `json:"average_rating" db:"average_rating"`
	PublishedWorkCount int       `json:"published_work_count" db:"published_work_count"`
	Badges             []Badge   `json:"badges"`
	Version            int64     `json:"-" db:"version"`
}

// Package is the immutable-at-booking-time template a customer purchases.
type Package struct {
	ID         uuid.UUID `json:"package_id" db:"package_id"`
	ProviderID uuid.UUID `json:"provider_id" db:"provider_id"`
	Name       string    `json:"name" db:"name"`
	Price      int64     `json:"price" db:"price"`
	EventType  string    `json:"event_type" db:"event_type"`
}
