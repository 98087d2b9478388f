package model

import "time"

type Property struct {
	ID             string     `json:"id" bson:"_id"`
	Title          string     `json:"title" bson:"title"`
	PricePerNight  Money      `json:"price_per_night" bson:"price_per_night"`
	TotalUnits     int        `json:"total_units" bson:"total_units"`
	AvailableUnits int        `json:"available_units" bson:"available_units"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

func (p *Property) Availability() Availability {
	return Availability{
		PropertyID:     p.ID,
		AvailableUnits: p.AvailableUnits,
		TotalUnits:     p.TotalUnits,
	}
}

type PropertyCreate struct {
	Title         string `json:"title" validate:"required,min=2,max=200"`
	PricePerNight Money  `json:"price_per_night" validate:"min=0"`
	TotalUnits    int    `json:"total_units" validate:"min=0,max=10000"`
}

// UnitsOverride is the admin edit of a property's counters. It bypasses the
// ledger and may leave the inventory out of balance with active bookings.
type UnitsOverride struct {
	TotalUnits     int `json:"total_units" validate:"min=0,max=10000"`
	AvailableUnits int `json:"available_units" validate:"min=0,ltefield=TotalUnits"`
}
