package model

import (
	"time"
)

type Status string

const (
	StatusTemporary Status = "temporary"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusExpired
}

// IsActive reports whether a booking in this status still holds inventory.
func (s Status) IsActive() bool {
	return s == StatusTemporary || s == StatusConfirmed
}

func (s Status) Valid() bool {
	switch s {
	case StatusTemporary, StatusConfirmed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

type CarTier string

const (
	CarStandard CarTier = "standard"
	CarComfort  CarTier = "comfort"
	CarLuxury   CarTier = "luxury"
)

// BookingState is the status of a booking together with the hold deadline.
// ExpiresAt is set only while the booking is temporary; use the constructors
// below instead of building the struct by hand.
type BookingState struct {
	Status    Status     `json:"status" bson:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
}

func TemporaryState(expiresAt time.Time) BookingState {
	t := expiresAt.UTC()
	return BookingState{Status: StatusTemporary, ExpiresAt: &t}
}

func ConfirmedState() BookingState { return BookingState{Status: StatusConfirmed} }

func CancelledState() BookingState { return BookingState{Status: StatusCancelled} }

func ExpiredState() BookingState { return BookingState{Status: StatusExpired} }

// HoldLapsed reports whether a temporary hold has reached its deadline at now.
func (s BookingState) HoldLapsed(now time.Time) bool {
	return s.Status == StatusTemporary && s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

type Booking struct {
	ID            string    `json:"id" bson:"_id"`
	PropertyID    string    `json:"property_id" bson:"property_id"`
	GuestName     string    `json:"guest_name" bson:"guest_name"`
	CheckIn       time.Time `json:"check_in" bson:"check_in"`
	CheckOut      time.Time `json:"check_out" bson:"check_out"`
	Units         int       `json:"units" bson:"units"`
	DriverService bool      `json:"driver_service" bson:"driver_service"`
	CarTier       CarTier   `json:"car_tier,omitempty" bson:"car_tier,omitempty"`
	Price         Quote     `json:"price" bson:"price"`

	BookingState `bson:",inline"`

	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

type ReservationRequest struct {
	PropertyID    string    `json:"property_id" validate:"required,max=64"`
	GuestName     string    `json:"guest_name" validate:"required,min=2,max=120,guest_name"`
	CheckIn       time.Time `json:"check_in" validate:"required"`
	CheckOut      time.Time `json:"check_out" validate:"required,gtfield=CheckIn"`
	Units         int       `json:"units" validate:"required,min=1"`
	DriverService bool      `json:"driver_service"`
	CarTier       CarTier   `json:"car_tier,omitempty" validate:"omitempty,oneof=standard comfort luxury"`
}

type QuoteRequest struct {
	PropertyID    string    `json:"property_id" validate:"required,max=64"`
	CheckIn       time.Time `json:"check_in" validate:"required"`
	CheckOut      time.Time `json:"check_out" validate:"required,gtfield=CheckIn"`
	Units         int       `json:"units" validate:"required,min=1"`
	DriverService bool      `json:"driver_service"`
	CarTier       CarTier   `json:"car_tier,omitempty" validate:"omitempty,oneof=standard comfort luxury"`
}
