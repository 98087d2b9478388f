package model

import "time"

// InventoryHold records the units a booking took from a property. It is keyed
// by booking id so a booking can only ever be credited back once.
type InventoryHold struct {
	BookingID  string     `json:"booking_id" bson:"_id"`
	PropertyID string     `json:"property_id" bson:"property_id"`
	Units      int        `json:"units" bson:"units"`
	Released   bool       `json:"released" bson:"released"`
	ReservedAt time.Time  `json:"reserved_at" bson:"reserved_at"`
	ReleasedAt *time.Time `json:"released_at,omitempty" bson:"released_at,omitempty"`
}

type Availability struct {
	PropertyID     string `json:"property_id"`
	AvailableUnits int    `json:"available_units"`
	TotalUnits     int    `json:"total_units"`
}

// InventoryAudit compares a property's counters with the units held by its
// active bookings. Drift is available + active - total and stays zero as long
// as only the ledger has written. HeldUnits sums the unreleased hold records
// and should match ActiveUnits.
type InventoryAudit struct {
	PropertyID     string `json:"property_id"`
	TotalUnits     int    `json:"total_units"`
	AvailableUnits int    `json:"available_units"`
	ActiveUnits    int    `json:"active_units"`
	ActiveBookings int    `json:"active_bookings"`
	HeldUnits      int    `json:"held_units"`
	Drift          int    `json:"drift"`
	Balanced       bool   `json:"balanced"`
}

type BookingSummary struct {
	Total        int64 `json:"total"`
	Temporary    int64 `json:"temporary"`
	Confirmed    int64 `json:"confirmed"`
	Cancelled    int64 `json:"cancelled"`
	Expired      int64 `json:"expired"`
	Revenue      Money `json:"revenue"`
	PendingQuote int64 `json:"pending_quote"`
}

type DashboardStats struct {
	Bookings        BookingSummary `json:"bookings"`
	TotalProperties int            `json:"total_properties"`
	TotalUnits      int            `json:"total_units"`
	AvailableUnits  int            `json:"available_units"`
	Currency        string         `json:"currency"`
}

// CatalogTotals sums the counters of every property.
type CatalogTotals struct {
	Properties     int `json:"properties" bson:"properties"`
	TotalUnits     int `json:"total_units" bson:"total_units"`
	AvailableUnits int `json:"available_units" bson:"available_units"`
}
