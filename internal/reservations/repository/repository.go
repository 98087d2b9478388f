package repository

import (
	"context"
	"time"

	"eventstay/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	PropertiesCollection = "Properties"
	BookingsCollection   = "Bookings"
	HoldsCollection      = "Inventory_holds"
)

// PropertyRepository stores the catalog. TakeUnits and ReturnUnits are the
// ledger's conditional writes; nothing else changes available units except
// the admin override in SetUnits.
type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	FindByID(ctx context.Context, id string) (*model.Property, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Property, error)
	Count(ctx context.Context) (int64, error)
	Totals(ctx context.Context) (model.CatalogTotals, error)

	// TakeUnits decrements available units iff at least units are available.
	TakeUnits(ctx context.Context, id string, units int) error
	// ReturnUnits adds units back, capped at total, and reports how many
	// were credited. Fewer than units means an override shrank the property.
	ReturnUnits(ctx context.Context, id string, units int) (int, error)
	SetUnits(ctx context.Context, id string, total, available int) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindActiveByProperty(ctx context.Context, propertyID string) ([]*model.Booking, error)
	FindLapsedTemporary(ctx context.Context, now time.Time, limit int) ([]*model.Booking, error)
	FindAll(ctx context.Context, status model.Status, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context, status model.Status) (int64, error)
	Summarize(ctx context.Context) (model.BookingSummary, error)

	// Transition moves a booking to next only if it is still in from.
	Transition(ctx context.Context, id string, from model.Status, next model.BookingState, at time.Time) error
}

type HoldRepository interface {
	Insert(ctx context.Context, hold *model.InventoryHold) error
	FindByBooking(ctx context.Context, bookingID string) (*model.InventoryHold, error)
	// MarkReleased flips an unreleased hold matching all three keys.
	MarkReleased(ctx context.Context, bookingID, propertyID string, units int, at time.Time) error
	OutstandingUnits(ctx context.Context, propertyID string) (int, error)
}

type Repositories struct {
	Properties PropertyRepository
	Bookings   BookingRepository
	Holds      HoldRepository
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// creditable is how many of units fit between available and total.
func creditable(available, total, units int) int {
	room := total - available
	if room <= 0 {
		return 0
	}
	return min(units, room)
}

// addToSummary folds one status group into summary. Revenue counts confirmed
// bookings only; pending quotes count bookings that still hold inventory.
func addToSummary(summary *model.BookingSummary, status model.Status, count int64, revenue model.Money, pending int64) {
	summary.Total += count
	switch status {
	case model.StatusTemporary:
		summary.Temporary += count
	case model.StatusConfirmed:
		summary.Confirmed += count
		summary.Revenue += revenue
	case model.StatusCancelled:
		summary.Cancelled += count
	case model.StatusExpired:
		summary.Expired += count
	}
	if status.IsActive() {
		summary.PendingQuote += pending
	}
}
