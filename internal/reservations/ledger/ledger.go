// Package ledger is the only writer of a property's available units outside
// the admin override. Every reserve and release is tagged with the booking it
// belongs to, and a booking's units can be credited back at most once.
//
// Callers run ledger operations inside a db.UnitOfWork scoped to the property
// so the ledger write and the booking write commit together.
package ledger

import (
	"context"
	"fmt"

	reservationserrors "eventstay/internal/reservations/errors"
	"eventstay/internal/reservations/repository"
	"eventstay/pkg/clock"
	"eventstay/pkg/model"
)

type Entry struct {
	BookingID  string
	PropertyID string
	Units      int
}

func (e Entry) validate() error {
	if e.BookingID == "" {
		return fmt.Errorf("%w: booking id is required", reservationserrors.ErrInvalidArgument)
	}
	if e.PropertyID == "" {
		return fmt.Errorf("%w: property id is required", reservationserrors.ErrInvalidArgument)
	}
	if e.Units <= 0 {
		return fmt.Errorf("%w: units must be positive, got %d", reservationserrors.ErrInvalidArgument, e.Units)
	}
	return nil
}

type Ledger struct {
	properties repository.PropertyRepository
	holds      repository.HoldRepository
	clock      clock.Clock
}

func New(properties repository.PropertyRepository, holds repository.HoldRepository, clk clock.Clock) *Ledger {
	return &Ledger{
		properties: properties,
		holds:      holds,
		clock:      clk,
	}
}

// TryReserve records a hold for the booking and takes its units from the
// property in one conditional write. It fails with ErrInsufficientInventory
// when stock is short, ErrPropertyNotFound for an unknown property and
// ErrDuplicateHold when the booking already holds units.
func (l *Ledger) TryReserve(ctx context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}

	hold := &model.InventoryHold{
		BookingID:  e.BookingID,
		PropertyID: e.PropertyID,
		Units:      e.Units,
		ReservedAt: l.clock.Now(),
	}
	if err := l.holds.Insert(ctx, hold); err != nil {
		return err
	}

	return l.properties.TakeUnits(ctx, e.PropertyID, e.Units)
}

// Release gives the booking's units back and returns how many were credited.
// Available units never exceed total, so after an override that shrank the
// property the credit can be smaller than the hold. A second release of the
// same booking fails with ErrAlreadyReleased and credits nothing.
func (l *Ledger) Release(ctx context.Context, e Entry) (int, error) {
	if err := e.validate(); err != nil {
		return 0, err
	}

	if err := l.holds.MarkReleased(ctx, e.BookingID, e.PropertyID, e.Units, l.clock.Now()); err != nil {
		return 0, err
	}
	return l.properties.ReturnUnits(ctx, e.PropertyID, e.Units)
}

func (l *Ledger) Availability(ctx context.Context, propertyID string) (model.Availability, error) {
	property, err := l.properties.FindByID(ctx, propertyID)
	if err != nil {
		return model.Availability{}, err
	}
	return property.Availability(), nil
}
