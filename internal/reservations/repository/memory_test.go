package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	reservationserrors "eventstay/internal/reservations/errors"
	"eventstay/pkg/db/memory"
	"eventstay/pkg/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 12, 1, 9, 0, 0, 0, time.UTC)

func seedProperty(t *testing.T, repos Repositories, id string, total, available int) {
	t.Helper()
	require.NoError(t, repos.Properties.Create(context.Background(), &model.Property{
		ID:             id,
		Title:          "Lagoon Villa",
		PricePerNight:  20000,
		TotalUnits:     total,
		AvailableUnits: available,
		CreatedAt:      t0,
	}))
}

func newBooking(propertyID string, units int, state model.BookingState, createdAt time.Time) *model.Booking {
	return &model.Booking{
		ID:           uuid.NewString(),
		PropertyID:   propertyID,
		GuestName:    "Ada",
		CheckIn:      t0.Add(24 * time.Hour),
		CheckOut:     t0.Add(72 * time.Hour),
		Units:        units,
		BookingState: state,
		CreatedAt:    createdAt,
	}
}

func TestMemoryProperty_TakeAndReturnUnitsAreGuarded(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryStore().Repositories()
	seedProperty(t, repos, "p1", 3, 3)

	require.NoError(t, repos.Properties.TakeUnits(ctx, "p1", 2))
	assert.ErrorIs(t, repos.Properties.TakeUnits(ctx, "p1", 2), reservationserrors.ErrInsufficientInventory)

	credited, err := repos.Properties.ReturnUnits(ctx, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, credited)
	credited, err = repos.Properties.ReturnUnits(ctx, "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, credited)

	p, err := repos.Properties.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.AvailableUnits)

	assert.ErrorIs(t, repos.Properties.TakeUnits(ctx, "missing", 1), reservationserrors.ErrPropertyNotFound)
}

func TestMemoryStore_FailedUnitLeavesNoTrace(t *testing.T) {
	repos := NewMemoryStore().Repositories()
	seedProperty(t, repos, "p1", 2, 2)
	uow := memory.NewUnitOfWork()
	b := newBooking("p1", 1, model.TemporaryState(t0.Add(time.Hour)), t0)

	boom := errors.New("boom")
	err := uow.Run(context.Background(), "p1", func(ctx context.Context) error {
		require.NoError(t, repos.Holds.Insert(ctx, &model.InventoryHold{BookingID: b.ID, PropertyID: "p1", Units: 1}))
		require.NoError(t, repos.Properties.TakeUnits(ctx, "p1", 1))
		require.NoError(t, repos.Bookings.Create(ctx, b))
		return boom
	})
	require.ErrorIs(t, err, boom)

	ctx := context.Background()
	p, err := repos.Properties.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.AvailableUnits)

	_, err = repos.Bookings.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, reservationserrors.ErrNotFound)

	_, err = repos.Holds.FindByBooking(ctx, b.ID)
	assert.ErrorIs(t, err, reservationserrors.ErrHoldNotFound)
}

func TestMemoryHold_ReleasesOnce(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryStore().Repositories()
	require.NoError(t, repos.Holds.Insert(ctx, &model.InventoryHold{BookingID: "b1", PropertyID: "p1", Units: 2, ReservedAt: t0}))

	assert.ErrorIs(t, repos.Holds.Insert(ctx, &model.InventoryHold{BookingID: "b1", PropertyID: "p1", Units: 2}), reservationserrors.ErrDuplicateHold)

	outstanding, err := repos.Holds.OutstandingUnits(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, outstanding)

	assert.ErrorIs(t, repos.Holds.MarkReleased(ctx, "b1", "p1", 3, t0), reservationserrors.ErrHoldNotFound)
	require.NoError(t, repos.Holds.MarkReleased(ctx, "b1", "p1", 2, t0))
	assert.ErrorIs(t, repos.Holds.MarkReleased(ctx, "b1", "p1", 2, t0), reservationserrors.ErrAlreadyReleased)

	outstanding, err = repos.Holds.OutstandingUnits(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, outstanding)
}

func TestMemoryBooking_TransitionIsConditional(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryStore().Repositories()
	b := newBooking("p1", 1, model.TemporaryState(t0.Add(time.Hour)), t0)
	require.NoError(t, repos.Bookings.Create(ctx, b))

	require.NoError(t, repos.Bookings.Transition(ctx, b.ID, model.StatusTemporary, model.CancelledState(), t0))
	assert.ErrorIs(t, repos.Bookings.Transition(ctx, b.ID, model.StatusTemporary, model.ExpiredState(), t0), reservationserrors.ErrStaleStatus)
	assert.ErrorIs(t, repos.Bookings.Transition(ctx, uuid.NewString(), model.StatusTemporary, model.ExpiredState(), t0), reservationserrors.ErrNotFound)

	got, err := repos.Bookings.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)
	assert.Nil(t, got.ExpiresAt)
	require.NotNil(t, got.UpdatedAt)
}

func TestMemoryBooking_Queries(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryStore().Repositories()

	lapsed := newBooking("p1", 1, model.TemporaryState(t0.Add(-time.Minute)), t0)
	live := newBooking("p1", 2, model.TemporaryState(t0.Add(time.Hour)), t0.Add(time.Second))
	confirmed := newBooking("p1", 1, model.ConfirmedState(), t0.Add(2*time.Second))
	other := newBooking("p2", 1, model.CancelledState(), t0.Add(3*time.Second))
	confirmed.Price = model.Quote{Total: 90000}
	live.Price = model.Quote{Total: 10, QuotePending: true}
	for _, b := range []*model.Booking{lapsed, live, confirmed, other} {
		require.NoError(t, repos.Bookings.Create(ctx, b))
	}

	active, err := repos.Bookings.FindActiveByProperty(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, lapsed.ID, active[0].ID)

	due, err := repos.Bookings.FindLapsedTemporary(ctx, t0, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, lapsed.ID, due[0].ID)

	all, err := repos.Bookings.FindAll(ctx, "", 2, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, other.ID, all[0].ID)

	count, err := repos.Bookings.Count(ctx, model.StatusTemporary)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	summary, err := repos.Bookings.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.BookingSummary{
		Total: 4, Temporary: 2, Confirmed: 1, Cancelled: 1,
		Revenue: 90000, PendingQuote: 1,
	}, summary)

	_, err = repos.Bookings.FindByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, reservationserrors.ErrInvalidID)
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, page(items, 2, 2))
	assert.Equal(t, []int{5}, page(items, 10, 4))
	assert.Empty(t, page(items, 2, 9))
}
