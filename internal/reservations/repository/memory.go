package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	reservationserrors "eventstay/internal/reservations/errors"
	"eventstay/pkg/db/memory"
	"eventstay/pkg/model"

	"github.com/google/uuid"
)

// MemoryStore keeps every collection in process. Writes register an undo
// step with the surrounding memory unit of work so a failed unit leaves no
// trace. Values are copied on the way in and out.
type MemoryStore struct {
	mu         sync.RWMutex
	properties map[string]*model.Property
	bookings   map[string]*model.Booking
	holds      map[string]*model.InventoryHold
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		properties: make(map[string]*model.Property),
		bookings:   make(map[string]*model.Booking),
		holds:      make(map[string]*model.InventoryHold),
	}
}

func (s *MemoryStore) Repositories() Repositories {
	return Repositories{
		Properties: &memoryPropertyRepository{s},
		Bookings:   &memoryBookingRepository{s},
		Holds:      &memoryHoldRepository{s},
	}
}

type memoryPropertyRepository struct{ s *MemoryStore }

func (r *memoryPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.properties[property.ID]; ok {
		return fmt.Errorf("failed to create property: duplicate id %s", property.ID)
	}
	p := *property
	r.s.properties[p.ID] = &p
	memory.OnRollback(ctx, func() {
		r.s.mu.Lock()
		delete(r.s.properties, p.ID)
		r.s.mu.Unlock()
	})
	return nil
}

func (r *memoryPropertyRepository) FindByID(_ context.Context, id string) (*model.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.properties[id]
	if !ok {
		return nil, reservationserrors.ErrPropertyNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryPropertyRepository) FindAll(_ context.Context, limit int, offset int64) ([]*model.Property, error) {
	r.s.mu.RLock()
	all := make([]*model.Property, 0, len(r.s.properties))
	for _, p := range r.s.properties {
		cp := *p
		all = append(all, &cp)
	}
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), nil
}

func (r *memoryPropertyRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.properties)), nil
}

func (r *memoryPropertyRepository) Totals(_ context.Context) (model.CatalogTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	totals := model.CatalogTotals{Properties: len(r.s.properties)}
	for _, p := range r.s.properties {
		totals.TotalUnits += p.TotalUnits
		totals.AvailableUnits += p.AvailableUnits
	}
	return totals, nil
}

func (r *memoryPropertyRepository) TakeUnits(ctx context.Context, id string, units int) error {
	return r.adjust(ctx, id, func(p *model.Property) error {
		if p.AvailableUnits < units {
			return reservationserrors.ErrInsufficientInventory
		}
		p.AvailableUnits -= units
		return nil
	})
}

func (r *memoryPropertyRepository) ReturnUnits(ctx context.Context, id string, units int) (int, error) {
	credited := 0
	err := r.adjust(ctx, id, func(p *model.Property) error {
		credited = creditable(p.AvailableUnits, p.TotalUnits, units)
		p.AvailableUnits += credited
		return nil
	})
	return credited, err
}

func (r *memoryPropertyRepository) SetUnits(ctx context.Context, id string, total, available int) error {
	return r.adjust(ctx, id, func(p *model.Property) error {
		p.TotalUnits = total
		p.AvailableUnits = available
		return nil
	})
}

// adjust applies mutate to a copy and stores it only when mutate succeeds.
func (r *memoryPropertyRepository) adjust(ctx context.Context, id string, mutate func(*model.Property) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.properties[id]
	if !ok {
		return reservationserrors.ErrPropertyNotFound
	}
	next := *current
	if err := mutate(&next); err != nil {
		return err
	}
	now := time.Now().UTC()
	next.UpdatedAt = &now

	r.s.properties[id] = &next
	memory.OnRollback(ctx, func() {
		r.s.mu.Lock()
		r.s.properties[id] = current
		r.s.mu.Unlock()
	})
	return nil
}

type memoryBookingRepository struct{ s *MemoryStore }

func (r *memoryBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookings[booking.ID]; ok {
		return fmt.Errorf("failed to create booking: duplicate id %s", booking.ID)
	}
	b := cloneBooking(booking)
	r.s.bookings[b.ID] = b
	memory.OnRollback(ctx, func() {
		r.s.mu.Lock()
		delete(r.s.bookings, b.ID)
		r.s.mu.Unlock()
	})
	return nil
}

func (r *memoryBookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *memoryBookingRepository) FindActiveByProperty(_ context.Context, propertyID string) ([]*model.Booking, error) {
	out := r.filter(func(b *model.Booking) bool {
		return b.PropertyID == propertyID && b.Status.IsActive()
	})
	sort.Slice(out, func(i, j int) bool { return createdBefore(out[i], out[j]) })
	return out, nil
}

func (r *memoryBookingRepository) FindLapsedTemporary(_ context.Context, now time.Time, limit int) ([]*model.Booking, error) {
	out := r.filter(func(b *model.Booking) bool { return b.HoldLapsed(now) })
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(*out[j].ExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryBookingRepository) FindAll(_ context.Context, status model.Status, limit int, offset int64) ([]*model.Booking, error) {
	out := r.filter(func(b *model.Booking) bool { return status == "" || b.Status == status })
	sort.Slice(out, func(i, j int) bool { return createdBefore(out[j], out[i]) })
	return page(out, limit, offset), nil
}

func (r *memoryBookingRepository) Count(_ context.Context, status model.Status) (int64, error) {
	return int64(len(r.filter(func(b *model.Booking) bool { return status == "" || b.Status == status }))), nil
}

func (r *memoryBookingRepository) Summarize(_ context.Context) (model.BookingSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var summary model.BookingSummary
	for _, b := range r.s.bookings {
		var pending int64
		if b.Price.QuotePending {
			pending = 1
		}
		addToSummary(&summary, b.Status, 1, b.Price.Total, pending)
	}
	return summary, nil
}

func (r *memoryBookingRepository) Transition(ctx context.Context, id string, from model.Status, next model.BookingState, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.bookings[id]
	if !ok {
		return reservationserrors.ErrNotFound
	}
	if current.Status != from {
		return reservationserrors.ErrStaleStatus
	}

	updated := cloneBooking(current)
	updated.BookingState = next
	if next.ExpiresAt != nil {
		t := *next.ExpiresAt
		updated.ExpiresAt = &t
	}
	stamp := at
	updated.UpdatedAt = &stamp

	r.s.bookings[id] = updated
	memory.OnRollback(ctx, func() {
		r.s.mu.Lock()
		r.s.bookings[id] = current
		r.s.mu.Unlock()
	})
	return nil
}

func (r *memoryBookingRepository) filter(keep func(*model.Booking) bool) []*model.Booking {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.Booking
	for _, b := range r.s.bookings {
		if keep(b) {
			out = append(out, cloneBooking(b))
		}
	}
	return out
}

type memoryHoldRepository struct{ s *MemoryStore }

func (r *memoryHoldRepository) Insert(ctx context.Context, hold *model.InventoryHold) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.holds[hold.BookingID]; ok {
		return fmt.Errorf("%w: %s", reservationserrors.ErrDuplicateHold, hold.BookingID)
	}
	h := *hold
	r.s.holds[h.BookingID] = &h
	memory.OnRollback(ctx, func() {
		r.s.mu.Lock()
		delete(r.s.holds, h.BookingID)
		r.s.mu.Unlock()
	})
	return nil
}

func (r *memoryHoldRepository) FindByBooking(_ context.Context, bookingID string) (*model.InventoryHold, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	h, ok := r.s.holds[bookingID]
	if !ok {
		return nil, reservationserrors.ErrHoldNotFound
	}
	cp := *h
	return &cp, nil
}

func (r *memoryHoldRepository) MarkReleased(ctx context.Context, bookingID, propertyID string, units int, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.holds[bookingID]
	if !ok {
		return reservationserrors.ErrHoldNotFound
	}
	if current.Released || current.PropertyID != propertyID || current.Units != units {
		return releaseMismatch(current, propertyID, units)
	}

	next := *current
	next.Released = true
	stamp := at
	next.ReleasedAt = &stamp

	r.s.holds[bookingID] = &next
	memory.OnRollback(ctx, func() {
		r.s.mu.Lock()
		r.s.holds[bookingID] = current
		r.s.mu.Unlock()
	})
	return nil
}

func (r *memoryHoldRepository) OutstandingUnits(_ context.Context, propertyID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	units := 0
	for _, h := range r.s.holds {
		if h.PropertyID == propertyID && !h.Released {
			units += h.Units
		}
	}
	return units, nil
}

func cloneBooking(b *model.Booking) *model.Booking {
	cp := *b
	if b.ExpiresAt != nil {
		t := *b.ExpiresAt
		cp.ExpiresAt = &t
	}
	if b.UpdatedAt != nil {
		t := *b.UpdatedAt
		cp.UpdatedAt = &t
	}
	if b.Price.Driver != nil {
		c := *b.Price.Driver
		cp.Price.Driver = &c
	}
	return &cp
}

func createdBefore(a, b *model.Booking) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func page[T any](items []T, limit int, offset int64) []T {
	if offset >= int64(len(items)) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
