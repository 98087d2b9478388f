package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationserrors "eventstay/internal/reservations/errors"
	"eventstay/internal/reservations/events"
	"eventstay/internal/reservations/ledger"
	"eventstay/internal/reservations/lifecycle"
	"eventstay/internal/reservations/pricing"
	"eventstay/internal/reservations/repository"
	"eventstay/internal/reservations/validator"
	"eventstay/pkg/clock"
	"eventstay/pkg/config"
	"eventstay/pkg/db"
	apperrors "eventstay/pkg/errors"
	"eventstay/pkg/model"
	"eventstay/pkg/observability"
	"eventstay/pkg/sanitizer"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const publishTimeout = 5 * time.Second

// ReservationService is the only way bookings change. Every operation that
// touches a booking first expires its hold if the deadline has passed, so
// callers never see a lapsed hold as still holding inventory.
type ReservationService interface {
	CreateReservation(ctx context.Context, req *model.ReservationRequest) (*model.Booking, error)
	Confirm(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	ListActive(ctx context.Context, propertyID string) ([]*model.Booking, error)
	GetReservation(ctx context.Context, id string) (*model.Booking, error)
	ListReservations(ctx context.Context, status string, limit int, offset int64) ([]*model.Booking, int64, error)
	Quote(ctx context.Context, req *model.QuoteRequest) (*model.Quote, error)
	SweepExpired(ctx context.Context, limit int) (int, error)
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

type reservationService struct {
	repos     repository.Repositories
	uow       db.UnitOfWork
	ledger    *ledger.Ledger
	validator *validator.ReservationValidator
	publisher events.Publisher
	metrics   *observability.Metrics
	clock     clock.Clock
	cfg       *config.Config
}

func NewReservationService(
	repos repository.Repositories,
	uow db.UnitOfWork,
	ledger *ledger.Ledger,
	validator *validator.ReservationValidator,
	publisher events.Publisher,
	metrics *observability.Metrics,
	clk clock.Clock,
	cfg *config.Config,
) ReservationService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &reservationService{
		repos:     repos,
		uow:       uow,
		ledger:    ledger,
		validator: validator,
		publisher: publisher,
		metrics:   metrics,
		clock:     clk,
		cfg:       cfg,
	}
}

// change is one committed status change, kept for the post-commit event.
type change struct {
	from    model.Status
	booking model.Booking
	title   string
}

func (s *reservationService) CreateReservation(ctx context.Context, req *model.ReservationRequest) (*model.Booking, error) {
	ctx, span := observability.Tracer().Start(ctx, "reservations.Create")
	defer span.End()

	s.sanitizeReservation(req)
	if err := s.validator.ValidateReservation(req); err != nil {
		return nil, fail(span, validationError(err))
	}

	property, err := s.repos.Properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrPropertyNotFound) {
			return nil, fail(span, apperrors.InvalidInput("Unknown property").WithDetails(map[string]any{"property_id": req.PropertyID}))
		}
		return nil, fail(span, propertyError(err, req.PropertyID))
	}

	price, err := s.price(property, req.CheckIn, req.CheckOut, req.Units, req.DriverService, req.CarTier)
	if err != nil {
		return nil, fail(span, err)
	}

	now := s.clock.Now()
	state, _ := lifecycle.Start(now, s.cfg.HoldDuration)
	booking := &model.Booking{
		ID:            uuid.New().String(),
		PropertyID:    property.ID,
		GuestName:     req.GuestName,
		CheckIn:       req.CheckIn.UTC(),
		CheckOut:      req.CheckOut.UTC(),
		Units:         req.Units,
		DriverService: req.DriverService,
		CarTier:       req.CarTier,
		Price:         price,
		BookingState:  state,
		CreatedAt:     now,
	}
	span.SetAttributes(
		attribute.String("booking.id", booking.ID),
		attribute.String("property.id", booking.PropertyID),
		attribute.Int("booking.units", booking.Units),
	)

	err = s.uow.Run(ctx, booking.PropertyID, func(ctx context.Context) error {
		entry := ledger.Entry{BookingID: booking.ID, PropertyID: booking.PropertyID, Units: booking.Units}
		if err := s.ledger.TryReserve(ctx, entry); err != nil {
			return err
		}
		return s.repos.Bookings.Create(ctx, booking)
	})
	if err != nil {
		if errors.Is(err, reservationserrors.ErrInsufficientInventory) {
			s.metrics.ReservationOutcome("sold_out")
			available := 0
			if a, aerr := s.ledger.Availability(ctx, booking.PropertyID); aerr == nil {
				available = a.AvailableUnits
				s.metrics.AvailableUnits(booking.PropertyID, available)
			}
			s.cfg.Log.Info("Reservation rejected, not enough units",
				"property_id", booking.PropertyID,
				"requested", booking.Units,
				"available", available,
			)
			return nil, fail(span, apperrors.SoldOut(booking.PropertyID, booking.Units, available))
		}
		s.metrics.ReservationOutcome("error")
		s.cfg.Log.Error("Failed to create reservation", "property_id", booking.PropertyID, "error", err)
		if errors.Is(err, reservationserrors.ErrPropertyNotFound) {
			return nil, fail(span, apperrors.InvalidInput("Unknown property"))
		}
		return nil, fail(span, storageError(err, "Failed to create reservation"))
	}

	s.metrics.ReservationOutcome("reserved")
	if a, aerr := s.ledger.Availability(ctx, booking.PropertyID); aerr == nil {
		s.metrics.AvailableUnits(booking.PropertyID, a.AvailableUnits)
	}
	s.cfg.Log.Info("Reservation created",
		"id", booking.ID,
		"property_id", booking.PropertyID,
		"units", booking.Units,
		"total", booking.Price.Total,
		"quote_pending", booking.Price.QuotePending,
		"expires_at", booking.ExpiresAt,
	)
	s.publish(ctx, []change{{booking: *booking, title: property.Title}})
	return booking, nil
}

func (s *reservationService) Confirm(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, lifecycle.EventConfirm)
}

func (s *reservationService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, lifecycle.EventCancel)
}

func (s *reservationService) transition(ctx context.Context, id string, event lifecycle.Event) (*model.Booking, error) {
	ctx, span := observability.Tracer().Start(ctx, "reservations."+string(event),
		trace.WithAttributes(attribute.String("booking.id", id)))
	defer span.End()

	id = sanitizer.SanitizeID(id)
	if id == "" {
		return nil, fail(span, apperrors.InvalidInput("Booking ID cannot be empty"))
	}

	booking, changes, err := s.apply(ctx, id, event)
	s.publish(ctx, changes)
	if err != nil {
		status := model.Status("")
		if booking != nil {
			status = booking.Status
		}
		return nil, fail(span, bookingError(err, id, status))
	}

	s.cfg.Log.Info("Booking updated", "id", id, "event", event, "status", booking.Status)
	return booking, nil
}

// apply runs event against the booking in a unit of work scoped to its
// property. A lapsed hold is expired first and that expiry commits even when
// it makes the requested event fail. An empty event only performs the lazy
// expiry. The returned changes have committed.
func (s *reservationService) apply(ctx context.Context, id string, event lifecycle.Event) (*model.Booking, []change, error) {
	found, err := s.repos.Bookings.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if event == "" && !found.HoldLapsed(s.clock.Now()) {
		return found, nil, nil
	}

	var (
		current *model.Booking
		changes []change
		outcome error
	)
	err = s.uow.Run(ctx, found.PropertyID, func(ctx context.Context) error {
		current, changes, outcome = nil, nil, nil

		b, err := s.repos.Bookings.FindByID(ctx, id)
		if err != nil {
			return err
		}
		current = b
		now := s.clock.Now()

		if b.HoldLapsed(now) {
			c, err := s.step(ctx, b, lifecycle.EventSweep, now)
			if err != nil {
				return err
			}
			changes = append(changes, c)

			switch event {
			case lifecycle.EventConfirm:
				outcome = reservationserrors.ErrHoldExpired
			case lifecycle.EventCancel:
				outcome = fmt.Errorf("%w: booking is %s", reservationserrors.ErrAlreadyTerminal, b.Status)
			}
			return nil
		}

		if event == "" {
			return nil
		}
		c, err := s.step(ctx, b, event, now)
		if err != nil {
			return err
		}
		changes = append(changes, c)
		return nil
	})
	if err != nil {
		return current, nil, err
	}
	return current, changes, outcome
}

// step moves b through one lifecycle event. The status write is conditional
// on the status b was read with, so of two racing transitions only one
// reaches the ledger.
func (s *reservationService) step(ctx context.Context, b *model.Booking, event lifecycle.Event, now time.Time) (change, error) {
	next, effect, err := lifecycle.Next(b.BookingState, event, now)
	if err != nil {
		return change{}, err
	}

	from := b.Status
	if err := s.repos.Bookings.Transition(ctx, b.ID, from, next, now); err != nil {
		return change{}, err
	}
	if effect == lifecycle.EffectRelease {
		entry := ledger.Entry{BookingID: b.ID, PropertyID: b.PropertyID, Units: b.Units}
		credited, err := s.ledger.Release(ctx, entry)
		if err != nil {
			return change{}, err
		}
		if credited < entry.Units {
			s.cfg.Log.Warn("Release capped at total units",
				"booking_id", b.ID,
				"property_id", b.PropertyID,
				"units", entry.Units,
				"credited", credited,
				"drift", entry.Units-credited,
			)
		}
	}

	b.BookingState = next
	stamp := now
	b.UpdatedAt = &stamp
	return change{from: from, booking: *b}, nil
}

func (s *reservationService) ListActive(ctx context.Context, propertyID string) ([]*model.Booking, error) {
	ctx, span := observability.Tracer().Start(ctx, "reservations.ListActive",
		trace.WithAttributes(attribute.String("property.id", propertyID)))
	defer span.End()

	propertyID = sanitizer.SanitizeID(propertyID)
	if propertyID == "" {
		return nil, fail(span, apperrors.InvalidInput("Property ID cannot be empty"))
	}
	if _, err := s.repos.Properties.FindByID(ctx, propertyID); err != nil {
		return nil, fail(span, propertyError(err, propertyID))
	}

	var (
		active  []*model.Booking
		changes []change
	)
	err := s.uow.Run(ctx, propertyID, func(ctx context.Context) error {
		active, changes = nil, nil

		bookings, err := s.repos.Bookings.FindActiveByProperty(ctx, propertyID)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		for _, b := range bookings {
			if !b.HoldLapsed(now) {
				active = append(active, b)
				continue
			}
			c, err := s.step(ctx, b, lifecycle.EventSweep, now)
			if err != nil {
				return err
			}
			changes = append(changes, c)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to list active bookings", "property_id", propertyID, "error", err)
		return nil, fail(span, storageError(err, "Failed to list active bookings"))
	}

	s.publish(ctx, changes)
	if active == nil {
		active = []*model.Booking{}
	}
	return active, nil
}

func (s *reservationService) GetReservation(ctx context.Context, id string) (*model.Booking, error) {
	id = sanitizer.SanitizeID(id)
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, changes, err := s.apply(ctx, id, "")
	s.publish(ctx, changes)
	if err != nil {
		return nil, bookingError(err, id, "")
	}
	return booking, nil
}

func (s *reservationService) ListReservations(ctx context.Context, status string, limit int, offset int64) ([]*model.Booking, int64, error) {
	filter := model.Status(status)
	if filter != "" && !filter.Valid() {
		return nil, 0, apperrors.InvalidInput("Unknown booking status").WithDetails(map[string]any{"status": status})
	}

	var (
		bookings []*model.Booking
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repos.Bookings.Count(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		bookings, err = s.repos.Bookings.FindAll(gctx, filter, limit, offset)
		return err
	})
	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to list bookings", "status", status, "error", err)
		return nil, 0, storageError(err, "Failed to retrieve bookings")
	}

	// Lapsed holds on this page are expired before they are shown.
	now := s.clock.Now()
	for i, b := range bookings {
		if !b.HoldLapsed(now) {
			continue
		}
		swept, changes, err := s.apply(ctx, b.ID, "")
		s.publish(ctx, changes)
		if err != nil {
			s.cfg.Log.Warn("Failed to expire lapsed hold while listing", "id", b.ID, "error", err)
			continue
		}
		bookings[i] = swept
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, total, nil
}

func (s *reservationService) Quote(ctx context.Context, req *model.QuoteRequest) (*model.Quote, error) {
	req.PropertyID = sanitizer.SanitizeID(req.PropertyID)
	if !req.DriverService {
		req.CarTier = ""
	}
	if err := s.validator.ValidateQuote(req); err != nil {
		return nil, validationError(err)
	}

	property, err := s.repos.Properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrPropertyNotFound) {
			return nil, apperrors.InvalidInput("Unknown property").WithDetails(map[string]any{"property_id": req.PropertyID})
		}
		return nil, propertyError(err, req.PropertyID)
	}

	quote, err := s.price(property, req.CheckIn, req.CheckOut, req.Units, req.DriverService, req.CarTier)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// SweepExpired expires up to limit lapsed holds, oldest deadline first. A
// hold that was cancelled or confirmed in the meantime is skipped.
func (s *reservationService) SweepExpired(ctx context.Context, limit int) (int, error) {
	ctx, span := observability.Tracer().Start(ctx, "reservations.SweepExpired")
	defer span.End()

	lapsed, err := s.repos.Bookings.FindLapsedTemporary(ctx, s.clock.Now(), limit)
	if err != nil {
		return 0, fail(span, fmt.Errorf("failed to find lapsed holds: %w", err))
	}

	swept := 0
	var errs []error
	for _, b := range lapsed {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		_, changes, err := s.apply(ctx, b.ID, "")
		s.publish(ctx, changes)
		switch {
		case err == nil:
			swept += len(changes)
		case errors.Is(err, reservationserrors.ErrStaleStatus),
			errors.Is(err, reservationserrors.ErrAlreadyTerminal),
			errors.Is(err, reservationserrors.ErrNotFound):
		default:
			errs = append(errs, fmt.Errorf("booking %s: %w", b.ID, err))
		}
	}

	s.metrics.HoldsExpired(swept)
	span.SetAttributes(attribute.Int("sweep.expired", swept))
	if err := errors.Join(errs...); err != nil {
		return swept, fail(span, err)
	}
	return swept, nil
}

func (s *reservationService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var (
		summary model.BookingSummary
		totals  model.CatalogTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.repos.Bookings.Summarize(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.repos.Properties.Totals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to compute stats", "error", err)
		return nil, storageError(err, "Failed to compute stats")
	}

	return &model.DashboardStats{
		Bookings:        summary,
		TotalProperties: totals.Properties,
		TotalUnits:      totals.TotalUnits,
		AvailableUnits:  totals.AvailableUnits,
		Currency:        s.cfg.Event.Currency,
	}, nil
}

func (s *reservationService) price(property *model.Property, checkIn, checkOut time.Time, units int, driver bool, tier model.CarTier) (model.Quote, error) {
	nights, err := pricing.Nights(checkIn, checkOut)
	if err != nil {
		return model.Quote{}, apperrors.InvalidInput(err.Error())
	}
	quote, err := pricing.Quote(nights, units, property.PricePerNight, driver, tier, s.cfg.Event.DriverCostStandardPerDay)
	if err != nil {
		return model.Quote{}, apperrors.InvalidInput(err.Error())
	}
	return quote, nil
}

func (s *reservationService) sanitizeReservation(req *model.ReservationRequest) {
	req.PropertyID = sanitizer.SanitizeID(req.PropertyID)
	req.GuestName = sanitizer.SanitizeGuestName(req.GuestName)
	if !req.DriverService {
		req.CarTier = ""
	}
}

// publish announces committed changes. Failures are logged and never undo
// the change.
func (s *reservationService) publish(ctx context.Context, changes []change) {
	if len(changes) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	titles := make(map[string]string)
	for _, c := range changes {
		if c.from != "" {
			s.metrics.Transition(string(c.from), string(c.booking.Status))
		}
		eventType, ok := events.TypeFor(c.booking.Status)
		if !ok {
			continue
		}
		at := c.booking.CreatedAt
		if c.booking.UpdatedAt != nil {
			at = *c.booking.UpdatedAt
		}
		title := c.title
		if title == "" {
			title = s.propertyTitle(ctx, c.booking.PropertyID, titles)
		}
		if err := s.publisher.Publish(ctx, events.New(eventType, &c.booking, title, at)); err != nil {
			s.cfg.Log.Warn("Failed to publish booking event",
				"id", c.booking.ID,
				"event", eventType,
				"error", err,
			)
		}
	}
}

// propertyTitle looks a title up once per publish. A failed lookup leaves
// the event without a title.
func (s *reservationService) propertyTitle(ctx context.Context, propertyID string, seen map[string]string) string {
	if title, ok := seen[propertyID]; ok {
		return title
	}
	title := ""
	if p, err := s.repos.Properties.FindByID(ctx, propertyID); err == nil {
		title = p.Title
	} else {
		s.cfg.Log.Debug("Property title unavailable for event", "property_id", propertyID, "error", err)
	}
	seen[propertyID] = title
	return title
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
