package service

import (
	"context"

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
	"golang.org/x/sync/errgroup"
)

// PropertyService manages the catalog side: creating properties, reading
// their availability, and the admin override that sets unit counters
// directly outside the ledger.
type PropertyService interface {
	CreateProperty(ctx context.Context, req *model.PropertyCreate) (*model.Property, error)
	ListProperties(ctx context.Context, limit int, offset int64) ([]*model.Property, int64, error)
	GetProperty(ctx context.Context, id string) (*model.Property, error)
	OverrideUnits(ctx context.Context, id string, req *model.UnitsOverride) (*model.InventoryAudit, error)
	Audit(ctx context.Context, id string) (*model.InventoryAudit, error)
}

type propertyService struct {
	repos     repository.Repositories
	uow       db.UnitOfWork
	validator *validator.ReservationValidator
	metrics   *observability.Metrics
	clock     clock.Clock
	cfg       *config.Config
}

func NewPropertyService(
	repos repository.Repositories,
	uow db.UnitOfWork,
	validator *validator.ReservationValidator,
	metrics *observability.Metrics,
	clk clock.Clock,
	cfg *config.Config,
) PropertyService {
	return &propertyService{
		repos:     repos,
		uow:       uow,
		validator: validator,
		metrics:   metrics,
		clock:     clk,
		cfg:       cfg,
	}
}

func (s *propertyService) CreateProperty(ctx context.Context, req *model.PropertyCreate) (*model.Property, error) {
	req.Title = sanitizer.SanitizeTitle(req.Title)
	if err := s.validator.ValidateProperty(req); err != nil {
		return nil, validationError(err)
	}

	property := &model.Property{
		ID:             uuid.New().String(),
		Title:          req.Title,
		PricePerNight:  req.PricePerNight,
		TotalUnits:     req.TotalUnits,
		AvailableUnits: req.TotalUnits,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.repos.Properties.Create(ctx, property); err != nil {
		s.cfg.Log.Error("Failed to create property", "title", property.Title, "error", err)
		return nil, storageError(err, "Failed to create property")
	}

	s.metrics.AvailableUnits(property.ID, property.AvailableUnits)
	s.cfg.Log.Info("Property created",
		"id", property.ID,
		"title", property.Title,
		"total_units", property.TotalUnits,
		"price_per_night", property.PricePerNight,
	)
	return property, nil
}

func (s *propertyService) ListProperties(ctx context.Context, limit int, offset int64) ([]*model.Property, int64, error) {
	var (
		properties []*model.Property
		total      int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repos.Properties.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		properties, err = s.repos.Properties.FindAll(gctx, limit, offset)
		return err
	})
	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to list properties", "error", err)
		return nil, 0, storageError(err, "Failed to retrieve properties")
	}
	if properties == nil {
		properties = []*model.Property{}
	}
	return properties, total, nil
}

func (s *propertyService) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	id = sanitizer.SanitizeID(id)
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}
	property, err := s.repos.Properties.FindByID(ctx, id)
	if err != nil {
		return nil, propertyError(err, id)
	}
	return property, nil
}

// OverrideUnits writes both counters as given. Active bookings are left
// alone, so the result can be out of balance; the returned audit shows by
// how much.
func (s *propertyService) OverrideUnits(ctx context.Context, id string, req *model.UnitsOverride) (*model.InventoryAudit, error) {
	id = sanitizer.SanitizeID(id)
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}
	if err := s.validator.ValidateUnitsOverride(req); err != nil {
		return nil, validationError(err)
	}

	var audit model.InventoryAudit
	err := s.uow.Run(ctx, id, func(ctx context.Context) error {
		if err := s.repos.Properties.SetUnits(ctx, id, req.TotalUnits, req.AvailableUnits); err != nil {
			return err
		}
		var err error
		audit, err = s.audit(ctx, id)
		return err
	})
	if err != nil {
		return nil, propertyError(err, id)
	}

	s.metrics.Override(audit.Balanced)
	s.metrics.AvailableUnits(id, audit.AvailableUnits)
	s.cfg.Log.Warn("Inventory overridden by admin",
		"property_id", id,
		"total_units", audit.TotalUnits,
		"available_units", audit.AvailableUnits,
		"active_units", audit.ActiveUnits,
		"drift", audit.Drift,
	)
	return &audit, nil
}

func (s *propertyService) Audit(ctx context.Context, id string) (*model.InventoryAudit, error) {
	id = sanitizer.SanitizeID(id)
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	var audit model.InventoryAudit
	err := s.uow.Run(ctx, id, func(ctx context.Context) error {
		var err error
		audit, err = s.audit(ctx, id)
		return err
	})
	if err != nil {
		return nil, propertyError(err, id)
	}
	if !audit.Balanced {
		s.cfg.Log.Warn("Inventory out of balance", "property_id", id, "drift", audit.Drift, "held_units", audit.HeldUnits)
	}
	return &audit, nil
}

// audit reads the counters, active bookings and open holds of one property.
// Lapsed holds that have not been swept still count: their units have not
// been given back yet.
func (s *propertyService) audit(ctx context.Context, id string) (model.InventoryAudit, error) {
	property, err := s.repos.Properties.FindByID(ctx, id)
	if err != nil {
		return model.InventoryAudit{}, err
	}
	active, err := s.repos.Bookings.FindActiveByProperty(ctx, id)
	if err != nil {
		return model.InventoryAudit{}, err
	}
	held, err := s.repos.Holds.OutstandingUnits(ctx, id)
	if err != nil {
		return model.InventoryAudit{}, err
	}
	return buildAudit(property, active, held), nil
}

func buildAudit(property *model.Property, active []*model.Booking, held int) model.InventoryAudit {
	audit := model.InventoryAudit{
		PropertyID:     property.ID,
		TotalUnits:     property.TotalUnits,
		AvailableUnits: property.AvailableUnits,
		ActiveBookings: len(active),
		HeldUnits:      held,
	}
	for _, b := range active {
		audit.ActiveUnits += b.Units
	}
	audit.Drift = audit.AvailableUnits + audit.ActiveUnits - audit.TotalUnits
	audit.Balanced = audit.Drift == 0 && audit.HeldUnits == audit.ActiveUnits
	return audit
}
