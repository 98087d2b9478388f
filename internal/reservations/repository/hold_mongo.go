package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationserrors "eventstay/internal/reservations/errors"
	"eventstay/pkg/config"
	"eventstay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoHoldRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHoldRepository(cfg *config.Config) HoldRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHoldRepository{
		cfg:        cfg,
		collection: db.Collection(HoldsCollection),
	}
}

// Insert fails with ErrDuplicateHold if the booking already holds units.
func (r *mongoHoldRepository) Insert(ctx context.Context, hold *model.InventoryHold) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, hold)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", reservationserrors.ErrDuplicateHold, hold.BookingID)
		}
		return fmt.Errorf("failed to insert hold: %w", err)
	}
	return nil
}

func (r *mongoHoldRepository) FindByBooking(ctx context.Context, bookingID string) (*model.InventoryHold, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var hold model.InventoryHold
	err := r.collection.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&hold)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrHoldNotFound
		}
		return nil, fmt.Errorf("failed to find hold: %w", err)
	}
	return &hold, nil
}

func (r *mongoHoldRepository) MarkReleased(ctx context.Context, bookingID, propertyID string, units int, at time.Time) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"_id":         bookingID,
		"property_id": propertyID,
		"units":       units,
		"released":    false,
	}
	update := bson.M{"$set": bson.M{
		"released":    true,
		"released_at": at,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release hold: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	hold, err := r.FindByBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	return releaseMismatch(hold, propertyID, units)
}

func (r *mongoHoldRepository) OutstandingUnits(ctx context.Context, propertyID string) (int, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"property_id": propertyID, "released": false}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "units": bson.M{"$sum": "$units"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate holds: %w", err)
	}
	defer cursor.Close(ctx)

	var row struct {
		Units int `bson:"units"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&row); err != nil {
			return 0, fmt.Errorf("failed to decode held units: %w", err)
		}
	}
	return row.Units, cursor.Err()
}

// releaseMismatch explains why a release matched nothing.
func releaseMismatch(hold *model.InventoryHold, propertyID string, units int) error {
	if hold.PropertyID != propertyID || hold.Units != units {
		return fmt.Errorf("%w: booking %s holds %d units of %s", reservationserrors.ErrHoldNotFound, hold.BookingID, hold.Units, hold.PropertyID)
	}
	if hold.Released {
		return fmt.Errorf("%w: %s", reservationserrors.ErrAlreadyReleased, hold.BookingID)
	}
	return fmt.Errorf("%w: %s", reservationserrors.ErrHoldNotFound, hold.BookingID)
}
