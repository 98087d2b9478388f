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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPropertyRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPropertyRepository(cfg *config.Config) PropertyRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPropertyRepository{
		cfg:        cfg,
		collection: db.Collection(PropertiesCollection),
	}
}

// NewMongoRepositories builds every repository on the configured database.
func NewMongoRepositories(cfg *config.Config) Repositories {
	return Repositories{
		Properties: NewMongoPropertyRepository(cfg),
		Bookings:   NewMongoBookingRepository(cfg),
		Holds:      NewMongoHoldRepository(cfg),
	}
}

func (r *mongoPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, property); err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *mongoPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var property model.Property
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	return &property, nil
}

func (r *mongoPropertyRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Property, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find properties: %w", err)
	}
	defer cursor.Close(ctx)

	var properties []*model.Property
	if err = cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	return properties, nil
}

func (r *mongoPropertyRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

func (r *mongoPropertyRepository) Totals(ctx context.Context) (model.CatalogTotals, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"properties":      bson.M{"$sum": 1},
			"total_units":     bson.M{"$sum": "$total_units"},
			"available_units": bson.M{"$sum": "$available_units"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return model.CatalogTotals{}, fmt.Errorf("failed to aggregate properties: %w", err)
	}
	defer cursor.Close(ctx)

	var totals model.CatalogTotals
	if cursor.Next(ctx) {
		if err := cursor.Decode(&totals); err != nil {
			return model.CatalogTotals{}, fmt.Errorf("failed to decode property totals: %w", err)
		}
	}
	return totals, cursor.Err()
}

func (r *mongoPropertyRepository) TakeUnits(ctx context.Context, id string, units int) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"_id":             id,
		"available_units": bson.M{"$gte": units},
	}
	update := bson.M{
		"$inc": bson.M{"available_units": -units},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to take units: %w", err)
	}
	if result.MatchedCount == 0 {
		return r.missOrShort(ctx, id, reservationserrors.ErrInsufficientInventory)
	}
	return nil
}

func (r *mongoPropertyRepository) ReturnUnits(ctx context.Context, id string, units int) (int, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	// available = max(available, min(available+units, total)) in one write.
	update := mongo.Pipeline{{{Key: "$set", Value: bson.D{
		{Key: "available_units", Value: bson.M{"$max": bson.A{
			"$available_units",
			bson.M{"$min": bson.A{
				bson.M{"$add": bson.A{"$available_units", units}},
				"$total_units",
			}},
		}}},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"available_units": 1, "total_units": 1})

	var before model.Property
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, reservationserrors.ErrPropertyNotFound
		}
		return 0, fmt.Errorf("failed to return units: %w", err)
	}
	return creditable(before.AvailableUnits, before.TotalUnits, units), nil
}

func (r *mongoPropertyRepository) SetUnits(ctx context.Context, id string, total, available int) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"total_units":     total,
		"available_units": available,
		"updated_at":      time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set units: %w", err)
	}
	if result.MatchedCount == 0 {
		return reservationserrors.ErrPropertyNotFound
	}
	return nil
}

// missOrShort tells an unknown property apart from a failed guard after a
// conditional update matched nothing.
func (r *mongoPropertyRepository) missOrShort(ctx context.Context, id string, guardErr error) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to look up property: %w", err)
	}
	if count == 0 {
		return reservationserrors.ErrPropertyNotFound
	}
	return guardErr
}
