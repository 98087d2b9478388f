package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationserrors "eventstay/internal/reservations/errors"
	"eventstay/pkg/config"
	"eventstay/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(BookingsCollection),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) FindActiveByProperty(ctx context.Context, propertyID string) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"property_id": propertyID,
		"status":      bson.M{"$in": bson.A{model.StatusTemporary, model.StatusConfirmed}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	return r.find(ctx, filter, opts)
}

func (r *mongoBookingRepository) FindLapsedTemporary(ctx context.Context, now time.Time, limit int) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status":     model.StatusTemporary,
		"expires_at": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "expires_at", Value: 1}}).
		SetLimit(int64(limit))

	return r.find(ctx, filter, opts)
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, status model.Status, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, statusFilter(status), opts)
}

func (r *mongoBookingRepository) Count(ctx context.Context, status model.Status) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, statusFilter(status))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) Summarize(ctx context.Context) (model.BookingSummary, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":     "$status",
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$price.total"},
			"pending": bson.M{"$sum": bson.M{"$cond": bson.A{"$price.quote_pending", 1, 0}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return model.BookingSummary{}, fmt.Errorf("failed to aggregate bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []struct {
		Status  model.Status `bson:"_id"`
		Count   int64        `bson:"count"`
		Revenue model.Money  `bson:"revenue"`
		Pending int64        `bson:"pending"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return model.BookingSummary{}, fmt.Errorf("failed to decode booking summary: %w", err)
	}

	var summary model.BookingSummary
	for _, g := range groups {
		addToSummary(&summary, g.Status, g.Count, g.Revenue, g.Pending)
	}
	return summary, nil
}

func (r *mongoBookingRepository) Transition(ctx context.Context, id string, from model.Status, next model.BookingState, at time.Time) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     next.Status,
		"updated_at": at,
	}}
	if next.ExpiresAt == nil {
		update["$unset"] = bson.M{"expires_at": ""}
	} else {
		update["$set"].(bson.M)["expires_at"] = *next.ExpiresAt
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "status": from}, update)
	if err != nil {
		return fmt.Errorf("failed to transition booking: %w", err)
	}
	if result.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("failed to look up booking: %w", err)
		}
		if count == 0 {
			return reservationserrors.ErrNotFound
		}
		return reservationserrors.ErrStaleStatus
	}
	return nil
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func statusFilter(status model.Status) bson.M {
	if status == "" {
		return bson.M{}
	}
	return bson.M{"status": status}
}
