package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybnb/pkg/metrics"
	"staybnb/reviews-service/internal/app/reviews/entity"
)

const (
	serviceName       = "reviews-service"
	reviewsCollection = "reviews"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("review already exists")
)

type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository создает новый репозиторий отзывов. Индексы создает EnsureIndexes.
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &reviewRepository{collection: db.Collection(reviewsCollection)}
}

// EnsureIndexes создает уникальный индекс (booking_id, target_type) и индекс для рейтинга
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(reviewsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "booking_id", Value: 1},
				{Key: "target_type", Value: 1},
			},
			Options: options.Index().SetName("booking_target_uniq").SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "target_type", Value: 1},
				{Key: "target_id", Value: 1},
			},
			Options: options.Index().SetName("target_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}
	return nil
}

// Create создает новый отзыв в MongoDB
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, reviewsCollection)
	defer timer.ObserveDuration()

	review.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReview
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create review: %w", err)
	}

	// Устанавливаем ID из результата вставки
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}

	return nil
}

// GetByID получает отзыв по ID. Некорректный ObjectID считается отсутствующим отзывом.
func (r *reviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrReviewNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *reviewRepository) GetForBooking(ctx context.Context, bookingID string, targetType entity.TargetType) (*entity.Review, error) {
	return r.findOne(ctx, bson.M{"booking_id": bookingID, "target_type": targetType})
}

// AverageRating средняя оценка по всем отзывам цели. Без отзывов возвращает nil.
func (r *reviewRepository) AverageRating(ctx context.Context, targetType entity.TargetType, targetID string) (*float64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, reviewsCollection)
	defer timer.ObserveDuration()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "target_type", Value: targetType},
			{Key: "target_id", Value: targetID},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to aggregate rating: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Average float64 `bson:"average"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode rating: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	average := results[0].Average
	return &average, nil
}

// Delete удаляет отзыв, используется при откате частично сохраненной пары отзывов
func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, reviewsCollection)
	defer timer.ObserveDuration()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrReviewNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrReviewNotFound
	}

	return nil
}

func (r *reviewRepository) findOne(ctx context.Context, filter bson.M) (*entity.Review, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, reviewsCollection)
	defer timer.ObserveDuration()

	var review entity.Review
	err := r.collection.FindOne(ctx, filter).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}
