package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mohammedcode007/ByoutBackNew/internal/apperrors"
	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.Favorite, error)
	Remove(ctx context.Context, userID, propertyID primitive.ObjectID) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Favorite, error)
}

type mongoFavoriteRepo struct {
	col *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) FavoriteRepository {
	col := db.Collection("favorites")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "property_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &mongoFavoriteRepo{col: col}
}

func (r *mongoFavoriteRepo) Add(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.Favorite, error) {
	f := &models.Favorite{
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now().UTC(),
	}
	res, err := r.col.InsertOne(ctx, f)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: already favorited", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("insert favorite: %w", err)
	}
	f.ID = res.InsertedID.(primitive.ObjectID)
	return f, nil
}

func (r *mongoFavoriteRepo) Remove(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID, "property_id": propertyID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: favorite", apperrors.ErrNotFound)
	}
	return nil
}

func (r *mongoFavoriteRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer cursor.Close(ctx)

	var favorites []models.Favorite
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}
