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

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	FindAll(ctx context.Context) ([]models.Notification, error)
	FindByRecipient(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string, userID primitive.ObjectID, at time.Time) (*models.Notification, error)
	Delete(ctx context.Context, id string) error
}

type mongoNotificationRepo struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) NotificationRepository {
	col := db.Collection("notifications")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "recipients", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return &mongoNotificationRepo{col: col}
}

func (r *mongoNotificationRepo) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	n.CreatedAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	n.ID = res.InsertedID.(primitive.ObjectID)
	return n, nil
}

func (r *mongoNotificationRepo) FindAll(ctx context.Context) ([]models.Notification, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoNotificationRepo) FindByRecipient(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return r.find(ctx, bson.M{"recipients": userID})
}

func (r *mongoNotificationRepo) find(ctx context.Context, filter bson.M) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead stamps the read time for one recipient. Re-reading just
// overwrites the stamp; the recipient list itself is never modified.
func (r *mongoNotificationRepo) MarkRead(ctx context.Context, id string, userID primitive.ObjectID, at time.Time) (*models.Notification, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid notification id", apperrors.ErrBadRequest)
	}
	var n models.Notification
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"read_by." + userID.Hex(): at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: notification", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *mongoNotificationRepo) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid notification id", apperrors.ErrBadRequest)
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: notification", apperrors.ErrNotFound)
	}
	return nil
}
