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

type PropertyFilter struct {
	Type     string
	Country  string
	City     string
	MinPrice float64
	MaxPrice float64
	Page     int64
	Limit    int64
}

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) (*models.Property, error)
	GetByID(ctx context.Context, id string) (*models.Property, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error)
	List(ctx context.Context, f PropertyFilter) ([]models.Property, int64, error)
	Update(ctx context.Context, id string, update bson.M) (*models.Property, error)
	Delete(ctx context.Context, id string) error
}

type mongoPropertyRepo struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) PropertyRepository {
	return &mongoPropertyRepo{col: db.Collection("properties")}
}

func (r *mongoPropertyRepo) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("insert property: %w", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return p, nil
}

func (r *mongoPropertyRepo) GetByID(ctx context.Context, id string) (*models.Property, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", apperrors.ErrBadRequest)
	}
	var p models.Property
	err = r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: property", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoPropertyRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find properties by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *mongoPropertyRepo) List(ctx context.Context, f PropertyFilter) ([]models.Property, int64, error) {
	query := bson.M{}
	if f.Type != "" {
		query["type"] = f.Type
	}
	if f.Country != "" {
		query["country"] = f.Country
	}
	if f.City != "" {
		query["city"] = f.City
	}
	price := bson.M{}
	if f.MinPrice > 0 {
		price["$gte"] = f.MinPrice
	}
	if f.MaxPrice > 0 {
		price["$lte"] = f.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	opts := options.Find().
		SetSkip((f.Page - 1) * f.Limit).
		SetLimit(f.Limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, 0, err
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

func (r *mongoPropertyRepo) Update(ctx context.Context, id string, update bson.M) (*models.Property, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", apperrors.ErrBadRequest)
	}
	update["updated_at"] = time.Now().UTC()

	var p models.Property
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: property", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoPropertyRepo) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid property id", apperrors.ErrBadRequest)
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: property", apperrors.ErrNotFound)
	}
	return nil
}
