package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Mohammedcode007/ByoutBackNew/internal/apperrors"
	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
	"github.com/Mohammedcode007/ByoutBackNew/internal/repository"
)

type PropertyInput struct {
	Title       string
	Type        string
	Price       float64
	Description string
	Country     string
	City        string
	Images      []string
}

type PropertyService struct {
	properties repository.PropertyRepository
}

func NewPropertyService(properties repository.PropertyRepository) *PropertyService {
	return &PropertyService{properties: properties}
}

func (s *PropertyService) Create(ctx context.Context, actor Actor, in PropertyInput) (*models.Property, error) {
	if actor.Role != models.RoleOwner && actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: role %q cannot create listings", apperrors.ErrForbidden, actor.Role)
	}
	if in.Title == "" || in.Type == "" {
		return nil, fmt.Errorf("%w: title and type are required", apperrors.ErrBadRequest)
	}
	return s.properties.Create(ctx, &models.Property{
		OwnerID:     actor.ID,
		Title:       in.Title,
		Type:        in.Type,
		Price:       in.Price,
		Description: in.Description,
		Country:     in.Country,
		City:        in.City,
		Images:      in.Images,
	})
}

func (s *PropertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	return s.properties.GetByID(ctx, id)
}

func (s *PropertyService) List(ctx context.Context, f repository.PropertyFilter) ([]models.Property, int64, error) {
	return s.properties.List(ctx, f)
}

func (s *PropertyService) Update(ctx context.Context, actor Actor, id string, in PropertyInput) (*models.Property, error) {
	if err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}

	update := bson.M{}
	if in.Title != "" {
		update["title"] = in.Title
	}
	if in.Type != "" {
		update["type"] = in.Type
	}
	if in.Price > 0 {
		update["price"] = in.Price
	}
	if in.Description != "" {
		update["description"] = in.Description
	}
	if in.Country != "" {
		update["country"] = in.Country
	}
	if in.City != "" {
		update["city"] = in.City
	}
	if len(in.Images) > 0 {
		update["images"] = in.Images
	}
	if len(update) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", apperrors.ErrBadRequest)
	}
	return s.properties.Update(ctx, id, update)
}

func (s *PropertyService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	return s.properties.Delete(ctx, id)
}

// authorize lets admins touch any listing and owners touch their own.
func (s *PropertyService) authorize(ctx context.Context, actor Actor, id string) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.OwnerID != actor.ID {
		return fmt.Errorf("%w: not the listing owner", apperrors.ErrForbidden)
	}
	return nil
}
