package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Mohammedcode007/ByoutBackNew/internal/apperrors"
	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
	"github.com/Mohammedcode007/ByoutBackNew/internal/repository"
)

// FavoriteView is a favorite with its property attached.
type FavoriteView struct {
	models.Favorite
	Property *models.Property `json:"property,omitempty"`
}

type FavoriteService struct {
	favorites  repository.FavoriteRepository
	properties repository.PropertyRepository
}

func NewFavoriteService(favorites repository.FavoriteRepository, properties repository.PropertyRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, properties: properties}
}

func (s *FavoriteService) Add(ctx context.Context, actor Actor, propertyID string) (*models.Favorite, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return s.favorites.Add(ctx, actor.ID, property.ID)
}

func (s *FavoriteService) Remove(ctx context.Context, actor Actor, propertyID string) error {
	objID, err := primitive.ObjectIDFromHex(propertyID)
	if err != nil {
		return fmt.Errorf("%w: invalid property id", apperrors.ErrBadRequest)
	}
	return s.favorites.Remove(ctx, actor.ID, objID)
}

func (s *FavoriteService) List(ctx context.Context, actor Actor) ([]FavoriteView, error) {
	favorites, err := s.favorites.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.PropertyID)
	}
	properties, err := s.properties.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Property, len(properties))
	for _, p := range properties {
		byID[p.ID] = p
	}

	views := make([]FavoriteView, 0, len(favorites))
	for _, f := range favorites {
		v := FavoriteView{Favorite: f}
		if p, ok := byID[f.PropertyID]; ok {
			prop := p
			v.Property = &prop
		}
		views = append(views, v)
	}
	return views, nil
}
