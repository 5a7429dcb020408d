package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mohammedcode007/ByoutBackNew/internal/apperrors"
	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
	"github.com/Mohammedcode007/ByoutBackNew/internal/repository"
)

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     string
	Country  string
	City     string
}

type UpdateUserInput struct {
	Name     string
	Email    string
	Phone    string
	Role     string
	Country  string
	City     string
	Password string
}

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create adds a user record directly, role included. Unlike registration it
// is an admin operation and is not limited to the user role.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	role := models.Role(in.Role)
	if in.Role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrBadRequest, in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.users.Create(ctx, &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Role:         role,
		Country:      in.Country,
		City:         in.City,
	})
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, f repository.UserFilter) ([]models.User, int64, error) {
	return s.users.List(ctx, f)
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	update := bson.M{}
	if in.Name != "" {
		update["name"] = in.Name
	}
	if in.Email != "" {
		update["email"] = in.Email
	}
	if in.Phone != "" {
		update["phone"] = in.Phone
	}
	if in.Country != "" {
		update["country"] = in.Country
	}
	if in.City != "" {
		update["city"] = in.City
	}
	if in.Role != "" {
		if !models.Role(in.Role).Valid() {
			return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrBadRequest, in.Role)
		}
		update["role"] = in.Role
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		update["password_hash"] = string(hash)
	}
	if len(update) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", apperrors.ErrBadRequest)
	}
	return s.users.Update(ctx, id, update)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

// RegisterDeviceToken stores the caller's push token, replacing any previous
// one (one token per user, last registered wins).
func (s *UserService) RegisterDeviceToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return fmt.Errorf("%w: device token required", apperrors.ErrBadRequest)
	}
	return s.users.SetDeviceToken(ctx, userID, token)
}
