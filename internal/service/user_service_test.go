package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mohammedcode007/ByoutBackNew/internal/apperrors"
	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
	"github.com/Mohammedcode007/ByoutBackNew/internal/repository"
)

type fakeUserRepo struct {
	created   *models.User
	createErr error
	setToken  map[string]string
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = primitive.NewObjectID()
	f.created = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(context.Context, string) (*models.User, error) {
	return &models.User{}, nil
}

func (f *fakeUserRepo) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) FindByIDs(context.Context, []primitive.ObjectID) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) List(context.Context, repository.UserFilter) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) Update(context.Context, string, bson.M) (*models.User, error) {
	return &models.User{}, nil
}

func (f *fakeUserRepo) Delete(context.Context, string) error { return nil }

func (f *fakeUserRepo) SetDeviceToken(_ context.Context, id, token string) error {
	if f.setToken == nil {
		f.setToken = make(map[string]string)
	}
	f.setToken[id] = token
	return nil
}

func (f *fakeUserRepo) ClearDeviceTokens(context.Context, []string) (int64, error) {
	return 0, nil
}

func TestCreateUser_WithRole(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Name: "Sara", Email: "sara@example.com", Password: "s3cret-pass", Role: "owner",
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, user.Role)
	require.NotNil(t, repo.created)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("s3cret-pass")))
}

func TestCreateUser_DefaultsToUserRole(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{})

	user, err := svc.Create(context.Background(), CreateUserInput{
		Name: "Sara", Email: "sara@example.com", Password: "s3cret-pass",
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestCreateUser_RejectsUnknownRole(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Name: "Sara", Email: "sara@example.com", Password: "s3cret-pass", Role: "superuser",
	})

	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Nil(t, repo.created)
}

func TestRegisterDeviceToken(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo)
	id := primitive.NewObjectID().Hex()

	require.NoError(t, svc.RegisterDeviceToken(context.Background(), id, "ExponentPushToken[abc]"))
	assert.Equal(t, "ExponentPushToken[abc]", repo.setToken[id])

	err := svc.RegisterDeviceToken(context.Background(), id, "")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
