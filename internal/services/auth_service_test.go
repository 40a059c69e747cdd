package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsavista/teklif-api/internal/config"
	"github.com/arsavista/teklif-api/internal/models"
	"github.com/arsavista/teklif-api/internal/repository"
)

type mockUserRepo struct {
	repository.UserRepository
	mockFindByUsername func(ctx context.Context, username string) (*models.User, error)
	mockFindByID       func(ctx context.Context, id uint) (*models.User, error)
	mockUpdate         func(ctx context.Context, user *models.User) error
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.mockFindByUsername(ctx, username)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, user)
	}
	return nil
}

type mockRTRepo struct {
	repository.RefreshTokenRepository
	mockFindByToken  func(ctx context.Context, token string) (*models.RefreshToken, error)
	mockCreate       func(ctx context.Context, token *models.RefreshToken) error
	mockDelete       func(ctx context.Context, token string) error
	mockDeleteByUser func(ctx context.Context, userID uint) error
}

func (m *mockRTRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return m.mockFindByToken(ctx, token)
}

func (m *mockRTRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, token)
	}
	return nil
}

func (m *mockRTRepo) Delete(ctx context.Context, token string) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, token)
	}
	return nil
}

func (m *mockRTRepo) DeleteByUser(ctx context.Context, userID uint) error {
	if m.mockDeleteByUser != nil {
		return m.mockDeleteByUser(ctx, userID)
	}
	return nil
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hashed, err := HashPassword("correct-password")
	require.NoError(t, err)

	mockRepo := &mockUserRepo{
		mockFindByUsername: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{
				Username:          username,
				EncryptedPassword: hashed,
				Status:            models.StatusActive,
			}, nil
		},
	}
	service := NewAuthService(mockRepo, nil, nil)

	result, err := service.Login(context.Background(), "mehmet", "wrong-password")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	mockRepo := &mockUserRepo{
		mockFindByUsername: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{
				Username: username,
				Status:   models.StatusInactive,
			}, nil
		},
	}
	service := NewAuthService(mockRepo, nil, nil)

	result, err := service.Login(context.Background(), "pasif", "password")
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, "hesap pasif durumda", err.Error())
}

func TestAuthService_Login_Success(t *testing.T) {
	hashed, err := HashPassword("gizli123")
	require.NoError(t, err)

	mockRepo := &mockUserRepo{
		mockFindByUsername: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{
				ID:                7,
				Username:          username,
				EncryptedPassword: hashed,
				Role:              models.RoleAgent,
				Status:            models.StatusActive,
			}, nil
		},
	}
	mockRT := &mockRTRepo{}
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 24}
	service := NewAuthService(mockRepo, mockRT, cfg)

	result, err := service.Login(context.Background(), "mehmet", "gizli123")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "mehmet", result.User.Username)
}

func TestAuthService_RefreshToken_InactiveUser(t *testing.T) {
	mockRepo := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Status: models.StatusInactive}, nil
		},
	}
	mockRT := &mockRTRepo{
		mockFindByToken: func(ctx context.Context, token string) (*models.RefreshToken, error) {
			return &models.RefreshToken{UserID: 1}, nil
		},
	}
	service := NewAuthService(mockRepo, mockRT, nil)

	result, err := service.RefreshToken(context.Background(), "token")
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, "hesap pasif durumda", err.Error())
}

func TestAuthService_RefreshToken_Rotation(t *testing.T) {
	hashed, _ := HashPassword("x")

	var deleted []string
	mockRepo := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{
				ID:                id,
				Username:          "mehmet",
				EncryptedPassword: hashed,
				Status:            models.StatusActive,
			}, nil
		},
	}
	mockRT := &mockRTRepo{
		mockFindByToken: func(ctx context.Context, token string) (*models.RefreshToken, error) {
			return &models.RefreshToken{UserID: 1, Token: token}, nil
		},
		mockDelete: func(ctx context.Context, token string) error {
			deleted = append(deleted, token)
			return nil
		},
	}
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 24}
	service := NewAuthService(mockRepo, mockRT, cfg)

	result, err := service.RefreshToken(context.Background(), "old-token")
	require.NoError(t, err)
	assert.Equal(t, []string{"old-token"}, deleted, "old token is single-use")
	assert.NotEqual(t, "old-token", result.RefreshToken)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("parola42")
	require.NoError(t, err)
	assert.NotEqual(t, "parola42", hash)

	assert.True(t, VerifyPassword("parola42", hash))
	assert.False(t, VerifyPassword("yanlis", hash))
}
