package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/arsavista/teklif-api/internal/models"
	"github.com/arsavista/teklif-api/internal/repository"
	"github.com/arsavista/teklif-api/pkg/logger"
)

// UserService handles user accounts and sender profiles
type UserService struct {
	repo      repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	auditSvc  *AuditService
}

// NewUserService creates a new user service
func NewUserService(repo repository.UserRepository, tokenRepo repository.RefreshTokenRepository, auditSvc *AuditService) *UserService {
	return &UserService{
		repo:      repo,
		tokenRepo: tokenRepo,
		auditSvc:  auditSvc,
	}
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}

// Create registers a new user with a hashed password
func (s *UserService) Create(ctx context.Context, user *models.User, password string, actorID uint) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Username == "" {
		return errors.New("kullanıcı adı gerekli")
	}
	if len(password) < 6 {
		return errors.New("şifre en az 6 karakter olmalı")
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.EncryptedPassword = hashed

	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "User", fmt.Sprintf("%d", user.ID),
		fmt.Sprintf("Kullanıcı oluşturuldu: %s", user.Username), "", "")
	return nil
}

// UpdateProfile updates the sender-profile fields of a user. Username, role
// and status are not touched here.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, name, title, phone, image string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Title = title
	user.Phone = phone
	if image != "" {
		user.Image = image
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before setting a new one.
// Existing refresh tokens are revoked so stale sessions cannot renew.
func (s *UserService) ChangePassword(ctx context.Context, id uint, current, newPassword string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !VerifyPassword(current, user.EncryptedPassword) {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 6 {
		return errors.New("şifre en az 6 karakter olmalı")
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.EncryptedPassword = hashed
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.tokenRepo.DeleteByUser(ctx, id); err != nil {
		logger.Warn("Failed to revoke refresh tokens", "user_id", id, "error", err)
	}
	return nil
}
