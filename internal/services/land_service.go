package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arsavista/teklif-api/internal/models"
	"github.com/arsavista/teklif-api/internal/repository"
)

// LandService handles the land catalog
type LandService struct {
	repo     repository.LandRepository
	auditSvc *AuditService
}

// NewLandService creates a new land service
func NewLandService(repo repository.LandRepository, auditSvc *AuditService) *LandService {
	return &LandService{
		repo:     repo,
		auditSvc: auditSvc,
	}
}

func (s *LandService) Get(ctx context.Context, id uint) (*models.Land, error) {
	land, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return land, nil
}

func (s *LandService) List(ctx context.Context, query *repository.ListQuery) ([]models.Land, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *LandService) Create(ctx context.Context, land *models.Land, actorID uint) error {
	if err := s.repo.Create(ctx, land); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "Land", fmt.Sprintf("%d", land.ID),
		fmt.Sprintf("Arsa eklendi: %s (%s)", land.Title, land.Location), "", "")
	return nil
}

func (s *LandService) Update(ctx context.Context, land *models.Land, actorID uint) error {
	if _, err := s.Get(ctx, land.ID); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, land); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Land", fmt.Sprintf("%d", land.ID),
		fmt.Sprintf("Arsa güncellendi: %s", land.Title), "", "")
	return nil
}

func (s *LandService) Delete(ctx context.Context, id uint, actorID uint) error {
	land, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "Land", fmt.Sprintf("%d", id),
		fmt.Sprintf("Arsa silindi: %s", land.Title), "", "")
	return nil
}
