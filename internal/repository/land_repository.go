package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/arsavista/teklif-api/internal/models"
)

// LandRepository defines the interface for land catalog data access
type LandRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Land, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Land, error)
	Create(ctx context.Context, land *models.Land) error
	Update(ctx context.Context, land *models.Land) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Land, int64, error)
}

type landRepository struct {
	db *gorm.DB
}

// NewLandRepository creates a new land repository
func NewLandRepository(db *gorm.DB) LandRepository {
	return &landRepository{db: db}
}

func (r *landRepository) FindByID(ctx context.Context, id uint) (*models.Land, error) {
	var land models.Land
	err := r.db.WithContext(ctx).First(&land, id).Error
	if err != nil {
		return nil, err
	}
	return &land, nil
}

// FindByIDs returns the requested lands in the order the ids were given.
// Missing ids are silently skipped; callers decide whether that is an error.
func (r *landRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Land, error) {
	var lands []models.Land
	if len(ids) == 0 {
		return lands, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&lands).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Land, len(lands))
	for _, land := range lands {
		byID[land.ID] = land
	}
	ordered := make([]models.Land, 0, len(ids))
	for _, id := range ids {
		if land, ok := byID[id]; ok {
			ordered = append(ordered, land)
		}
	}
	return ordered, nil
}

func (r *landRepository) Create(ctx context.Context, land *models.Land) error {
	return r.db.WithContext(ctx).Create(land).Error
}

func (r *landRepository) Update(ctx context.Context, land *models.Land) error {
	return r.db.WithContext(ctx).Save(land).Error
}

func (r *landRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Land{}, id).Error
}

func (r *landRepository) List(ctx context.Context, query *ListQuery) ([]models.Land, int64, error) {
	var lands []models.Land
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Land{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("title ILIKE ? OR location ILIKE ? OR ada ILIKE ? OR parsel ILIKE ?",
			search, search, search, search)
	}

	if query.Filters["installment"] == "true" {
		db = db.Where("installment = ?", true)
	}

	if query.Filters["location"] != "" {
		db = db.Where("location ILIKE ?", "%"+query.Filters["location"]+"%")
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&lands).Error
	return lands, total, err
}
