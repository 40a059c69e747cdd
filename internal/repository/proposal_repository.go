package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/arsavista/teklif-api/internal/models"
)

// ErrDuplicateID signals a share-token collision on insert. Callers retry
// with a fresh token.
var ErrDuplicateID = errors.New("teklif numarası zaten mevcut")

// ProposalRepository defines the interface for proposal data access.
// Proposals are insert-only: no update, no delete.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	FindByID(ctx context.Context, id string) (*models.Proposal, error)
	FindAll(ctx context.Context) ([]models.Proposal, error)
}

type proposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository creates a new proposal repository
func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{db: db}
}

func (r *proposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	if err := r.db.WithContext(ctx).Create(proposal).Error; err != nil {
		if isPrimaryKeyCollision(err) {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

func isPrimaryKeyCollision(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (r *proposalRepository) FindByID(ctx context.Context, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepository) FindAll(ctx context.Context) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&proposals).Error
	return proposals, err
}
