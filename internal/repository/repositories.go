package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Land         LandRepository
	Proposal     ProposalRepository
	RefreshToken RefreshTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Land:         NewLandRepository(db),
		Proposal:     NewProposalRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
	}
}
