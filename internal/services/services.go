package services

import (
	"gorm.io/gorm"

	"github.com/arsavista/teklif-api/internal/config"
	"github.com/arsavista/teklif-api/internal/jobs"
	"github.com/arsavista/teklif-api/internal/repository"
	"github.com/arsavista/teklif-api/internal/storage"
	"github.com/arsavista/teklif-api/internal/token"
)

// Services holds all service instances
type Services struct {
	Auth     *AuthService
	User     *UserService
	Land     *LandService
	Proposal *ProposalService
	Report   *ReportService
	Export   *ExportService
	Image    *ImageService
	Audit    *AuditService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store *storage.LocalStorage, cfg *config.Config, db *gorm.DB) *Services {
	auditSvc := NewAuditService(db)
	imageSvc := NewImageService(cfg.StoragePath + "/uploads")
	tokenGen := token.NewGenerator()

	return &Services{
		Auth:     NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:     NewUserService(repos.User, repos.RefreshToken, auditSvc),
		Land:     NewLandService(repos.Land, auditSvc),
		Proposal: NewProposalService(repos.Proposal, repos.Land, repos.User, tokenGen, cfg, auditSvc, worker),
		Report:   NewReportService(store),
		Export:   NewExportService(repos.Land, store, auditSvc),
		Image:    imageSvc,
		Audit:    auditSvc,
	}
}
