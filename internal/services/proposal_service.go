package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/arsavista/teklif-api/internal/config"
	"github.com/arsavista/teklif-api/internal/jobs"
	"github.com/arsavista/teklif-api/internal/models"
	"github.com/arsavista/teklif-api/internal/pricing"
	"github.com/arsavista/teklif-api/internal/repository"
	"github.com/arsavista/teklif-api/internal/statemachine"
	"github.com/arsavista/teklif-api/internal/token"
	"github.com/arsavista/teklif-api/pkg/logger"
)

// Default validity window for new drafts
const defaultValidityDays = 3

// How many fresh share tokens to try before giving up on an insert
const maxSaveAttempts = 5

// ProposalService builds drafts and persists proposals. Drafts are mutable
// and held by the caller; only Save touches the database.
type ProposalService struct {
	repo     repository.ProposalRepository
	landRepo repository.LandRepository
	userRepo repository.UserRepository
	tokenGen token.Generator
	cfg      *config.Config
	auditSvc *AuditService
	worker   *jobs.Worker
}

// NewProposalService creates a new proposal service
func NewProposalService(
	repo repository.ProposalRepository,
	landRepo repository.LandRepository,
	userRepo repository.UserRepository,
	tokenGen token.Generator,
	cfg *config.Config,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *ProposalService {
	return &ProposalService{
		repo:     repo,
		landRepo: landRepo,
		userRepo: userRepo,
		tokenGen: tokenGen,
		cfg:      cfg,
		auditSvc: auditSvc,
		worker:   worker,
	}
}

// NewDraft starts a draft for the given agent, optionally pre-filled with
// lands from the catalog. The agent's profile is snapshotted as the sender
// block; later profile edits don't touch the draft.
func (s *ProposalService) NewDraft(ctx context.Context, username string, landIDs []uint) (*models.Draft, error) {
	draft := &models.Draft{
		Status:     models.ProposalStatusDraft,
		ValidUntil: time.Now().AddDate(0, 0, defaultValidityDays),
		CreatedBy:  username,
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		draft.SenderName = user.Name
		draft.SenderTitle = user.Title
		draft.SenderPhone = user.Phone
		draft.SenderImage = user.Image
	}

	if len(landIDs) > 0 {
		lands, err := s.landRepo.FindByIDs(ctx, landIDs)
		if err != nil {
			return nil, err
		}
		for i := range lands {
			s.AddItem(draft, &lands[i])
		}
	}

	return draft, nil
}

// LandForItem looks up a catalog land for the item builder
func (s *ProposalService) LandForItem(ctx context.Context, id uint) (*models.Land, error) {
	land, err := s.landRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return land, nil
}

// AddItem appends a land to the draft. The catalog price seeds the cash price
// and both installment plans; ada, parsel and area are copied as editable
// overrides with the area unit suffix stripped.
func (s *ProposalService) AddItem(draft *models.Draft, land *models.Land) {
	opt1, opt2 := pricing.DeriveOptions(land.Price)

	draft.Items = append(draft.Items, models.ProposalItem{
		Land:      *land,
		CashPrice: land.Price,
		Ada:       land.Ada,
		Parsel:    land.Parsel,
		Area:      land.CleanArea(),
		Option1:   opt1,
		Option2:   opt2,
	})
}

// UpdateCashPrice sets a new cash price on an item and re-derives both
// installment plans from it, discarding any manual plan edits.
func (s *ProposalService) UpdateCashPrice(draft *models.Draft, index int, price float64) error {
	item, err := s.item(draft, index)
	if err != nil {
		return err
	}

	item.CashPrice = price
	item.Option1, item.Option2 = pricing.DeriveOptions(price)
	return nil
}

// UpdateOptionField edits one field of one installment plan without touching
// the cash price or the other plan. Option numbers are 1 and 2.
func (s *ProposalService) UpdateOptionField(draft *models.Draft, index, optionNo int, field string, value float64) error {
	item, err := s.item(draft, index)
	if err != nil {
		return err
	}

	var opt *models.InstallmentOption
	switch optionNo {
	case 1:
		opt = &item.Option1
	case 2:
		opt = &item.Option2
	default:
		return fmt.Errorf("geçersiz ödeme planı: %d", optionNo)
	}

	switch field {
	case "price":
		opt.Price = value
	case "down_payment":
		opt.DownPayment = value
	case "installment_count":
		opt.InstallmentCount = int(value)
	default:
		return fmt.Errorf("geçersiz alan: %s", field)
	}
	return nil
}

// ResetOptions zeroes both plans of an item back to cash-only defaults
func (s *ProposalService) ResetOptions(draft *models.Draft, index int) error {
	item, err := s.item(draft, index)
	if err != nil {
		return err
	}

	item.Option1, item.Option2 = pricing.EmptyOptions()
	return nil
}

// RemoveItem drops an item from the draft, keeping the order of the rest
func (s *ProposalService) RemoveItem(draft *models.Draft, index int) error {
	if index < 0 || index >= len(draft.Items) {
		return ErrItemNotFound
	}
	draft.Items = append(draft.Items[:index], draft.Items[index+1:]...)
	return nil
}

func (s *ProposalService) item(draft *models.Draft, index int) (*models.ProposalItem, error) {
	if index < 0 || index >= len(draft.Items) {
		return nil, ErrItemNotFound
	}
	return &draft.Items[index], nil
}

// Save validates the draft and persists it as an immutable proposal. Identity
// and creation time are assigned here, never earlier. On a share-token
// collision the insert is retried with a fresh token.
func (s *ProposalService) Save(ctx context.Context, draft *models.Draft, actorID uint) (*models.Proposal, error) {
	pfsm := statemachine.NewProposalFSM(draft)
	if !pfsm.Can("save") {
		return nil, ErrInvalidState
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	if draft.ValidUntil.IsZero() {
		draft.ValidUntil = time.Now().AddDate(0, 0, defaultValidityDays)
	}

	var proposal *models.Proposal
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		id, err := s.tokenGen.Generate()
		if err != nil {
			return nil, err
		}

		proposal = draft.ToProposal(id, time.Now())
		err = s.repo.Create(ctx, proposal)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateID) {
			return nil, err
		}
		logger.Warn("proposal id collision, retrying", "id", id, "attempt", attempt+1)
		proposal = nil
	}
	if proposal == nil {
		return nil, errors.New("teklif numarası üretilemedi")
	}

	if err := pfsm.Save(ctx); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.auditSvc.Log(ctx, actorID, "SAVE", "Proposal", proposal.ID,
			fmt.Sprintf("Teklif kaydedildi: %s, %d arsa, toplam %.0f TL",
				proposal.CustomerName, len(proposal.Items), proposal.TotalValue()), "", "")
	})

	return proposal, nil
}

// Get fetches a proposal by its share token. Anyone with the token may view.
func (s *ProposalService) Get(ctx context.Context, id string) (*models.Proposal, error) {
	proposal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return proposal, nil
}

// List returns the proposals the viewer may see, newest first. Privileged
// viewers see everything; everyone else only their own. The filter runs after
// the fetch so the privilege list stays a config concern, not a SQL one.
func (s *ProposalService) List(ctx context.Context, viewer string) ([]models.Proposal, error) {
	proposals, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cfg.IsPrivilegedViewer(viewer) {
		return proposals, nil
	}

	visible := make([]models.Proposal, 0, len(proposals))
	for _, p := range proposals {
		if p.CreatedBy == viewer {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// CountExpired reports how many saved proposals are past their validity
// date. Used by the nightly sweep for operational visibility.
func (s *ProposalService) CountExpired(ctx context.Context, now time.Time) (int, error) {
	proposals, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, p := range proposals {
		if p.IsExpired(now) {
			expired++
		}
	}
	return expired, nil
}
