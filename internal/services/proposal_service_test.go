package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsavista/teklif-api/internal/config"
	"github.com/arsavista/teklif-api/internal/jobs"
	"github.com/arsavista/teklif-api/internal/models"
	"github.com/arsavista/teklif-api/internal/repository"
	"github.com/arsavista/teklif-api/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup("test")
	os.Exit(m.Run())
}

type mockProposalRepo struct {
	repository.ProposalRepository
	mockCreate  func(ctx context.Context, proposal *models.Proposal) error
	mockFindAll func(ctx context.Context) ([]models.Proposal, error)
}

func (m *mockProposalRepo) Create(ctx context.Context, proposal *models.Proposal) error {
	return m.mockCreate(ctx, proposal)
}

func (m *mockProposalRepo) FindAll(ctx context.Context) ([]models.Proposal, error) {
	return m.mockFindAll(ctx)
}

type mockLandRepo struct {
	repository.LandRepository
	mockFindByIDs func(ctx context.Context, ids []uint) ([]models.Land, error)
}

func (m *mockLandRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.Land, error) {
	return m.mockFindByIDs(ctx, ids)
}

type mockUserRepoForProposals struct {
	repository.UserRepository
	mockFindByUsername func(ctx context.Context, username string) (*models.User, error)
}

func (m *mockUserRepoForProposals) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.mockFindByUsername(ctx, username)
}

// sequenceTokenGen returns preset tokens in order
type sequenceTokenGen struct {
	tokens []string
	calls  int
}

func (g *sequenceTokenGen) Generate() (string, error) {
	tok := g.tokens[g.calls%len(g.tokens)]
	g.calls++
	return tok, nil
}

func testConfig() *config.Config {
	return &config.Config{
		PrivilegedViewers: []string{"admin", "bilal", "furkan"},
	}
}

func newTestProposalService(repo *mockProposalRepo, landRepo *mockLandRepo, userRepo *mockUserRepoForProposals, gen *sequenceTokenGen) *ProposalService {
	worker := jobs.NewWorker(1)
	return NewProposalService(repo, landRepo, userRepo, gen, testConfig(), NewAuditService(nil), worker)
}

func TestProposalService_NewDraft(t *testing.T) {
	userRepo := &mockUserRepoForProposals{
		mockFindByUsername: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{
				Username: username,
				Name:     "Mehmet Kaya",
				Title:    "Satış Danışmanı",
				Phone:    "+90 555 111 22 33",
			}, nil
		},
	}
	landRepo := &mockLandRepo{
		mockFindByIDs: func(ctx context.Context, ids []uint) ([]models.Land, error) {
			return []models.Land{
				{ID: 1, Title: "Göl Manzaralı", Price: 1_000_000, Size: "500 m²", Ada: "104", Parsel: "12"},
			}, nil
		},
	}

	svc := newTestProposalService(&mockProposalRepo{}, landRepo, userRepo, &sequenceTokenGen{tokens: []string{"x"}})

	draft, err := svc.NewDraft(context.Background(), "mehmet", []uint{1})
	require.NoError(t, err)

	assert.Equal(t, models.ProposalStatusDraft, draft.Status)
	assert.Equal(t, "mehmet", draft.CreatedBy)
	assert.Equal(t, "Mehmet Kaya", draft.SenderName)
	assert.Equal(t, "Satış Danışmanı", draft.SenderTitle)

	// Validity defaults to three days out
	expected := time.Now().AddDate(0, 0, 3)
	assert.WithinDuration(t, expected, draft.ValidUntil, time.Minute)

	require.Len(t, draft.Items, 1)
	item := draft.Items[0]
	assert.Equal(t, 1_000_000.0, item.CashPrice)
	assert.Equal(t, "500", item.Area)
	assert.Equal(t, "104", item.Ada)
	assert.Equal(t, 1_100_000.0, item.Option1.Price)
	assert.Equal(t, 550_000.0, item.Option1.DownPayment)
	assert.Equal(t, 12, item.Option1.InstallmentCount)
	assert.Equal(t, 1_210_000.0, item.Option2.Price)
	assert.Equal(t, 605_000.0, item.Option2.DownPayment)
	assert.Equal(t, 24, item.Option2.InstallmentCount)
}

func TestProposalService_UpdateCashPrice_RederivesOptions(t *testing.T) {
	svc := newTestProposalService(&mockProposalRepo{}, &mockLandRepo{}, &mockUserRepoForProposals{}, &sequenceTokenGen{tokens: []string{"x"}})

	draft := &models.Draft{Items: models.ProposalItems{{CashPrice: 500_000}}}
	require.NoError(t, svc.UpdateOptionField(draft, 0, 1, "down_payment", 123))

	require.NoError(t, svc.UpdateCashPrice(draft, 0, 2_000_000))

	item := draft.Items[0]
	assert.Equal(t, 2_000_000.0, item.CashPrice)
	// Manual plan edits are discarded on reprice
	assert.Equal(t, 2_200_000.0, item.Option1.Price)
	assert.Equal(t, 1_100_000.0, item.Option1.DownPayment)
	assert.Equal(t, 2_420_000.0, item.Option2.Price)

	assert.ErrorIs(t, svc.UpdateCashPrice(draft, 5, 100), ErrItemNotFound)
}

func TestProposalService_UpdateOptionField(t *testing.T) {
	svc := newTestProposalService(&mockProposalRepo{}, &mockLandRepo{}, &mockUserRepoForProposals{}, &sequenceTokenGen{tokens: []string{"x"}})

	draft := &models.Draft{Items: models.ProposalItems{{CashPrice: 500_000}}}

	require.NoError(t, svc.UpdateOptionField(draft, 0, 2, "price", 700_000))
	require.NoError(t, svc.UpdateOptionField(draft, 0, 2, "installment_count", 36))

	assert.Equal(t, 700_000.0, draft.Items[0].Option2.Price)
	assert.Equal(t, 36, draft.Items[0].Option2.InstallmentCount)
	// Cash price and the other plan stay untouched
	assert.Equal(t, 500_000.0, draft.Items[0].CashPrice)
	assert.Zero(t, draft.Items[0].Option1.Price)

	assert.Error(t, svc.UpdateOptionField(draft, 0, 3, "price", 1))
	assert.Error(t, svc.UpdateOptionField(draft, 0, 1, "bogus", 1))
}

func TestProposalService_ResetAndRemove(t *testing.T) {
	svc := newTestProposalService(&mockProposalRepo{}, &mockLandRepo{}, &mockUserRepoForProposals{}, &sequenceTokenGen{tokens: []string{"x"}})

	draft := &models.Draft{Items: models.ProposalItems{
		{CashPrice: 100, Option1: models.InstallmentOption{Price: 110, InstallmentCount: 12}},
		{CashPrice: 200},
		{CashPrice: 300},
	}}

	require.NoError(t, svc.ResetOptions(draft, 0))
	assert.Zero(t, draft.Items[0].Option1.Price)
	assert.Equal(t, 12, draft.Items[0].Option1.InstallmentCount)
	assert.Equal(t, 24, draft.Items[0].Option2.InstallmentCount)

	require.NoError(t, svc.RemoveItem(draft, 1))
	require.Len(t, draft.Items, 2)
	assert.Equal(t, 100.0, draft.Items[0].CashPrice)
	assert.Equal(t, 300.0, draft.Items[1].CashPrice)

	assert.ErrorIs(t, svc.RemoveItem(draft, 9), ErrItemNotFound)
}

func TestProposalService_Save(t *testing.T) {
	var saved *models.Proposal
	repo := &mockProposalRepo{
		mockCreate: func(ctx context.Context, proposal *models.Proposal) error {
			saved = proposal
			return nil
		},
	}
	gen := &sequenceTokenGen{tokens: []string{"abc12345"}}
	svc := newTestProposalService(repo, &mockLandRepo{}, &mockUserRepoForProposals{}, gen)

	draft := &models.Draft{
		Status:       models.ProposalStatusDraft,
		CustomerName: "  Ayşe Demir ",
		CreatedBy:    "mehmet",
		ValidUntil:   time.Now().AddDate(0, 0, 3),
		Items:        models.ProposalItems{{CashPrice: 900_000}},
	}

	proposal, err := svc.Save(context.Background(), draft, 1)
	require.NoError(t, err)
	require.NotNil(t, proposal)

	assert.Equal(t, "abc12345", proposal.ID)
	assert.Equal(t, "Ayşe Demir", proposal.CustomerName)
	assert.False(t, proposal.CreatedAt.IsZero())
	assert.Equal(t, models.ProposalStatusSaved, draft.Status)
	assert.Same(t, saved, proposal)
}

func TestProposalService_Save_InvalidDraftNotPersisted(t *testing.T) {
	createCalls := 0
	repo := &mockProposalRepo{
		mockCreate: func(ctx context.Context, proposal *models.Proposal) error {
			createCalls++
			return nil
		},
	}
	svc := newTestProposalService(repo, &mockLandRepo{}, &mockUserRepoForProposals{}, &sequenceTokenGen{tokens: []string{"x"}})

	draft := &models.Draft{Items: models.ProposalItems{{CashPrice: 900_000}}}

	_, err := svc.Save(context.Background(), draft, 1)
	assert.ErrorIs(t, err, models.ErrCustomerNameRequired)
	assert.Zero(t, createCalls)
	assert.NotEqual(t, models.ProposalStatusSaved, draft.Status)
}

func TestProposalService_Save_AlreadySaved(t *testing.T) {
	svc := newTestProposalService(&mockProposalRepo{}, &mockLandRepo{}, &mockUserRepoForProposals{}, &sequenceTokenGen{tokens: []string{"x"}})

	draft := &models.Draft{
		Status:       models.ProposalStatusSaved,
		CustomerName: "Ayşe Demir",
		Items:        models.ProposalItems{{CashPrice: 900_000}},
	}

	_, err := svc.Save(context.Background(), draft, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestProposalService_Save_RetriesOnCollision(t *testing.T) {
	var attempts []string
	repo := &mockProposalRepo{
		mockCreate: func(ctx context.Context, proposal *models.Proposal) error {
			attempts = append(attempts, proposal.ID)
			if len(attempts) < 3 {
				return repository.ErrDuplicateID
			}
			return nil
		},
	}
	gen := &sequenceTokenGen{tokens: []string{"taken001", "taken002", "fresh003"}}
	svc := newTestProposalService(repo, &mockLandRepo{}, &mockUserRepoForProposals{}, gen)

	draft := &models.Draft{
		CustomerName: "Ayşe Demir",
		ValidUntil:   time.Now().AddDate(0, 0, 3),
		Items:        models.ProposalItems{{CashPrice: 900_000}},
	}

	proposal, err := svc.Save(context.Background(), draft, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"taken001", "taken002", "fresh003"}, attempts)
	assert.Equal(t, "fresh003", proposal.ID)
}

func TestProposalService_Save_GivesUpAfterMaxAttempts(t *testing.T) {
	repo := &mockProposalRepo{
		mockCreate: func(ctx context.Context, proposal *models.Proposal) error {
			return repository.ErrDuplicateID
		},
	}
	svc := newTestProposalService(repo, &mockLandRepo{}, &mockUserRepoForProposals{}, &sequenceTokenGen{tokens: []string{"x"}})

	draft := &models.Draft{
		CustomerName: "Ayşe Demir",
		ValidUntil:   time.Now().AddDate(0, 0, 3),
		Items:        models.ProposalItems{{CashPrice: 900_000}},
	}

	_, err := svc.Save(context.Background(), draft, 1)
	assert.Error(t, err)
}

func TestProposalService_List_Visibility(t *testing.T) {
	all := []models.Proposal{
		{ID: "p1", CreatedBy: "mehmet"},
		{ID: "p2", CreatedBy: "zeynep"},
		{ID: "p3", CreatedBy: "mehmet"},
	}
	repo := &mockProposalRepo{
		mockFindAll: func(ctx context.Context) ([]models.Proposal, error) {
			return all, nil
		},
	}
	svc := newTestProposalService(repo, &mockLandRepo{}, &mockUserRepoForProposals{}, &sequenceTokenGen{tokens: []string{"x"}})

	// Regular agent sees only their own
	visible, err := svc.List(context.Background(), "mehmet")
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "p1", visible[0].ID)
	assert.Equal(t, "p3", visible[1].ID)

	// Privileged viewer sees everything
	visible, err = svc.List(context.Background(), "bilal")
	require.NoError(t, err)
	assert.Len(t, visible, 3)

	// Privilege check is case-insensitive
	visible, err = svc.List(context.Background(), "Admin")
	require.NoError(t, err)
	assert.Len(t, visible, 3)

	// Unknown viewer sees nothing
	visible, err = svc.List(context.Background(), "intruder")
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestProposalService_CountExpired(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockProposalRepo{
		mockFindAll: func(ctx context.Context) ([]models.Proposal, error) {
			return []models.Proposal{
				{ID: "p1", ValidUntil: now.AddDate(0, 0, -2)},
				{ID: "p2", ValidUntil: now},
				{ID: "p3", ValidUntil: now.AddDate(0, 0, 5)},
			}, nil
		},
	}
	svc := newTestProposalService(repo, &mockLandRepo{}, &mockUserRepoForProposals{}, &sequenceTokenGen{tokens: []string{"x"}})

	count, err := svc.CountExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
