package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposal_TotalValue(t *testing.T) {
	p := Proposal{
		Items: ProposalItems{
			{CashPrice: 1_000_000},
			{CashPrice: 750_000},
			{CashPrice: 250_000},
		},
	}
	assert.Equal(t, 2_000_000.0, p.TotalValue())

	empty := Proposal{}
	assert.Zero(t, empty.TotalValue())
}

func TestProposal_IsExpired(t *testing.T) {
	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		validUntil time.Time
		expired    bool
	}{
		{"Valid Tomorrow", now.AddDate(0, 0, 1), false},
		{"Valid Exactly Today", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), false},
		{"Valid Today Earlier Hour", time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC), false},
		{"Expired Yesterday", now.AddDate(0, 0, -1), true},
		{"Expired Last Month", now.AddDate(0, -1, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Proposal{ValidUntil: tt.validUntil}
			assert.Equal(t, tt.expired, p.IsExpired(now))
		})
	}
}

func TestDraft_Validate(t *testing.T) {
	valid := Draft{
		CustomerName: "Ahmet Yılmaz",
		Items:        ProposalItems{{CashPrice: 500_000}},
	}
	assert.NoError(t, valid.Validate())

	noName := Draft{Items: ProposalItems{{CashPrice: 500_000}}}
	assert.ErrorIs(t, noName.Validate(), ErrCustomerNameRequired)

	blankName := Draft{CustomerName: "   ", Items: ProposalItems{{CashPrice: 500_000}}}
	assert.ErrorIs(t, blankName.Validate(), ErrCustomerNameRequired)

	noItems := Draft{CustomerName: "Ahmet Yılmaz"}
	assert.ErrorIs(t, noItems.Validate(), ErrNoItems)

	zeroPrice := Draft{
		CustomerName: "Ahmet Yılmaz",
		Items:        ProposalItems{{CashPrice: 500_000}, {CashPrice: 0}},
	}
	assert.ErrorIs(t, zeroPrice.Validate(), ErrInvalidItemPrice)
}

func TestDraft_ToProposal(t *testing.T) {
	createdAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	draft := Draft{
		CustomerName: "  Ayşe Demir  ",
		SenderName:   "Mehmet Kaya",
		SenderTitle:  "Satış Danışmanı",
		SenderPhone:  "+90 555 111 22 33",
		ValidUntil:   createdAt.AddDate(0, 0, 3),
		CreatedBy:    "mehmet",
		Items:        ProposalItems{{CashPrice: 900_000}},
		GlobalNotes:  "Tapu masrafları dahildir",
	}

	p := draft.ToProposal("a1b2c3d4", createdAt)

	require.NotNil(t, p)
	assert.Equal(t, "a1b2c3d4", p.ID)
	assert.Equal(t, "Ayşe Demir", p.CustomerName)
	assert.Equal(t, "Mehmet Kaya", p.SenderName)
	assert.Equal(t, "mehmet", p.CreatedBy)
	assert.Equal(t, createdAt, p.CreatedAt)
	assert.Equal(t, draft.GlobalNotes, p.GlobalNotes)
	require.Len(t, p.Items, 1)

	// Items are copied, not shared
	draft.Items[0].CashPrice = 1
	assert.Equal(t, 900_000.0, p.Items[0].CashPrice)
}

func TestDraft_MaySave(t *testing.T) {
	assert.True(t, (&Draft{}).MaySave())
	assert.True(t, (&Draft{Status: ProposalStatusDraft}).MaySave())
	assert.False(t, (&Draft{Status: ProposalStatusSaved}).MaySave())
}

func TestProposalItems_RoundTrip(t *testing.T) {
	items := ProposalItems{
		{
			Land:      Land{ID: 7, Title: "Göl Manzaralı Arsa"},
			CashPrice: 1_000_000,
			Ada:       "104",
			Parsel:    "12",
			Area:      "500",
			Option1:   InstallmentOption{Price: 1_100_000, DownPayment: 550_000, InstallmentCount: 12},
			Option2:   InstallmentOption{Price: 1_210_000, DownPayment: 605_000, InstallmentCount: 24},
		},
	}

	value, err := items.Value()
	require.NoError(t, err)

	var scanned ProposalItems
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, items, scanned)
}
