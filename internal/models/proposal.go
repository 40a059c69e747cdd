package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// InstallmentOption is one financed-purchase plan for a proposal item.
type InstallmentOption struct {
	Price            float64 `json:"price"`
	DownPayment      float64 `json:"down_payment"`
	InstallmentCount int     `json:"installment_count"`
}

// ProposalItem is one line of a proposal. The referenced land is embedded by
// value: later catalog edits must not change an already-built item.
type ProposalItem struct {
	Land      Land              `json:"land"`
	CashPrice float64           `json:"cash_price"`
	Ada       string            `json:"ada"`
	Parsel    string            `json:"parsel"`
	Area      string            `json:"area"`
	Option1   InstallmentOption `json:"option1"`
	Option2   InstallmentOption `json:"option2"`
}

// ProposalItems stores the ordered item list as a JSONB column.
type ProposalItems []ProposalItem

// Value implements driver.Valuer for JSONB storage
func (items ProposalItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSONB storage
func (items *ProposalItems) Scan(value interface{}) error {
	if value == nil {
		*items = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	default:
		return fmt.Errorf("cannot scan %T into ProposalItems", value)
	}
}

// Proposal is a saved, immutable customer quote. The id doubles as the public
// share-link token; there is no update or delete once saved.
type Proposal struct {
	ID           string        `gorm:"primaryKey;size:16" json:"id"`
	CustomerName string        `gorm:"not null" json:"customer_name"`
	SenderName   string        `json:"sender_name"`
	SenderTitle  string        `json:"sender_title"`
	SenderPhone  string        `json:"sender_phone"`
	SenderImage  string        `json:"sender_image"`
	ValidUntil   time.Time     `gorm:"type:date" json:"valid_until"`
	CreatedBy    string        `gorm:"not null;index" json:"created_by"`
	Items        ProposalItems `gorm:"type:jsonb;not null" json:"items"`
	GlobalNotes  string        `gorm:"type:text" json:"global_notes"`
	CreatedAt    time.Time     `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Proposal
func (Proposal) TableName() string {
	return "proposals"
}

// TotalValue sums the cash prices of all items. Always recomputed, never
// cached.
func (p *Proposal) TotalValue() float64 {
	return totalValue(p.Items)
}

// IsExpired reports whether the proposal's validity window has passed.
// Comparison is by calendar date; a proposal valid exactly today is not
// expired.
func (p *Proposal) IsExpired(now time.Time) bool {
	return dateOnly(p.ValidUntil).Before(dateOnly(now))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func totalValue(items ProposalItems) float64 {
	var total float64
	for _, item := range items {
		total += item.CashPrice
	}
	return total
}

// Proposal status constants (drafts only; saved proposals have no stored
// state, "expired" is derived at view time)
const (
	ProposalStatusDraft = "draft"
	ProposalStatusSaved = "saved"
)

// Draft validation errors
var (
	ErrCustomerNameRequired = errors.New("müşteri adı gerekli")
	ErrNoItems              = errors.New("teklife en az bir arsa ekleyin")
	ErrInvalidItemPrice     = errors.New("tüm arsalar için geçerli bir fiyat girin")
)

// Draft is an in-progress proposal. It has no identity and no timestamps;
// both are assigned exactly once, at save time.
type Draft struct {
	Status       string        `json:"status"`
	CustomerName string        `json:"customer_name"`
	SenderName   string        `json:"sender_name"`
	SenderTitle  string        `json:"sender_title"`
	SenderPhone  string        `json:"sender_phone"`
	SenderImage  string        `json:"sender_image"`
	ValidUntil   time.Time     `json:"valid_until"`
	CreatedBy    string        `json:"created_by"`
	Items        ProposalItems `json:"items"`
	GlobalNotes  string        `json:"global_notes"`
}

// MaySave returns true if the draft has not been persisted yet
func (d *Draft) MaySave() bool {
	return d.Status == "" || d.Status == ProposalStatusDraft
}

// TotalValue sums the cash prices of all draft items
func (d *Draft) TotalValue() float64 {
	return totalValue(d.Items)
}

// Validate is the pre-save gate: customer name present, at least one item,
// every item priced above zero.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.CustomerName) == "" {
		return ErrCustomerNameRequired
	}
	if len(d.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range d.Items {
		if item.CashPrice <= 0 {
			return ErrInvalidItemPrice
		}
	}
	return nil
}

// ToProposal materializes the draft as a persistable proposal with the given
// identity and creation time. Items are copied so the draft and the saved
// proposal never share backing storage.
func (d *Draft) ToProposal(id string, createdAt time.Time) *Proposal {
	items := make(ProposalItems, len(d.Items))
	copy(items, d.Items)

	return &Proposal{
		ID:           id,
		CustomerName: strings.TrimSpace(d.CustomerName),
		SenderName:   d.SenderName,
		SenderTitle:  d.SenderTitle,
		SenderPhone:  d.SenderPhone,
		SenderImage:  d.SenderImage,
		ValidUntil:   d.ValidUntil,
		CreatedBy:    d.CreatedBy,
		Items:        items,
		GlobalNotes:  d.GlobalNotes,
		CreatedAt:    createdAt,
	}
}

// ProposalResponse is the JSON response format for proposals
type ProposalResponse struct {
	ID           string        `json:"id"`
	CustomerName string        `json:"customer_name"`
	SenderName   string        `json:"sender_name"`
	SenderTitle  string        `json:"sender_title"`
	SenderPhone  string        `json:"sender_phone"`
	SenderImage  string        `json:"sender_image"`
	ValidUntil   time.Time     `json:"valid_until"`
	CreatedBy    string        `json:"created_by"`
	Items        ProposalItems `json:"items"`
	GlobalNotes  string        `json:"global_notes"`
	TotalValue   float64       `json:"total_value"`
	Expired      bool          `json:"expired"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ToResponse converts Proposal to ProposalResponse, deriving the total and
// the expiry flag at view time.
func (p *Proposal) ToResponse(now time.Time) ProposalResponse {
	return ProposalResponse{
		ID:           p.ID,
		CustomerName: p.CustomerName,
		SenderName:   p.SenderName,
		SenderTitle:  p.SenderTitle,
		SenderPhone:  p.SenderPhone,
		SenderImage:  p.SenderImage,
		ValidUntil:   p.ValidUntil,
		CreatedBy:    p.CreatedBy,
		Items:        p.Items,
		GlobalNotes:  p.GlobalNotes,
		TotalValue:   p.TotalValue(),
		Expired:      p.IsExpired(now),
		CreatedAt:    p.CreatedAt,
	}
}
