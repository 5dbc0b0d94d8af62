package models

import (
	"time"

	"danakita/internal/domain"
)

// FinancialTransaction is an append-only ledger entry. Rows are never
// updated after creation except for status correction, and never deleted.
//
// RelatedType/RelatedID carry the typed origin for automatically recorded
// entries (donations, refunds of donations). They are nil for entries an
// administrator records directly; the composite unique index on
// (related_type, related_id, category) then only guards the automatic path,
// which is the one exposed to webhook retries.
type FinancialTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CampaignID  *uint     `gorm:"index" json:"campaign_id"`
	Type        string    `gorm:"size:10;not null;index" json:"type"`                               // income, expense
	Category    string    `gorm:"size:20;not null;index;uniqueIndex:idx_tx_origin" json:"category"` // donation, disbursement, refund
	SubCategory string    `gorm:"size:50" json:"sub_category"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Description string    `gorm:"size:500" json:"description"`
	Status      string    `gorm:"size:20;not null;index" json:"status"` // pending, completed, failed
	RelatedType *string   `gorm:"size:30;uniqueIndex:idx_tx_origin" json:"related_type"`
	RelatedID   *uint     `gorm:"uniqueIndex:idx_tx_origin" json:"related_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`

	Campaign *Campaign `gorm:"foreignKey:CampaignID" json:"-"`
}

func (FinancialTransaction) TableName() string {
	return "financial_transactions"
}

// SetOrigin records the typed back-reference to the originating event.
func (t *FinancialTransaction) SetOrigin(o domain.Origin) {
	kind := string(o.Kind)
	id := o.ID
	t.RelatedType = &kind
	t.RelatedID = &id
}

// Origin returns the originating event, or nil for admin-recorded entries.
func (t *FinancialTransaction) Origin() *domain.Origin {
	if t.RelatedType == nil || t.RelatedID == nil {
		return nil
	}
	return &domain.Origin{Kind: domain.OriginKind(*t.RelatedType), ID: *t.RelatedID}
}
