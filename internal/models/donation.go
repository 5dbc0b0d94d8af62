package models

import (
	"time"
)

// Donation records a single contribution. Amount is the literal
// donor-submitted figure in whole currency units; no fee is ever deducted.
type Donation struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CampaignID    uint       `gorm:"not null;index" json:"campaign_id"`
	UserID        *uint      `gorm:"index" json:"user_id"` // nil for anonymous donors
	Amount        int64      `gorm:"not null" json:"amount"`
	PaymentMethod string     `gorm:"size:30;default:'manual'" json:"payment_method"`
	Status        string     `gorm:"size:20;not null;index;default:'pending'" json:"status"` // pending, completed, failed
	Message       string     `gorm:"size:500" json:"message"`
	IsAnonymous   bool       `gorm:"default:false" json:"is_anonymous"`
	Reference     string     `gorm:"size:64;uniqueIndex" json:"reference"` // payment confirmations correlate on this
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Campaign *Campaign `gorm:"foreignKey:CampaignID" json:"-"`
	User     *User     `gorm:"foreignKey:UserID" json:"-"`
}

func (Donation) TableName() string {
	return "donations"
}
