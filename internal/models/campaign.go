package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign is a fundraising effort with a target and a running total.
// CurrentAmount is derived from completed donations and only ever moves
// through the ledger service, never directly.
type Campaign struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	TargetAmount  int64          `gorm:"not null" json:"target_amount"`
	CurrentAmount int64          `gorm:"not null;default:0" json:"current_amount"`
	Status        string         `gorm:"size:20;not null;index;default:'pending'" json:"status"` // pending, active, completed, rejected, cancelled
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

func (c *Campaign) TargetReached() bool {
	return c.CurrentAmount >= c.TargetAmount
}
