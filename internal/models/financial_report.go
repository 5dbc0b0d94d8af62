package models

import (
	"time"
)

// FinancialReport is an immutable snapshot of the ledger over one period.
// Recomputation inserts a new row; existing rows are never mutated, so a
// report always reflects the ledger as of its generation time.
type FinancialReport struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CampaignID      *uint     `gorm:"index" json:"campaign_id"` // nil = platform-wide
	PeriodStart     time.Time `gorm:"not null;index" json:"period_start"`
	PeriodEnd       time.Time `gorm:"not null" json:"period_end"`
	TotalIncome     int64     `gorm:"not null;default:0" json:"total_income"`
	TotalExpenses   int64     `gorm:"not null;default:0" json:"total_expenses"`
	NetBalance      int64     `gorm:"not null;default:0" json:"net_balance"`
	TotalDonors     int64     `gorm:"not null;default:0" json:"total_donors"`
	DonationCount   int64     `gorm:"not null;default:0" json:"donation_count"`
	AverageDonation float64   `gorm:"not null;default:0" json:"average_donation"`
	IsPublic        bool      `gorm:"default:false;index" json:"is_public"`
	IsVerified      bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`

	Campaign *Campaign `gorm:"foreignKey:CampaignID" json:"-"`
}

func (FinancialReport) TableName() string {
	return "financial_reports"
}
