package repository

import (
	"time"

	"danakita/internal/domain"
	"danakita/internal/models"

	"gorm.io/gorm"
)

// CampaignBreakdownRow is one campaign's ledger totals for dashboards.
type CampaignBreakdownRow struct {
	CampaignID    uint   `json:"campaign_id"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	TargetAmount  int64  `json:"target_amount"`
	CurrentAmount int64  `json:"current_amount"`
	TotalIncome   int64  `json:"total_income"`
	TotalExpenses int64  `json:"total_expenses"`
}

// ReportRepository serves the report generator and the transparency
// projector: ledger aggregates plus report snapshot storage. Queries here
// are reads over completed entries; they run unlocked and tolerate
// concurrent writes.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func windowed(q *gorm.DB, column string, start, end time.Time) *gorm.DB {
	if !start.IsZero() {
		q = q.Where(column+" >= ?", start)
	}
	if !end.IsZero() {
		q = q.Where(column+" < ?", end)
	}
	return q
}

// SumAmount totals completed ledger entries of one type in [start, end).
func (r *ReportRepository) SumAmount(txType string, start, end time.Time, campaignID *uint) (int64, error) {
	var row struct{ Total int64 }
	q := r.db.Model(&models.FinancialTransaction{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("status = ? AND type = ?", domain.TxStatusCompleted, txType)
	q = windowed(q, "created_at", start, end)
	if campaignID != nil {
		q = q.Where("campaign_id = ?", *campaignID)
	}
	err := q.Scan(&row).Error
	return row.Total, err
}

// SumAmountByCategory totals completed ledger entries of one category,
// platform-wide, in [start, end).
func (r *ReportRepository) SumAmountByCategory(category string, start, end time.Time) (int64, error) {
	var row struct{ Total int64 }
	q := r.db.Model(&models.FinancialTransaction{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("status = ? AND category = ?", domain.TxStatusCompleted, category)
	q = windowed(q, "created_at", start, end)
	err := q.Scan(&row).Error
	return row.Total, err
}

func (r *ReportRepository) CountTransactions(category string, start, end time.Time, campaignID *uint) (int64, error) {
	q := r.db.Model(&models.FinancialTransaction{}).
		Where("status = ? AND category = ?", domain.TxStatusCompleted, category)
	q = windowed(q, "created_at", start, end)
	if campaignID != nil {
		q = q.Where("campaign_id = ?", *campaignID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// CountDistinctDonors counts identified donors once each; every anonymous
// donation counts as its own donor rather than collapsing into one.
func (r *ReportRepository) CountDistinctDonors(start, end time.Time, campaignID *uint) (int64, error) {
	base := func() *gorm.DB {
		q := r.db.Model(&models.Donation{}).Where("status = ?", domain.DonationStatusCompleted)
		q = windowed(q, "completed_at", start, end)
		if campaignID != nil {
			q = q.Where("campaign_id = ?", *campaignID)
		}
		return q
	}
	var named int64
	if err := base().Where("is_anonymous = ? AND user_id IS NOT NULL", false).
		Distinct("user_id").Count(&named).Error; err != nil {
		return 0, err
	}
	var anonymous int64
	if err := base().Where("is_anonymous = ? OR user_id IS NULL", true).
		Count(&anonymous).Error; err != nil {
		return 0, err
	}
	return named + anonymous, nil
}

func (r *ReportRepository) CreateReport(rep *models.FinancialReport) error {
	return r.db.Create(rep).Error
}

func (r *ReportRepository) ReportByID(id uint) (*models.FinancialReport, error) {
	var rep models.FinancialReport
	if err := r.db.First(&rep, id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

// ListPublic returns public report snapshots, newest first.
func (r *ReportRepository) ListPublic(page, limit int) ([]models.FinancialReport, int64, error) {
	q := r.db.Model(&models.FinancialReport{}).Where("is_public = ?", true)
	var total int64
	q.Count(&total)
	var list []models.FinancialReport
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// LatestReports returns the newest public snapshot per scope and period.
// Regeneration inserts rather than updates, so a period can have several
// rows; only the latest one per (campaign_id, period_start) is current.
func (r *ReportRepository) LatestReports(limit int) ([]models.FinancialReport, error) {
	current := r.db.Model(&models.FinancialReport{}).
		Select("MAX(id)").
		Where("is_public = ?", true).
		Group("campaign_id, period_start")
	var list []models.FinancialReport
	err := r.db.Where("id IN (?)", current).
		Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *ReportRepository) RecentTransactions(categories []string, limit int) ([]models.FinancialTransaction, error) {
	var list []models.FinancialTransaction
	err := r.db.Where("status = ? AND category IN ?", domain.TxStatusCompleted, categories).
		Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

// CampaignBreakdown returns per-campaign ledger totals for dashboards.
func (r *ReportRepository) CampaignBreakdown() ([]CampaignBreakdownRow, error) {
	var rows []CampaignBreakdownRow
	err := r.db.Model(&models.Campaign{}).
		Select(`campaigns.id as campaign_id, campaigns.title, campaigns.status,
			campaigns.target_amount, campaigns.current_amount,
			COALESCE(SUM(CASE WHEN ft.type = 'income' AND ft.status = 'completed' THEN ft.amount ELSE 0 END), 0) as total_income,
			COALESCE(SUM(CASE WHEN ft.type = 'expense' AND ft.status = 'completed' THEN ft.amount ELSE 0 END), 0) as total_expenses`).
		Joins("LEFT JOIN financial_transactions ft ON ft.campaign_id = campaigns.id").
		Group("campaigns.id").
		Order("campaigns.current_amount DESC").
		Scan(&rows).Error
	return rows, err
}
