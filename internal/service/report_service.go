package service

import (
	"math"
	"time"

	"danakita/internal/domain"
	"danakita/internal/metrics"
	"danakita/internal/models"

	"github.com/rs/zerolog"
)

// ReportStore is the read/append surface the report generator needs. Report
// generation is a pure aggregate over the ledger; it runs unlocked and
// reflects a snapshot as of generation time.
type ReportStore interface {
	SumAmount(txType string, start, end time.Time, campaignID *uint) (int64, error)
	CountTransactions(category string, start, end time.Time, campaignID *uint) (int64, error)
	CountDistinctDonors(start, end time.Time, campaignID *uint) (int64, error)
	CreateReport(r *models.FinancialReport) error
	ReportByID(id uint) (*models.FinancialReport, error)
}

type ReportService struct {
	store ReportStore
	log   zerolog.Logger
}

func NewReportService(store ReportStore, log zerolog.Logger) *ReportService {
	return &ReportService{store: store, log: log.With().Str("component", "reports").Logger()}
}

// GenerateReport aggregates completed ledger entries in [periodStart,
// periodEnd) into a new immutable report row. An empty window is not an
// error: the report simply carries all-zero aggregates.
func (s *ReportService) GenerateReport(periodStart, periodEnd time.Time, campaignID *uint) (*models.FinancialReport, error) {
	if !periodEnd.After(periodStart) {
		return nil, ErrInvalidPeriod
	}
	income, err := s.store.SumAmount(domain.TxTypeIncome, periodStart, periodEnd, campaignID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.SumAmount(domain.TxTypeExpense, periodStart, periodEnd, campaignID)
	if err != nil {
		return nil, err
	}
	donationCount, err := s.store.CountTransactions(domain.TxCategoryDonation, periodStart, periodEnd, campaignID)
	if err != nil {
		return nil, err
	}
	donors, err := s.store.CountDistinctDonors(periodStart, periodEnd, campaignID)
	if err != nil {
		return nil, err
	}
	avg := 0.0
	if donationCount > 0 {
		avg = float64(income) / float64(donationCount)
	}
	r := &models.FinancialReport{
		CampaignID:      campaignID,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		TotalIncome:     income,
		TotalExpenses:   expenses,
		NetBalance:      income - expenses,
		TotalDonors:     donors,
		DonationCount:   donationCount,
		AverageDonation: avg,
		IsPublic:        true,
	}
	if err := s.store.CreateReport(r); err != nil {
		return nil, err
	}
	metrics.ReportsGenerated.Inc()
	s.log.Info().
		Time("period_start", periodStart).
		Time("period_end", periodEnd).
		Int64("total_income", income).
		Int64("total_expenses", expenses).
		Msg("financial report generated")
	return r, nil
}

func (s *ReportService) ReportByID(id uint) (*models.FinancialReport, error) {
	return s.store.ReportByID(id)
}

// FundUtilizationRate returns spent/raised as a percentage rounded to one
// decimal place. Zero income yields 0, not a division error.
func FundUtilizationRate(income, expenses int64) float64 {
	if income <= 0 {
		return 0
	}
	return math.Round(float64(expenses)/float64(income)*1000) / 10
}

// CalculateCurrentFundUtilization computes utilization over the whole ledger
// as of now. It is derived at query time, never stored.
func (s *ReportService) CalculateCurrentFundUtilization(campaignID *uint) (float64, error) {
	now := time.Now()
	income, err := s.store.SumAmount(domain.TxTypeIncome, time.Time{}, now, campaignID)
	if err != nil {
		return 0, err
	}
	expenses, err := s.store.SumAmount(domain.TxTypeExpense, time.Time{}, now, campaignID)
	if err != nil {
		return 0, err
	}
	return FundUtilizationRate(income, expenses), nil
}

type MonthlyTrendPoint struct {
	Month         string `json:"month"` // e.g. 2026-01
	TotalIncome   int64  `json:"total_income"`
	TotalExpenses int64  `json:"total_expenses"`
	NetBalance    int64  `json:"net_balance"`
	DonationCount int64  `json:"donation_count"`
}

// MonthlyTrend returns platform-wide ledger totals per calendar month of the
// given year.
func (s *ReportService) MonthlyTrend(year int) ([]MonthlyTrendPoint, error) {
	points := make([]MonthlyTrendPoint, 0, 12)
	for m := time.January; m <= time.December; m++ {
		start := time.Date(year, m, 1, 0, 0, 0, 0, time.Local)
		end := start.AddDate(0, 1, 0)
		income, err := s.store.SumAmount(domain.TxTypeIncome, start, end, nil)
		if err != nil {
			return nil, err
		}
		expenses, err := s.store.SumAmount(domain.TxTypeExpense, start, end, nil)
		if err != nil {
			return nil, err
		}
		count, err := s.store.CountTransactions(domain.TxCategoryDonation, start, end, nil)
		if err != nil {
			return nil, err
		}
		points = append(points, MonthlyTrendPoint{
			Month:         start.Format("2006-01"),
			TotalIncome:   income,
			TotalExpenses: expenses,
			NetBalance:    income - expenses,
			DonationCount: count,
		})
	}
	return points, nil
}

type Insight struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	Trend string  `json:"trend"`
}

// Insights derives display metrics for a single report. The transparency
// insight is constant under the no-fee policy.
func (s *ReportService) Insights(r *models.FinancialReport) []Insight {
	utilization := FundUtilizationRate(r.TotalIncome, r.TotalExpenses)
	utilizationTrend := "neutral"
	switch {
	case utilization >= 80:
		utilizationTrend = "positive"
	case utilization > 0 && utilization < 30:
		utilizationTrend = "negative"
	}
	netTrend := "neutral"
	if r.NetBalance > 0 {
		netTrend = "positive"
	} else if r.NetBalance < 0 {
		netTrend = "negative"
	}
	return []Insight{
		{Type: "fund_utilization", Value: utilization, Trend: utilizationTrend},
		{Type: "net_balance", Value: float64(r.NetBalance), Trend: netTrend},
		{Type: "average_donation", Value: math.Round(r.AverageDonation*100) / 100, Trend: "neutral"},
		{Type: "transparency", Value: domain.DonationEfficiency, Trend: "positive"},
	}
}
