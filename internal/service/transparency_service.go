package service

import (
	"time"

	"danakita/internal/domain"
	"danakita/internal/models"

	"github.com/rs/zerolog"
)

// TransparencyStore is the read surface for the public transparency
// projection.
type TransparencyStore interface {
	LatestReports(limit int) ([]models.FinancialReport, error)
	RecentTransactions(categories []string, limit int) ([]models.FinancialTransaction, error)
	SumAmountByCategory(category string, start, end time.Time) (int64, error)
}

type YearToDateTotals struct {
	TotalDonations     int64   `json:"total_donations"`
	TotalDisbursements int64   `json:"total_disbursements"`
	TotalRefunds       int64   `json:"total_refunds"`
	AvailableFunds     int64   `json:"available_funds"`
	UtilizationRate    float64 `json:"utilization_rate"`
}

type TransparencyMetrics struct {
	PlatformFeeRate    float64 `json:"platform_fee_rate"`
	ProcessingFeeRate  float64 `json:"processing_fee_rate"`
	DonationEfficiency float64 `json:"donation_efficiency"`
}

type PlatformTotals struct {
	YearToDate          YearToDateTotals    `json:"year_to_date"`
	TransparencyMetrics TransparencyMetrics `json:"transparency_metrics"`
}

type TransparencyView struct {
	LatestReports      []models.FinancialReport      `json:"latest_reports"`
	RecentTransactions []models.FinancialTransaction `json:"recent_transactions"`
	PlatformTotals     PlatformTotals                `json:"platform_totals"`
	FundUtilization    float64                       `json:"fund_utilization"`
	TransparencyNote   string                        `json:"transparency_note"`
}

const transparencyNote = "Every donation is recorded at face value and goes to the cause in full. The platform charges no fees."

// currentSnapshots keeps the newest row per scope and period. Report
// regeneration inserts new rows, so a stale snapshot can sit next to its
// replacement in storage; like the category filter, the view drops it even
// if the store query already should have.
func currentSnapshots(reports []models.FinancialReport) []models.FinancialReport {
	type scope struct {
		platform   bool
		campaignID uint
		period     int64
	}
	seen := make(map[scope]struct{}, len(reports))
	out := make([]models.FinancialReport, 0, len(reports))
	// newest first, so the first row per scope wins
	for _, r := range reports {
		k := scope{platform: r.CampaignID == nil, period: r.PeriodStart.Unix()}
		if r.CampaignID != nil {
			k.campaignID = *r.CampaignID
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// TransparencyService projects read-only public views from the ledger and
// report snapshots; it never re-derives business state.
type TransparencyService struct {
	store TransparencyStore
	log   zerolog.Logger
}

func NewTransparencyService(store TransparencyStore, log zerolog.Logger) *TransparencyService {
	return &TransparencyService{store: store, log: log.With().Str("component", "transparency").Logger()}
}

// GetTransparencyView builds the public platform snapshot as of the given
// time: latest public reports, recent ledger activity and year-to-date
// totals, plus the fixed no-fee metrics.
func (s *TransparencyService) GetTransparencyView(asOf time.Time) (*TransparencyView, error) {
	reports, err := s.store.LatestReports(5)
	if err != nil {
		return nil, err
	}
	reports = currentSnapshots(reports)
	recent, err := s.store.RecentTransactions(domain.PublicCategories, 10)
	if err != nil {
		return nil, err
	}
	// Fails closed: never expose a category outside the public set, even if
	// such a row somehow exists in storage.
	public := make([]models.FinancialTransaction, 0, len(recent))
	for _, t := range recent {
		if domain.IsPublicCategory(t.Category) {
			public = append(public, t)
		}
	}

	ytdStart := time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, asOf.Location())
	donations, err := s.store.SumAmountByCategory(domain.TxCategoryDonation, ytdStart, asOf)
	if err != nil {
		return nil, err
	}
	disbursements, err := s.store.SumAmountByCategory(domain.TxCategoryDisbursement, ytdStart, asOf)
	if err != nil {
		return nil, err
	}
	refunds, err := s.store.SumAmountByCategory(domain.TxCategoryRefund, ytdStart, asOf)
	if err != nil {
		return nil, err
	}
	spent := disbursements + refunds
	utilization := FundUtilizationRate(donations, spent)

	return &TransparencyView{
		LatestReports:      reports,
		RecentTransactions: public,
		PlatformTotals: PlatformTotals{
			YearToDate: YearToDateTotals{
				TotalDonations:     donations,
				TotalDisbursements: disbursements,
				TotalRefunds:       refunds,
				AvailableFunds:     donations - spent,
				UtilizationRate:    utilization,
			},
			TransparencyMetrics: TransparencyMetrics{
				PlatformFeeRate:    domain.PlatformFeeRate,
				ProcessingFeeRate:  domain.ProcessingFeeRate,
				DonationEfficiency: domain.DonationEfficiency,
			},
		},
		FundUtilization:  utilization,
		TransparencyNote: transparencyNote,
	}, nil
}
