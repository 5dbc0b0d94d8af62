package service

import (
	"errors"
	"fmt"
	"time"

	"danakita/internal/domain"
	"danakita/internal/metrics"
	"danakita/internal/models"
	"danakita/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// DonationEvent is pushed to listeners (the live feed) after a donation and
// its ledger entry have been committed.
type DonationEvent struct {
	DonationID    uint      `json:"donation_id"`
	CampaignID    uint      `json:"campaign_id"`
	CampaignTitle string    `json:"campaign_title"`
	Amount        int64     `json:"amount"`
	IsAnonymous   bool      `json:"is_anonymous"`
	Message       string    `json:"message,omitempty"`
	CompletedAt   time.Time `json:"completed_at"`
}

// LedgerService owns all writes to the financial ledger and the campaign
// aggregates derived from it.
type LedgerService struct {
	store  repository.LedgerStore
	events chan<- DonationEvent
	log    zerolog.Logger
}

func NewLedgerService(store repository.LedgerStore, events chan<- DonationEvent, log zerolog.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		events: events,
		log:    log.With().Str("component", "ledger").Logger(),
	}
}

// CompleteDonation flips a pending donation to completed, records its ledger
// entry and updates the campaign aggregate as one atomic unit. Calling it
// again for the same donation is a no-op returning the existing entry, so
// duplicate webhook deliveries and retried confirmations are safe.
func (s *LedgerService) CompleteDonation(donationID uint) (*models.FinancialTransaction, error) {
	entry, evt, err := s.completeOnce(donationID)
	if errors.Is(err, ErrConcurrentUpdate) {
		s.log.Warn().Uint("donation_id", donationID).Msg("ledger update conflict, retrying with fresh state")
		entry, evt, err = s.completeOnce(donationID)
	}
	if errors.Is(err, ErrDuplicateTransaction) {
		return entry, nil
	}
	if err != nil {
		return nil, err
	}
	metrics.DonationsCompleted.Inc()
	metrics.TransactionsRecorded.WithLabelValues(domain.TxCategoryDonation).Inc()
	if evt != nil {
		s.publish(*evt)
	}
	s.log.Info().
		Uint("donation_id", donationID).
		Int64("amount", entry.Amount).
		Msg("donation completed")
	return entry, nil
}

func (s *LedgerService) completeOnce(donationID uint) (*models.FinancialTransaction, *DonationEvent, error) {
	var entry *models.FinancialTransaction
	var evt *DonationEvent
	err := s.store.InTransaction(func(tx repository.LedgerTx) error {
		d, err := tx.DonationForUpdate(donationID)
		if err != nil {
			return err
		}
		if d.Amount <= 0 {
			return ErrInvalidAmount
		}
		if d.Status == domain.DonationStatusFailed {
			return ErrDonationFailed
		}
		c, err := tx.CampaignForUpdate(d.CampaignID)
		if err != nil {
			return err
		}
		if d.Status == domain.DonationStatusCompleted {
			existing, err := tx.TransactionByOrigin(string(domain.OriginDonation), d.ID, domain.TxCategoryDonation)
			if err != nil {
				return err
			}
			if existing != nil {
				entry = existing
				return ErrDuplicateTransaction
			}
			// Completed donation without a ledger entry: heal by recording
			// the entry, but don't re-apply the aggregate.
			e, err := recordDonationEntry(tx, d, c.Title)
			if err != nil {
				return err
			}
			entry = e
			return nil
		}

		e, err := recordDonationEntry(tx, d, c.Title)
		if err != nil {
			if errors.Is(err, ErrDuplicateTransaction) {
				entry = e
			}
			return err
		}
		now := time.Now()
		d.Status = domain.DonationStatusCompleted
		d.CompletedAt = &now
		if err := tx.SaveDonation(d); err != nil {
			return err
		}
		if err := applyDonation(tx, c, d); err != nil {
			return err
		}
		entry = e
		evt = &DonationEvent{
			DonationID:    d.ID,
			CampaignID:    c.ID,
			CampaignTitle: c.Title,
			Amount:        d.Amount,
			IsAnonymous:   d.IsAnonymous,
			Message:       d.Message,
			CompletedAt:   now,
		}
		return nil
	})
	return entry, evt, err
}

// RecordDonationTransaction records the ledger entry for a donation that has
// already been confirmed, without touching the campaign aggregate. Normal
// confirmations go through CompleteDonation, which composes both updates.
// A duplicate surfaces as ErrDuplicateTransaction alongside the existing row.
func (s *LedgerService) RecordDonationTransaction(d *models.Donation) (*models.FinancialTransaction, error) {
	if d.Status != domain.DonationStatusCompleted {
		return nil, ErrDonationNotCompleted
	}
	if d.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	var entry *models.FinancialTransaction
	err := s.store.InTransaction(func(tx repository.LedgerTx) error {
		c, err := tx.CampaignByID(d.CampaignID)
		if err != nil {
			return err
		}
		e, err := recordDonationEntry(tx, d, c.Title)
		if e != nil {
			entry = e
		}
		return err
	})
	if err != nil {
		return entry, err
	}
	metrics.TransactionsRecorded.WithLabelValues(domain.TxCategoryDonation).Inc()
	return entry, nil
}

// RecordDisbursement records an admin-initiated expense against a campaign.
// Spending funds never reverses fundraising: the campaign aggregate and
// status are untouched.
func (s *LedgerService) RecordDisbursement(campaignID uint, amount int64, subCategory, description string) (*models.FinancialTransaction, error) {
	return s.recordExpense(domain.TxCategoryDisbursement, campaignID, amount, subCategory, description)
}

// RecordRefund records an admin-initiated refund expense against a campaign.
func (s *LedgerService) RecordRefund(campaignID uint, amount int64, subCategory, description string) (*models.FinancialTransaction, error) {
	return s.recordExpense(domain.TxCategoryRefund, campaignID, amount, subCategory, description)
}

// RecordDonationRefund refunds one completed donation at its recorded
// amount. The refund origin gives it the same idempotency backstop as
// donation recording: refunding the same donation twice is a no-op
// returning the existing entry.
func (s *LedgerService) RecordDonationRefund(donationID uint, description string) (*models.FinancialTransaction, error) {
	entry, err := s.refundOnce(donationID, description)
	if errors.Is(err, ErrConcurrentUpdate) {
		entry, err = s.refundOnce(donationID, description)
	}
	if errors.Is(err, ErrDuplicateTransaction) {
		return entry, nil
	}
	if err != nil {
		return nil, err
	}
	metrics.TransactionsRecorded.WithLabelValues(domain.TxCategoryRefund).Inc()
	s.log.Info().
		Uint("donation_id", donationID).
		Int64("amount", entry.Amount).
		Msg("donation refund recorded")
	return entry, nil
}

func (s *LedgerService) refundOnce(donationID uint, description string) (*models.FinancialTransaction, error) {
	var entry *models.FinancialTransaction
	err := s.store.InTransaction(func(tx repository.LedgerTx) error {
		d, err := tx.DonationForUpdate(donationID)
		if err != nil {
			return err
		}
		if d.Status != domain.DonationStatusCompleted {
			return ErrDonationNotCompleted
		}
		existing, err := tx.TransactionByOrigin(string(domain.OriginRefund), d.ID, domain.TxCategoryRefund)
		if err != nil {
			return err
		}
		if existing != nil {
			entry = existing
			return ErrDuplicateTransaction
		}
		if description == "" {
			description = fmt.Sprintf("Refund of donation #%d", d.ID)
		}
		txType, _ := domain.TypeForCategory(domain.TxCategoryRefund)
		e := &models.FinancialTransaction{
			CampaignID:  &d.CampaignID,
			Type:        txType,
			Category:    domain.TxCategoryRefund,
			SubCategory: d.PaymentMethod,
			Amount:      d.Amount,
			Description: description,
			Status:      domain.TxStatusCompleted,
		}
		e.SetOrigin(domain.RefundOrigin(d.ID))
		if err := tx.CreateTransaction(e); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConcurrentUpdate
			}
			return err
		}
		entry = e
		return nil
	})
	return entry, err
}

func (s *LedgerService) recordExpense(category string, campaignID uint, amount int64, subCategory, description string) (*models.FinancialTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	txType, ok := domain.TypeForCategory(category)
	if !ok {
		return nil, fmt.Errorf("unknown transaction category %q", category)
	}
	var entry *models.FinancialTransaction
	err := s.store.InTransaction(func(tx repository.LedgerTx) error {
		c, err := tx.CampaignByID(campaignID)
		if err != nil {
			return err
		}
		entry = &models.FinancialTransaction{
			CampaignID:  &c.ID,
			Type:        txType,
			Category:    category,
			SubCategory: subCategory,
			Amount:      amount,
			Description: description,
			Status:      domain.TxStatusCompleted,
		}
		return tx.CreateTransaction(entry)
	})
	if err != nil {
		return nil, err
	}
	metrics.TransactionsRecorded.WithLabelValues(category).Inc()
	s.log.Info().
		Str("category", category).
		Uint("campaign_id", campaignID).
		Int64("amount", amount).
		Msg("expense recorded")
	return entry, nil
}

// recordDonationEntry creates the income entry for a donation. The ledger
// records the donor-submitted amount at face value; no fee is ever deducted
// between the donation and its entry.
func recordDonationEntry(tx repository.LedgerTx, d *models.Donation, campaignTitle string) (*models.FinancialTransaction, error) {
	if d.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	existing, err := tx.TransactionByOrigin(string(domain.OriginDonation), d.ID, domain.TxCategoryDonation)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, ErrDuplicateTransaction
	}
	txType, _ := domain.TypeForCategory(domain.TxCategoryDonation)
	entry := &models.FinancialTransaction{
		CampaignID:  &d.CampaignID,
		Type:        txType,
		Category:    domain.TxCategoryDonation,
		SubCategory: d.PaymentMethod,
		Amount:      d.Amount,
		Description: fmt.Sprintf("Donation #%d to campaign %q", d.ID, campaignTitle),
		Status:      domain.TxStatusCompleted,
	}
	entry.SetOrigin(domain.DonationOrigin(d.ID))
	if err := tx.CreateTransaction(entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the insert race to a concurrent recording; the retry
			// will find the winner's entry through the origin lookup.
			return nil, ErrConcurrentUpdate
		}
		return nil, err
	}
	return entry, nil
}

// applyDonation increments the campaign aggregate and flips an active
// campaign to completed once the target is reached. The transition is
// one-way: later disbursements never reopen fundraising.
func applyDonation(tx repository.LedgerTx, c *models.Campaign, d *models.Donation) error {
	c.CurrentAmount += d.Amount
	if c.Status == domain.CampaignStatusActive && c.TargetReached() {
		c.Status = domain.CampaignStatusCompleted
	}
	return tx.SaveCampaign(c)
}

func (s *LedgerService) publish(evt DonationEvent) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- evt:
	default:
		// the feed is best-effort; a ledger write never blocks on slow consumers
	}
}
