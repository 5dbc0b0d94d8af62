package service

import (
	"testing"

	"danakita/internal/domain"
	"danakita/internal/models"
	"danakita/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeLedgerStore keeps everything in maps and hands out copies, so a
// callback that errors out leaves the visible state untouched just like a
// rolled-back transaction would.
type fakeLedgerStore struct {
	donations    map[uint]*models.Donation
	campaigns    map[uint]*models.Campaign
	transactions []*models.FinancialTransaction
	nextTxID     uint

	// failCreates makes the next N inserts report a duplicate key, with
	// onCreateFail simulating what the concurrent winner committed.
	failCreates  int
	onCreateFail func(f *fakeLedgerStore)
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{
		donations: make(map[uint]*models.Donation),
		campaigns: make(map[uint]*models.Campaign),
	}
}

func (f *fakeLedgerStore) InTransaction(fn func(tx repository.LedgerTx) error) error {
	return fn(f)
}

func (f *fakeLedgerStore) DonationForUpdate(id uint) (*models.Donation, error) {
	d, ok := f.donations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeLedgerStore) CampaignForUpdate(id uint) (*models.Campaign, error) {
	return f.CampaignByID(id)
}

func (f *fakeLedgerStore) CampaignByID(id uint) (*models.Campaign, error) {
	c, ok := f.campaigns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeLedgerStore) TransactionByOrigin(relatedType string, relatedID uint, category string) (*models.FinancialTransaction, error) {
	for _, t := range f.transactions {
		if t.RelatedType != nil && *t.RelatedType == relatedType &&
			t.RelatedID != nil && *t.RelatedID == relatedID &&
			t.Category == category {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLedgerStore) CreateTransaction(t *models.FinancialTransaction) error {
	if f.failCreates > 0 {
		f.failCreates--
		if f.onCreateFail != nil {
			f.onCreateFail(f)
		}
		return gorm.ErrDuplicatedKey
	}
	f.nextTxID++
	t.ID = f.nextTxID
	cp := *t
	f.transactions = append(f.transactions, &cp)
	return nil
}

func (f *fakeLedgerStore) SaveDonation(d *models.Donation) error {
	cp := *d
	f.donations[d.ID] = &cp
	return nil
}

func (f *fakeLedgerStore) SaveCampaign(c *models.Campaign) error {
	cp := *c
	f.campaigns[c.ID] = &cp
	return nil
}

func (f *fakeLedgerStore) donationSum(campaignID uint) int64 {
	var sum int64
	for _, t := range f.transactions {
		if t.Category == domain.TxCategoryDonation && t.CampaignID != nil && *t.CampaignID == campaignID {
			sum += t.Amount
		}
	}
	return sum
}

func newTestLedger(store *fakeLedgerStore) (*LedgerService, chan DonationEvent) {
	events := make(chan DonationEvent, 8)
	return NewLedgerService(store, events, zerolog.Nop()), events
}

func seedCampaign(store *fakeLedgerStore, id uint, target int64) {
	store.campaigns[id] = &models.Campaign{
		ID:           id,
		Title:        "Clean Water",
		TargetAmount: target,
		Status:       domain.CampaignStatusActive,
	}
}

func seedDonation(store *fakeLedgerStore, id, campaignID uint, amount int64) {
	store.donations[id] = &models.Donation{
		ID:         id,
		CampaignID: campaignID,
		Amount:     amount,
		Status:     domain.DonationStatusPending,
	}
}

func TestCompleteDonationRecordsFaceValue(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 1_000_000)
	seedDonation(store, 10, 1, 50_000)
	svc, events := newTestLedger(store)

	entry, err := svc.CompleteDonation(10)
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, int64(50_000), entry.Amount, "ledger amount must equal the donation amount, no deduction")
	assert.Equal(t, domain.TxTypeIncome, entry.Type)
	assert.Equal(t, domain.TxCategoryDonation, entry.Category)
	require.NotNil(t, entry.Origin())
	assert.Equal(t, domain.OriginDonation, entry.Origin().Kind)
	assert.Equal(t, uint(10), entry.Origin().ID)

	d := store.donations[10]
	assert.Equal(t, domain.DonationStatusCompleted, d.Status)
	require.NotNil(t, d.CompletedAt)

	c := store.campaigns[1]
	assert.Equal(t, int64(50_000), c.CurrentAmount)
	assert.Equal(t, domain.CampaignStatusActive, c.Status)

	select {
	case evt := <-events:
		assert.Equal(t, uint(10), evt.DonationID)
		assert.Equal(t, int64(50_000), evt.Amount)
	default:
		t.Fatal("expected a donation event")
	}
}

func TestCompleteDonationIdempotent(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 1_000_000)
	seedDonation(store, 10, 1, 50_000)
	svc, _ := newTestLedger(store)

	first, err := svc.CompleteDonation(10)
	require.NoError(t, err)
	second, err := svc.CompleteDonation(10)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.transactions, 1)
	assert.Equal(t, int64(50_000), store.campaigns[1].CurrentAmount, "aggregate applied exactly once")
}

func TestCompleteDonationAggregateMatchesLedger(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 10_000_000)
	amounts := []int64{100_000, 150_000, 200_000, 25_000}
	for i, a := range amounts {
		seedDonation(store, uint(i+1), 1, a)
	}
	svc, _ := newTestLedger(store)

	for i := range amounts {
		_, err := svc.CompleteDonation(uint(i + 1))
		require.NoError(t, err)
	}

	assert.Equal(t, store.donationSum(1), store.campaigns[1].CurrentAmount)
	assert.Equal(t, int64(475_000), store.campaigns[1].CurrentAmount)
}

func TestCompleteDonationReachingTargetCompletesCampaign(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 100_000)
	seedDonation(store, 1, 1, 60_000)
	seedDonation(store, 2, 1, 40_000)
	seedDonation(store, 3, 1, 10_000)
	svc, _ := newTestLedger(store)

	_, err := svc.CompleteDonation(1)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStatusActive, store.campaigns[1].Status)

	_, err = svc.CompleteDonation(2)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStatusCompleted, store.campaigns[1].Status)

	// Spending funds never reopens fundraising.
	_, err = svc.RecordDisbursement(1, 80_000, "medical", "hospital payment")
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStatusCompleted, store.campaigns[1].Status)

	// Late donations still record and count, without a status change.
	_, err = svc.CompleteDonation(3)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStatusCompleted, store.campaigns[1].Status)
	assert.Equal(t, int64(110_000), store.campaigns[1].CurrentAmount)
}

func TestCompleteDonationRejectsInvalidAmount(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 100_000)
	seedDonation(store, 1, 1, 0)
	svc, _ := newTestLedger(store)

	_, err := svc.CompleteDonation(1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Empty(t, store.transactions)
	assert.Equal(t, int64(0), store.campaigns[1].CurrentAmount)
}

func TestCompleteDonationRejectsFailedDonation(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 100_000)
	seedDonation(store, 1, 1, 10_000)
	store.donations[1].Status = domain.DonationStatusFailed
	svc, _ := newTestLedger(store)

	_, err := svc.CompleteDonation(1)
	assert.ErrorIs(t, err, ErrDonationFailed)
}

func TestCompleteDonationUnknownDonation(t *testing.T) {
	store := newFakeLedgerStore()
	svc, _ := newTestLedger(store)

	_, err := svc.CompleteDonation(99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCompleteDonationRetriesAfterInsertRace(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 1_000_000)
	seedDonation(store, 10, 1, 50_000)

	// First insert loses a race: a concurrent completion committed the entry
	// and flipped the donation before our unique-key failure surfaces.
	store.failCreates = 1
	store.onCreateFail = func(f *fakeLedgerStore) {
		winner := &models.FinancialTransaction{
			CampaignID: ptrUint(1),
			Type:       domain.TxTypeIncome,
			Category:   domain.TxCategoryDonation,
			Amount:     50_000,
			Status:     domain.TxStatusCompleted,
		}
		winner.SetOrigin(domain.DonationOrigin(10))
		f.nextTxID++
		winner.ID = f.nextTxID
		f.transactions = append(f.transactions, winner)
		d := *f.donations[10]
		d.Status = domain.DonationStatusCompleted
		f.donations[10] = &d
		c := *f.campaigns[1]
		c.CurrentAmount += 50_000
		f.campaigns[1] = &c
	}
	svc, _ := newTestLedger(store)

	entry, err := svc.CompleteDonation(10)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Len(t, store.transactions, 1)
	assert.Equal(t, int64(50_000), store.campaigns[1].CurrentAmount)
}

func TestCompleteDonationHealsMissingEntry(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 1_000_000)
	seedDonation(store, 10, 1, 50_000)
	store.donations[10].Status = domain.DonationStatusCompleted
	store.campaigns[1].CurrentAmount = 50_000
	svc, _ := newTestLedger(store)

	entry, err := svc.CompleteDonation(10)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Len(t, store.transactions, 1)
	// The aggregate was already applied; healing must not double it.
	assert.Equal(t, int64(50_000), store.campaigns[1].CurrentAmount)
}

func TestRecordDonationTransactionRequiresCompletedDonation(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 100_000)
	svc, _ := newTestLedger(store)

	_, err := svc.RecordDonationTransaction(&models.Donation{
		ID: 1, CampaignID: 1, Amount: 10_000, Status: domain.DonationStatusPending,
	})
	assert.ErrorIs(t, err, ErrDonationNotCompleted)
}

func TestRecordDonationTransactionDuplicate(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 100_000)
	seedDonation(store, 1, 1, 10_000)
	svc, _ := newTestLedger(store)

	_, err := svc.CompleteDonation(1)
	require.NoError(t, err)

	d := store.donations[1]
	entry, err := svc.RecordDonationTransaction(d)
	assert.ErrorIs(t, err, ErrDuplicateTransaction)
	require.NotNil(t, entry, "duplicate surfaces the existing entry")
	assert.Len(t, store.transactions, 1)
}

func TestRecordDisbursement(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 100_000)
	store.campaigns[1].CurrentAmount = 80_000
	svc, _ := newTestLedger(store)

	entry, err := svc.RecordDisbursement(1, 30_000, "education", "school supplies")
	require.NoError(t, err)
	assert.Equal(t, domain.TxTypeExpense, entry.Type)
	assert.Equal(t, domain.TxCategoryDisbursement, entry.Category)
	assert.Equal(t, "education", entry.SubCategory)
	assert.Nil(t, entry.Origin())
	// Disbursements never reduce the fundraising aggregate.
	assert.Equal(t, int64(80_000), store.campaigns[1].CurrentAmount)
}

func TestRecordRefund(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 100_000)
	svc, _ := newTestLedger(store)

	entry, err := svc.RecordRefund(1, 5_000, "", "donor requested refund")
	require.NoError(t, err)
	assert.Equal(t, domain.TxTypeExpense, entry.Type)
	assert.Equal(t, domain.TxCategoryRefund, entry.Category)
}

func TestRecordDonationRefund(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 1_000_000)
	seedDonation(store, 10, 1, 50_000)
	svc, _ := newTestLedger(store)

	_, err := svc.CompleteDonation(10)
	require.NoError(t, err)

	entry, err := svc.RecordDonationRefund(10, "chargeback")
	require.NoError(t, err)
	assert.Equal(t, domain.TxTypeExpense, entry.Type)
	assert.Equal(t, domain.TxCategoryRefund, entry.Category)
	assert.Equal(t, int64(50_000), entry.Amount, "refund is for the recorded donation amount")
	require.NotNil(t, entry.Origin())
	assert.Equal(t, domain.OriginRefund, entry.Origin().Kind)
	assert.Equal(t, uint(10), entry.Origin().ID)

	// Refunding the same donation again reuses the existing entry.
	again, err := svc.RecordDonationRefund(10, "chargeback")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, again.ID)
	assert.Len(t, store.transactions, 2, "one donation entry, one refund entry")

	// Refunds never claw back the fundraising aggregate.
	assert.Equal(t, int64(50_000), store.campaigns[1].CurrentAmount)
}

func TestRecordDonationRefundRequiresCompletedDonation(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 100_000)
	seedDonation(store, 10, 1, 10_000)
	svc, _ := newTestLedger(store)

	_, err := svc.RecordDonationRefund(10, "")
	assert.ErrorIs(t, err, ErrDonationNotCompleted)
	assert.Empty(t, store.transactions)

	_, err = svc.RecordDonationRefund(99, "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecordExpenseValidation(t *testing.T) {
	store := newFakeLedgerStore()
	seedCampaign(store, 1, 100_000)
	svc, _ := newTestLedger(store)

	_, err := svc.RecordDisbursement(1, 0, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.RecordDisbursement(1, -500, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.RecordDisbursement(42, 1_000, "", "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func ptrUint(v uint) *uint { return &v }
