package repository

import (
	"errors"

	"danakita/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerTx is the set of row operations available inside one atomic ledger
// update. The *ForUpdate reads take row locks, so concurrent completions of
// donations to the same campaign serialize instead of losing increments.
type LedgerTx interface {
	DonationForUpdate(id uint) (*models.Donation, error)
	CampaignForUpdate(id uint) (*models.Campaign, error)
	CampaignByID(id uint) (*models.Campaign, error)
	// TransactionByOrigin returns (nil, nil) when no entry exists.
	TransactionByOrigin(relatedType string, relatedID uint, category string) (*models.FinancialTransaction, error)
	CreateTransaction(t *models.FinancialTransaction) error
	SaveDonation(d *models.Donation) error
	SaveCampaign(c *models.Campaign) error
}

// LedgerStore runs ledger updates as a single atomic unit: either the
// transaction row, the donation flip and the aggregate update all land, or
// none do.
type LedgerStore interface {
	LedgerTx
	InTransaction(fn func(tx LedgerTx) error) error
}

type GormLedgerStore struct {
	db *gorm.DB
}

func NewLedgerStore(db *gorm.DB) *GormLedgerStore {
	return &GormLedgerStore{db: db}
}

func (s *GormLedgerStore) InTransaction(fn func(tx LedgerTx) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormLedgerStore{db: tx})
	})
}

func (s *GormLedgerStore) DonationForUpdate(id uint) (*models.Donation, error) {
	var d models.Donation
	if err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *GormLedgerStore) CampaignForUpdate(id uint) (*models.Campaign, error) {
	var c models.Campaign
	if err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormLedgerStore) CampaignByID(id uint) (*models.Campaign, error) {
	var c models.Campaign
	if err := s.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormLedgerStore) TransactionByOrigin(relatedType string, relatedID uint, category string) (*models.FinancialTransaction, error) {
	var t models.FinancialTransaction
	err := s.db.Where("related_type = ? AND related_id = ? AND category = ?", relatedType, relatedID, category).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormLedgerStore) CreateTransaction(t *models.FinancialTransaction) error {
	return s.db.Create(t).Error
}

func (s *GormLedgerStore) SaveDonation(d *models.Donation) error {
	return s.db.Save(d).Error
}

func (s *GormLedgerStore) SaveCampaign(c *models.Campaign) error {
	return s.db.Save(c).Error
}
