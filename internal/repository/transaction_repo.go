package repository

import (
	"danakita/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetByID(id uint) (*models.FinancialTransaction, error) {
	var t models.FinancialTransaction
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns ledger entries with optional type/category/campaign filters.
func (r *TransactionRepository) List(txType, category string, campaignID *uint, page, limit int) ([]models.FinancialTransaction, int64, error) {
	q := r.db.Model(&models.FinancialTransaction{})
	if txType != "" {
		q = q.Where("type = ?", txType)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if campaignID != nil {
		q = q.Where("campaign_id = ?", *campaignID)
	}
	var total int64
	q.Count(&total)
	var list []models.FinancialTransaction
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}
