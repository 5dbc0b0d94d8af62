package repository

import (
	"danakita/internal/domain"
	"danakita/internal/models"

	"gorm.io/gorm"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(c *models.Campaign) error {
	return r.db.Create(c).Error
}

func (r *CampaignRepository) GetByID(id uint) (*models.Campaign, error) {
	var c models.Campaign
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns campaigns with optional status filter and pagination.
func (r *CampaignRepository) List(status string, page, limit int) ([]models.Campaign, int64, error) {
	q := r.db.Model(&models.Campaign{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.Campaign
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// Activate moves a pending campaign to active so it can accept donations.
func (r *CampaignRepository) Activate(id uint) error {
	res := r.db.Model(&models.Campaign{}).
		Where("id = ? AND status = ?", id, domain.CampaignStatusPending).
		Update("status", domain.CampaignStatusActive)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
