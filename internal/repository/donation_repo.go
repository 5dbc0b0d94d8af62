package repository

import (
	"danakita/internal/models"

	"gorm.io/gorm"
)

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(d *models.Donation) error {
	return r.db.Create(d).Error
}

func (r *DonationRepository) GetByID(id uint) (*models.Donation, error) {
	var d models.Donation
	if err := r.db.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DonationRepository) GetByReference(ref string) (*models.Donation, error) {
	var d models.Donation
	if err := r.db.Where("reference = ?", ref).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByCampaign returns a campaign's donations, newest first.
func (r *DonationRepository) ListByCampaign(campaignID uint, page, limit int) ([]models.Donation, int64, error) {
	q := r.db.Model(&models.Donation{}).Where("campaign_id = ?", campaignID)
	var total int64
	q.Count(&total)
	var list []models.Donation
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *DonationRepository) Update(d *models.Donation) error {
	return r.db.Save(d).Error
}
