package handler

import (
	"errors"
	"net/http"

	"danakita/config"
	"danakita/internal/domain"
	"danakita/internal/models"
	"danakita/internal/repository"
	"danakita/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonationHandler struct {
	cfg          *config.Config
	campaignRepo *repository.CampaignRepository
	donationRepo *repository.DonationRepository
	ledger       *service.LedgerService
}

func NewDonationHandler(cfg *config.Config, campaignRepo *repository.CampaignRepository, donationRepo *repository.DonationRepository, ledger *service.LedgerService) *DonationHandler {
	return &DonationHandler{cfg: cfg, campaignRepo: campaignRepo, donationRepo: donationRepo, ledger: ledger}
}

// Create registers a pending donation. With the stubbed payment gateway
// (PAYMENT_AUTO_CONFIRM) the donation completes immediately; otherwise the
// payment webhook confirms it later.
func (h *DonationHandler) Create(c *gin.Context) {
	var req struct {
		CampaignID    uint   `json:"campaign_id" binding:"required"`
		Amount        int64  `json:"amount" binding:"required"`
		PaymentMethod string `json:"payment_method"`
		Message       string `json:"message"`
		IsAnonymous   bool   `json:"is_anonymous"`
		UserID        *uint  `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "campaign_id and amount required"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "amount must be positive"})
		return
	}
	camp, err := h.campaignRepo.GetByID(req.CampaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load campaign"})
		return
	}
	if camp.Status != domain.CampaignStatusActive {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "campaign is not accepting donations"})
		return
	}
	method := req.PaymentMethod
	if method == "" {
		method = "manual"
	}
	d := &models.Donation{
		CampaignID:    req.CampaignID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		PaymentMethod: method,
		Status:        domain.DonationStatusPending,
		Message:       req.Message,
		IsAnonymous:   req.IsAnonymous,
		Reference:     uuid.NewString(),
	}
	if d.IsAnonymous {
		d.UserID = nil
	}
	if err := h.donationRepo.Create(d); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create donation"})
		return
	}
	if h.cfg.Payment.AutoConfirm {
		if _, err := h.ledger.CompleteDonation(d.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to confirm donation"})
			return
		}
		if fresh, err := h.donationRepo.GetByID(d.ID); err == nil {
			d = fresh
		}
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": d})
}

func (h *DonationHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid donation id"})
		return
	}
	d, err := h.donationRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "donation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load donation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
}
