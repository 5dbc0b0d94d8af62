package handler

import (
	"errors"
	"net/http"
	"strconv"

	"danakita/internal/domain"
	"danakita/internal/models"
	"danakita/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CampaignHandler struct {
	campaignRepo *repository.CampaignRepository
	donationRepo *repository.DonationRepository
}

func NewCampaignHandler(campaignRepo *repository.CampaignRepository, donationRepo *repository.DonationRepository) *CampaignHandler {
	return &CampaignHandler{campaignRepo: campaignRepo, donationRepo: donationRepo}
}

func (h *CampaignHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	status := c.Query("status")
	list, total, err := h.campaignRepo.List(status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list campaigns"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "total": total, "page": page})
}

func (h *CampaignHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid campaign id"})
		return
	}
	camp, err := h.campaignRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load campaign"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": camp})
}

// ListDonations returns a campaign's donation history, newest first.
func (h *CampaignHandler) ListDonations(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid campaign id"})
		return
	}
	page, limit := pagination(c)
	list, total, err := h.donationRepo.ListByCampaign(id, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list donations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "total": total, "page": page})
}

// Create registers a new campaign in pending status (admin only).
func (h *CampaignHandler) Create(c *gin.Context) {
	var req struct {
		Title        string `json:"title" binding:"required"`
		Description  string `json:"description"`
		TargetAmount int64  `json:"target_amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "title and target_amount required"})
		return
	}
	if req.TargetAmount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "target_amount must be positive"})
		return
	}
	camp := &models.Campaign{
		Title:        req.Title,
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
		Status:       domain.CampaignStatusPending,
	}
	if err := h.campaignRepo.Create(camp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create campaign"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": camp})
}

// Activate opens a pending campaign for donations (admin only).
func (h *CampaignHandler) Activate(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid campaign id"})
		return
	}
	if err := h.campaignRepo.Activate(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no pending campaign with this id"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to activate campaign"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	return uint(id), err
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
