package handler

import (
	"errors"
	"net/http"
	"strconv"

	"danakita/internal/models"
	"danakita/internal/repository"
	"danakita/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminLedgerHandler covers administrator-initiated ledger operations:
// disbursements, refunds and the raw transaction listing.
type AdminLedgerHandler struct {
	ledger *service.LedgerService
	txRepo *repository.TransactionRepository
}

func NewAdminLedgerHandler(ledger *service.LedgerService, txRepo *repository.TransactionRepository) *AdminLedgerHandler {
	return &AdminLedgerHandler{ledger: ledger, txRepo: txRepo}
}

type expenseRequest struct {
	CampaignID  uint   `json:"campaign_id"`
	DonationID  *uint  `json:"donation_id"`
	Amount      int64  `json:"amount"`
	SubCategory string `json:"sub_category"`
	Description string `json:"description"`
}

func (h *AdminLedgerHandler) CreateDisbursement(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	h.recordExpense(c, req, h.ledger.RecordDisbursement)
}

// CreateRefund records a refund. With donation_id set, the refund targets
// that donation: amount and campaign come from the donation row and the
// entry carries the refund origin, so repeating the request is a no-op.
// Without it, the refund is a free-form expense against a campaign.
func (h *AdminLedgerHandler) CreateRefund(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if req.DonationID != nil {
		entry, err := h.ledger.RecordDonationRefund(*req.DonationID, req.Description)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrDonationNotCompleted):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "donation not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to record transaction"})
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": entry})
		return
	}
	h.recordExpense(c, req, h.ledger.RecordRefund)
}

func (h *AdminLedgerHandler) recordExpense(c *gin.Context, req expenseRequest, record func(uint, int64, string, string) (*models.FinancialTransaction, error)) {
	if req.CampaignID == 0 || req.Amount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "campaign_id and amount required"})
		return
	}
	entry, err := record(req.CampaignID, req.Amount, req.SubCategory, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "campaign not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to record transaction"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": entry})
}

// ListTransactions returns ledger entries with optional filters.
func (h *AdminLedgerHandler) ListTransactions(c *gin.Context) {
	page, limit := pagination(c)
	var campaignID *uint
	if v := c.Query("campaign_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid campaign_id"})
			return
		}
		cid := uint(id)
		campaignID = &cid
	}
	list, total, err := h.txRepo.List(c.Query("type"), c.Query("category"), campaignID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "total": total, "page": page})
}
