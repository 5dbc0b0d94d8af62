package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"danakita/config"
	"danakita/internal/domain"
	"danakita/internal/repository"
	"danakita/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentWebhookHandler receives donation confirmations from the external
// payment gateway. Payload: {"reference": "...", "status": "completed"} with
// an optional X-Webhook-Signature (HMAC-SHA256 of the body). Confirmations
// are idempotent: redelivery of an already-completed donation is a 200 no-op.
type PaymentWebhookHandler struct {
	cfg          *config.Config
	donationRepo *repository.DonationRepository
	ledger       *service.LedgerService
}

func NewPaymentWebhookHandler(cfg *config.Config, donationRepo *repository.DonationRepository, ledger *service.LedgerService) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{cfg: cfg, donationRepo: donationRepo, ledger: ledger}
}

func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body"})
		return
	}
	if h.cfg.Payment.WebhookSecret != "" {
		if !h.verifySignature(body, c.GetHeader("X-Webhook-Signature")) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid signature"})
			return
		}
	}
	var payload struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}
	if payload.Reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "reference required"})
		return
	}
	d, err := h.donationRepo.GetByReference(payload.Reference)
	if err != nil || d == nil {
		// Unknown references are acknowledged so the gateway stops retrying.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	switch strings.ToLower(payload.Status) {
	case domain.DonationStatusCompleted:
		if _, err := h.ledger.CompleteDonation(d.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "confirmation failed"})
			return
		}
	case domain.DonationStatusFailed:
		if d.Status == domain.DonationStatusPending {
			d.Status = domain.DonationStatusFailed
			_ = h.donationRepo.Update(d)
		}
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *PaymentWebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.cfg.Payment.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
