package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"redlink/config"
	"redlink/internal/service"
	"redlink/pkg/payment"

	"github.com/gin-gonic/gin"
)

type TripayWebhookHandler struct {
	cfg *config.TripayConfig
	svc *service.PurchaseService
}

func NewTripayWebhookHandler(cfg *config.TripayConfig, svc *service.PurchaseService) *TripayWebhookHandler {
	return &TripayWebhookHandler{cfg: cfg, svc: svc}
}

type tripayCallback struct {
	Reference   string `json:"reference"`
	MerchantRef string `json:"merchant_ref"`
	Status      string `json:"status"` // PAID | EXPIRED | FAILED | REFUND
	TotalAmount int64  `json:"total_amount"`
}

// Callback handles the Tripay payment notification. The signature over the
// raw body is verified before anything is parsed. Unknown orders are
// acknowledged with 200 so the gateway stops retrying them.
func (h *TripayWebhookHandler) Callback(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	sig := c.GetHeader("X-Callback-Signature")
	if !payment.VerifyHMAC(body, sig, h.cfg.PrivateKey) {
		log.Printf("[tripay] callback rejected: bad signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}
	var cb tripayCallback
	if err := json.Unmarshal(body, &cb); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	orderID := cb.MerchantRef
	if orderID == "" {
		orderID = cb.Reference
	}
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing order reference"})
		return
	}

	succeeded := cb.Status == "PAID"
	if err := h.svc.HandlePaymentResult(c.Request.Context(), orderID, succeeded); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			log.Printf("[tripay] callback for unknown order %s, acknowledging", orderID)
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
		log.Printf("[tripay] settling order %s failed: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
