package handler

import (
	"errors"
	"log"
	"net/http"

	"redlink/internal/middleware"
	"redlink/internal/repository"
	"redlink/internal/service"

	"github.com/gin-gonic/gin"
)

type UpgradeHandler struct {
	svc   *service.PurchaseService
	users *repository.UserRepository
}

func NewUpgradeHandler(svc *service.PurchaseService, users *repository.UserRepository) *UpgradeHandler {
	return &UpgradeHandler{svc: svc, users: users}
}

type UpgradeRequest struct {
	BillingCycle string `json:"billing_cycle" binding:"required,oneof=monthly yearly"`
}

// Checkout opens a QRIS checkout for the Pro plan. The plan flips only when
// the payment callback confirms.
func (h *UpgradeHandler) Checkout(c *gin.Context) {
	var req UpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if u.IsPro() {
		c.JSON(http.StatusConflict, gin.H{"error": "already on Pro"})
		return
	}
	res, err := h.svc.InitiateUpgradeCheckout(c.Request.Context(), u, req.BillingCycle)
	if err != nil {
		if errors.Is(err, service.ErrUnknownBillingCycle) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[upgrade] checkout for %s failed: %v", u.Username, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "checkout unavailable"})
		return
	}
	c.JSON(http.StatusOK, res)
}
