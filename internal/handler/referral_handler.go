package handler

import (
	"net/http"

	"redlink/config"
	"redlink/internal/middleware"
	"redlink/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	svc *service.ReferralService
	cfg *config.Config
}

func NewReferralHandler(svc *service.ReferralService, cfg *config.Config) *ReferralHandler {
	return &ReferralHandler{svc: svc, cfg: cfg}
}

// Stats returns the caller's referral totals plus their share link.
func (h *ReferralHandler) Stats(c *gin.Context) {
	username := middleware.GetUsername(c)
	stats, err := h.svc.Stats(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load referral stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":      stats,
		"share_link": h.cfg.Server.BaseURL + "/?ref=" + username,
	})
}

func (h *ReferralHandler) Earnings(c *gin.Context) {
	earnings, err := h.svc.Earnings(middleware.GetUsername(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load earnings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"earnings": earnings})
}
