package handler

import (
	"errors"
	"log"
	"net/http"

	"redlink/internal/middleware"
	"redlink/internal/service"

	"github.com/gin-gonic/gin"
)

type BroadcastHandler struct {
	svc *service.BroadcastService
}

func NewBroadcastHandler(svc *service.BroadcastService) *BroadcastHandler {
	return &BroadcastHandler{svc: svc}
}

type WhatsAppBroadcastRequest struct {
	Message string `json:"message" binding:"required,max=4096"`
}

// WhatsApp messages every buyer of the creator's products. Pro only.
func (h *BroadcastHandler) WhatsApp(c *gin.Context) {
	var req WhatsAppBroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	creator := middleware.GetUsername(c)
	res, err := h.svc.BroadcastWhatsApp(c.Request.Context(), creator, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrNoRecipients) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[broadcast] wa broadcast for %s failed: %v", creator, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "broadcast failed"})
		return
	}
	c.JSON(http.StatusOK, res)
}

type EmailBroadcastRequest struct {
	Subject string `json:"subject" binding:"required,max=255"`
	HTML    string `json:"html" binding:"required"`
}

func (h *BroadcastHandler) Email(c *gin.Context) {
	var req EmailBroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	creator := middleware.GetUsername(c)
	res, err := h.svc.BroadcastEmail(c.Request.Context(), creator, req.Subject, req.HTML)
	if err != nil {
		if errors.Is(err, service.ErrNoRecipients) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[broadcast] email broadcast for %s failed: %v", creator, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "broadcast failed"})
		return
	}
	c.JSON(http.StatusOK, res)
}
