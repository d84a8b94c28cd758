package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"redlink/internal/middleware"
	"redlink/internal/repository"
	"redlink/internal/service"
	"redlink/pkg/qris"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	svc       *service.PurchaseService
	purchases *repository.PurchaseRepository
}

func NewPurchaseHandler(svc *service.PurchaseService, purchases *repository.PurchaseRepository) *PurchaseHandler {
	return &PurchaseHandler{svc: svc, purchases: purchases}
}

type BuyRequest struct {
	BuyerName  string `json:"buyer_name" binding:"required,max=64"`
	BuyerEmail string `json:"buyer_email" binding:"omitempty,email"`
	BuyerPhone string `json:"buyer_phone" binding:"required,min=8,max=20"`
}

// Buy opens a QRIS checkout for a product block on a public page. The
// ?ref= query param carries the affiliate tag from the shared link.
func (h *PurchaseHandler) Buy(c *gin.Context) {
	username := c.Param("username")
	blockID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid block id"})
		return
	}
	var req BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	buyer := service.BuyerInfo{
		Username: req.BuyerName,
		Email:    req.BuyerEmail,
		Phone:    req.BuyerPhone,
	}
	res, err := h.svc.InitiateProductCheckout(c.Request.Context(), username, uint(blockID), buyer, c.Query("ref"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotPurchasable):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("[purchase] checkout for block %d failed: %v", blockID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "checkout unavailable"})
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

// Status lets the buyer poll whether their order went through.
func (h *PurchaseHandler) Status(c *gin.Context) {
	p, err := h.purchases.GetByOrderID(c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id":       p.OrderID,
		"payment_status": p.PaymentStatus,
		"product_title":  p.ProductTitle,
		"amount":         p.ProductPrice,
	})
}

// QR renders a QRIS payload as a PNG so the checkout page can show a
// scannable code even when the gateway only returns the raw payload.
func (h *PurchaseHandler) QR(c *gin.Context) {
	payload := c.Query("payload")
	if payload == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing payload"})
		return
	}
	size := 256
	if s, err := strconv.Atoi(c.DefaultQuery("size", "256")); err == nil && s >= 64 && s <= 1024 {
		size = s
	}
	png, err := qris.RenderPNG(payload, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render QR"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *PurchaseHandler) MyPurchases(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.purchases.ListByBuyer(middleware.GetUsername(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list purchases"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": list})
}

// Orders lists sales of the creator's own products.
func (h *PurchaseHandler) Orders(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.purchases.ListByCreator(middleware.GetUsername(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	if o, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && o >= 0 {
		offset = o
	}
	return
}
