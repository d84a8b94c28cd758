package handler

import (
	"errors"
	"net/http"
	"strconv"

	"redlink/internal/middleware"
	"redlink/internal/models"
	"redlink/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AffiliateHandler struct {
	affiliates *repository.AffiliateRepository
	blocks     *repository.BlockRepository
	users      *repository.UserRepository
}

func NewAffiliateHandler(affiliates *repository.AffiliateRepository, blocks *repository.BlockRepository, users *repository.UserRepository) *AffiliateHandler {
	return &AffiliateHandler{affiliates: affiliates, blocks: blocks, users: users}
}

type AssignAffiliateRequest struct {
	ProductID         uint    `json:"product_id" binding:"required"`
	AffiliateUsername string  `json:"affiliate_username" binding:"required"`
	CommissionRate    float64 `json:"commission_rate" binding:"omitempty,gt=0,lte=1"` // fraction; 0 = plan default
}

// Assign names a promoting user for one of the creator's products.
func (h *AffiliateHandler) Assign(c *gin.Context) {
	var req AssignAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	creator := middleware.GetUsername(c)
	block, err := h.blocks.GetByID(req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}
	if block.Username != creator || !block.IsProduct() {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your product"})
		return
	}
	if req.AffiliateUsername == creator {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot be your own affiliate"})
		return
	}
	if _, err := h.users.GetByUsername(req.AffiliateUsername); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "affiliate user not found"})
		return
	}
	a := &models.ProductAffiliate{
		ProductID:         req.ProductID,
		CreatorUsername:   creator,
		AffiliateUsername: req.AffiliateUsername,
		CommissionRate:    req.CommissionRate,
	}
	if err := h.affiliates.CreateAssignment(a); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "affiliate already assigned to this product"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assignment failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assignment": a})
}

// ListAssignments lists the creator's assignments, optionally filtered by
// ?product_id=.
func (h *AffiliateHandler) ListAssignments(c *gin.Context) {
	var productID uint
	if p, err := strconv.ParseUint(c.Query("product_id"), 10, 32); err == nil {
		productID = uint(p)
	}
	list, err := h.affiliates.ListAssignments(middleware.GetUsername(c), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assignments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": list})
}

func (h *AffiliateHandler) DeleteAssignment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}
	if err := h.affiliates.DeleteAssignment(uint(id), middleware.GetUsername(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Commissions lists the caller's earned commissions with running totals.
func (h *AffiliateHandler) Commissions(c *gin.Context) {
	username := middleware.GetUsername(c)
	limit, offset := pagination(c)
	list, err := h.affiliates.ListCommissions(username, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list commissions"})
		return
	}
	totalSales, totalCommission, err := h.affiliates.CommissionTotals(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sum commissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"commissions":      list,
		"total_sales":      totalSales,
		"total_commission": totalCommission,
	})
}
