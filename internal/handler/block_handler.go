package handler

import (
	"errors"
	"net/http"
	"strconv"

	"redlink/internal/domain"
	"redlink/internal/middleware"
	"redlink/internal/models"
	"redlink/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BlockHandler struct {
	blocks *repository.BlockRepository
}

func NewBlockHandler(blocks *repository.BlockRepository) *BlockHandler {
	return &BlockHandler{blocks: blocks}
}

type CreateBlockRequest struct {
	BlockType   string `json:"block_type" binding:"required,oneof=link product"`
	Title       string `json:"title" binding:"required,max=255"`
	URL         string `json:"url" binding:"omitempty,url"`
	Price       int64  `json:"price" binding:"omitempty,min=0"`
	Description string `json:"description" binding:"omitempty,max=1024"`
	ImageURL    string `json:"image_url"`
	OrderIndex  int    `json:"order_index"`
}

func (h *BlockHandler) Create(c *gin.Context) {
	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BlockType == domain.BlockTypeProduct && req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product blocks need a positive price"})
		return
	}
	b := &models.Block{
		UserID:      middleware.GetUserID(c),
		Username:    middleware.GetUsername(c),
		BlockType:   req.BlockType,
		Title:       req.Title,
		URL:         req.URL,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		OrderIndex:  req.OrderIndex,
	}
	if err := h.blocks.Create(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create block"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"block": b})
}

func (h *BlockHandler) List(c *gin.Context) {
	list, err := h.blocks.ListByUsername(middleware.GetUsername(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list blocks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocks": list})
}

type UpdateBlockRequest struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Price       *int64  `json:"price"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	OrderIndex  *int    `json:"order_index"`
}

func (h *BlockHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid block id"})
		return
	}
	b, err := h.blocks.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "block not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load block"})
		return
	}
	if b.UserID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your block"})
		return
	}
	var req UpdateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.URL != nil {
		b.URL = *req.URL
	}
	if req.Price != nil {
		if b.IsProduct() && *req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product blocks need a positive price"})
			return
		}
		b.Price = *req.Price
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.ImageURL != nil {
		b.ImageURL = *req.ImageURL
	}
	if req.OrderIndex != nil {
		b.OrderIndex = *req.OrderIndex
	}
	if err := h.blocks.Update(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"block": b})
}

func (h *BlockHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid block id"})
		return
	}
	if err := h.blocks.Delete(uint(id), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "block not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type ReorderRequest struct {
	// block id -> new order index
	Order map[string]int `json:"order" binding:"required"`
}

// Reorder applies a new order_index to a batch of the user's blocks.
func (h *BlockHandler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	for idStr, idx := range req.Order {
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			continue
		}
		b, err := h.blocks.GetByID(uint(id))
		if err != nil || b.UserID != userID {
			continue
		}
		b.OrderIndex = idx
		if err := h.blocks.Update(b); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "reorder failed"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "reordered"})
}
