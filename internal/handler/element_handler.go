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

type ElementHandler struct {
	elements *repository.PageElementRepository
}

func NewElementHandler(elements *repository.PageElementRepository) *ElementHandler {
	return &ElementHandler{elements: elements}
}

type CreateElementRequest struct {
	Type       string `json:"type" binding:"required,oneof=heading text button image"`
	Content    string `json:"content" binding:"required,max=2048"`
	Style      string `json:"style"`
	OrderIndex int    `json:"order_index"`
}

func (h *ElementHandler) Create(c *gin.Context) {
	var req CreateElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e := &models.PageElement{
		Username:   middleware.GetUsername(c),
		Type:       req.Type,
		Content:    req.Content,
		Style:      req.Style,
		OrderIndex: req.OrderIndex,
	}
	if err := h.elements.Create(e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create element"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"element": e})
}

func (h *ElementHandler) List(c *gin.Context) {
	list, err := h.elements.ListByUsername(middleware.GetUsername(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list elements"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"elements": list})
}

type UpdateElementRequest struct {
	Content    *string `json:"content"`
	Style      *string `json:"style"`
	OrderIndex *int    `json:"order_index"`
}

func (h *ElementHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid element id"})
		return
	}
	username := middleware.GetUsername(c)
	list, err := h.elements.ListByUsername(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load element"})
		return
	}
	var e *models.PageElement
	for i := range list {
		if list[i].ID == uint(id) {
			e = &list[i]
			break
		}
	}
	if e == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "element not found"})
		return
	}
	var req UpdateElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Content != nil {
		e.Content = *req.Content
	}
	if req.Style != nil {
		e.Style = *req.Style
	}
	if req.OrderIndex != nil {
		e.OrderIndex = *req.OrderIndex
	}
	if err := h.elements.Update(e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"element": e})
}

func (h *ElementHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid element id"})
		return
	}
	if err := h.elements.Delete(uint(id), middleware.GetUsername(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "element not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
