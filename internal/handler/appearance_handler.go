package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"redlink/internal/middleware"
	"redlink/internal/models"
	"redlink/internal/repository"
	"redlink/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxUploadSize = 10 << 20 // 10 MiB

type AppearanceHandler struct {
	appearances *repository.AppearanceRepository
	uploads     cloudinary.Client
}

func NewAppearanceHandler(appearances *repository.AppearanceRepository, uploads cloudinary.Client) *AppearanceHandler {
	return &AppearanceHandler{appearances: appearances, uploads: uploads}
}

func (h *AppearanceHandler) Get(c *gin.Context) {
	a, err := h.appearances.GetByUsername(middleware.GetUsername(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"appearance": nil})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load appearance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appearance": a})
}

type UpdateAppearanceRequest struct {
	ThemeColor      *string `json:"theme_color"`
	BackgroundImage *string `json:"background_image"`
	ProfileImage    *string `json:"profile_image"`
	About           *string `json:"about"`
}

func (h *AppearanceHandler) Update(c *gin.Context) {
	var req UpdateAppearanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	username := middleware.GetUsername(c)
	a, err := h.appearances.GetByUsername(username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load appearance"})
			return
		}
		a = &models.AppearanceSettings{Username: username}
	}
	if req.ThemeColor != nil {
		a.ThemeColor = *req.ThemeColor
	}
	if req.BackgroundImage != nil {
		a.BackgroundImage = *req.BackgroundImage
	}
	if req.ProfileImage != nil {
		a.ProfileImage = *req.ProfileImage
	}
	if req.About != nil {
		a.About = *req.About
	}
	if err := h.appearances.Upsert(a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appearance": a})
}

// UploadImage accepts a multipart image and stores it on Cloudinary. The
// "kind" form field picks the folder: avatar, background, or product.
func (h *AppearanceHandler) UploadImage(c *gin.Context) {
	if h.uploads == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large (max 10MB)"})
		return
	}
	kind := c.DefaultPostForm("kind", "avatar")
	switch kind {
	case "avatar", "background", "product":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be avatar, background, or product"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}
	defer f.Close()

	username := middleware.GetUsername(c)
	publicID := fmt.Sprintf("%s-%d", username, time.Now().UnixNano())
	url, thumbURL, err := h.uploads.UploadImage(c.Request.Context(), f, "redlink/"+kind, publicID)
	if err != nil {
		log.Printf("[upload] cloudinary upload for %s failed: %v", username, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "thumbnail_url": thumbURL})
}
