package handler

import (
	"errors"
	"log"
	"net/http"
	"sort"

	"redlink/internal/middleware"
	"redlink/internal/models"
	"redlink/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type visitPublisher interface {
	PublishToUser(username string, event interface{})
}

type ProfileHandler struct {
	users       *repository.UserRepository
	blocks      *repository.BlockRepository
	elements    *repository.PageElementRepository
	appearances *repository.AppearanceRepository
	visits      *repository.VisitRepository
	events      visitPublisher
}

func NewProfileHandler(
	users *repository.UserRepository,
	blocks *repository.BlockRepository,
	elements *repository.PageElementRepository,
	appearances *repository.AppearanceRepository,
	visits *repository.VisitRepository,
	events visitPublisher,
) *ProfileHandler {
	return &ProfileHandler{users: users, blocks: blocks, elements: elements, appearances: appearances, visits: visits, events: events}
}

// pageItem is one renderable item on the public page: either a block or a
// builder element, merged into a single order_index sequence.
type pageItem struct {
	Kind       string      `json:"kind"` // block | element
	OrderIndex int         `json:"order_index"`
	Block      interface{} `json:"block,omitempty"`
	Element    interface{} `json:"element,omitempty"`
}

// PublicPage returns everything the public profile page needs in one
// response. The visit is recorded in the background so a slow insert never
// delays the page.
func (h *ProfileHandler) PublicPage(c *gin.Context) {
	username := c.Param("username")
	u, err := h.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}

	blocks, err := h.blocks.ListByUsername(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}
	elements, err := h.elements.ListByUsername(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}
	appearance, err := h.appearances.GetByUsername(username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}

	items := make([]pageItem, 0, len(blocks)+len(elements))
	for i := range blocks {
		items = append(items, pageItem{Kind: "block", OrderIndex: blocks[i].OrderIndex, Block: blocks[i]})
	}
	for i := range elements {
		items = append(items, pageItem{Kind: "element", OrderIndex: elements[i].OrderIndex, Element: elements[i]})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].OrderIndex < items[j].OrderIndex })

	visit := &models.Visit{
		Username:  username,
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}
	go func() {
		if err := h.visits.Create(visit); err != nil {
			log.Printf("[page] visit insert for %s failed: %v", username, err)
			return
		}
		if h.events != nil {
			h.events.PublishToUser(username, map[string]interface{}{"type": "page_visit"})
		}
	}()

	c.JSON(http.StatusOK, gin.H{
		"profile": gin.H{
			"username":     u.Username,
			"display_name": u.DisplayName,
			"bio":          u.Bio,
			"avatar_url":   u.AvatarURL,
			"plan":         u.Plan,
		},
		"appearance": appearance,
		"items":      items,
	})
}

func (h *ProfileHandler) Me(c *gin.Context) {
	u, err := h.users.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

type UpdateMeRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	Phone       *string `json:"phone"`
	AvatarURL   *string `json:"avatar_url"`
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if req.DisplayName != nil {
		u.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	if err := h.users.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
