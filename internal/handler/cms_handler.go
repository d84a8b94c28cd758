package handler

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"time"

	"redlink/config"

	"github.com/gin-gonic/gin"
)

// CMSHandler proxies GraphQL queries to the headless CMS so the API token
// never reaches the browser.
type CMSHandler struct {
	cfg    *config.WebinyConfig
	client *http.Client
}

func NewCMSHandler(cfg *config.WebinyConfig) *CMSHandler {
	return &CMSHandler{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (h *CMSHandler) Query(c *gin.Context) {
	if h.cfg.GraphQLURL == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "CMS not configured"})
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.cfg.GraphQLURL, bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "proxy failed"})
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if h.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+h.cfg.APIToken)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		log.Printf("[cms] upstream query failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "CMS unavailable"})
		return
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "CMS unavailable"})
		return
	}
	c.Data(resp.StatusCode, "application/json", out)
}
