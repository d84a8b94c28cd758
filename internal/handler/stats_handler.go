package handler

import (
	"net/http"

	"redlink/internal/middleware"
	"redlink/internal/repository"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	balances  *repository.BalanceRepository
	purchases *repository.PurchaseRepository
	visits    *repository.VisitRepository
}

func NewStatsHandler(balances *repository.BalanceRepository, purchases *repository.PurchaseRepository, visits *repository.VisitRepository) *StatsHandler {
	return &StatsHandler{balances: balances, purchases: purchases, visits: visits}
}

// Dashboard aggregates the numbers the home screen shows: balance, sales
// total, page views, and the last two weeks of daily visits.
func (h *StatsHandler) Dashboard(c *gin.Context) {
	username := middleware.GetUsername(c)

	balance, err := h.balances.GetOrCreate(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load balance"})
		return
	}
	salesTotal, err := h.purchases.PaidTotal(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sum sales"})
		return
	}
	visitCount, err := h.visits.CountByUsername(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count visits"})
		return
	}
	daily, err := h.visits.CountByDay(username, 14)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load visit history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":      balance.CurrentBalance,
		"sales_total":  salesTotal,
		"visit_count":  visitCount,
		"daily_visits": daily,
	})
}
