package service

import (
	"math"

	"redlink/internal/domain"
	"redlink/internal/models"
)

// ResolveCommissionRate returns the fraction of a sale credited to an
// affiliate: the explicit per-product assignment wins, otherwise the
// creator's plan sets the default (30% Free, 50% Pro).
func ResolveCommissionRate(assignment *models.ProductAffiliate, creatorPlan string) float64 {
	if assignment != nil && assignment.CommissionRate > 0 {
		return assignment.CommissionRate
	}
	if creatorPlan == domain.PlanPro {
		return domain.CommissionRatePro
	}
	return domain.CommissionRateFree
}

// ComputeCommission rounds rate*price to whole rupiah.
func ComputeCommission(price int64, rate float64) int64 {
	return int64(math.Round(float64(price) * rate))
}
