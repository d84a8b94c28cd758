package service

import (
	"testing"

	"redlink/internal/domain"
	"redlink/internal/models"
)

func TestResolveCommissionRate(t *testing.T) {
	cases := []struct {
		name        string
		assignment  *models.ProductAffiliate
		creatorPlan string
		want        float64
	}{
		{"free creator default", nil, domain.PlanFree, 0.30},
		{"pro creator default", nil, domain.PlanPro, 0.50},
		{"override wins over free", &models.ProductAffiliate{CommissionRate: 0.15}, domain.PlanFree, 0.15},
		{"override wins over pro", &models.ProductAffiliate{CommissionRate: 0.40}, domain.PlanPro, 0.40},
		{"zero-rate assignment falls back to plan", &models.ProductAffiliate{CommissionRate: 0}, domain.PlanPro, 0.50},
		{"unknown plan treated as free", nil, "", 0.30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveCommissionRate(tc.assignment, tc.creatorPlan)
			if got != tc.want {
				t.Fatalf("ResolveCommissionRate() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestComputeCommission(t *testing.T) {
	cases := []struct {
		name  string
		price int64
		rate  float64
		want  int64
	}{
		{"30% of 25000", 25000, 0.30, 7500},
		{"50% of 90000", 90000, 0.50, 45000},
		{"50% of 900000", 900000, 0.50, 450000},
		{"rounds up", 99, 0.30, 30},
		{"rounds half away from zero", 15, 0.30, 5},
		{"zero price", 0, 0.50, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeCommission(tc.price, tc.rate)
			if got != tc.want {
				t.Fatalf("ComputeCommission(%d, %v) = %d, want %d", tc.price, tc.rate, got, tc.want)
			}
		})
	}
}
