package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductAffiliate names a promoting user for one product and optionally
// overrides the creator's default commission rate.
type ProductAffiliate struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ProductID         uint           `gorm:"not null;index:idx_product_affiliate,unique" json:"product_id"`
	CreatorUsername   string         `gorm:"size:64;not null;index" json:"creator_username"`
	AffiliateUsername string         `gorm:"size:64;not null;index:idx_product_affiliate,unique" json:"affiliate_username"`
	CommissionRate    float64        `gorm:"default:0" json:"commission_rate"` // fraction, e.g. 0.30; 0 = use plan default
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProductAffiliate) TableName() string { return "product_affiliates" }

// AffiliateCommission is an append-only ledger entry, one per qualifying sale.
type AffiliateCommission struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	AffiliateUsername string         `gorm:"size:64;not null;index" json:"affiliate_username"`
	BuyerUsername     string         `gorm:"size:64" json:"buyer_username"`
	CreatorUsername   string         `gorm:"size:64;index" json:"creator_username"`
	ProductID         uint           `gorm:"index" json:"product_id"`
	ProductTitle      string         `gorm:"size:255" json:"product_title"`
	TotalSale         int64          `gorm:"not null" json:"total_sale"`
	Commission        int64          `gorm:"not null" json:"commission"`
	CommissionRate    float64        `json:"commission_rate"` // percent, e.g. 30
	OrderID           string         `gorm:"size:128;index" json:"order_id"`
	CreatedAt         time.Time      `json:"created_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AffiliateCommission) TableName() string { return "affiliate_commissions" }
