package models

import (
	"time"

	"gorm.io/gorm"
)

// Purchase is one checkout of a digital product or a Pro-plan upgrade.
// Lifecycle: created pending, moved to paid exactly once by the payment
// webhook. AffiliateRef carries the ?ref= tag seen at checkout so the
// webhook can credit the commission without re-reading the request.
type Purchase struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	OrderID         string         `gorm:"uniqueIndex;size:128;not null" json:"order_id"`
	Kind            string         `gorm:"size:20;not null;default:'product';index" json:"kind"` // product | pro_upgrade
	BuyerUsername   string         `gorm:"size:64;index" json:"buyer_username"`
	BuyerPhone      string         `gorm:"size:32" json:"buyer_phone"`
	BuyerEmail      string         `gorm:"size:255" json:"buyer_email"`
	CreatorUsername string         `gorm:"size:64;index" json:"creator_username"`
	ProductID       uint           `gorm:"index" json:"product_id"`
	ProductTitle    string         `gorm:"size:255" json:"product_title"`
	ProductPrice    int64          `gorm:"not null" json:"product_price"`
	AffiliateRef    string         `gorm:"size:64" json:"affiliate_ref"`
	PaymentStatus   string         `gorm:"size:10;not null;default:'pending';index" json:"payment_status"` // pending | paid | failed
	WASent          bool           `gorm:"default:false" json:"wa_sent"`
	PaidAt          *time.Time     `json:"paid_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Purchase) TableName() string { return "digital_purchases" }
