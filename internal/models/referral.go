package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralTracking records who referred whom. One row per referred user;
// conversion_status only ever moves converted_free -> converted_pro.
type ReferralTracking struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ReferrerUsername string         `gorm:"size:64;not null;index" json:"referrer_username"`
	ReferredUsername string         `gorm:"uniqueIndex;size:64;not null" json:"referred_username"`
	ConversionStatus string         `gorm:"size:20;not null;default:'converted_free'" json:"conversion_status"`
	ConvertedAt      time.Time      `json:"converted_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ReferralTracking) TableName() string { return "referral_tracking" }

// ReferralEarning is one ledger entry crediting a referrer for a referred
// user's signup or Pro upgrade. Append-only.
type ReferralEarning struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ReferrerUsername  string         `gorm:"size:64;not null;index" json:"referrer_username"`
	ReferredUsername  string         `gorm:"size:64;not null;index" json:"referred_username"`
	ReferredPlan      string         `gorm:"size:10;not null" json:"referred_plan"` // Free | Pro
	EarningAmount     int64          `gorm:"not null" json:"earning_amount"`
	EarningPercentage int            `gorm:"not null" json:"earning_percentage"` // 30 | 50
	Status            string         `gorm:"size:10;not null;default:'pending'" json:"status"`
	Notes             string         `gorm:"size:255" json:"notes"`
	CreatedAt         time.Time      `json:"created_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ReferralEarning) TableName() string { return "referral_earnings" }
