package models

import (
	"time"

	"gorm.io/gorm"
)

// UserBalance is the running balance shown on the dashboard, credited from
// sales and referral payouts.
type UserBalance struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	CurrentBalance int64          `gorm:"not null;default:0" json:"current_balance"`
	LastUpdated    time.Time      `json:"last_updated"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserBalance) TableName() string { return "user_balances" }
