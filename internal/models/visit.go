package models

import (
	"time"

	"gorm.io/gorm"
)

// Visit is one public page view, recorded fire-and-forget.
type Visit struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"size:64;not null;index" json:"username"`
	UserAgent string         `gorm:"size:512" json:"user_agent"`
	Referrer  string         `gorm:"size:512" json:"referrer"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Visit) TableName() string { return "visits" }
