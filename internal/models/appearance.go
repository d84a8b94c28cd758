package models

import (
	"time"

	"gorm.io/gorm"
)

type AppearanceSettings struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Username        string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	ThemeColor      string         `gorm:"size:16;default:'#ef4444'" json:"theme_color"`
	BackgroundImage string         `gorm:"size:512" json:"background_image"`
	ProfileImage    string         `gorm:"size:512" json:"profile_image"`
	About           string         `gorm:"size:1024" json:"about"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AppearanceSettings) TableName() string { return "appearance_settings" }
