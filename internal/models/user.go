package models

import (
	"time"

	"redlink/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for password signups (avoids duplicate '' on unique index)
	DisplayName  string         `gorm:"size:128" json:"display_name"`
	Phone        string         `gorm:"size:32" json:"phone"`
	Plan         string         `gorm:"size:10;not null;default:'Free';index" json:"plan"` // Free | Pro
	Bio          string         `gorm:"size:512" json:"bio"`
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsPro() bool { return u.Plan == domain.PlanPro }
