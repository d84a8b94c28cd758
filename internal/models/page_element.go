package models

import (
	"time"

	"gorm.io/gorm"
)

// PageElement is a free-form builder element (heading, text, button, image)
// rendered on the public page alongside blocks, ordered by OrderIndex.
type PageElement struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Username   string         `gorm:"size:64;not null;index" json:"username"`
	Type       string         `gorm:"size:20;not null" json:"type"` // heading | text | button | image
	Content    string         `gorm:"size:2048" json:"content"`
	Style      string         `gorm:"type:text" json:"style"` // JSON style map
	OrderIndex int            `gorm:"default:0" json:"order_index"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PageElement) TableName() string { return "page_elements" }
