package models

import (
	"time"

	"redlink/internal/domain"

	"gorm.io/gorm"
)

// Block is a single item on a creator's public page: a plain link or a
// purchasable digital product.
type Block struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Username    string         `gorm:"size:64;not null;index" json:"username"`
	BlockType   string         `gorm:"size:10;not null;default:'link'" json:"block_type"` // link | product
	Title       string         `gorm:"size:255;not null" json:"title"`
	URL         string         `gorm:"size:1024" json:"url"`
	Price       int64          `gorm:"default:0" json:"price"` // rupiah; products only
	Description string         `gorm:"size:1024" json:"description"`
	ImageURL    string         `gorm:"size:512" json:"image_url"`
	OrderIndex  int            `gorm:"default:0" json:"order_index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Block) TableName() string { return "blocks" }

func (b *Block) IsProduct() bool { return b.BlockType == domain.BlockTypeProduct }
