package repository

import (
	"redlink/internal/domain"
	"redlink/internal/models"

	"gorm.io/gorm"
)

type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

func (r *BlockRepository) Create(b *models.Block) error {
	return r.db.Create(b).Error
}

func (r *BlockRepository) GetByID(id uint) (*models.Block, error) {
	var b models.Block
	err := r.db.First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BlockRepository) ListByUsername(username string) ([]models.Block, error) {
	var list []models.Block
	err := r.db.Where("username = ?", username).
		Order("order_index ASC, created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *BlockRepository) ListProducts(username string) ([]models.Block, error) {
	var list []models.Block
	err := r.db.Where("username = ? AND block_type = ?", username, domain.BlockTypeProduct).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *BlockRepository) Update(b *models.Block) error {
	return r.db.Save(b).Error
}

func (r *BlockRepository) Delete(id, userID uint) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Block{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
