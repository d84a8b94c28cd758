package repository

import (
	"redlink/internal/models"

	"gorm.io/gorm"
)

type PageElementRepository struct {
	db *gorm.DB
}

func NewPageElementRepository(db *gorm.DB) *PageElementRepository {
	return &PageElementRepository{db: db}
}

func (r *PageElementRepository) Create(e *models.PageElement) error {
	return r.db.Create(e).Error
}

func (r *PageElementRepository) ListByUsername(username string) ([]models.PageElement, error) {
	var list []models.PageElement
	err := r.db.Where("username = ?", username).
		Order("order_index ASC").
		Find(&list).Error
	return list, err
}

func (r *PageElementRepository) Update(e *models.PageElement) error {
	return r.db.Save(e).Error
}

func (r *PageElementRepository) Delete(id uint, username string) error {
	res := r.db.Where("id = ? AND username = ?", id, username).Delete(&models.PageElement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
