package repository

import (
	"errors"

	"redlink/internal/models"

	"gorm.io/gorm"
)

type AppearanceRepository struct {
	db *gorm.DB
}

func NewAppearanceRepository(db *gorm.DB) *AppearanceRepository {
	return &AppearanceRepository{db: db}
}

func (r *AppearanceRepository) GetByUsername(username string) (*models.AppearanceSettings, error) {
	var a models.AppearanceSettings
	err := r.db.Where("username = ?", username).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert saves the settings row for a username, creating it on first write.
func (r *AppearanceRepository) Upsert(a *models.AppearanceSettings) error {
	existing, err := r.GetByUsername(a.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(a).Error
		}
		return err
	}
	a.ID = existing.ID
	return r.db.Save(a).Error
}
