package repository

import (
	"errors"
	"time"

	"redlink/internal/models"

	"gorm.io/gorm"
)

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) GetByUsername(username string) (*models.UserBalance, error) {
	var b models.UserBalance
	err := r.db.Where("username = ?", username).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BalanceRepository) GetOrCreate(username string) (*models.UserBalance, error) {
	b, err := r.GetByUsername(username)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	b = &models.UserBalance{Username: username, CurrentBalance: 0, LastUpdated: time.Now()}
	if err := r.db.Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

// Credit adds to the balance atomically.
func (r *BalanceRepository) Credit(username string, amount int64) error {
	if _, err := r.GetOrCreate(username); err != nil {
		return err
	}
	return r.db.Model(&models.UserBalance{}).
		Where("username = ?", username).
		Updates(map[string]interface{}{
			"current_balance": gorm.Expr("current_balance + ?", amount),
			"last_updated":    time.Now(),
		}).Error
}
