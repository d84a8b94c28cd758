package repository

import (
	"time"

	"redlink/internal/domain"
	"redlink/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) CreateTracking(t *models.ReferralTracking) error {
	return r.db.Create(t).Error
}

// GetTrackingByReferred returns the tracking row for a referred user, or
// gorm.ErrRecordNotFound when the user was not referred.
func (r *ReferralRepository) GetTrackingByReferred(referredUsername string) (*models.ReferralTracking, error) {
	var t models.ReferralTracking
	err := r.db.Where("referred_username = ?", referredUsername).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkConvertedPro flips the conversion status free -> pro with a single
// conditional update. Returns true only for the call that actually moved
// the row, so racing upgrade confirmations credit the earning once.
func (r *ReferralRepository) MarkConvertedPro(referredUsername string) (bool, error) {
	res := r.db.Model(&models.ReferralTracking{}).
		Where("referred_username = ? AND conversion_status = ?", referredUsername, domain.ConversionFree).
		Updates(map[string]interface{}{
			"conversion_status": domain.ConversionPro,
			"converted_at":      time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

func (r *ReferralRepository) ListTrackingByReferrer(referrerUsername string) ([]models.ReferralTracking, error) {
	var list []models.ReferralTracking
	err := r.db.Where("referrer_username = ?", referrerUsername).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *ReferralRepository) CreateEarning(e *models.ReferralEarning) error {
	return r.db.Create(e).Error
}

func (r *ReferralRepository) ListEarnings(referrerUsername string) ([]models.ReferralEarning, error) {
	var list []models.ReferralEarning
	err := r.db.Where("referrer_username = ?", referrerUsername).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *ReferralRepository) SumEarnings(referrerUsername string) (int64, error) {
	var total int64
	err := r.db.Model(&models.ReferralEarning{}).
		Where("referrer_username = ?", referrerUsername).
		Select("COALESCE(SUM(earning_amount), 0)").
		Scan(&total).Error
	return total, err
}
