package repository

import (
	"time"

	"redlink/internal/domain"
	"redlink/internal/models"

	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Create(p *models.Purchase) error {
	return r.db.Create(p).Error
}

func (r *PurchaseRepository) GetByOrderID(orderID string) (*models.Purchase, error) {
	var p models.Purchase
	err := r.db.Where("order_id = ?", orderID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkPaid moves a pending purchase to paid. The conditional update makes
// the transition fire at most once even when callbacks race.
func (r *PurchaseRepository) MarkPaid(orderID string) (bool, error) {
	now := time.Now()
	res := r.db.Model(&models.Purchase{}).
		Where("order_id = ? AND payment_status = ?", orderID, domain.PaymentPending).
		Updates(map[string]interface{}{"payment_status": domain.PaymentPaid, "paid_at": now})
	return res.RowsAffected == 1, res.Error
}

func (r *PurchaseRepository) MarkFailed(orderID string) error {
	return r.db.Model(&models.Purchase{}).
		Where("order_id = ? AND payment_status = ?", orderID, domain.PaymentPending).
		Update("payment_status", domain.PaymentFailed).Error
}

func (r *PurchaseRepository) MarkWASent(orderID string) error {
	return r.db.Model(&models.Purchase{}).
		Where("order_id = ?", orderID).
		Update("wa_sent", true).Error
}

// ListByCreator returns sales of the creator's products (the orders screen).
func (r *PurchaseRepository) ListByCreator(username string, limit, offset int) ([]models.Purchase, error) {
	var list []models.Purchase
	err := r.db.Where("creator_username = ? AND kind = ?", username, domain.PurchaseKindProduct).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// ListByBuyer returns the user's own purchases.
func (r *PurchaseRepository) ListByBuyer(username string, limit, offset int) ([]models.Purchase, error) {
	var list []models.Purchase
	err := r.db.Where("buyer_username = ?", username).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// ListPaidBuyersByCreator returns every paid product sale of the creator,
// used to collect buyer contact info for broadcasts.
func (r *PurchaseRepository) ListPaidBuyersByCreator(creator string) ([]models.Purchase, error) {
	var list []models.Purchase
	err := r.db.Where("creator_username = ? AND kind = ? AND payment_status = ?",
		creator, domain.PurchaseKindProduct, domain.PaymentPaid).
		Find(&list).Error
	return list, err
}

// PaidTotal sums paid product sales for a creator.
func (r *PurchaseRepository) PaidTotal(username string) (int64, error) {
	var total int64
	err := r.db.Model(&models.Purchase{}).
		Where("creator_username = ? AND kind = ? AND payment_status = ?",
			username, domain.PurchaseKindProduct, domain.PaymentPaid).
		Select("COALESCE(SUM(product_price), 0)").
		Scan(&total).Error
	return total, err
}
