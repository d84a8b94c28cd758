package repository

import (
	"redlink/internal/models"

	"gorm.io/gorm"
)

type AffiliateRepository struct {
	db *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) *AffiliateRepository {
	return &AffiliateRepository{db: db}
}

func (r *AffiliateRepository) CreateAssignment(a *models.ProductAffiliate) error {
	return r.db.Create(a).Error
}

// GetAssignment returns the override row for a product/affiliate pair, or
// gorm.ErrRecordNotFound when none exists.
func (r *AffiliateRepository) GetAssignment(productID uint, affiliateUsername string) (*models.ProductAffiliate, error) {
	var a models.ProductAffiliate
	err := r.db.Where("product_id = ? AND affiliate_username = ?", productID, affiliateUsername).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAssignments lists a creator's assignments; productID 0 means all products.
func (r *AffiliateRepository) ListAssignments(creatorUsername string, productID uint) ([]models.ProductAffiliate, error) {
	var list []models.ProductAffiliate
	q := r.db.Where("creator_username = ?", creatorUsername)
	if productID != 0 {
		q = q.Where("product_id = ?", productID)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *AffiliateRepository) DeleteAssignment(id uint, creatorUsername string) error {
	res := r.db.Where("id = ? AND creator_username = ?", id, creatorUsername).
		Delete(&models.ProductAffiliate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AffiliateRepository) CreateCommission(c *models.AffiliateCommission) error {
	return r.db.Create(c).Error
}

func (r *AffiliateRepository) ListCommissions(affiliateUsername string, limit, offset int) ([]models.AffiliateCommission, error) {
	var list []models.AffiliateCommission
	err := r.db.Where("affiliate_username = ?", affiliateUsername).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// CommissionTotals sums sales and commissions credited to an affiliate.
func (r *AffiliateRepository) CommissionTotals(affiliateUsername string) (totalSales, totalCommission int64, err error) {
	row := struct {
		Sales      int64
		Commission int64
	}{}
	err = r.db.Model(&models.AffiliateCommission{}).
		Where("affiliate_username = ?", affiliateUsername).
		Select("COALESCE(SUM(total_sale), 0) AS sales, COALESCE(SUM(commission), 0) AS commission").
		Scan(&row).Error
	return row.Sales, row.Commission, err
}
