package repository

import (
	"time"

	"redlink/internal/models"

	"gorm.io/gorm"
)

type VisitRepository struct {
	db *gorm.DB
}

func NewVisitRepository(db *gorm.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

func (r *VisitRepository) Create(v *models.Visit) error {
	return r.db.Create(v).Error
}

func (r *VisitRepository) CountByUsername(username string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Visit{}).Where("username = ?", username).Count(&count).Error
	return count, err
}

// DailyCount is one day's visit total for the statistics chart.
type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// CountByDay returns per-day visit counts for the trailing N days.
func (r *VisitRepository) CountByDay(username string, days int) ([]DailyCount, error) {
	since := time.Now().AddDate(0, 0, -days)
	var rows []DailyCount
	err := r.db.Model(&models.Visit{}).
		Where("username = ? AND created_at >= ?", username, since).
		Select("DATE(created_at) AS day, COUNT(*) AS count").
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}
