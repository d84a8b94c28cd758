package database

import (
	"strconv"

	"redlink/config"
	"redlink/internal/domain"
	"redlink/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Block{},
		&models.PageElement{},
		&models.AppearanceSettings{},
		&models.Purchase{},
		&models.ProductAffiliate{},
		&models.AffiliateCommission{},
		&models.ReferralTracking{},
		&models.ReferralEarning{},
		&models.UserBalance{},
		&models.Visit{},
		&models.SystemSetting{},
	)
}

// SeedDefaults inserts tunable defaults if missing.
func SeedDefaults(db *gorm.DB) {
	defaults := map[string]string{
		domain.SettingFreeSignupValue: strconv.FormatInt(domain.DefaultFreeSignupValue, 10),
	}
	for k, v := range defaults {
		var count int64
		db.Model(&models.SystemSetting{}).Where("`key` = ?", k).Count(&count)
		if count == 0 {
			db.Create(&models.SystemSetting{Key: k, Value: v})
		}
	}
}
