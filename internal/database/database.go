package database

import (
	"danakita/config"
	"danakita/internal/domain"
	"danakita/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
		// Duplicate-key inserts must surface as gorm.ErrDuplicatedKey so the
		// ledger can tell a lost idempotency race from a real failure.
		TranslateError: true,
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
		&models.Campaign{},
		&models.Donation{},
		&models.FinancialTransaction{},
		&models.FinancialReport{},
	)
}

// SeedAdmin creates the configured administrator account if it doesn't exist.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) {
	var count int64
	db.Model(&models.User{}).Where("email = ?", cfg.Email).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("seed admin: hash password")
		return
	}
	admin := &models.User{
		Name:         "Administrator",
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Error().Err(err).Msg("seed admin: create user")
		return
	}
	log.Info().Str("email", cfg.Email).Msg("seeded admin account")
}
