package app

import (
	"github.com/jurisalerta/jurisalerta/config"
	"github.com/jurisalerta/jurisalerta/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func NewDatabase(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Sugar().Panic("failed to connect database", "err", err)
	}
	log.Info("Database started")

	log.Info("Starting migrations")
	db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.Subscription{},
		&models.SearchTarget{},
		&models.SearchConfig{},
		&models.Publication{},
		&models.Admin{},
	)

	seedDefaultAdmin(db, log, cfg)
	return db
}

// seedDefaultAdmin creates the first admin account when none exists. The
// initial password comes from configuration and should be rotated after the
// first login.
func seedDefaultAdmin(db *gorm.DB, log *zap.Logger, cfg *config.Config) {
	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		log.Sugar().Panicf("failed to query admins: %v", err)
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminInitialPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Sugar().Panicf("failed to hash initial admin password: %v", err)
	}

	admin := &models.Admin{
		Username:     "admin",
		Email:        "admin@jurisalerta.com.br",
		FullName:     "Administrador JurisAlerta",
		PasswordHash: string(hash),
		IsSuperAdmin: true,
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Sugar().Panicf("failed to seed default admin: %v", err)
	}
	log.Sugar().Infow("Seeded default admin, rotate the initial password", "username", admin.Username)
}
