package database

import (
	"log"

	"marketplace-backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Profile{},
		&model.Provider{},
		&model.Governorate{},
		&model.City{},
		&model.District{},
		&model.Banner{},
		&model.Order{},
		&model.Refund{},
		&model.Settlement{},
		&model.CustomOrderRequest{},
		&model.CustomOrderItem{},
		&model.AuditLog{},
		&model.ActivityLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
