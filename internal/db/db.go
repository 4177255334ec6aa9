package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/company-scheduler/internal/config"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

// activeSlotIndex backs the per-worker lock: two active reservations can
// never share (worker, date, start).
const activeSlotIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS ` + models.ActiveSlotIndex + `
	ON reservations (worker_id, date, start_time)
	WHERE worker_id IS NOT NULL
	  AND status IN ('PENDING', 'ACCEPTED', 'IN_SERVICE')
`

func NewDB(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return db, nil
}

// Migrate creates or updates the schema. Also used by integration tests.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Service{},
		&models.WorkerService{},
		&models.WorkingHours{},
		&models.Shift{},
		&models.Break{},
		&models.Customer{},
		&models.Reservation{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return fmt.Errorf("create active slot index: %w", err)
	}

	return nil
}
