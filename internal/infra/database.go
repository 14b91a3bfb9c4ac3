package infra

import (
	"fmt"

	"inventra/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection with driver error translation enabled.
// Schema setup is left to RunMigrations so each command migrates exactly once.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// RunMigrations creates or updates every table and applies the idempotent SQL
// patches GORM cannot express (check constraints, partial indexes).
// Integration tests call it directly against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("enable pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Transaction{},
		&model.Audit{},
		&model.Notification{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements. Each one is guarded by an
// existence check so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"products.status enum", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_status') THEN
    ALTER TABLE products ADD CONSTRAINT chk_products_status
      CHECK (status IN ('in-stock', 'low-stock', 'out-of-stock'));
  END IF;
END $$`},
		{"products.price non-negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_price') THEN
    ALTER TABLE products ADD CONSTRAINT chk_products_price CHECK (price >= 0);
  END IF;
END $$`},
		{"transactions enums", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_transactions_type_status') THEN
    ALTER TABLE transactions ADD CONSTRAINT chk_transactions_type_status
      CHECK (type IN ('in', 'out') AND status IN ('pending', 'completed', 'rejected') AND quantity >= 1);
  END IF;
END $$`},
		{"audits.status enum", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_audits_status') THEN
    ALTER TABLE audits ADD CONSTRAINT chk_audits_status
      CHECK (status IN ('scheduled', 'in-progress', 'completed'));
  END IF;
END $$`},
		// unread-count and feed queries filter on recipient + is_read
		{"notifications unread index", `
CREATE INDEX IF NOT EXISTS idx_notifications_recipient_unread
    ON notifications (recipient_id, created_at DESC)
    WHERE is_read = false`},
		// audit cron query
		{"audits due index", `
CREATE INDEX IF NOT EXISTS idx_audits_scheduled_date
    ON audits (date)
    WHERE status = 'scheduled'`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
