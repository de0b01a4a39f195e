package infra

import (
	"fmt"
	"time"

	"carniceria/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx with queries logged
// through zerolog, sizes the pool and brings the schema up to date.
func NewDatabase(dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(logLevel, 200*time.Millisecond),
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
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates all tables and then applies the idempotent
// SQL patches AutoMigrate cannot express. Used by NewDatabase and by the
// integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Category{},
		&model.Cut{},
		&model.Product{},
		&model.Customer{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMovement{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// handle on its own (CHECK constraints, expression indexes). Each statement is
// guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Last line of defence behind the conditional decrement.
		{"chk_products_stock_non_negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_stock_non_negative') THEN
    ALTER TABLE products ADD CONSTRAINT chk_products_stock_non_negative CHECK (stock >= 0);
  END IF;
END $$`},
		{"chk_sale_items_quantity_positive", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sale_items_quantity_positive') THEN
    ALTER TABLE sale_items ADD CONSTRAINT chk_sale_items_quantity_positive CHECK (quantity > 0);
  END IF;
END $$`},
		{"chk_sales_payment_method", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sales_payment_method') THEN
    ALTER TABLE sales ADD CONSTRAINT chk_sales_payment_method
      CHECK (payment_method IN ('efectivo', 'tarjeta', 'transferencia'));
  END IF;
END $$`},
		// Case-insensitive uniqueness for catalog names.
		{"idx_categories_name_lower",
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_lower ON categories (lower(name))`},
		{"idx_cuts_name_lower",
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_cuts_name_lower ON cuts (lower(name))`},
		// Partial index for the low-stock scan.
		{"idx_products_low_stock",
			`CREATE INDEX IF NOT EXISTS idx_products_low_stock ON products (stock) WHERE stock <= 5`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
