// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// Postgres (production) and SQLite (pure Go driver, dev/tests), schema
// migrations for the primary tables, and DDL for the mirror schemas that
// dual writes land in.
package repo

import (
	"fmt"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/ordersbridge/go-order-backend/internal/config"
	"github.com/ordersbridge/go-order-backend/internal/domain"
	"github.com/ordersbridge/go-order-backend/internal/schema"
)

// Open connects to the configured database, applies pool limits, and
// registers OpenTelemetry instrumentation.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dial = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dial = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported DB driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		db.Exec("PRAGMA journal_mode=WAL;")
		db.Exec("PRAGMA foreign_keys=ON;")
		db.Exec("PRAGMA busy_timeout=5000;")
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// AutoMigrate creates or updates the primary (legacy) tables. The mirror
// schemas are handled separately by MigrateMirror.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Order{},
		&domain.OrderItem{},
	)
}

// MigrateMirror creates the per-service schemas and their tables when the
// dual-schema flag is enabled. Mirror tables take explicit ids (the primary
// key is reused from the legacy row, never generated), so the id columns
// carry no autoincrement. Foreign keys across schemas are only emitted on
// Postgres; SQLite test databases attach the schemas as separate files and
// cannot reference across them.
func MigrateMirror(db *gorm.DB, rt *schema.Router) error {
	if !rt.Enabled() {
		return nil
	}

	pg := db.Dialector.Name() == "postgres"
	if pg {
		for _, d := range []schema.Domain{schema.DomainUsers, schema.DomainOrders} {
			if err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + rt.Resolve(d)).Error; err != nil {
				return err
			}
		}
	}

	users := rt.Qualify(schema.DomainUsers, "users")
	orders := rt.Qualify(schema.DomainOrders, "orders")
	items := rt.Qualify(schema.DomainOrders, "order_items")

	ordersFK, itemsFK := "", ""
	if pg {
		ordersFK = fmt.Sprintf(", FOREIGN KEY (user_id) REFERENCES %s(id) ON DELETE CASCADE", users)
		itemsFK = fmt.Sprintf(", FOREIGN KEY (order_id) REFERENCES %s(id) ON DELETE CASCADE", orders)
	}

	ddl := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL UNIQUE,
			password VARCHAR(100) NOT NULL,
			phone VARCHAR(20),
			address TEXT,
			role VARCHAR(20) NOT NULL DEFAULT 'customer',
			created_at TIMESTAMP,
			updated_at TIMESTAMP
		)`, users),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			total_amount DECIMAL(10,2) NOT NULL,
			created_at TIMESTAMP,
			updated_at TIMESTAMP%s
		)`, orders, ordersFK),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY,
			order_id INTEGER NOT NULL,
			product_name VARCHAR(100) NOT NULL,
			quantity INTEGER NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			total DECIMAL(10,2) NOT NULL%s
		)`, items, itemsFK),
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
