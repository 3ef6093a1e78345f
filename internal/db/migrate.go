package db

import (
	"fmt" // Error wrapping

	"storefront/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Migrate performs automatic migration for the database schema.
// The composite unique index on cart(buyer_id, product_id) backs the
// add-to-cart upsert, so it must exist before the server takes traffic.
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&domain.User{}, &domain.Product{}, &domain.CartItem{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
