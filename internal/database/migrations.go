package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Invitation lookups by token and team listing
		{"invitations", "idx_invitations_team_id", "team_id"},
		{"invitations", "idx_invitations_organization_id", "organization_id"},
		{"invitations", "idx_invitations_status", "status"},

		// Membership pivot
		{"memberships", "idx_memberships_organization_id", "organization_id"},
		{"memberships", "idx_memberships_user_id", "user_id"},

		// Current-subscription resolution
		{"subscriptions", "idx_subscriptions_org_status", "organization_id, status"},
		{"subscriptions", "idx_subscriptions_start_date", "start_date"},

		// Catalog lookups
		{"features", "idx_features_code", "code"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			fmt.Printf("Index %s already exists, skipping\n", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
