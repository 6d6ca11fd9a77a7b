package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for _, m := range activity.AllModules {
		if err := MigrateActivityTable(db, activity.TableFor(m)); err != nil {
			return err
		}
	}
	return nil
}

// MigrateActivityTable creates one audit table and its indexes. Index names are
// prefixed with the table name since they share a namespace across tables.
func MigrateActivityTable(db *gorm.DB, table string) error {
	if err := db.Table(table).AutoMigrate(&activity.Record{}); err != nil {
		return fmt.Errorf("automigrate %s: %w", table, err)
	}
	indexes := []struct {
		suffix string
		cols   string
	}{
		{"created_at", "(created_at DESC, id)"},
		{"entity_id", "(entity_id, created_at DESC)"},
		{"actor_id", "(actor_id)"},
		{"type", "(type)"},
	}
	for _, ix := range indexes {
		name := fmt.Sprintf("idx_%s_%s", table, ix.suffix)
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s %s", name, table, ix.cols)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}
	return nil
}

// EnsureShippingIndexes adds composite indexes the struct tags cannot express.
func EnsureShippingIndexes(db *gorm.DB) error {
	stmts := map[string]string{
		"idx_loading_sheet_container_mark": "CREATE INDEX IF NOT EXISTS idx_loading_sheet_container_mark ON loading_sheet (container_id, shipping_mark)",
		"idx_loading_item_sheet_created":   "CREATE INDEX IF NOT EXISTS idx_loading_item_sheet_created ON loading_item (loading_sheet_id, created_at)",
	}
	for name, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...", "driver", s.driver)
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureShippingIndexes(s.db); err != nil {
		s.log.Error("Shipping index migration failed", "error", err)
		return err
	}
	return nil
}
