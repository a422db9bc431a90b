package database

import (
	"context"
	"fmt"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters: referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Group{},
		&models.Post{},
	}
}

// TableStatus reports whether a model's table exists.
type TableStatus struct {
	Model  string
	Table  string
	Exists bool
}

// Migrate creates or alters tables, indexes and foreign keys for every
// persistent model.
func Migrate(ctx context.Context, db *gorm.DB) error {
	middleware.Logger.InfoContext(ctx, "Running GORM AutoMigrate", slog.Int("models", len(PersistentModels())))
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// SchemaStatus lists each persistent model with the state of its table.
func SchemaStatus(ctx context.Context, db *gorm.DB) ([]TableStatus, error) {
	migrator := db.WithContext(ctx).Migrator()
	statuses := make([]TableStatus, 0, len(PersistentModels()))

	for _, model := range PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		statuses = append(statuses, TableStatus{
			Model:  stmt.Schema.Name,
			Table:  stmt.Schema.Table,
			Exists: migrator.HasTable(model),
		})
	}

	return statuses, nil
}
