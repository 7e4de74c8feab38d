// Package entryrepo persists dated entries via PostgreSQL using GORM.
package entryrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tracker-api/internal/domain/entry"
	"tracker-api/internal/infrastructure/database/dbschema"
	"tracker-api/internal/utils/platformerrors"
)

// PostgresRepository implements entry.Repository using GORM.
type PostgresRepository struct {
	db *gorm.DB
}

var _ entry.Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a repository backed by the provided DB.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByTemplate returns the template's entries ordered by date descending.
func (r *PostgresRepository) ListByTemplate(ctx context.Context, userID, templateID string) ([]entry.Entry, error) {
	var rows []dbschema.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND template_public_id = ?", userID, templateID).
		Order("entry_date DESC, created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list entries", err, "")
	}

	entries := make([]entry.Entry, 0, len(rows))
	for i := range rows {
		entries = append(entries, *rows[i].EtoD())
	}
	return entries, nil
}

// FindByID retrieves one entry scoped to the identity.
func (r *PostgresRepository) FindByID(ctx context.Context, userID, id string) (*entry.Entry, error) {
	var row dbschema.Entry
	err := r.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", id, userID).
		First(&row).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "entry not found", err, "")
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to find entry", err, "")
	}
	return row.EtoD(), nil
}

// Create inserts a new entry row under the identity's template.
func (r *PostgresRepository) Create(ctx context.Context, e *entry.Entry) (*entry.Entry, error) {
	templateKey, err := resolveTemplateKey(ctx, r.db, e.UserID, e.TemplateID)
	if err != nil {
		return nil, err
	}

	entity, err := dbschema.NewSchemaEntry(e, templateKey)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeValidation, "invalid entry date", err, "")
	}
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create entry", err, "")
	}
	return entity.EtoD(), nil
}

// Update replaces the date and values of an existing entry row.
func (r *PostgresRepository) Update(ctx context.Context, e *entry.Entry) (*entry.Entry, error) {
	entity, err := dbschema.NewSchemaEntry(e, 0)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeValidation, "invalid entry date", err, "")
	}

	result := r.db.WithContext(ctx).
		Model(&dbschema.Entry{}).
		Where("public_id = ? AND user_id = ?", e.ID, e.UserID).
		Updates(map[string]any{
			"entry_date": entity.EntryDate,
			"values":     entity.Values,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to update entry", result.Error, "")
	}
	if result.RowsAffected == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "entry not found", nil, "")
	}

	return r.FindByID(ctx, e.UserID, e.ID)
}

// Delete removes the entry row.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", id, userID).
		Delete(&dbschema.Entry{})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to delete entry", result.Error, "")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "entry not found", nil, "")
	}
	return nil
}

// resolveTemplateKey maps a template public id to its numeric key, scoped to
// the identity so one user cannot attach rows to another's template.
func resolveTemplateKey(ctx context.Context, db *gorm.DB, userID, templateID string) (uint, error) {
	var row dbschema.Template
	err := db.WithContext(ctx).
		Select("id").
		Where("public_id = ? AND user_id = ?", templateID, userID).
		First(&row).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "template not found", err, "")
	}
	if err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to resolve template", err, "")
	}
	return row.ID, nil
}
