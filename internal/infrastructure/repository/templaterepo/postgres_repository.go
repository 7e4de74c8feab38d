// Package templaterepo persists tracking templates via PostgreSQL using
// GORM.
package templaterepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tracker-api/internal/domain/template"
	"tracker-api/internal/infrastructure/database/dbschema"
	"tracker-api/internal/utils/platformerrors"
)

// PostgresRepository implements template.Repository using GORM.
type PostgresRepository struct {
	db *gorm.DB
}

var _ template.Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a repository backed by the provided DB.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByUser returns the identity's templates, newest created first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]template.Template, error) {
	var rows []dbschema.Template
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list templates", err, "")
	}

	templates := make([]template.Template, 0, len(rows))
	for i := range rows {
		templates = append(templates, *rows[i].EtoD())
	}
	return templates, nil
}

// FindByID retrieves one template scoped to the identity.
func (r *PostgresRepository) FindByID(ctx context.Context, userID, id string) (*template.Template, error) {
	var row dbschema.Template
	err := r.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", id, userID).
		First(&row).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "template not found", err, "")
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to find template", err, "")
	}
	return row.EtoD(), nil
}

// Create inserts a new template row.
func (r *PostgresRepository) Create(ctx context.Context, tmpl *template.Template) (*template.Template, error) {
	entity := dbschema.NewSchemaTemplate(tmpl)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create template", err, "")
	}
	return entity.EtoD(), nil
}

// Update replaces the mutable columns of an existing template row.
func (r *PostgresRepository) Update(ctx context.Context, tmpl *template.Template) (*template.Template, error) {
	entity := dbschema.NewSchemaTemplate(tmpl)

	result := r.db.WithContext(ctx).
		Model(&dbschema.Template{}).
		Where("public_id = ? AND user_id = ?", tmpl.ID, tmpl.UserID).
		Updates(map[string]any{
			"name":       entity.Name,
			"goal":       entity.Goal,
			"fields":     entity.Fields,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to update template", result.Error, "")
	}
	if result.RowsAffected == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "template not found", nil, "")
	}

	return r.FindByID(ctx, tmpl.UserID, tmpl.ID)
}

// Delete removes the template row. Entries and analyses referencing it are
// removed by the ON DELETE CASCADE constraint.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", id, userID).
		Delete(&dbschema.Template{})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to delete template", result.Error, "")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "template not found", nil, "")
	}
	return nil
}
