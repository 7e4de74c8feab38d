// Package analysisrepo persists analysis exchanges via PostgreSQL using
// GORM. Exchanges are insert-only: they are never updated, only listed,
// loaded and deleted.
package analysisrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tracker-api/internal/domain/analysis"
	"tracker-api/internal/infrastructure/database/dbschema"
	"tracker-api/internal/utils/platformerrors"
)

// PostgresRepository implements analysis.Repository using GORM.
type PostgresRepository struct {
	db *gorm.DB
}

var _ analysis.Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a repository backed by the provided DB.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByTemplate returns the template's saved exchanges, newest first.
func (r *PostgresRepository) ListByTemplate(ctx context.Context, userID, templateID string) ([]analysis.Exchange, error) {
	var rows []dbschema.AnalysisExchange
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND template_public_id = ?", userID, templateID).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list analyses", err, "")
	}

	exchanges := make([]analysis.Exchange, 0, len(rows))
	for i := range rows {
		exchanges = append(exchanges, *rows[i].EtoD())
	}
	return exchanges, nil
}

// FindByID retrieves one exchange scoped to the identity.
func (r *PostgresRepository) FindByID(ctx context.Context, userID, id string) (*analysis.Exchange, error) {
	var row dbschema.AnalysisExchange
	err := r.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", id, userID).
		First(&row).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "analysis not found", err, "")
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to find analysis", err, "")
	}
	return row.EtoD(), nil
}

// Create inserts a completed exchange under the identity's template.
func (r *PostgresRepository) Create(ctx context.Context, ex *analysis.Exchange) (*analysis.Exchange, error) {
	var tmpl dbschema.Template
	err := r.db.WithContext(ctx).
		Select("id").
		Where("public_id = ? AND user_id = ?", ex.TemplateID, ex.UserID).
		First(&tmpl).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "template not found", err, "")
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to resolve template", err, "")
	}

	entity := dbschema.NewSchemaAnalysisExchange(ex, tmpl.ID)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create analysis", err, "")
	}
	return entity.EtoD(), nil
}

// Delete removes one saved exchange.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", id, userID).
		Delete(&dbschema.AnalysisExchange{})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to delete analysis", result.Error, "")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "analysis not found", nil, "")
	}
	return nil
}
