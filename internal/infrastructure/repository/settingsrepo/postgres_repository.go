// Package settingsrepo persists per-user settings via PostgreSQL using
// GORM. The table holds at most one row per identity.
package settingsrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tracker-api/internal/domain/usersettings"
	"tracker-api/internal/infrastructure/database/dbschema"
	"tracker-api/internal/utils/platformerrors"
)

// PostgresRepository implements usersettings.Repository using GORM.
type PostgresRepository struct {
	db *gorm.DB
}

var _ usersettings.Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a repository backed by the provided DB.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByUserID returns the identity's settings row, or nil when none has
// been persisted yet.
func (r *PostgresRepository) FindByUserID(ctx context.Context, userID string) (*usersettings.UserSettings, error) {
	var row dbschema.UserSettings
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to find user settings", err, "")
	}
	return row.EtoD(), nil
}

// Upsert inserts the settings row or updates it in place when one already
// exists for the identity.
func (r *PostgresRepository) Upsert(ctx context.Context, s *usersettings.UserSettings) (*usersettings.UserSettings, error) {
	entity := dbschema.NewSchemaUserSettings(s)

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"openai_api_key": entity.OpenAIAPIKey,
				"openai_model":   entity.OpenAIModel,
				"updated_at":     gorm.Expr("NOW()"),
			}),
		}).
		Create(entity).
		Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to upsert user settings", err, "")
	}

	var row dbschema.UserSettings
	if err := r.db.WithContext(ctx).Where("user_id = ?", s.UserID).First(&row).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to reload user settings", err, "")
	}
	return row.EtoD(), nil
}
