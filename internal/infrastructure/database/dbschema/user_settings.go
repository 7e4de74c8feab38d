package dbschema

import (
	"tracker-api/internal/domain/usersettings"
	"tracker-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(UserSettings{})
}

// UserSettings is the database schema for the user_settings table: exactly
// one row per identity, upserted on the unique user id.
type UserSettings struct {
	BaseModel
	UserID       string `gorm:"type:varchar(64);uniqueIndex:ux_user_settings_user_id;not null"`
	OpenAIAPIKey string `gorm:"column:openai_api_key;type:text;not null;default:''"`
	OpenAIModel  string `gorm:"column:openai_model;type:varchar(64);not null;default:'gpt-4o'"`
}

// TableName specifies the table name for UserSettings.
func (UserSettings) TableName() string {
	return "tracking.user_settings"
}

// NewSchemaUserSettings converts the domain model to its database schema.
func NewSchemaUserSettings(s *usersettings.UserSettings) *UserSettings {
	return &UserSettings{
		BaseModel: BaseModel{
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		},
		UserID:       s.UserID,
		OpenAIAPIKey: s.OpenAIAPIKey,
		OpenAIModel:  s.OpenAIModel,
	}
}

// EtoD converts the database schema to the domain model.
func (s *UserSettings) EtoD() *usersettings.UserSettings {
	return &usersettings.UserSettings{
		UserID:       s.UserID,
		OpenAIAPIKey: s.OpenAIAPIKey,
		OpenAIModel:  s.OpenAIModel,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
