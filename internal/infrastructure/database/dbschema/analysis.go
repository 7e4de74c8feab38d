package dbschema

import (
	"tracker-api/internal/domain/analysis"
	"tracker-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(AnalysisExchange{})
}

// AnalysisExchange is the database schema for the analyses table: one row
// per completed (query, response) pair. Rows are insert-only and cascade
// away with their template.
type AnalysisExchange struct {
	BaseModel
	PublicID         string   `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID           string   `gorm:"type:varchar(64);index;not null"`
	TemplateID       uint     `gorm:"index;not null"`
	Template         Template `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
	TemplatePublicID string   `gorm:"type:varchar(50);index;not null"`
	Query            string   `gorm:"type:text;not null"`
	Response         string   `gorm:"type:text;not null"`
}

// TableName specifies the table name for AnalysisExchange.
func (AnalysisExchange) TableName() string {
	return "tracking.analyses"
}

// NewSchemaAnalysisExchange converts the domain model to its database
// schema. The numeric template key is resolved by the repository.
func NewSchemaAnalysisExchange(ex *analysis.Exchange, templateID uint) *AnalysisExchange {
	return &AnalysisExchange{
		BaseModel: BaseModel{
			CreatedAt: ex.CreatedAt,
		},
		PublicID:         ex.ID,
		UserID:           ex.UserID,
		TemplateID:       templateID,
		TemplatePublicID: ex.TemplateID,
		Query:            ex.Query,
		Response:         ex.Response,
	}
}

// EtoD converts the database schema to the domain model.
func (a *AnalysisExchange) EtoD() *analysis.Exchange {
	return &analysis.Exchange{
		ID:         a.PublicID,
		UserID:     a.UserID,
		TemplateID: a.TemplatePublicID,
		Query:      a.Query,
		Response:   a.Response,
		CreatedAt:  a.CreatedAt,
	}
}
