// Package requests holds the JSON bodies accepted by the HTTP layer.
package requests

import (
	"tracker-api/internal/domain/template"
)

// FieldRequest describes one field definition in a template payload.
type FieldRequest struct {
	ID       string   `json:"id"`
	Name     string   `json:"name" binding:"required"`
	Type     string   `json:"type" binding:"required"`
	Options  []string `json:"options"`
	Required bool     `json:"required"`
}

// CreateTemplateRequest creates a template. Zero fields is legal.
type CreateTemplateRequest struct {
	Name   string         `json:"name" binding:"required"`
	Goal   *string        `json:"goal"`
	Fields []FieldRequest `json:"fields"`
}

// UpdateTemplateRequest patches a template. Absent attributes keep their
// stored value; a present empty fields array clears the field set.
type UpdateTemplateRequest struct {
	Name   *string        `json:"name"`
	Goal   *string        `json:"goal"`
	Fields []FieldRequest `json:"fields"`
}

// CreateEntryRequest records one dated entry against a template.
type CreateEntryRequest struct {
	Date   string         `json:"date" binding:"required"`
	Values map[string]any `json:"values"`
}

// UpdateEntryRequest patches an entry. A present values map replaces the
// stored values wholesale.
type UpdateEntryRequest struct {
	Date   *string        `json:"date"`
	Values map[string]any `json:"values"`
}

// AnalysisRequest submits one analysis query for a template.
type AnalysisRequest struct {
	Query string `json:"query" binding:"required"`
}

// UpdateUserSettingsRequest patches the per-user settings row.
type UpdateUserSettingsRequest struct {
	OpenAIAPIKey *string `json:"openai_api_key"`
	OpenAIModel  *string `json:"openai_model"`
}

// ToFields converts the request field definitions to domain fields.
func ToFields(fields []FieldRequest) []template.Field {
	if fields == nil {
		return nil
	}
	out := make([]template.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, template.Field{
			ID:       f.ID,
			Name:     f.Name,
			Type:     template.FieldType(f.Type),
			Options:  f.Options,
			Required: f.Required,
		})
	}
	return out
}
