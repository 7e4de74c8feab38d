// Package responses holds the JSON shapes returned by the HTTP layer and
// the converters that build them from domain models.
package responses

import (
	"time"

	"tracker-api/internal/domain/analysis"
	"tracker-api/internal/domain/entry"
	"tracker-api/internal/domain/template"
	"tracker-api/internal/domain/usersettings"
)

// FieldResponse mirrors one field definition inside a template.
type FieldResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

// TemplateResponse is the API shape of a template.
type TemplateResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Goal      *string         `json:"goal,omitempty"`
	Fields    []FieldResponse `json:"fields"`
	CreatedAt time.Time       `json:"created_at"`
}

// EntryResponse is the API shape of a dated entry.
type EntryResponse struct {
	ID         string         `json:"id"`
	TemplateID string         `json:"template_id"`
	Date       string         `json:"date"`
	Values     map[string]any `json:"values"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ExchangeResponse is the API shape of a saved analysis exchange.
type ExchangeResponse struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template_id"`
	Query      string    `json:"query"`
	Response   string    `json:"response"`
	CreatedAt  time.Time `json:"created_at"`
}

// MessageResponse is one conversation message in an analysis session.
type MessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnalysisResultResponse is returned by a successful analysis submit. The
// warning field is set when the answer was produced but could not be saved.
type AnalysisResultResponse struct {
	Response string            `json:"response"`
	Exchange *ExchangeResponse `json:"exchange,omitempty"`
	Messages []MessageResponse `json:"messages"`
	Warning  string            `json:"warning,omitempty"`
}

// SessionResponse describes the live analysis session after a load.
type SessionResponse struct {
	State    string            `json:"state"`
	Messages []MessageResponse `json:"messages"`
}

// UserSettingsResponse is the API shape of the per-user settings row. The
// key belongs to the caller; it is only ever returned to its owner.
type UserSettingsResponse struct {
	OpenAIAPIKey string    `json:"openai_api_key"`
	OpenAIModel  string    `json:"openai_model"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewTemplateResponse converts a domain template.
func NewTemplateResponse(t *template.Template) TemplateResponse {
	fields := make([]FieldResponse, 0, len(t.Fields))
	for _, f := range t.Fields {
		fields = append(fields, FieldResponse{
			ID:       f.ID,
			Name:     f.Name,
			Type:     string(f.Type),
			Options:  f.Options,
			Required: f.Required,
		})
	}
	return TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Goal:      t.Goal,
		Fields:    fields,
		CreatedAt: t.CreatedAt,
	}
}

// NewTemplateListResponse converts a slice of domain templates.
func NewTemplateListResponse(templates []template.Template) []TemplateResponse {
	out := make([]TemplateResponse, 0, len(templates))
	for i := range templates {
		out = append(out, NewTemplateResponse(&templates[i]))
	}
	return out
}

// NewEntryResponse converts a domain entry.
func NewEntryResponse(e *entry.Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		TemplateID: e.TemplateID,
		Date:       e.Date,
		Values:     e.Values,
		CreatedAt:  e.CreatedAt,
	}
}

// NewEntryListResponse converts a slice of domain entries.
func NewEntryListResponse(entries []entry.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, NewEntryResponse(&entries[i]))
	}
	return out
}

// NewExchangeResponse converts a saved analysis exchange.
func NewExchangeResponse(ex *analysis.Exchange) ExchangeResponse {
	return ExchangeResponse{
		ID:         ex.ID,
		TemplateID: ex.TemplateID,
		Query:      ex.Query,
		Response:   ex.Response,
		CreatedAt:  ex.CreatedAt,
	}
}

// NewExchangeListResponse converts a slice of saved exchanges.
func NewExchangeListResponse(exchanges []analysis.Exchange) []ExchangeResponse {
	out := make([]ExchangeResponse, 0, len(exchanges))
	for i := range exchanges {
		out = append(out, NewExchangeResponse(&exchanges[i]))
	}
	return out
}

// NewMessageListResponse converts conversation messages.
func NewMessageListResponse(messages []analysis.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageResponse{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}

// NewAnalysisResultResponse converts an analysis turn result.
func NewAnalysisResultResponse(result *analysis.Result) AnalysisResultResponse {
	resp := AnalysisResultResponse{
		Response: result.Response,
		Messages: NewMessageListResponse(result.Messages),
	}
	if result.Exchange != nil {
		ex := NewExchangeResponse(result.Exchange)
		resp.Exchange = &ex
	}
	if result.Warning != nil {
		resp.Warning = "analysis completed but could not be saved to history"
	}
	return resp
}

// NewSessionResponse converts a live session snapshot.
func NewSessionResponse(sess *analysis.Session) SessionResponse {
	return SessionResponse{
		State:    string(sess.State()),
		Messages: NewMessageListResponse(sess.Messages()),
	}
}

// NewUserSettingsResponse converts the settings row.
func NewUserSettingsResponse(s *usersettings.UserSettings) UserSettingsResponse {
	return UserSettingsResponse{
		OpenAIAPIKey: s.OpenAIAPIKey,
		OpenAIModel:  s.OpenAIModel,
		UpdatedAt:    s.UpdatedAt,
	}
}
