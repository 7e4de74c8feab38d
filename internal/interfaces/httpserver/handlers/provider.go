package handlers

import (
	"tracker-api/internal/domain/analysis"
	"tracker-api/internal/domain/entry"
	"tracker-api/internal/domain/template"
	"tracker-api/internal/domain/usersettings"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Template *TemplateHandler
	Entry    *EntryHandler
	Analysis *AnalysisHandler
	Settings *SettingsHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	templateService template.Service,
	entryService entry.Service,
	analysisService *analysis.Service,
	settingsService usersettings.Service,
) *Provider {
	return &Provider{
		Template: NewTemplateHandler(templateService, analysisService),
		Entry:    NewEntryHandler(entryService),
		Analysis: NewAnalysisHandler(analysisService),
		Settings: NewSettingsHandler(settingsService),
	}
}
