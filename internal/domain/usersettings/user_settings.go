// Package usersettings provides the per-identity LLM credential and model
// selection.
package usersettings

import "time"

// UserSettings holds one row per identity: the user's own OpenAI API key and
// the model the analysis feature should use. The key is an opaque secret the
// service stores and forwards; it is never logged.
type UserSettings struct {
	UserID       string
	OpenAIAPIKey string
	OpenAIModel  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DefaultModel is assigned when settings are lazily created on first access.
const DefaultModel = "gpt-4o"

// SupportedModels is the fixed set a user may select from.
var SupportedModels = []string{
	"gpt-4o",
	"o3-mini",
	"gpt-4",
	"gpt-4-turbo-preview",
	"gpt-3.5-turbo",
}

// IsSupportedModel checks if the model id is one of the allowed values.
func IsSupportedModel(id string) bool {
	for _, m := range SupportedModels {
		if m == id {
			return true
		}
	}
	return false
}

// HasCredential reports whether an API key is configured.
func (s *UserSettings) HasCredential() bool {
	return s != nil && s.OpenAIAPIKey != ""
}
