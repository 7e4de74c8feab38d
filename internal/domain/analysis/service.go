package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tracker-api/internal/domain/entry"
	"tracker-api/internal/domain/template"
	"tracker-api/internal/domain/usersettings"
	"tracker-api/internal/utils/idgen"
	"tracker-api/internal/utils/platformerrors"
)

// Result is the outcome of a successful analysis turn. Warning carries a
// persistence failure that did not invalidate the answer: the response was
// already produced and shown, it just is not in the saved history.
type Result struct {
	Response string
	Exchange *Exchange
	Messages []Message
	Warning  error
}

// Service orchestrates analysis turns: session lifecycle, prompt grounding,
// the model call, and exchange persistence.
type Service struct {
	exchanges Repository
	entries   entry.Service
	templates template.Service
	settings  usersettings.Service
	llm       ChatClient
	sessions  *SessionManager
	log       zerolog.Logger
}

// NewService wires the analysis service with its collaborators.
func NewService(
	exchanges Repository,
	entries entry.Service,
	templates template.Service,
	settings usersettings.Service,
	llm ChatClient,
	sessions *SessionManager,
	log zerolog.Logger,
) *Service {
	return &Service{
		exchanges: exchanges,
		entries:   entries,
		templates: templates,
		settings:  settings,
		llm:       llm,
		sessions:  sessions,
		log:       log.With().Str("component", "analysis-service").Logger(),
	}
}

// Session returns the live session for the pair, creating one if needed.
func (s *Service) Session(userID, templateID string) *Session {
	return s.sessions.GetOrCreate(userID, templateID)
}

// DropSessions discards every live session for the template. Called after a
// template delete so no session keeps grounding prompts in removed data.
func (s *Service) DropSessions(templateID string) {
	s.sessions.DropAllForTemplate(templateID)
}

// Submit runs one analysis turn. The checks run in a fixed order: session
// availability, credential, data, then the model call. A missing credential
// or empty entry set is refused synchronously before the session ever enters
// the awaiting-model state.
func (s *Service) Submit(ctx context.Context, userID, templateID, query string) (*Result, error) {
	if userID == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUnauthorized, "authenticated identity required", nil, "")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "analysis query must not be empty", nil, "")
	}

	sess := s.sessions.GetOrCreate(userID, templateID)
	if !sess.beginTurn() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeConflict, "an analysis request is already in progress for this template", nil, "")
	}

	result, err := s.runTurn(ctx, sess, userID, templateID, query)
	if err != nil {
		sess.finishFailed(err)
		return nil, err
	}
	sess.finishAnswered(query, result.Response)
	result.Messages = sess.Messages()
	return result, nil
}

func (s *Service) runTurn(ctx context.Context, sess *Session, userID, templateID, query string) (*Result, error) {
	settings, err := s.settings.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !settings.HasCredential() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeMissingCredential,
			"no OpenAI API key configured, set one in settings to use analysis", nil, "")
	}

	tmpl, err := s.templates.Get(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.ListByTemplate(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNoData, "no entries available for analysis", nil, "")
	}

	messages, err := BuildMessages(tmpl, entries, sess.historySnapshot(), query)
	if err != nil {
		return nil, err
	}

	sess.awaitModel()
	response, err := s.llm.Complete(ctx, Credential{
		APIKey: settings.OpenAIAPIKey,
		Model:  settings.OpenAIModel,
	}, messages)
	if err != nil {
		s.log.Warn().Err(err).Str("template_id", templateID).Msg("model call failed")
		return nil, err
	}

	result := &Result{Response: response}

	ex := &Exchange{
		ID:         idgen.MustGenerateSecureID(idgen.PrefixAnalysis, 16),
		UserID:     userID,
		TemplateID: templateID,
		Query:      query,
		Response:   response,
		CreatedAt:  time.Now().UTC(),
	}
	persisted, persistErr := s.exchanges.Create(ctx, ex)
	if persistErr != nil {
		// The answer stands; losing the history row is surfaced as a
		// warning, not a rollback.
		s.log.Error().Err(persistErr).Str("template_id", templateID).Msg("persist analysis exchange")
		result.Warning = persistErr
	} else {
		result.Exchange = persisted
	}

	return result, nil
}

// ListExchanges returns the template's saved exchanges, newest first.
func (s *Service) ListExchanges(ctx context.Context, userID, templateID string) ([]Exchange, error) {
	if userID == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUnauthorized, "authenticated identity required", nil, "")
	}
	return s.exchanges.ListByTemplate(ctx, userID, templateID)
}

// LoadExchange replaces the live session's conversation with the two-message
// reconstruction of a saved exchange, discarding any unsaved continuation.
func (s *Service) LoadExchange(ctx context.Context, userID, templateID, exchangeID string) (*Session, error) {
	ex, err := s.exchanges.FindByID(ctx, userID, exchangeID)
	if err != nil {
		return nil, err
	}
	if ex.TemplateID != templateID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "analysis exchange not found for template", nil, "")
	}

	sess := s.sessions.GetOrCreate(userID, templateID)
	if !sess.Replace([]Message{
		{Role: RoleUser, Content: ex.Query},
		{Role: RoleAssistant, Content: ex.Response},
	}) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeConflict, "an analysis request is already in progress for this template", nil, "")
	}
	return sess, nil
}

// DeleteExchange removes the persisted record. Live session messages already
// rendered are unaffected.
func (s *Service) DeleteExchange(ctx context.Context, userID, id string) error {
	if userID == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUnauthorized, "authenticated identity required", nil, "")
	}
	return s.exchanges.Delete(ctx, userID, id)
}
