package analysis_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"tracker-api/internal/domain/analysis"
	"tracker-api/internal/domain/entry"
	"tracker-api/internal/domain/template"
	"tracker-api/internal/domain/usersettings"
	"tracker-api/internal/infrastructure/repository/analysisrepo"
	"tracker-api/internal/infrastructure/repository/entryrepo"
	"tracker-api/internal/infrastructure/repository/settingsrepo"
	"tracker-api/internal/infrastructure/repository/templaterepo"
	"tracker-api/internal/utils/platformerrors"
)

const testUser = "user-1"

type fakeChatClient struct {
	mu       sync.Mutex
	response string
	err      error
	started  chan struct{}
	block    chan struct{}
	calls    int
}

func (f *fakeChatClient) Complete(ctx context.Context, cred analysis.Credential, messages []analysis.Message) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.response, f.err
}

func (f *fakeChatClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type failingExchangeRepo struct {
	analysis.Repository
}

func (failingExchangeRepo) Create(ctx context.Context, ex *analysis.Exchange) (*analysis.Exchange, error) {
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeDatabaseError, "insert failed", errors.New("boom"), "")
}

type fixture struct {
	service  *analysis.Service
	sessions *analysis.SessionManager
	client   *fakeChatClient

	templates template.Service
	entries   entry.Service
	settings  usersettings.Service

	templateID string
}

func newFixture(t *testing.T, client *fakeChatClient, exchanges analysis.Repository) *fixture {
	t.Helper()
	log := zerolog.Nop()

	templateRepo := templaterepo.NewInMemoryRepository()
	entryRepo := entryrepo.NewInMemoryRepository()
	settingsRepo := settingsrepo.NewInMemoryRepository()
	if exchanges == nil {
		exchanges = analysisrepo.NewInMemoryRepository()
	}

	templateService := template.NewService(templateRepo, log)
	entryService := entry.NewService(entryRepo, templateRepo, log)
	settingsService := usersettings.NewService(settingsRepo, log)
	sessions := analysis.NewSessionManager()

	service := analysis.NewService(exchanges, entryService, templateService, settingsService, client, sessions, log)

	tmpl, err := templateService.Create(context.Background(), testUser, template.CreateParams{
		Name: "Sleep",
		Fields: []template.Field{
			{ID: "fld_hours", Name: "Hours", Type: template.FieldNumber},
			{ID: "fld_quality", Name: "Quality", Type: template.FieldRating},
		},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	return &fixture{
		service:    service,
		sessions:   sessions,
		client:     client,
		templates:  templateService,
		entries:    entryService,
		settings:   settingsService,
		templateID: tmpl.ID,
	}
}

func (f *fixture) seedCredential(t *testing.T) {
	t.Helper()
	key := "sk-test"
	if _, err := f.settings.Update(context.Background(), testUser, usersettings.UpdateParams{
		OpenAIAPIKey: &key,
	}); err != nil {
		t.Fatalf("seed credential: %v", err)
	}
}

func (f *fixture) seedEntries(t *testing.T) {
	t.Helper()
	for _, e := range []struct {
		date    string
		quality float64
	}{
		{"2024-01-01", 1},
		{"2024-01-02", 3},
		{"2024-01-03", 5},
	} {
		if _, err := f.entries.Create(context.Background(), testUser, entry.CreateParams{
			TemplateID: f.templateID,
			Date:       e.date,
			Values:     map[string]any{"fld_hours": 7.0, "fld_quality": e.quality},
		}); err != nil {
			t.Fatalf("seed entry %s: %v", e.date, err)
		}
	}
}

func TestSubmitEmptyQuery(t *testing.T) {
	f := newFixture(t, &fakeChatClient{response: "ok"}, nil)
	f.seedCredential(t)
	f.seedEntries(t)

	_, err := f.service.Submit(context.Background(), testUser, f.templateID, "   ")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitMissingCredentialRefusedSynchronously(t *testing.T) {
	f := newFixture(t, &fakeChatClient{response: "unused"}, nil)
	f.seedEntries(t)

	_, err := f.service.Submit(context.Background(), testUser, f.templateID, "how am I doing?")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeMissingCredential) {
		t.Fatalf("expected missing-credential error, got %v", err)
	}
	if f.client.callCount() != 0 {
		t.Error("model must not be called without a credential")
	}

	sess := f.service.Session(testUser, f.templateID)
	if got := len(sess.Messages()); got != 0 {
		t.Errorf("history must stay empty after refusal, got %d messages", got)
	}
	if sess.State() != analysis.StateFailed {
		t.Errorf("session state = %s, want failed", sess.State())
	}
}

func TestSubmitNoData(t *testing.T) {
	f := newFixture(t, &fakeChatClient{response: "unused"}, nil)
	f.seedCredential(t)

	_, err := f.service.Submit(context.Background(), testUser, f.templateID, "anything?")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNoData) {
		t.Fatalf("expected no-data error, got %v", err)
	}
	if f.client.callCount() != 0 {
		t.Error("model must not be called without entries")
	}
}

func TestSubmitSuccess(t *testing.T) {
	f := newFixture(t, &fakeChatClient{response: "your sleep is improving"}, nil)
	f.seedCredential(t)
	f.seedEntries(t)

	result, err := f.service.Submit(context.Background(), testUser, f.templateID, "any trends?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Response != "your sleep is improving" {
		t.Errorf("response = %q", result.Response)
	}
	if result.Exchange == nil {
		t.Fatal("expected persisted exchange on result")
	}
	if result.Warning != nil {
		t.Errorf("unexpected warning: %v", result.Warning)
	}
	if len(result.Messages) != 2 {
		t.Fatalf("expected 2 history messages, got %d", len(result.Messages))
	}
	if result.Messages[0].Role != analysis.RoleUser || result.Messages[1].Role != analysis.RoleAssistant {
		t.Error("history must hold the user turn followed by the assistant turn")
	}

	sess := f.service.Session(testUser, f.templateID)
	if sess.State() != analysis.StateAnswered {
		t.Errorf("session state = %s, want answered", sess.State())
	}

	exchanges, err := f.service.ListExchanges(context.Background(), testUser, f.templateID)
	if err != nil {
		t.Fatalf("list exchanges: %v", err)
	}
	if len(exchanges) != 1 {
		t.Fatalf("expected 1 saved exchange, got %d", len(exchanges))
	}
	if exchanges[0].Query != "any trends?" || exchanges[0].Response != "your sleep is improving" {
		t.Errorf("saved exchange = %+v", exchanges[0])
	}
}

func TestSubmitRejectedWhileAwaitingModel(t *testing.T) {
	client := &fakeChatClient{
		response: "slow answer",
		started:  make(chan struct{}),
		block:    make(chan struct{}),
	}
	f := newFixture(t, client, nil)
	f.seedCredential(t)
	f.seedEntries(t)

	done := make(chan error, 1)
	go func() {
		_, err := f.service.Submit(context.Background(), testUser, f.templateID, "first")
		done <- err
	}()

	<-client.started

	_, err := f.service.Submit(context.Background(), testUser, f.templateID, "second")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict) {
		t.Fatalf("expected conflict for overlapping submit, got %v", err)
	}

	close(client.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if client.callCount() != 1 {
		t.Errorf("model called %d times, want 1", client.callCount())
	}
}

func TestFailedTurnLeavesHistoryUntouched(t *testing.T) {
	client := &fakeChatClient{response: "first answer"}
	f := newFixture(t, client, nil)
	f.seedCredential(t)
	f.seedEntries(t)

	if _, err := f.service.Submit(context.Background(), testUser, f.templateID, "first"); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	client.mu.Lock()
	client.err = platformerrors.NewError(context.Background(), platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeTransport, "upstream timeout", nil, "")
	client.mu.Unlock()

	_, err := f.service.Submit(context.Background(), testUser, f.templateID, "second")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}

	sess := f.service.Session(testUser, f.templateID)
	if got := len(sess.Messages()); got != 2 {
		t.Errorf("history length = %d after failed turn, want 2", got)
	}
	if sess.State() != analysis.StateFailed {
		t.Errorf("session state = %s, want failed", sess.State())
	}
	if sess.LastError() == nil {
		t.Error("failed session must expose the turn error")
	}
}

func TestPersistenceFailureSurfacesWarning(t *testing.T) {
	f := newFixture(t, &fakeChatClient{response: "answer"}, failingExchangeRepo{})
	f.seedCredential(t)
	f.seedEntries(t)

	result, err := f.service.Submit(context.Background(), testUser, f.templateID, "q")
	if err != nil {
		t.Fatalf("submit must succeed despite persistence failure, got %v", err)
	}
	if result.Warning == nil {
		t.Error("expected warning when the exchange could not be saved")
	}
	if result.Exchange != nil {
		t.Error("no exchange should be attached when persistence failed")
	}
	if result.Response != "answer" {
		t.Errorf("response = %q", result.Response)
	}

	sess := f.service.Session(testUser, f.templateID)
	if got := len(sess.Messages()); got != 2 {
		t.Errorf("successful turn must still append history, got %d messages", got)
	}
}

func TestLoadExchangeReplacesSession(t *testing.T) {
	f := newFixture(t, &fakeChatClient{response: "answer one"}, nil)
	f.seedCredential(t)
	f.seedEntries(t)

	ctx := context.Background()
	if _, err := f.service.Submit(ctx, testUser, f.templateID, "question one"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.service.Submit(ctx, testUser, f.templateID, "question two"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	exchanges, err := f.service.ListExchanges(ctx, testUser, f.templateID)
	if err != nil {
		t.Fatalf("list exchanges: %v", err)
	}
	if len(exchanges) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(exchanges))
	}

	// Newest first; load the older one.
	oldest := exchanges[len(exchanges)-1]
	sess, err := f.service.LoadExchange(ctx, testUser, f.templateID, oldest.ID)
	if err != nil {
		t.Fatalf("load exchange: %v", err)
	}

	messages := sess.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected the two-message reconstruction, got %d", len(messages))
	}
	if messages[0].Content != "question one" || messages[1].Content != "answer one" {
		t.Errorf("loaded conversation = %+v", messages)
	}
}

func TestLoadExchangeWrongTemplate(t *testing.T) {
	f := newFixture(t, &fakeChatClient{response: "answer"}, nil)
	f.seedCredential(t)
	f.seedEntries(t)

	ctx := context.Background()
	result, err := f.service.Submit(ctx, testUser, f.templateID, "q")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err = f.service.LoadExchange(ctx, testUser, "tmpl_other", result.Exchange.ID)
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected not-found for mismatched template, got %v", err)
	}
}

func TestDeleteExchangeLeavesDataIntact(t *testing.T) {
	f := newFixture(t, &fakeChatClient{response: "answer"}, nil)
	f.seedCredential(t)
	f.seedEntries(t)

	ctx := context.Background()
	result, err := f.service.Submit(ctx, testUser, f.templateID, "q")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := f.service.DeleteExchange(ctx, testUser, result.Exchange.ID); err != nil {
		t.Fatalf("delete exchange: %v", err)
	}

	exchanges, err := f.service.ListExchanges(ctx, testUser, f.templateID)
	if err != nil {
		t.Fatalf("list exchanges: %v", err)
	}
	if len(exchanges) != 0 {
		t.Errorf("expected no exchanges after delete, got %d", len(exchanges))
	}

	entries, err := f.entries.ListByTemplate(ctx, testUser, f.templateID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("entries must survive exchange deletion, got %d", len(entries))
	}
	if _, err := f.templates.Get(ctx, testUser, f.templateID); err != nil {
		t.Errorf("template must survive exchange deletion: %v", err)
	}
}

func TestDropSessionsDiscardsConversation(t *testing.T) {
	f := newFixture(t, &fakeChatClient{response: "answer"}, nil)
	f.seedCredential(t)
	f.seedEntries(t)

	if _, err := f.service.Submit(context.Background(), testUser, f.templateID, "q"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	f.service.DropSessions(f.templateID)

	sess := f.service.Session(testUser, f.templateID)
	if got := len(sess.Messages()); got != 0 {
		t.Errorf("dropped session must come back empty, got %d messages", got)
	}
	if sess.State() != analysis.StateIdle {
		t.Errorf("fresh session state = %s, want idle", sess.State())
	}
}
