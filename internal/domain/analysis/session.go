package analysis

import "sync"

// State is the lifecycle position of an analysis session.
type State string

const (
	StateIdle          State = "idle"
	StateComposing     State = "composing"
	StateAwaitingModel State = "awaiting_model"
	StateAnswered      State = "answered"
	StateFailed        State = "failed"
)

// Session holds the in-memory conversation for one (identity, template)
// pair. At most one model call may be outstanding per session; a submit
// attempted while one is in flight is rejected, not queued. Failed turns
// leave the history untouched so no half-turn ever corrupts the context sent
// on the next submit.
type Session struct {
	mu sync.Mutex

	userID     string
	templateID string

	state    State
	inflight bool
	messages []Message
	lastErr  error
}

// NewSession creates an idle session with no history.
func NewSession(userID, templateID string) *Session {
	return &Session{
		userID:     userID,
		templateID: templateID,
		state:      StateIdle,
	}
}

// TemplateID returns the owning template id.
func (s *Session) TemplateID() string { return s.templateID }

// UserID returns the owning identity.
func (s *Session) UserID() string { return s.userID }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error captured by the most recent failed turn, if
// the session has not completed a successful turn since.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Messages returns a copy of the conversation history.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// beginTurn claims the session for a submission attempt. It fails when a
// turn is already in progress, enforcing the at-most-one-outstanding-call
// invariant by refusing re-entry.
func (s *Session) beginTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight {
		return false
	}
	s.inflight = true
	s.state = StateComposing
	s.lastErr = nil
	return true
}

// awaitModel marks the model call as outstanding. Only valid between
// beginTurn and a finish call.
func (s *Session) awaitModel() {
	s.mu.Lock()
	s.state = StateAwaitingModel
	s.mu.Unlock()
}

// historySnapshot copies the messages to ground the outgoing prompt without
// holding the lock across the model call.
func (s *Session) historySnapshot() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// finishAnswered appends the completed turn to history and releases the
// session. Answered is a resting state: the next beginTurn may claim the
// session immediately.
func (s *Session) finishAnswered(query, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages,
		Message{Role: RoleUser, Content: query},
		Message{Role: RoleAssistant, Content: response},
	)
	s.state = StateAnswered
	s.inflight = false
}

// finishFailed captures the error and releases the session with history
// unchanged. Failed is a resting state like Answered.
func (s *Session) finishFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	s.state = StateFailed
	s.inflight = false
}

// Replace swaps the conversation for a reconstruction loaded from a
// persisted exchange, discarding any unsaved continuation. A load during an
// outstanding call is refused.
func (s *Session) Replace(messages []Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight {
		return false
	}
	s.messages = append([]Message(nil), messages...)
	s.state = StateIdle
	s.lastErr = nil
	return true
}
