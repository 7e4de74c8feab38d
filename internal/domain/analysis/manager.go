package analysis

import "sync"

// SessionManager owns the live analysis sessions, keyed by identity and
// template. Sessions are created on first use and dropped when the template
// is deleted or the user switches away; nothing here is shared across
// identities.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

type sessionKey struct {
	userID     string
	templateID string
}

// NewSessionManager creates an empty manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[sessionKey]*Session),
	}
}

// GetOrCreate returns the session for the pair, creating an idle one if none
// exists.
func (m *SessionManager) GetOrCreate(userID, templateID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := sessionKey{userID: userID, templateID: templateID}
	if s, ok := m.sessions[key]; ok {
		return s
	}
	s := NewSession(userID, templateID)
	m.sessions[key] = s
	return s
}

// Drop discards the session for the pair, if any. In-memory history is lost;
// persisted exchanges are unaffected.
func (m *SessionManager) Drop(userID, templateID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionKey{userID: userID, templateID: templateID})
}

// DropAllForTemplate discards every session attached to the template,
// regardless of identity. Used when a template is deleted.
func (m *SessionManager) DropAllForTemplate(templateID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.sessions {
		if key.templateID == templateID {
			delete(m.sessions, key)
		}
	}
}
