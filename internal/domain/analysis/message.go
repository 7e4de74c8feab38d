// Package analysis implements the conversational analysis of tracked data:
// it grounds a user's question in the entry set of one template, calls an
// OpenAI-compatible model with the owner's credential, and persists each
// completed (query, response) exchange.
package analysis

import "context"

// Role tags a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged turn in an analysis conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Credential carries the per-user provider configuration for one call.
type Credential struct {
	APIKey string
	Model  string
}

// ChatClient abstracts the LLM provider. Implementations block until the
// complete response is available; there is no streaming or cancellation
// contract beyond the context deadline.
type ChatClient interface {
	Complete(ctx context.Context, cred Credential, messages []Message) (string, error)
}
