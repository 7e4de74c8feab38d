// Package inference calls the OpenAI chat completions API with a
// credential supplied per request. The server holds no API key of its own:
// each user's stored key travels with the call that uses it.
package inference

import (
	"context"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"tracker-api/internal/domain/analysis"
	"tracker-api/internal/utils/platformerrors"
)

const (
	completionTemperature = 0.7
	completionMaxTokens   = 1000
)

// OpenAIClient implements analysis.ChatClient against the OpenAI API.
type OpenAIClient struct {
	baseURL string
	timeout time.Duration
}

var _ analysis.ChatClient = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client. baseURL overrides the OpenAI endpoint
// when non-empty; timeout bounds each completion call.
func NewOpenAIClient(baseURL string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{baseURL: baseURL, timeout: timeout}
}

// Complete sends the message sequence and returns the assistant's reply.
// The client is rebuilt per call because every user brings their own key.
func (c *OpenAIClient) Complete(ctx context.Context, cred analysis.Credential, messages []analysis.Message) (string, error) {
	cfg := openai.DefaultConfig(cred.APIKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: c.timeout}
	client := openai.NewClientWithConfig(cfg)

	request := openai.ChatCompletionRequest{
		Model:       cred.Model,
		Messages:    toChatMessages(messages),
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	}

	resp, err := client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeTransport, "chat completion request failed", err, "")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeTransport, "no analysis generated", nil, "")
	}
	return resp.Choices[0].Message.Content, nil
}

func toChatMessages(messages []analysis.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}
