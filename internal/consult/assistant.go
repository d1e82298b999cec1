// Package consult implements the women's-health consultation flows: the
// request/response chat assistant and the signaling relay for peer-to-peer
// video sessions.
package consult

import (
	"context"
	"os"
	"strings"

	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/journey"
	"github.com/sashabaranov/go-openai"
)

// Assistant answers one women's-health question at a time. The narrow contract
// keeps the handlers independent of the model provider.
type Assistant interface {
	Ask(ctx context.Context, question string) (string, error)
}

const systemPrompt = `You are a women's health assistant.

Reply with a short, concise answer (1-2 sentences max).
Focus on:
- Quick explanation
- 1-2 key tips
- When to see a doctor

If the question isn't about women's health, politely decline.
Return your response in plain text only.`

const maxTokens = 512

// OpenAIAssistant answers questions with a chat completion.
type OpenAIAssistant struct {
	client *openai.Client
	model  string
}

// NewOpenAIAssistant reads the API key from the OPENAI_API_KEY environment
// variable. baseURL overrides the OpenAI endpoint when non-empty, which lets
// tests point the assistant at a stand-in server.
func NewOpenAIAssistant(baseURL string) *OpenAIAssistant {
	config := openai.DefaultConfig(os.Getenv("OPENAI_API_KEY"))
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIAssistant{
		client: openai.NewClientWithConfig(config),
		model:  openai.GPT3Dot5Turbo1106,
	}
}

// Ask answers a single question. Empty questions are rejected with
// journey.ErrInputMissing before any model call.
func (a *OpenAIAssistant) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", journey.ErrInputMissing
	}

	completion, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     a.model,
			MaxTokens: maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: question},
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(journey.ErrNetworkFailure, "create chat completion", errors.SlogError(err))
	}
	if len(completion.Choices) == 0 {
		return "", journey.ErrEmptyResult
	}
	return completion.Choices[0].Message.Content, nil
}
