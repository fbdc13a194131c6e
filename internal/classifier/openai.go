package classifier

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a strict classifier. Classify the user's message into EXACTLY ONE of the following labels:\n" +
	"- POSITIVE_FEEDBACK\n" +
	"- NEGATIVE_FEEDBACK\n" +
	"- QUERY\n\n" +
	"Return only the label, and nothing else (no punctuation, no explanation). " +
	"If the message contains both a complaint and a question, prefer QUERY only if the user explicitly asks about ticket status; " +
	"otherwise prefer NEGATIVE_FEEDBACK for complaints. Be concise and deterministic."

// labelProvider is the narrow interface over the remote classification
// transport. It returns the raw model output; callers normalize it.
type labelProvider interface {
	CompleteLabel(ctx context.Context, message string) (string, error)
}

type openAIProvider struct {
	client *openai.Client
	model  string
}

func newOpenAIProvider(apiKey, model string) *openAIProvider {
	return &openAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *openAIProvider) CompleteLabel(ctx context.Context, message string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0,
		MaxTokens:   8,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Message: %q\n\nWhich single label from the list applies? Reply with only the label.",
					message),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("making openai API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
