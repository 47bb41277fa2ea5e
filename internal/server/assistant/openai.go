package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const basePrompt = `You are StudyBuddy, a patient and encouraging study tutor.
Explain concepts step by step, check the student's understanding, and prefer
guiding questions over giving away full answers.`

type OpenAIAssistant struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewOpenAIAssistant(apiKey, model string, maxTokens int, temperature float32) *OpenAIAssistant {
	return &OpenAIAssistant{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

func (a *OpenAIAssistant) Reply(ctx context.Context, subject string, history []Turn, question string) (*Answer, error) {

	system := basePrompt
	if subject != "" {
		system += fmt.Sprintf("\nThe student is currently studying %s.", subject)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    messages,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: empty response")
	}

	return &Answer{
		Content:    strings.TrimSpace(resp.Choices[0].Message.Content),
		TokensUsed: int64(resp.Usage.TotalTokens),
		Model:      resp.Model,
	}, nil
}
