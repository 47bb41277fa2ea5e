package assistant

import (
	"context"
	"fmt"
	"strings"
)

// MockAssistant answers without calling any model. The server falls back to
// it when no OpenAI key is configured, so the whole stack stays usable in
// local development.
type MockAssistant struct{}

func (MockAssistant) Reply(ctx context.Context, subject string, history []Turn, question string) (*Answer, error) {
	topic := subject
	if topic == "" {
		topic = "this topic"
	}

	content := fmt.Sprintf(
		"Good question about %s! You asked: %q. Let's break it down: start by writing out what you already know, then we can work through the gaps one step at a time.",
		topic, strings.TrimSpace(question))

	if len(history) > 0 {
		content += fmt.Sprintf(" (Building on our %d earlier messages.)", len(history))
	}

	return &Answer{Content: content, Model: "mock"}, nil
}
