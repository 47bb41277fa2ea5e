// Package assistant produces study answers from a language model given the
// conversation so far.
package assistant

import "context"

// Turn is one prior message of the conversation, oldest first.
type Turn struct {
	Role    string
	Content string
}

// Answer is the model's reply plus the usage accounting stored with it.
type Answer struct {
	Content    string
	TokensUsed int64
	Model      string
}

type Assistant interface {
	Reply(ctx context.Context, subject string, history []Turn, question string) (*Answer, error)
}
