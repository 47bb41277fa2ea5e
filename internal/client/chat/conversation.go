// Package chat implements the conversation reconciliation engine: the
// ordered per-conversation message store, the one-time binding of a
// conversation to its server session id, and the send coordinator that
// turns a locally typed line into two authoritative server records.
package chat

import (
	"errors"
	"fmt"
	"sync"

	"github.com/studybuddy-app/studybuddy/internal/client/models"
	"github.com/studybuddy-app/studybuddy/internal/common"
)

var (
	// ErrDuplicateMessage is returned when an append or replace would put
	// two messages with the same authoritative id into one conversation.
	ErrDuplicateMessage = errors.New("duplicate message id")
)

// Conversation holds the ordered transcript of one exchange with the
// assistant plus its metadata. The visible list is append-only except for
// the single atomic replace of a provisional message with its
// authoritative records.
type Conversation struct {
	mu       sync.Mutex
	id       int64
	title    string
	subject  string
	messages []models.Message
	draft    string
}

// NewConversation creates an empty, unbound conversation.
func NewConversation(title, subject string) *Conversation {
	return &Conversation{title: title, subject: subject}
}

// RestoreConversation rebuilds a bound conversation from a server session
// summary and its message history, e.g. when the user reopens a session
// from the dashboard.
func RestoreConversation(summary models.SessionSummary, history []models.Message) *Conversation {
	return &Conversation{
		id:       summary.ID,
		title:    summary.Title,
		subject:  summary.Subject,
		messages: append([]models.Message(nil), history...),
	}
}

// ID returns the bound session id, or 0 while unbound.
func (c *Conversation) ID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Bound reports whether the conversation has acquired its server identity.
func (c *Conversation) Bound() bool {
	return c.ID() != 0
}

func (c *Conversation) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

func (c *Conversation) Subject() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subject
}

// SetTitle records a server-assigned or user-chosen title.
func (c *Conversation) SetTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.title = title
}

// Draft returns the pending, not-yet-submitted input restored after a
// failed send.
func (c *Conversation) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Conversation) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Len returns the number of visible messages.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Messages returns a read-only snapshot of the transcript in order.
func (c *Conversation) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Message(nil), c.messages...)
}

// Append adds a message to the end of the transcript. Authoritative ids
// must be unique within the conversation.
func (c *Conversation) Append(msg models.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkUnique(msg); err != nil {
		return err
	}
	c.messages = append(c.messages, msg)
	return nil
}

// Replace atomically swaps the provisional message tagged localID for the
// given replacements, preserving its position. With no replacements it is
// a removal. No observer ever sees the transcript between the two states.
// Returns common.ErrNotFound when localID is not present.
func (c *Conversation) Replace(localID string, replacements ...models.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i, m := range c.messages {
		if m.LocalID == localID && localID != "" {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: provisional message %s", common.ErrNotFound, localID)
	}

	seen := make(map[int64]struct{}, len(replacements))
	for _, r := range replacements {
		if err := c.checkUnique(r); err != nil {
			return err
		}
		if r.ID != 0 {
			if _, dup := seen[r.ID]; dup {
				return fmt.Errorf("%w: %d", ErrDuplicateMessage, r.ID)
			}
			seen[r.ID] = struct{}{}
		}
	}

	next := make([]models.Message, 0, len(c.messages)-1+len(replacements))
	next = append(next, c.messages[:idx]...)
	next = append(next, replacements...)
	next = append(next, c.messages[idx+1:]...)
	c.messages = next
	return nil
}

// checkUnique enforces invariant: a conversation never holds two messages
// with the same authoritative id. Provisional messages (id 0) are exempt.
// Callers must hold c.mu.
func (c *Conversation) checkUnique(msg models.Message) error {
	if msg.ID == 0 {
		return nil
	}
	for _, m := range c.messages {
		if m.ID == msg.ID {
			return fmt.Errorf("%w: %d", ErrDuplicateMessage, msg.ID)
		}
	}
	return nil
}
