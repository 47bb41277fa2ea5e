package chat

import (
	"errors"
	"fmt"
)

// ErrAlreadyBound is returned when binding a conversation that already
// carries a different session id. Under correct coordinator use this never
// triggers, but the invariant is always checked.
var ErrAlreadyBound = errors.New("conversation already bound")

// Bind attaches the server-assigned session id to a previously unbound
// conversation. Binding is the only way a conversation acquires an id and
// the id never changes once bound; re-binding the same id is a no-op.
func (c *Conversation) Bind(sessionID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.id != 0 && c.id != sessionID {
		return fmt.Errorf("%w: have %d, got %d", ErrAlreadyBound, c.id, sessionID)
	}
	c.id = sessionID
	return nil
}
