// Package identity owns the process-wide {credential, profile} pair: its
// hydration from local storage at startup, atomic persistence, partial
// profile updates, and invalidation on sign-out.
//
// The cache is an explicit, injected component with a subscription
// interface, not ambient global state: every mutating operation publishes
// the new state synchronously to all current subscribers before returning,
// so code sequenced after Commit/Clear always observes the updated state.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/studybuddy-app/studybuddy/internal/client/models"
	identityrepo "github.com/studybuddy-app/studybuddy/internal/client/repositories/identity"
	"github.com/studybuddy-app/studybuddy/internal/common"
)

// Record is the cached identity. The two fields are written and cleared
// together, never independently.
type Record struct {
	Credential string
	Profile    models.Profile
}

// Subscriber observes identity changes. It receives the new record, or nil
// when the identity was cleared.
type Subscriber func(*Record)

// Cache is the in-memory identity store backed by a Repository.
type Cache struct {
	mu       sync.Mutex
	repo     identityrepo.Repository
	record   *Record
	hydrated bool
	subs     []Subscriber
}

func NewCache(repo identityrepo.Repository) *Cache {
	return &Cache{repo: repo}
}

// Subscribe registers fn for synchronous notification on every Commit,
// MergeProfile and Clear.
func (c *Cache) Subscribe(fn Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Hydrate reads persisted storage and, when both credential and profile are
// present, trusts them without re-verification. It performs no network call
// and may be called at most once per process; a second call fails with
// common.ErrPrecondition.
func (c *Cache) Hydrate(ctx context.Context) (*Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hydrated {
		return nil, fmt.Errorf("%w: identity already hydrated", common.ErrPrecondition)
	}
	c.hydrated = true

	credential, raw, err := c.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if credential == "" {
		return nil, nil
	}

	var profile models.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		// Unreadable profile: treat the pair as absent rather than keep a
		// token with no owner.
		return nil, nil
	}

	c.record = &Record{Credential: credential, Profile: profile}
	return c.snapshot(), nil
}

// Current returns a copy of the cached record, or nil when signed out.
func (c *Cache) Current() *Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Credential returns the cached bearer token, or "" when signed out.
// Suitable as an api.TokenSource.
func (c *Cache) Credential() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.record == nil {
		return ""
	}
	return c.record.Credential
}

// Commit persists both fields atomically and publishes the new record.
func (c *Cache) Commit(ctx context.Context, credential string, profile models.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	c.mu.Lock()
	if err := c.repo.Save(ctx, credential, raw); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("persist identity: %w", err)
	}
	c.record = &Record{Credential: credential, Profile: profile}
	record, subs := c.snapshot(), c.subscribers()
	c.mu.Unlock()

	publish(subs, record)
	return nil
}

// Clear removes both fields and publishes absence. Clearing an already
// cleared cache has the same observable result.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	if err := c.repo.Clear(ctx); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("clear identity: %w", err)
	}
	c.record = nil
	subs := c.subscribers()
	c.mu.Unlock()

	publish(subs, nil)
	return nil
}

// MergeProfile replaces the profile portion of the cached record, leaving
// the credential untouched. Fails with common.ErrPrecondition when no
// identity is cached.
func (c *Cache) MergeProfile(ctx context.Context, profile models.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	c.mu.Lock()
	if c.record == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: no identity cached", common.ErrPrecondition)
	}
	if err := c.repo.Save(ctx, c.record.Credential, raw); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("persist identity: %w", err)
	}
	c.record = &Record{Credential: c.record.Credential, Profile: profile}
	record, subs := c.snapshot(), c.subscribers()
	c.mu.Unlock()

	publish(subs, record)
	return nil
}

func (c *Cache) snapshot() *Record {
	if c.record == nil {
		return nil
	}
	copied := *c.record
	return &copied
}

func (c *Cache) subscribers() []Subscriber {
	return append([]Subscriber(nil), c.subs...)
}

func publish(subs []Subscriber, record *Record) {
	for _, fn := range subs {
		fn(record)
	}
}
