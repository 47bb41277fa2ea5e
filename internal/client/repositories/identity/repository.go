// Package identity persists the signed-in user's credential and profile in
// the client's local database. The two entries are written and cleared
// together, never independently, so storage can never hold a token without
// an owner or vice versa.
package identity

import "context"

// Repository is the persisted half of the identity cache.
type Repository interface {
	// Load reads the stored credential and serialized profile. When either
	// entry is missing the pair is treated as absent and ("", nil, nil)
	// is returned.
	Load(ctx context.Context) (credential string, profile []byte, err error)

	// Save stores both entries in a single transaction.
	Save(ctx context.Context, credential string, profile []byte) error

	// Clear removes both entries in a single transaction. Clearing an
	// already-empty store is a no-op.
	Clear(ctx context.Context) error
}
