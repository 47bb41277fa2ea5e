// Package profile applies partial profile edits: it computes the minimal
// diff between an edited form and the cached profile, pushes only the
// changed fields to the service, and merges the server's authoritative
// answer back into the identity cache.
package profile

import (
	"context"
	"fmt"

	"github.com/studybuddy-app/studybuddy/internal/client/api"
	"github.com/studybuddy-app/studybuddy/internal/client/identity"
	"github.com/studybuddy-app/studybuddy/internal/client/models"
	"github.com/studybuddy-app/studybuddy/internal/common"
)

const minPasswordLength = 8

// Form is the edited state of the profile editor. Password empty means
// "keep the current password".
type Form struct {
	Email    string
	Username string
	FullName string
	Password string
}

// FormFromProfile pre-fills the editor with the current profile.
func FormFromProfile(p models.Profile) Form {
	return Form{Email: p.Email, Username: p.Username, FullName: p.FullName}
}

// BuildPatch diffs form against current and returns only the changed
// fields. A too-short new password or an unchanged form is a validation
// error.
func BuildPatch(current models.Profile, form Form) (api.ProfilePatch, error) {
	var patch api.ProfilePatch

	if form.Email != current.Email {
		patch.Email = &form.Email
	}
	if form.Username != current.Username {
		patch.Username = &form.Username
	}
	if form.FullName != current.FullName {
		patch.FullName = &form.FullName
	}
	if form.Password != "" {
		if len(form.Password) < minPasswordLength {
			return api.ProfilePatch{}, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
		}
		patch.Password = &form.Password
	}

	if patch.Empty() {
		return api.ProfilePatch{}, fmt.Errorf("%w: no changes to save", common.ErrValidation)
	}
	return patch, nil
}

// Client is the slice of the remote client the updater needs.
type Client interface {
	UpdateProfile(ctx context.Context, patch api.ProfilePatch) (*models.Profile, error)
}

type Updater struct {
	client Client
	cache  *identity.Cache
}

func NewUpdater(client Client, cache *identity.Cache) *Updater {
	return &Updater{client: client, cache: cache}
}

// Update validates the edit, sends the diff, and merges the authoritative
// profile the server returns rather than the local draft, so server-side
// normalization is respected. When validation fails no remote call is made
// and no identity mutation happens.
func (u *Updater) Update(ctx context.Context, form Form) (*models.Profile, error) {
	record := u.cache.Current()
	if record == nil {
		return nil, fmt.Errorf("%w: no identity cached", common.ErrPrecondition)
	}

	patch, err := BuildPatch(record.Profile, form)
	if err != nil {
		return nil, err
	}

	updated, err := u.client.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if err := u.cache.MergeProfile(ctx, *updated); err != nil {
		return nil, err
	}
	return updated, nil
}
