// Package services contains the client's application services: signing in
// and out against the answering service, and working with stored study
// sessions. Services sit between the CLI surface and the api.Client /
// identity.Cache pair.
package services

import (
	"context"
	"fmt"

	"github.com/studybuddy-app/studybuddy/internal/client/api"
	"github.com/studybuddy-app/studybuddy/internal/client/identity"
	"github.com/studybuddy-app/studybuddy/internal/client/models"
	"github.com/studybuddy-app/studybuddy/internal/logging"
)

// AuthService performs login/registration and keeps the identity cache in
// step with the server-issued credential.
type AuthService struct {
	client api.Client
	cache  *identity.Cache
	log    logging.Logger
}

func NewAuthService(client api.Client, cache *identity.Cache, log logging.Logger) *AuthService {
	return &AuthService{client: client, cache: cache, log: log}
}

// Login authenticates with an email or username and commits the returned
// {credential, profile} pair. The commit publishes synchronously, so the
// caller observes the signed-in state as soon as Login returns.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*models.Profile, error) {
	resp, err := s.client.Login(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Commit(ctx, resp.AccessToken, resp.User); err != nil {
		return nil, fmt.Errorf("store identity: %w", err)
	}
	s.log.Info(ctx, "signed in", "username", resp.User.Username)
	return &resp.User, nil
}

// Register creates an account and signs in with the credential the server
// returns for it.
func (s *AuthService) Register(ctx context.Context, req api.RegisterRequest) (*models.Profile, error) {
	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Commit(ctx, resp.AccessToken, resp.User); err != nil {
		return nil, fmt.Errorf("store identity: %w", err)
	}
	s.log.Info(ctx, "account created", "username", resp.User.Username)
	return &resp.User, nil
}

// Logout destroys the cached identity. Idempotent.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.cache.Clear(ctx)
}
