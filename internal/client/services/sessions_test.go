package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/studybuddy-app/studybuddy/internal/client/models"
	"github.com/studybuddy-app/studybuddy/internal/common"
)

func TestOpenRestoresBoundConversation(t *testing.T) {
	client := &fakeClient{
		SessionRet: &models.SessionSummary{ID: 9, Title: "Fractions", Subject: "math"},
		MessagesRet: []models.Message{
			{ID: 1, SessionID: 9, Role: models.RoleUser, Content: "q"},
			{ID: 2, SessionID: 9, Role: models.RoleAssistant, Content: "a"},
		},
	}

	conv, err := NewSessionService(client).Open(context.Background(), 9)
	require.NoError(t, err)
	require.True(t, conv.Bound())
	require.Equal(t, int64(9), conv.ID())
	require.Equal(t, "Fractions", conv.Title())
	require.Equal(t, "math", conv.Subject())
	require.Equal(t, 2, conv.Len())
}

func TestOpenMissingSession(t *testing.T) {
	client := &fakeClient{SessionErr: common.ErrNotFound}

	_, err := NewSessionService(client).Open(context.Background(), 404)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestRenameSendsTitleOnly(t *testing.T) {
	client := &fakeClient{UpdateRet: &models.SessionSummary{ID: 9, Title: "Renamed"}}

	updated, err := NewSessionService(client).Rename(context.Background(), 9, "Renamed")
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, int64(9), client.LastSessionID)
	require.NotNil(t, client.LastPatch.Title)
	require.Equal(t, "Renamed", *client.LastPatch.Title)
	require.Nil(t, client.LastPatch.Subject)
	require.Nil(t, client.LastPatch.IsActive)
}

func TestArchiveSendsIsActiveFalse(t *testing.T) {
	client := &fakeClient{UpdateRet: &models.SessionSummary{ID: 9, IsActive: false}}

	_, err := NewSessionService(client).Archive(context.Background(), 9)
	require.NoError(t, err)
	require.NotNil(t, client.LastPatch.IsActive)
	require.False(t, *client.LastPatch.IsActive)
	require.Nil(t, client.LastPatch.Title)
}

func TestDelete(t *testing.T) {
	client := &fakeClient{}

	require.NoError(t, NewSessionService(client).Delete(context.Background(), 9))
	require.Equal(t, int64(9), client.LastSessionID)
}
