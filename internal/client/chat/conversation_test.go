package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/studybuddy-app/studybuddy/internal/client/models"
	"github.com/studybuddy-app/studybuddy/internal/common"
)

func userMsg(id int64, content string) models.Message {
	return models.Message{ID: id, Role: models.RoleUser, Content: content, CreatedAt: time.Now()}
}

func provisionalMsg(localID, content string) models.Message {
	return models.Message{LocalID: localID, Role: models.RoleUser, Content: content, CreatedAt: time.Now()}
}

func TestConversationAppend(t *testing.T) {
	conv := NewConversation("Algebra", "math")

	require.NoError(t, conv.Append(userMsg(1, "first")))
	require.NoError(t, conv.Append(userMsg(2, "second")))

	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, "first", msgs[0].Content)
	require.Equal(t, "second", msgs[1].Content)
}

func TestConversationAppendDuplicateID(t *testing.T) {
	conv := NewConversation("Algebra", "math")

	require.NoError(t, conv.Append(userMsg(1, "first")))
	err := conv.Append(userMsg(1, "again"))
	require.ErrorIs(t, err, ErrDuplicateMessage)
	require.Equal(t, 1, conv.Len())
}

func TestConversationAppendProvisionalIDsNotUnique(t *testing.T) {
	conv := NewConversation("Algebra", "math")

	require.NoError(t, conv.Append(provisionalMsg("a", "one")))
	require.NoError(t, conv.Append(provisionalMsg("b", "two")))
	require.Equal(t, 2, conv.Len())
}

func TestConversationReplacePreservesPosition(t *testing.T) {
	conv := NewConversation("Algebra", "math")

	require.NoError(t, conv.Append(userMsg(1, "before")))
	require.NoError(t, conv.Append(provisionalMsg("local-1", "pending")))
	require.NoError(t, conv.Append(userMsg(2, "after")))

	err := conv.Replace("local-1", userMsg(10, "pending"), models.Message{
		ID: 11, Role: models.RoleAssistant, Content: "answer",
	})
	require.NoError(t, err)

	msgs := conv.Messages()
	require.Len(t, msgs, 4)
	require.Equal(t, int64(1), msgs[0].ID)
	require.Equal(t, int64(10), msgs[1].ID)
	require.Equal(t, int64(11), msgs[2].ID)
	require.Equal(t, int64(2), msgs[3].ID)
}

func TestConversationReplaceRemoval(t *testing.T) {
	conv := NewConversation("Algebra", "math")

	require.NoError(t, conv.Append(provisionalMsg("local-1", "pending")))
	require.NoError(t, conv.Replace("local-1"))
	require.Equal(t, 0, conv.Len())
}

func TestConversationReplaceMissing(t *testing.T) {
	conv := NewConversation("Algebra", "math")

	err := conv.Replace("no-such-id", userMsg(1, "x"))
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestConversationReplaceDuplicateAgainstExisting(t *testing.T) {
	conv := NewConversation("Algebra", "math")

	require.NoError(t, conv.Append(userMsg(5, "existing")))
	require.NoError(t, conv.Append(provisionalMsg("local-1", "pending")))

	err := conv.Replace("local-1", userMsg(5, "collides"))
	require.ErrorIs(t, err, ErrDuplicateMessage)

	// failed replace leaves the transcript untouched
	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, "local-1", msgs[1].LocalID)
}

func TestConversationReplaceDuplicateBetweenReplacements(t *testing.T) {
	conv := NewConversation("Algebra", "math")

	require.NoError(t, conv.Append(provisionalMsg("local-1", "pending")))

	err := conv.Replace("local-1", userMsg(7, "a"), userMsg(7, "b"))
	require.ErrorIs(t, err, ErrDuplicateMessage)
}

func TestConversationBind(t *testing.T) {
	conv := NewConversation("Algebra", "math")
	require.False(t, conv.Bound())

	require.NoError(t, conv.Bind(42))
	require.True(t, conv.Bound())
	require.Equal(t, int64(42), conv.ID())

	// same id again is a no-op
	require.NoError(t, conv.Bind(42))

	err := conv.Bind(43)
	require.ErrorIs(t, err, ErrAlreadyBound)
	require.Equal(t, int64(42), conv.ID())
}

func TestRestoreConversation(t *testing.T) {
	summary := models.SessionSummary{ID: 9, Title: "Fractions", Subject: "math"}
	history := []models.Message{userMsg(1, "q"), {ID: 2, Role: models.RoleAssistant, Content: "a"}}

	conv := RestoreConversation(summary, history)
	require.True(t, conv.Bound())
	require.Equal(t, int64(9), conv.ID())
	require.Equal(t, "Fractions", conv.Title())
	require.Equal(t, 2, conv.Len())
}
