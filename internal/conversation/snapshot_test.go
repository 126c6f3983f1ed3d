package conversation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	at := time.Date(2025, 1, 18, 10, 0, 0, 0, time.Local)
	conversations := []*Conversation{
		{ID: "c1", Title: "First conversation"},
		{ID: "c2", Title: PlaceholderTitle},
	}
	messagesByID := map[string][]*Message{
		"c1": {
			{ID: "m1", Role: RoleUser, Content: "hello", Timestamp: &at},
			{ID: "m2", Role: RoleAssistant, Content: "hi"},
		},
		"c2": {},
	}

	value, err := EncodeSnapshot(conversations, messagesByID)
	require.NoError(t, err)

	snapshot, err := DecodeSnapshot(value)
	require.NoError(t, err)
	require.Equal(t, SnapshotVersion, snapshot.Version)
	require.Equal(t, conversations, snapshot.Conversations)
	require.Len(t, snapshot.ConversationsByID["c1"], 2)
	require.Equal(t, "hello", snapshot.ConversationsByID["c1"][0].Content)
	require.True(t, at.Equal(*snapshot.ConversationsByID["c1"][0].Timestamp))

	// The legacy message survives with no timestamp.
	require.Nil(t, snapshot.ConversationsByID["c1"][1].Timestamp)
}

func TestDecodeSnapshotRejectsMalformedPayload(t *testing.T) {
	_, err := DecodeSnapshot("{not json")
	require.Error(t, err)
}

func TestDecodeSnapshotRejectsVersionMismatch(t *testing.T) {
	payload, err := json.Marshal(map[string]any{
		"version":           SnapshotVersion + 1,
		"conversations":     []any{},
		"conversationsById": map[string]any{},
	})
	require.NoError(t, err)

	_, err = DecodeSnapshot(string(payload))
	require.Error(t, err)
}

func TestDecodeSnapshotRejectsNullConversation(t *testing.T) {
	payload := `{"version":1,"conversations":[null],"conversationsById":{}}`

	_, err := DecodeSnapshot(payload)
	require.Error(t, err)
}

func TestDecodeSnapshotRejectsNullMessage(t *testing.T) {
	payload := `{"version":1,"conversations":[{"id":"c1","title":"First conversation"}],"conversationsById":{"c1":[null]}}`

	_, err := DecodeSnapshot(payload)
	require.Error(t, err)
}

func TestDecodeSnapshotRejectsMissingCollections(t *testing.T) {
	payload, err := json.Marshal(map[string]any{"version": SnapshotVersion})
	require.NoError(t, err)

	_, err = DecodeSnapshot(string(payload))
	require.Error(t, err)
}
