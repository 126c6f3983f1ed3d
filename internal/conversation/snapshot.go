package conversation

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// SnapshotVersion is bumped whenever the persisted payload shape changes.
// A stored snapshot with any other version is discarded wholesale; there is
// no partial migration.
const SnapshotVersion = 1

// Store keys.
const (
	SnapshotKey = "chat-app:conversations"
	ActiveIDKey = "chat-app:activeConversationId"
)

// Snapshot is the versioned persisted form of the conversation state.
type Snapshot struct {
	Version           int                   `json:"version"`
	Conversations     []*Conversation       `json:"conversations"`
	ConversationsByID map[string][]*Message `json:"conversationsById"`
}

// EncodeSnapshot serializes a snapshot at the current version.
func EncodeSnapshot(conversations []*Conversation, messagesByID map[string][]*Message) (string, error) {
	snapshot := &Snapshot{
		Version:           SnapshotVersion,
		Conversations:     conversations,
		ConversationsByID: messagesByID,
	}
	bytes, err := json.Marshal(snapshot)
	if err != nil {
		return "", errors.Wrap(err, "marshaling snapshot")
	}
	return string(bytes), nil
}

// DecodeSnapshot parses a stored snapshot. It returns an error for malformed
// payloads, a version mismatch, a payload missing either collection, or null
// entries inside a collection. Callers treat any error as corruption and fall
// back to seed state.
func DecodeSnapshot(value string) (*Snapshot, error) {
	snapshot := &Snapshot{}
	if err := json.Unmarshal([]byte(value), snapshot); err != nil {
		return nil, errors.Wrap(err, "unmarshaling snapshot")
	}
	if snapshot.Version != SnapshotVersion {
		return nil, errors.Errorf("snapshot version %d does not match expected version %d", snapshot.Version, SnapshotVersion)
	}
	if snapshot.Conversations == nil || snapshot.ConversationsByID == nil {
		return nil, errors.New("snapshot is missing conversations")
	}
	for _, c := range snapshot.Conversations {
		if c == nil {
			return nil, errors.New("snapshot contains a null conversation")
		}
	}
	for id, messages := range snapshot.ConversationsByID {
		for _, message := range messages {
			if message == nil {
				return nil, errors.Errorf("snapshot contains a null message in conversation %s", id)
			}
		}
	}
	return snapshot, nil
}
