package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func messageAt(t *testing.T, content string, at time.Time) *Message {
	t.Helper()
	m := NewUserMessage(content)
	m.Timestamp = &at
	return m
}

func undatedMessage(content string) *Message {
	m := NewUserMessage(content)
	m.Timestamp = nil
	return m
}

func TestGroupMessagesEmpty(t *testing.T) {
	require.Empty(t, GroupMessages(nil))
	require.Empty(t, GroupMessages([]*Message{}))
}

func TestGroupMessagesSingleDividerAtDayBoundary(t *testing.T) {
	messages := []*Message{
		messageAt(t, "hello", time.Date(2025, 1, 18, 10, 0, 0, 0, time.Local)),
		messageAt(t, "hi again", time.Date(2025, 1, 19, 9, 0, 0, 0, time.Local)),
	}

	items := GroupMessages(messages)
	require.Len(t, items, 3)

	require.Equal(t, RenderItemMessage, items[0].Kind)
	require.Equal(t, "hello", items[0].Message.Content)

	require.Equal(t, RenderItemDivider, items[1].Kind)
	require.Equal(t, "2025-01-19", items[1].BucketKey)

	require.Equal(t, RenderItemMessage, items[2].Kind)
	require.Equal(t, "hi again", items[2].Message.Content)
}

func TestGroupMessagesSameDayNoDivider(t *testing.T) {
	messages := []*Message{
		messageAt(t, "one", time.Date(2025, 1, 18, 10, 0, 0, 0, time.Local)),
		messageAt(t, "two", time.Date(2025, 1, 18, 16, 0, 0, 0, time.Local)),
	}

	items := GroupMessages(messages)
	require.Len(t, items, 2)
	for _, item := range items {
		require.Equal(t, RenderItemMessage, item.Kind)
	}
}

func TestGroupMessagesUndatedNeverTriggerDividers(t *testing.T) {
	messages := []*Message{
		undatedMessage("legacy one"),
		undatedMessage("legacy two"),
	}

	items := GroupMessages(messages)
	require.Len(t, items, 2)
	for _, item := range items {
		require.Equal(t, RenderItemMessage, item.Kind)
	}
}

func TestGroupMessagesUndatedGroupUnderPrecedingDivider(t *testing.T) {
	messages := []*Message{
		messageAt(t, "dated", time.Date(2025, 1, 18, 10, 0, 0, 0, time.Local)),
		undatedMessage("legacy"),
		messageAt(t, "same day", time.Date(2025, 1, 18, 18, 0, 0, 0, time.Local)),
	}

	// The undated message neither triggers a divider nor breaks the run:
	// the third message still matches the first message's day.
	items := GroupMessages(messages)
	require.Len(t, items, 3)
	for _, item := range items {
		require.Equal(t, RenderItemMessage, item.Kind)
	}
}

func TestGroupMessagesIdempotent(t *testing.T) {
	messages := []*Message{
		messageAt(t, "one", time.Date(2025, 1, 17, 8, 0, 0, 0, time.Local)),
		messageAt(t, "two", time.Date(2025, 1, 18, 8, 0, 0, 0, time.Local)),
		undatedMessage("legacy"),
		messageAt(t, "three", time.Date(2025, 1, 19, 8, 0, 0, 0, time.Local)),
	}

	first := GroupMessages(messages)
	second := GroupMessages(messages)
	require.Equal(t, first, second)
}
