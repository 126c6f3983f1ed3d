package conversation

import "github.com/duskren/convo/internal/timefmt"

// RenderItemKind discriminates entries in a grouped render list.
type RenderItemKind int

const (
	RenderItemMessage RenderItemKind = iota
	RenderItemDivider
)

// RenderItem is either a date divider or a message passthrough.
type RenderItem struct {
	Kind RenderItemKind

	// Set when Kind is RenderItemMessage.
	Message *Message

	// Set when Kind is RenderItemDivider.
	BucketKey string
	Label     string
}

// GroupMessages walks an ordered message list and inserts a date divider
// wherever the local calendar day changes from the previous dated message.
// Messages without a timestamp never trigger or match a divider; they group
// under whatever divider precedes them. The pass is O(n) and idempotent.
func GroupMessages(messages []*Message) []RenderItem {
	items := make([]RenderItem, 0, len(messages))
	previousKey := ""
	for _, message := range messages {
		key := timefmt.DayBucketKey(message.Timestamp)
		if key != "" && previousKey != "" && key != previousKey {
			items = append(items, RenderItem{
				Kind:      RenderItemDivider,
				BucketKey: key,
				Label:     timefmt.DividerLabel(key),
			})
		}
		if key != "" {
			previousKey = key
		}
		items = append(items, RenderItem{
			Kind:    RenderItemMessage,
			Message: message,
		})
	}
	return items
}
