// Package reply defines the boundary to the reply-generation backend.
package reply

import (
	"context"

	"github.com/duskren/convo/internal/conversation"
)

// Client produces one assistant message for the given history and latest
// user text. Implementations may block for the duration of the request; the
// caller decides how to schedule the call. There is no cancellation beyond
// the context: once issued, a request runs to completion or error.
type Client interface {
	GenerateReply(ctx context.Context, messages []*conversation.Message, userText string) (*conversation.Message, error)
}
