package reply

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/duskren/convo/internal/conversation"
)

// StubClient resolves after a bounded random delay with a canned reply. It
// stands in for a real backend when no API key is configured.
type StubClient struct {
	minDelay time.Duration
	maxDelay time.Duration
}

// NewStubClient returns a stub with the reference latency bounds.
func NewStubClient() *StubClient {
	return &StubClient{
		minDelay: 300 * time.Millisecond,
		maxDelay: 900 * time.Millisecond,
	}
}

// GenerateReply implements Client.
func (c *StubClient) GenerateReply(ctx context.Context, messages []*conversation.Message, userText string) (*conversation.Message, error) {
	delay := c.minDelay + time.Duration(rand.Int63n(int64(c.maxDelay-c.minDelay)))
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(delay):
	}

	content := fmt.Sprintf("You said: %q. This is a stubbed reply; configure an openai backend in the config file for real ones.", userText)
	return conversation.NewAssistantMessage(content), nil
}
