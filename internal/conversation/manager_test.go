package conversation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	putErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{values: map[string]string{}}
}

func (g *fakeGateway) Get(key string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.getErr != nil {
		return "", false, g.getErr
	}
	value, ok := g.values[key]
	return value, ok, nil
}

func (g *fakeGateway) Put(key, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.putErr != nil {
		return g.putErr
	}
	g.values[key] = value
	return nil
}

func (g *fakeGateway) snapshot(key string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	value, ok := g.values[key]
	return value, ok
}

type fakeReplyClient struct {
	generate func(ctx context.Context, messages []*Message, userText string) (*Message, error)
}

func (c *fakeReplyClient) GenerateReply(ctx context.Context, messages []*Message, userText string) (*Message, error) {
	if c.generate != nil {
		return c.generate(ctx, messages, userText)
	}
	return NewAssistantMessage(fmt.Sprintf("reply to %s", userText)), nil
}

func newTestManager(t *testing.T) (*Manager, *fakeGateway) {
	t.Helper()
	gateway := newFakeGateway()
	manager := NewManager(gateway, &fakeReplyClient{})
	manager.Hydrate()
	return manager, gateway
}

func TestSeedState(t *testing.T) {
	manager, _ := newTestManager(t)

	conversations := manager.Conversations()
	require.Len(t, conversations, 2)
	for _, c := range conversations {
		require.Equal(t, PlaceholderTitle, c.Title)
		require.NotEmpty(t, c.ID)
	}
	require.Equal(t, conversations[0].ID, manager.ActiveConversationID())
	require.Empty(t, manager.ActiveMessages())
}

func TestHydrateKeepsSeedOnMalformedSnapshot(t *testing.T) {
	gateway := newFakeGateway()
	gateway.values["chat-app:conversations"] = "{not json"

	manager := NewManager(gateway, &fakeReplyClient{})
	manager.Hydrate()

	conversations := manager.Conversations()
	require.Len(t, conversations, 2)
	require.Equal(t, PlaceholderTitle, conversations[0].Title)
}

func TestHydrateKeepsSeedOnVersionMismatch(t *testing.T) {
	gateway := newFakeGateway()
	gateway.values["chat-app:conversations"] = `{"version":99,"conversations":[{"id":"x","title":"Stored"}],"conversationsById":{"x":[]}}`

	manager := NewManager(gateway, &fakeReplyClient{})
	manager.Hydrate()

	for _, c := range manager.Conversations() {
		require.NotEqual(t, "x", c.ID)
		require.Equal(t, PlaceholderTitle, c.Title)
	}
}

func TestHydrateKeepsSeedOnNullConversation(t *testing.T) {
	gateway := newFakeGateway()
	gateway.values["chat-app:conversations"] = `{"version":1,"conversations":[null],"conversationsById":{}}`

	manager := NewManager(gateway, &fakeReplyClient{})
	manager.Hydrate()

	conversations := manager.Conversations()
	require.Len(t, conversations, 2)
	require.Equal(t, PlaceholderTitle, conversations[0].Title)
}

func TestHydrateKeepsSeedOnNullMessage(t *testing.T) {
	gateway := newFakeGateway()
	gateway.values["chat-app:conversations"] = `{"version":1,"conversations":[{"id":"c1","title":"First conversation"}],"conversationsById":{"c1":[null]}}`

	manager := NewManager(gateway, &fakeReplyClient{})
	manager.Hydrate()

	require.Len(t, manager.Conversations(), 2)

	// The render pass over the surviving state must be null-free.
	items := GroupMessages(manager.ActiveMessages())
	require.Empty(t, items)
}

func TestHydrateKeepsSeedOnStorageFailure(t *testing.T) {
	gateway := newFakeGateway()
	gateway.getErr = errors.New("store unavailable")

	manager := NewManager(gateway, &fakeReplyClient{})
	manager.Hydrate()

	require.Len(t, manager.Conversations(), 2)
}

func TestHydrateRoundTrip(t *testing.T) {
	gateway := newFakeGateway()
	manager := NewManager(gateway, &fakeReplyClient{})
	manager.Hydrate()
	manager.SendMessage(context.Background(), "hello")
	activeID := manager.ActiveConversationID()

	rehydrated := NewManager(gateway, &fakeReplyClient{})
	rehydrated.Hydrate()

	require.Equal(t, manager.Conversations(), rehydrated.Conversations())
	require.Equal(t, activeID, rehydrated.ActiveConversationID())
	messages := rehydrated.ActiveMessages()
	require.Len(t, messages, 2)
	require.Equal(t, "hello", messages[0].Content)
	require.Equal(t, RoleUser, messages[0].Role)
	require.Equal(t, RoleAssistant, messages[1].Role)
}

func TestCreateConversationReusesActiveEmpty(t *testing.T) {
	manager, _ := newTestManager(t)

	activeID := manager.ActiveConversationID()
	require.Equal(t, activeID, manager.CreateConversation())
	require.Len(t, manager.Conversations(), 2)
}

func TestCreateConversationReusesAnyEmpty(t *testing.T) {
	manager, _ := newTestManager(t)
	manager.SendMessage(context.Background(), "hello")

	conversations := manager.Conversations()
	require.Equal(t, conversations[1].ID, manager.CreateConversation())
	require.Len(t, manager.Conversations(), 2)
}

func TestCreateConversationAllocatesWhenNoneEmpty(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	manager.SendMessage(ctx, "hello")
	manager.SetActiveConversation(manager.Conversations()[1].ID)
	manager.SendMessage(ctx, "hello again")

	id := manager.CreateConversation()
	require.Len(t, manager.Conversations(), 3)

	// At most one empty conversation exists, so repeated calls reuse it.
	manager.SetActiveConversation(id)
	require.Equal(t, id, manager.CreateConversation())
	require.Equal(t, id, manager.CreateConversation())
	require.Len(t, manager.Conversations(), 3)
}

func TestSendMessageAssignsOrdinalTitles(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	manager.SendMessage(ctx, "hello")
	conversations := manager.Conversations()
	require.Equal(t, "First conversation", conversations[0].Title)
	require.Equal(t, PlaceholderTitle, conversations[1].Title)

	manager.SetActiveConversation(conversations[1].ID)
	manager.SendMessage(ctx, "hello there")
	require.Equal(t, "Second conversation", manager.Conversations()[1].Title)
}

func TestTitleAssignedAtMostOnce(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	manager.SendMessage(ctx, "hello")
	id := manager.ActiveConversationID()
	require.Equal(t, "First conversation", manager.Conversations()[0].Title)

	// Clearing empties the messages but keeps the name; the next first
	// message must not rename the conversation.
	manager.ClearConversation(id)
	manager.SendMessage(ctx, "fresh start")
	require.Equal(t, "First conversation", manager.Conversations()[0].Title)
}

func TestSendMessageBlankIsNoOp(t *testing.T) {
	manager, _ := newTestManager(t)

	manager.SendMessage(context.Background(), "   \n\t ")
	require.Empty(t, manager.ActiveMessages())
	require.False(t, manager.Loading())
	require.NoError(t, manager.Err())
}

func TestSendMessageTrimsContent(t *testing.T) {
	manager, _ := newTestManager(t)

	manager.SendMessage(context.Background(), "  hello  ")
	messages := manager.ActiveMessages()
	require.Len(t, messages, 2)
	require.Equal(t, "hello", messages[0].Content)
	require.NotNil(t, messages[0].Timestamp)
}

func TestSendMessageReplyFailure(t *testing.T) {
	gateway := newFakeGateway()
	client := &fakeReplyClient{
		generate: func(context.Context, []*Message, string) (*Message, error) {
			return nil, errors.New("reply backend down")
		},
	}
	manager := NewManager(gateway, client)
	manager.Hydrate()

	manager.SendMessage(context.Background(), "hello")

	require.Error(t, manager.Err())
	require.False(t, manager.Loading())
	messages := manager.ActiveMessages()
	require.Len(t, messages, 1)
	require.Equal(t, RoleUser, messages[0].Role)

	// The next successful send clears the error.
	client.generate = nil
	manager.SendMessage(context.Background(), "retry")
	require.NoError(t, manager.Err())
	require.Len(t, manager.ActiveMessages(), 3)
}

func TestClearConversationLeavesOthersUntouched(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	first := manager.ActiveConversationID()
	manager.SendMessage(ctx, "one")
	manager.SendMessage(ctx, "two")

	second := manager.Conversations()[1].ID
	manager.SetActiveConversation(second)
	manager.SendMessage(ctx, "other")

	manager.ClearConversation(first)

	manager.SetActiveConversation(first)
	require.Empty(t, manager.ActiveMessages())
	manager.SetActiveConversation(second)
	require.Len(t, manager.ActiveMessages(), 2)
}

func TestClearConversationNoOps(t *testing.T) {
	manager, _ := newTestManager(t)
	manager.SendMessage(context.Background(), "hello")

	manager.ClearConversation("")
	manager.ClearConversation("unknown")
	require.Len(t, manager.ActiveMessages(), 2)
}

func TestPersistSuppressedBeforeHydration(t *testing.T) {
	gateway := newFakeGateway()
	manager := NewManager(gateway, &fakeReplyClient{})

	manager.SendMessage(context.Background(), "hello")

	_, ok := gateway.snapshot("chat-app:conversations")
	require.False(t, ok)
}

func TestPersistAfterMutation(t *testing.T) {
	manager, gateway := newTestManager(t)

	manager.SendMessage(context.Background(), "hello")

	value, ok := gateway.snapshot("chat-app:conversations")
	require.True(t, ok)
	snapshot, err := DecodeSnapshot(value)
	require.NoError(t, err)
	require.Len(t, snapshot.ConversationsByID[manager.ActiveConversationID()], 2)
}

func TestPersistFailureIsNonFatal(t *testing.T) {
	manager, gateway := newTestManager(t)
	gateway.putErr = errors.New("quota exceeded")

	manager.SendMessage(context.Background(), "hello")

	// In-memory state remains the source of truth for the session.
	require.Len(t, manager.ActiveMessages(), 2)
	require.NoError(t, manager.Err())
}

func TestSetActiveConversation(t *testing.T) {
	manager, gateway := newTestManager(t)

	second := manager.Conversations()[1].ID
	manager.SetActiveConversation(second)
	require.Equal(t, second, manager.ActiveConversationID())

	value, ok := gateway.snapshot("chat-app:activeConversationId")
	require.True(t, ok)
	require.Equal(t, second, value)

	manager.SetActiveConversation("unknown")
	require.Equal(t, second, manager.ActiveConversationID())
}

func TestReplyLandsInOriginatingConversation(t *testing.T) {
	gateway := newFakeGateway()
	release := make(chan struct{})
	client := &fakeReplyClient{
		generate: func(_ context.Context, _ []*Message, userText string) (*Message, error) {
			<-release
			return NewAssistantMessage(fmt.Sprintf("reply to %s", userText)), nil
		},
	}
	manager := NewManager(gateway, client)
	manager.Hydrate()

	origin := manager.ActiveConversationID()
	done := make(chan struct{})
	go func() {
		manager.SendMessage(context.Background(), "hello")
		close(done)
	}()

	// Switch away while the reply is pending; it must still land in the
	// conversation that originated it.
	require.Eventually(t, manager.Loading, time.Second, time.Millisecond)
	other := manager.Conversations()[1].ID
	manager.SetActiveConversation(other)
	close(release)
	<-done

	require.Empty(t, manager.ActiveMessages())
	manager.SetActiveConversation(origin)
	messages := manager.ActiveMessages()
	require.Len(t, messages, 2)
	require.Equal(t, RoleAssistant, messages[1].Role)
}
