package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/duskren/convo/internal/debug"
)

var log = debug.GetLogger()

// Gateway is the slice of the key-value store the manager needs.
type Gateway interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// ReplyClient produces one assistant message for the given history and
// latest user text.
type ReplyClient interface {
	GenerateReply(ctx context.Context, messages []*Message, userText string) (*Message, error)
}

// Manager owns the set of conversations, their message lists, the active
// conversation pointer and the loading/error lifecycle around sending a
// message. All mutations of the metadata list and the message map go through
// it so the two collections always have matching key sets.
//
// The manager is safe for use from the UI goroutine and a send goroutine
// concurrently. It does not serialize overlapping SendMessage calls against
// the same conversation beyond the mutex; the UI disables the compose action
// while Loading reports true, which keeps that race theoretical.
type Manager struct {
	store       Gateway
	replyClient ReplyClient

	mu            sync.Mutex
	conversations []*Conversation
	messagesByID  map[string][]*Message
	activeID      string
	hydrated      bool
	loading       bool
	err           error
}

// NewManager returns a manager seeded with two empty, placeholder-titled
// conversations. Call Hydrate before trusting any operation to persist.
func NewManager(store Gateway, replyClient ReplyClient) *Manager {
	first := NewConversation()
	second := NewConversation()
	return &Manager{
		store:       store,
		replyClient: replyClient,
		conversations: []*Conversation{
			first,
			second,
		},
		messagesByID: map[string][]*Message{
			first.ID:  {},
			second.ID: {},
		},
		activeID: first.ID,
	}
}

// Hydrate loads persisted state, replacing the seed defaults when a valid
// snapshot of the expected version is found. Any storage failure falls open:
// it is logged and the seed state stands. The manager is marked hydrated
// regardless of which branch was taken; persistence is suppressed until then
// so the seed defaults cannot clobber not-yet-loaded state.
func (m *Manager) Hydrate() {
	defer func() {
		m.mu.Lock()
		m.hydrated = true
		m.mu.Unlock()
	}()

	value, ok, err := m.store.Get(SnapshotKey)
	if err != nil {
		log.Warn().Err(err).Msg("reading persisted conversations, keeping seed state")
		return
	}
	if !ok {
		return
	}

	snapshot, err := DecodeSnapshot(value)
	if err != nil {
		log.Warn().Err(err).Msg("discarding persisted conversations, keeping seed state")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations = snapshot.Conversations
	m.messagesByID = snapshot.ConversationsByID

	// Re-establish the matching key-set invariant on data we did not write.
	for _, c := range m.conversations {
		if _, ok := m.messagesByID[c.ID]; !ok {
			m.messagesByID[c.ID] = []*Message{}
		}
	}
	known := make(map[string]struct{}, len(m.conversations))
	for _, c := range m.conversations {
		known[c.ID] = struct{}{}
	}
	for id := range m.messagesByID {
		if _, ok := known[id]; !ok {
			delete(m.messagesByID, id)
		}
	}

	m.activeID = ""
	if len(m.conversations) > 0 {
		m.activeID = m.conversations[0].ID
	}
	if storedID, ok, err := m.store.Get(ActiveIDKey); err == nil && ok {
		if _, exists := known[storedID]; exists {
			m.activeID = storedID
		}
	}
}

// CreateConversation returns the id of a conversation to make active. It
// reuses an existing empty conversation before allocating a new one, so at
// most one empty, unused conversation exists at a time.
func (m *Manager) CreateConversation() string {
	m.mu.Lock()
	if m.activeID != "" && len(m.messagesByID[m.activeID]) == 0 {
		id := m.activeID
		m.mu.Unlock()
		return id
	}
	for _, c := range m.conversations {
		if len(m.messagesByID[c.ID]) == 0 {
			id := c.ID
			m.mu.Unlock()
			return id
		}
	}

	c := NewConversation()
	m.conversations = append(m.conversations, c)
	m.messagesByID[c.ID] = []*Message{}
	m.mu.Unlock()

	m.persist()
	return c.ID
}

// SendMessage appends the user's message to the active conversation, asks
// the reply client for an assistant message and appends the result. It is a
// no-op for blank text or when no conversation is active. The call blocks
// until the exchange concludes; run it in a goroutine to keep a UI live.
// The reply is appended to the conversation that originated it, even if the
// active pointer has moved in the meantime.
func (m *Manager) SendMessage(ctx context.Context, userText string) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return
	}

	m.mu.Lock()
	if m.activeID == "" {
		m.mu.Unlock()
		return
	}
	conversationID := m.activeID
	isFirstMessage := len(m.messagesByID[conversationID]) == 0

	m.loading = true
	m.err = nil
	m.messagesByID[conversationID] = append(m.messagesByID[conversationID], NewUserMessage(userText))
	if isFirstMessage {
		m.assignOrdinalTitleLocked(conversationID)
	}

	history := make([]*Message, len(m.messagesByID[conversationID]))
	copy(history, m.messagesByID[conversationID])
	m.mu.Unlock()

	m.persist()

	replyMessage, err := m.replyClient.GenerateReply(ctx, history, userText)

	m.mu.Lock()
	if err != nil {
		log.Warn().Err(err).Str("conversation_id", conversationID).Msg("generating reply")
		m.err = err
	} else {
		now := time.Now()
		replyMessage.Timestamp = &now
		m.messagesByID[conversationID] = append(m.messagesByID[conversationID], replyMessage)
	}
	m.loading = false
	m.mu.Unlock()

	if err == nil {
		m.persist()
	}
}

// ClearConversation atomically empties a conversation's message list. The
// title is untouched; clearing does not reset the auto-assigned name.
func (m *Manager) ClearConversation(id string) {
	if id == "" {
		return
	}

	m.mu.Lock()
	if _, ok := m.messagesByID[id]; !ok {
		m.mu.Unlock()
		return
	}
	m.messagesByID[id] = []*Message{}
	m.mu.Unlock()

	m.persist()
}

// SetActiveConversation moves the active pointer. Unknown ids are ignored.
func (m *Manager) SetActiveConversation(id string) {
	m.mu.Lock()
	if _, ok := m.messagesByID[id]; !ok {
		m.mu.Unlock()
		return
	}
	m.activeID = id
	hydrated := m.hydrated
	m.mu.Unlock()

	if !hydrated {
		return
	}
	if err := m.store.Put(ActiveIDKey, id); err != nil {
		log.Warn().Err(err).Msg("persisting active conversation id")
	}
}

// Conversations returns a copy of the conversation metadata list, in order.
func (m *Manager) Conversations() []*Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	conversations := make([]*Conversation, len(m.conversations))
	for i, c := range m.conversations {
		copied := *c
		conversations[i] = &copied
	}
	return conversations
}

// ActiveConversationID returns the active conversation id, or "" when no
// conversations exist.
func (m *Manager) ActiveConversationID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// ActiveMessages returns a copy of the active conversation's message list,
// or an empty list when nothing is active.
func (m *Manager) ActiveMessages() []*Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	messages := m.messagesByID[m.activeID]
	copied := make([]*Message, len(messages))
	copy(copied, messages)
	return copied
}

// Loading reports whether a reply exchange is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Err returns the error from the most recent failed exchange, cleared on the
// next send.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Close flushes the current state to the store.
func (m *Manager) Close() {
	m.persist()
	m.mu.Lock()
	activeID := m.activeID
	hydrated := m.hydrated
	m.mu.Unlock()
	if hydrated && activeID != "" {
		if err := m.store.Put(ActiveIDKey, activeID); err != nil {
			log.Warn().Err(err).Msg("persisting active conversation id")
		}
	}
}

// assignOrdinalTitleLocked rewrites the conversation's placeholder title to
// an ordinal name based on how many other conversations are already in use.
// A conversation whose title was already rewritten is never renamed again.
func (m *Manager) assignOrdinalTitleLocked(id string) {
	var target *Conversation
	for _, c := range m.conversations {
		if c.ID == id {
			target = c
			break
		}
	}
	if target == nil || target.Title != PlaceholderTitle {
		return
	}

	othersInUse := 0
	for _, c := range m.conversations {
		if c.ID == id {
			continue
		}
		if len(m.messagesByID[c.ID]) > 0 || c.Title != PlaceholderTitle {
			othersInUse++
		}
	}
	target.Title = OrdinalTitle(othersInUse)
}

// persist writes the current snapshot to the store. Writes are suppressed
// until hydration completes so seed defaults cannot overwrite stored state.
// Failures are logged and non-fatal; in-memory state stays authoritative.
func (m *Manager) persist() {
	m.mu.Lock()
	if !m.hydrated {
		m.mu.Unlock()
		return
	}
	value, err := EncodeSnapshot(m.conversations, m.messagesByID)
	m.mu.Unlock()
	if err != nil {
		log.Warn().Err(err).Msg("encoding conversation snapshot")
		return
	}

	if err := m.store.Put(SnapshotKey, value); err != nil {
		log.Warn().Err(err).Msg("persisting conversations")
	}
}
