package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatline/chatline-server/internal/store"
)

// fakeConversations is an in-memory stand-in for the persistence
// collaborator.
type fakeConversations struct {
	mu            sync.Mutex
	conversations map[string]*store.Conversation
	err           error
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{conversations: make(map[string]*store.Conversation)}
}

func (f *fakeConversations) add(id string, participants ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	conv := &store.Conversation{ID: id, CreatedAt: time.Now()}
	for _, p := range participants {
		conv.Participants = append(conv.Participants, store.Participant{ID: p, Username: p})
	}
	f.conversations[id] = conv
}

func (f *fakeConversations) failWith(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeConversations) GetConversation(_ context.Context, id string) (*store.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	conv, ok := f.conversations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return conv, nil
}

func newTestHub(conversations store.ConversationStore) *Hub {
	logger := zerolog.Nop()
	return NewHub(conversations, &logger, 16)
}

// mustEvent pops the next queued event and fails unless it has the
// expected kind.
func mustEvent(t *testing.T, c *Conn, kind EventKind) *Event {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ev, err := c.Next(ctx)
	if err != nil {
		t.Fatalf("expected event kind %v, got error: %v", kind, err)
	}
	if ev.Kind != kind {
		t.Fatalf("expected event kind %v, got %v", kind, ev.Kind)
	}
	return ev
}

// mustNoEvent fails if anything is queued for the connection.
func mustNoEvent(t *testing.T, c *Conn) {
	t.Helper()

	if n := c.QueueLen(); n != 0 {
		t.Fatalf("expected empty queue, found %d queued events", n)
	}
}
