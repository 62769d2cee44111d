package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/chatline/chatline-server/internal/auth"
	"github.com/chatline/chatline-server/internal/config"
	"github.com/chatline/chatline-server/internal/core"
	"github.com/chatline/chatline-server/internal/proto"
	"github.com/chatline/chatline-server/internal/store"
)

var testAuthConfig = auth.Config{
	Secret:   []byte("test-secret"),
	Issuer:   "chatline",
	Audience: "chatline-clients",
}

type fakeConversations struct {
	mu            sync.Mutex
	conversations map[string]*store.Conversation
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

func (f *fakeConversations) GetConversation(_ context.Context, id string) (*store.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	conv, ok := f.conversations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return conv, nil
}

func startTestServer(t *testing.T, conversations store.ConversationStore) (*httptest.Server, *core.Hub) {
	t.Helper()

	logger := zerolog.Nop()
	hub := core.NewHub(conversations, &logger, 16)

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.RateLimit = 0
	cfg.JWTSecret = string(testAuthConfig.Secret)

	verifier := auth.NewVerifier(testAuthConfig)
	server := NewServer(hub, verifier, cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, hub
}

func wsURL(ts *httptest.Server) string {
	return strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, event, data string) {
	t.Helper()

	if err := wsjson.Write(ctx, conn, proto.Inbound{Event: event, Data: []byte(data)}); err != nil {
		t.Fatalf("write %s: %v", event, err)
	}
}

func readOutbound(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.Outbound {
	t.Helper()

	var outbound proto.Outbound
	if err := wsjson.Read(ctx, conn, &outbound); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	return outbound
}

// settle gives the server a moment to process events sent on other
// connections before the next step depends on them.
func settle() {
	time.Sleep(150 * time.Millisecond)
}
