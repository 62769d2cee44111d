package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatline/chatline-server/internal/store"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	schema := `
	CREATE TABLE users (
		id          TEXT PRIMARY KEY,
		username    TEXT NOT NULL UNIQUE,
		email       TEXT,
		profile_pic TEXT
	);

	CREATE TABLE conversations (
		id         TEXT PRIMARY KEY,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	);

	CREATE TABLE conversation_participants (
		conversation_id TEXT NOT NULL,
		user_id         TEXT NOT NULL,
		PRIMARY KEY (conversation_id, user_id),
		FOREIGN KEY (conversation_id) REFERENCES conversations(id),
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	INSERT INTO users (id, username, email, profile_pic) VALUES
		('alice', 'Alice', 'alice@example.com', 'https://cdn/a.png'),
		('bob', 'Bob', NULL, NULL);

	INSERT INTO conversations (id) VALUES ('room1');
	INSERT INTO conversation_participants (conversation_id, user_id) VALUES
		('room1', 'alice'),
		('room1', 'bob');
	`

	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewWithSetup(dbPath, func(db *sql.DB) error {
		_, execErr := db.Exec(schema)
		return execErr
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return st
}

func TestGetConversationResolvesParticipants(t *testing.T) {
	st := createTestStore(t)

	conv, err := st.GetConversation(context.Background(), "room1")
	require.NoError(t, err)

	assert.Equal(t, "room1", conv.ID)
	require.Len(t, conv.Participants, 2)
	assert.Equal(t, "alice", conv.Participants[0].ID)
	assert.Equal(t, "Alice", conv.Participants[0].Username)
	assert.Equal(t, "alice@example.com", conv.Participants[0].Email)
	assert.Equal(t, "bob", conv.Participants[1].ID)
	assert.Empty(t, conv.Participants[1].Email)
	assert.Equal(t, []string{"alice", "bob"}, conv.ParticipantIDs())
	assert.False(t, conv.CreatedAt.IsZero())
}

func TestGetConversationNotFound(t *testing.T) {
	st := createTestStore(t)

	_, err := st.GetConversation(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
