package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("not found")

// Participant is a conversation member with profile fields resolved.
type Participant struct {
	ID         string `json:"_id"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	ProfilePic string `json:"profilePic,omitempty"`
}

// Conversation is a one-to-one chat as the persistence layer knows it.
type Conversation struct {
	ID           string        `json:"_id"`
	Participants []Participant `json:"participants"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// ParticipantIDs returns the identities of all participants.
func (c *Conversation) ParticipantIDs() []string {
	ids := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		ids = append(ids, p.ID)
	}
	return ids
}

// ConversationStore is the read-only view of the persistence collaborator
// the fan-out core depends on. All durable writes happen elsewhere.
type ConversationStore interface {
	// GetConversation retrieves a conversation with participants resolved.
	// Returns ErrNotFound if the id does not exist.
	GetConversation(ctx context.Context, id string) (*Conversation, error)
}

// Store aggregates the storage interfaces the server wires up.
type Store interface {
	ConversationStore

	// Close closes the underlying database connection.
	Close() error
}
