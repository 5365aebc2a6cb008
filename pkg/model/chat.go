package model

import (
	"time"

	"github.com/google/uuid"
)

type MessageID string

// NewMessageID generates a new unique MessageID
func NewMessageID() MessageID {
	return MessageID(uuid.New().String())
}

type Sender string

const (
	SenderUser     Sender = "user"
	SenderMemorial Sender = "memorial"
)

// ChatMessage is one turn of the visitor-visible transcript. It is
// append-only and never mutated after creation.
type ChatMessage struct {
	ID        MessageID `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// HistoryEntry is one turn of the AI-context transcript: the sequence
// forwarded to the generation backend. It is a distinct sequence from the
// display transcript and never contains a canned-reply turn.
type HistoryEntry struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
