package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Message represents a single communication event sent or received through
// the messaging channel. The engine consumes it as a read-only projection;
// Cost is written by the cost calculator's consumer.
type Message struct {
	Timestamp             time.Time
	ConversationStartedAt time.Time
	ID                    string
	ConversationID        string
	Content               string
	TemplateName          string
	TemplateCategory      string
	Category              Category
	Direction             Direction
	Cost                  float64
	IsInFreeWindow        bool
	IsReply               bool
}

// ConversationAge returns how long the conversation had been open when this
// message was sent. Zero when no conversation start is known.
func (m *Message) ConversationAge() time.Duration {
	if m.ConversationStartedAt.IsZero() || m.Timestamp.Before(m.ConversationStartedAt) {
		return 0
	}
	return m.Timestamp.Sub(m.ConversationStartedAt)
}

// GenerateHash creates a unique hash for duplicate detection on import.
func (m *Message) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		m.Timestamp.UTC().Format(time.RFC3339),
		m.Direction,
		m.ConversationID,
		m.Content)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
