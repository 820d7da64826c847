package model

import "time"

type ChatKind string

const (
	ChatKindDirect ChatKind = "direct"
	ChatKindGroup  ChatKind = "group"
)

// Chat is the portal-side lightweight messaging construct, distinct from
// ticket threads. Group chats map to a club department.
type Chat struct {
	ID           string    `json:"id"`
	Kind         ChatKind  `json:"kind"`
	Name         string    `json:"name"`
	Participants []string  `json:"participants"`
	LastMessage  string    `json:"last_message,omitempty"`
	UnreadCount  int       `json:"unread_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
