package model

import "time"

// MessageTemplate is a reusable canned reply body. Default templates ship
// with the system and cannot be deleted. UsageCount is informational and is
// never incremented automatically when a template is applied to a reply.
type MessageTemplate struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Content    string         `json:"content"`
	Category   TicketCategory `json:"category,omitempty"`
	IsDefault  bool           `json:"is_default"`
	UsageCount int            `json:"usage_count"`
	CreatedBy  string         `json:"created_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
