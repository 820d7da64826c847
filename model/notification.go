package model

import "time"

type NotificationType string

const (
	NotificationTicketAssigned NotificationType = "ticket_assigned"
	NotificationTicketReply    NotificationType = "ticket_reply"
	NotificationSystem         NotificationType = "system"
)

type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
