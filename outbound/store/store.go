// Package store holds the data collaborator boundary of the inbox. View
// handlers depend on the interfaces only; the seeded in-memory store is
// the default and a pgx-backed implementation can be selected by config.
package store

import (
	"context"
	"errors"

	"clubdesk/model"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDefaultTemplate = errors.New("default template cannot be deleted")
)

type TicketStore interface {
	// ListTickets returns the tickets matching the filter tuple, sorted
	// by UpdatedAt descending. The result is re-derived from the full
	// set on every call.
	ListTickets(ctx context.Context, f model.TicketFilter) ([]model.Ticket, error)
	GetTicket(ctx context.Context, id string) (model.Ticket, error)
	ListMemberTickets(ctx context.Context, memberID string) ([]model.Ticket, error)
	CreateTicket(ctx context.Context, t model.Ticket, first model.TicketMessage) (model.Ticket, error)
	UpdateTicketStatus(ctx context.Context, id string, status model.TicketStatus) (model.Ticket, error)
	UpdateTicketAssignee(ctx context.Context, id string, assignee *model.StaffRef) (model.Ticket, error)
	// ListMessages returns the chronological thread. Internal notes are
	// dropped unless includeInternal is set (staff view).
	ListMessages(ctx context.Context, ticketID string, includeInternal bool) ([]model.TicketMessage, error)
	// AppendMessage adds to the thread, bumps the ticket's UpdatedAt and
	// preview, and increments the counter of the side that did not
	// write: member messages bump the staff-side unread count, visible
	// staff messages bump the member-side one. Internal notes bump
	// neither. Returns the updated ticket.
	AppendMessage(ctx context.Context, msg model.TicketMessage) (model.Ticket, error)
	// MarkTicketRead zeroes the staff-side unread count.
	MarkTicketRead(ctx context.Context, id string) error
	// MarkTicketReadForMember zeroes the member-side unread count.
	MarkTicketReadForMember(ctx context.Context, id string) error
}

type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]model.MessageTemplate, error)
	GetTemplate(ctx context.Context, id string) (model.MessageTemplate, error)
	CreateTemplate(ctx context.Context, t model.MessageTemplate) (model.MessageTemplate, error)
	// UpdateTemplate replaces name, content and category only; CreatedAt
	// and UsageCount are preserved.
	UpdateTemplate(ctx context.Context, t model.MessageTemplate) (model.MessageTemplate, error)
	// DeleteTemplate removes a template by id. Default templates are
	// rejected with ErrDefaultTemplate.
	DeleteTemplate(ctx context.Context, id string) error
}

type FormStore interface {
	ListForms(ctx context.Context) ([]model.TicketForm, error)
	GetFormByCategory(ctx context.Context, category model.TicketCategory) (model.TicketForm, error)
}

type NotificationStore interface {
	ListNotifications(ctx context.Context) ([]model.Notification, error)
	AddNotification(ctx context.Context, n model.Notification) (model.Notification, error)
	// ToggleNotificationRead flips the read flag; toggling twice restores
	// the original state.
	ToggleNotificationRead(ctx context.Context, id string) (model.Notification, error)
	MarkAllNotificationsRead(ctx context.Context) (int, error)
}

type ChatStore interface {
	ListMemberChats(ctx context.Context, memberID string) ([]model.Chat, error)
	ListChatMessages(ctx context.Context, chatID string) ([]model.ChatMessage, error)
	AppendChatMessage(ctx context.Context, msg model.ChatMessage) (model.Chat, error)
	MarkChatRead(ctx context.Context, chatID string) error
}

// Store is the full collaborator contract consumed by the HTTP and event
// inbound layers.
type Store interface {
	TicketStore
	TemplateStore
	FormStore
	NotificationStore
	ChatStore
}
