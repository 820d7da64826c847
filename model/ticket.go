package model

import "time"

type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"
)

type TicketCategory string

const (
	TicketCategoryFeeQuestion  TicketCategory = "fee_question"
	TicketCategoryMembership   TicketCategory = "membership"
	TicketCategoryDocuments    TicketCategory = "documents"
	TicketCategoryRegistration TicketCategory = "registration"
	TicketCategoryTechnical    TicketCategory = "technical"
	TicketCategoryGeneral      TicketCategory = "general"
	TicketCategoryComplaint    TicketCategory = "complaint"
	TicketCategorySuggestion   TicketCategory = "suggestion"
)

type SenderType string

const (
	SenderTypeMember SenderType = "member"
	SenderTypeStaff  SenderType = "staff"
	SenderTypeSystem SenderType = "system"
)

// AssignmentScope selects the staff-side inbox view.
type AssignmentScope string

const (
	ScopeMine       AssignmentScope = "mine"
	ScopeAll        AssignmentScope = "all"
	ScopeUnassigned AssignmentScope = "unassigned"
)

type Requester struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
}

type StaffRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Ticket struct {
	ID         string         `json:"id"`
	Number     string         `json:"number"`
	Subject    string         `json:"subject"`
	Requester  Requester      `json:"requester"`
	Category   TicketCategory `json:"category"`
	Status     TicketStatus   `json:"status"`
	AssignedTo *StaffRef      `json:"assigned_to,omitempty"`
	// UnreadCount is the staff-side badge; MemberUnreadCount is its
	// portal mirror. Each side only ever resets its own counter.
	UnreadCount       int       `json:"unread_count"`
	MemberUnreadCount int       `json:"member_unread_count"`
	Preview           string    `json:"preview"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Sender struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Type SenderType `json:"type"`
}

type TicketMessage struct {
	ID          string       `json:"id"`
	TicketID    string       `json:"ticket_id"`
	Sender      Sender       `json:"sender"`
	Content     string       `json:"content"`
	ContentHTML string       `json:"content_html,omitempty"`
	IsInternal  bool         `json:"is_internal"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// TicketFilter is the staff inbox filter tuple. Zero values mean no
// restriction for Search, Status and Category; Scope defaults to ScopeAll.
type TicketFilter struct {
	Scope    AssignmentScope
	StaffID  string
	Search   string
	Status   TicketStatus
	Category TicketCategory
}
