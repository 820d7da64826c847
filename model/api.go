package model

type ErrorResponse struct {
	Error string `json:"error"`
	Data  any    `json:"data,omitempty"`
}

type ListTicketsResponse struct {
	Tickets []Ticket `json:"tickets"`
}

type TicketDetailResponse struct {
	Ticket   Ticket          `json:"ticket"`
	Messages []TicketMessage `json:"messages"`
}

type CreateTicketRequest struct {
	Subject        string         `json:"subject" validate:"required,max=200"`
	Category       TicketCategory `json:"category" validate:"required"`
	RequesterID    string         `json:"requester_id" validate:"required"`
	RequesterName  string         `json:"requester_name" validate:"required,max=100"`
	RequesterEmail string         `json:"requester_email" validate:"required,email"`
	Department     string         `json:"department"`
	Content        string         `json:"content" validate:"required"`
	StaffID        string         `json:"staff_id" validate:"required"`
	StaffName      string         `json:"staff_name" validate:"required"`
	SendEmail      bool           `json:"send_email"`
}

type ReplyRequest struct {
	Content     string       `json:"content" validate:"required"`
	IsInternal  bool         `json:"is_internal"`
	SendEmail   bool         `json:"send_email"`
	TemplateID  string       `json:"template_id"`
	StaffID     string       `json:"staff_id" validate:"required"`
	StaffName   string       `json:"staff_name" validate:"required"`
	Attachments []Attachment `json:"attachments"`
}

type UpdateStatusRequest struct {
	Status TicketStatus `json:"status" validate:"required,oneof=open pending resolved closed"`
}

// UpdateAssigneeRequest with an empty StaffID unassigns the ticket.
type UpdateAssigneeRequest struct {
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name" validate:"required_with=StaffID"`
}

type CreateTemplateRequest struct {
	Name     string         `json:"name" validate:"required,max=100"`
	Content  string         `json:"content" validate:"required"`
	Category TicketCategory `json:"category"`
	StaffID  string         `json:"staff_id"`
}

type UpdateTemplateRequest struct {
	Name     string         `json:"name" validate:"required,max=100"`
	Content  string         `json:"content" validate:"required"`
	Category TicketCategory `json:"category"`
}

// SaveDraftTemplateRequest saves a reply draft as a reusable template. The
// draft must carry enough content to be worth keeping.
type SaveDraftTemplateRequest struct {
	Name     string         `json:"name" validate:"required,max=100"`
	Content  string         `json:"content" validate:"required,min=20"`
	Category TicketCategory `json:"category"`
	StaffID  string         `json:"staff_id"`
}

type PortalCreateTicketRequest struct {
	MemberID    string            `json:"member_id" validate:"required"`
	MemberName  string            `json:"member_name" validate:"required,max=100"`
	MemberEmail string            `json:"member_email" validate:"required,email"`
	Category    TicketCategory    `json:"category" validate:"required"`
	Values      map[string]string `json:"values"`
}

type ChatMessageRequest struct {
	SenderID   string `json:"sender_id" validate:"required"`
	SenderName string `json:"sender_name" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

type ComposeFormatRequest struct {
	Text           string `json:"text"`
	SelectionStart int    `json:"selection_start" validate:"gte=0"`
	SelectionEnd   int    `json:"selection_end" validate:"gtefield=SelectionStart"`
	Action         string `json:"action" validate:"required"`
}

type ComposeFormatResponse struct {
	Text           string `json:"text"`
	SelectionStart int    `json:"selection_start"`
	SelectionEnd   int    `json:"selection_end"`
}

type ComposePreviewRequest struct {
	Text string `json:"text"`
}

type ComposePreviewResponse struct {
	HTML string `json:"html"`
}

// InboxStats is the per-status snapshot served on the inbox dashboard.
type InboxStats struct {
	Open       int `json:"open"`
	Pending    int `json:"pending"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
	Unassigned int `json:"unassigned"`
	Total      int `json:"total"`
}
