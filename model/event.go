package model

type TicketReplyEventMessage struct {
	TicketID   string     `json:"ticket_id"`
	Number     string     `json:"number"`
	Subject    string     `json:"subject"`
	SenderName string     `json:"sender_name"`
	SenderType SenderType `json:"sender_type"`
	Preview    string     `json:"preview"`
	IsInternal bool       `json:"is_internal"`
}

type TicketAssignedEventMessage struct {
	TicketID  string `json:"ticket_id"`
	Number    string `json:"number"`
	Subject   string `json:"subject"`
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
}

type SendEmailEventMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
