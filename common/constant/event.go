package constant

const (
	QueueStreamName = "clubdesk_queue_stream"
)

const (
	AllWildcard    = "events.>"
	TicketWildcard = "events.ticket.>"
	EmailWildcard  = "events.email.>"

	SubjectTicketReply    = "events.ticket.reply"
	SubjectTicketAssigned = "events.ticket.assigned"
	SubjectSendEmail      = "events.email.send"
)
