package constant

import "clubdesk/model"

// Descriptor carries the presentation attributes for one enumeration value.
// Labels are German, matching the club admin console.
type Descriptor struct {
	Label string
	Color string
	Icon  string
}

const (
	PlaceholderUnknown    = "Unbekannt"
	PlaceholderNone       = "—"
	PlaceholderUnassigned = "Nicht zugewiesen"
)

var StatusByValue = map[model.TicketStatus]Descriptor{
	model.TicketStatusOpen:     {Label: "Offen", Color: "blue", Icon: "inbox"},
	model.TicketStatusPending:  {Label: "Wartend", Color: "yellow", Icon: "clock"},
	model.TicketStatusResolved: {Label: "Gelöst", Color: "green", Icon: "check-circle"},
	model.TicketStatusClosed:   {Label: "Geschlossen", Color: "gray", Icon: "archive"},
}

var CategoryByValue = map[model.TicketCategory]Descriptor{
	model.TicketCategoryFeeQuestion:  {Label: "Beitragsfrage", Color: "violet", Icon: "credit-card"},
	model.TicketCategoryMembership:   {Label: "Mitgliedschaft", Color: "blue", Icon: "users"},
	model.TicketCategoryDocuments:    {Label: "Dokumente", Color: "teal", Icon: "file-text"},
	model.TicketCategoryRegistration: {Label: "Anmeldung", Color: "cyan", Icon: "clipboard"},
	model.TicketCategoryTechnical:    {Label: "Technik", Color: "orange", Icon: "tool"},
	model.TicketCategoryGeneral:      {Label: "Allgemein", Color: "gray", Icon: "help-circle"},
	model.TicketCategoryComplaint:    {Label: "Beschwerde", Color: "red", Icon: "alert-triangle"},
	model.TicketCategorySuggestion:   {Label: "Vorschlag", Color: "green", Icon: "bulb"},
}

var NotificationByType = map[model.NotificationType]Descriptor{
	model.NotificationTicketAssigned: {Label: "Ticket zugewiesen", Color: "blue", Icon: "user-check"},
	model.NotificationTicketReply:    {Label: "Neue Antwort", Color: "green", Icon: "message-circle"},
	model.NotificationSystem:         {Label: "System", Color: "gray", Icon: "bell"},
}

// StatusLabel resolves a status to its label, degrading to the unknown
// placeholder instead of failing on values outside the taxonomy.
func StatusLabel(s model.TicketStatus) string {
	if d, ok := StatusByValue[s]; ok {
		return d.Label
	}
	return PlaceholderUnknown
}

func CategoryLabel(c model.TicketCategory) string {
	if d, ok := CategoryByValue[c]; ok {
		return d.Label
	}
	return PlaceholderUnknown
}
