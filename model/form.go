package model

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeFile     FieldType = "file"
)

type FormField struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`
}

// TicketForm describes the member-facing intake form for one category.
// Fields are rendered in order; Required is the only per-field validation.
type TicketForm struct {
	ID       string         `json:"id"`
	Category TicketCategory `json:"category"`
	Title    string         `json:"title"`
	Fields   []FormField    `json:"fields"`
}
