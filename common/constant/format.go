package constant

// FormatAction describes the markup inserted by one composer toolbar action.
type FormatAction struct {
	Before      string
	After       string
	Placeholder string
}

var FormatActionByName = map[string]FormatAction{
	"bold":         {Before: "**", After: "**", Placeholder: "fetter Text"},
	"italic":       {Before: "*", After: "*", Placeholder: "kursiver Text"},
	"code":         {Before: "`", After: "`", Placeholder: "Code"},
	"link":         {Before: "[", After: "](https://)", Placeholder: "Linktext"},
	"bullet-list":  {Before: "\n- ", After: "", Placeholder: "Listenpunkt"},
	"ordered-list": {Before: "\n1. ", After: "", Placeholder: "Listenpunkt"},
}
