package markdown

import (
	"html"
	"strings"
)

// RenderHTML renders text to an HTML fragment for the message thread
// views. All literal content is escaped; link URLs are attribute-escaped.
func RenderHTML(text string) string {
	doc := Render(text)
	if len(doc.Blocks) == 0 {
		return ""
	}

	var b strings.Builder
	for _, block := range doc.Blocks {
		writeBlockHTML(&b, block)
	}

	return b.String()
}

func writeBlockHTML(b *strings.Builder, block Block) {
	switch block.Kind {
	case BlockBulletList, BlockOrderedList:
		tag := "ul"
		if block.Kind == BlockOrderedList {
			tag = "ol"
		}

		b.WriteString("<" + tag + ">")
		for _, item := range block.Items {
			b.WriteString("<li>")
			writeSpansHTML(b, item)
			b.WriteString("</li>")
		}
		b.WriteString("</" + tag + ">")
	default:
		b.WriteString("<p>")
		for i, line := range block.Lines {
			if i > 0 {
				b.WriteString("<br>")
			}
			writeSpansHTML(b, line)
		}
		b.WriteString("</p>")
	}
}

func writeSpansHTML(b *strings.Builder, spans []Span) {
	for _, span := range spans {
		switch span.Kind {
		case SpanBold:
			b.WriteString("<strong>")
			writeSpansHTML(b, span.Children)
			b.WriteString("</strong>")
		case SpanItalic:
			b.WriteString("<em>")
			writeSpansHTML(b, span.Children)
			b.WriteString("</em>")
		case SpanCode:
			b.WriteString("<code>")
			b.WriteString(html.EscapeString(span.Text))
			b.WriteString("</code>")
		case SpanLink:
			b.WriteString(`<a href="` + html.EscapeString(span.URL) + `">`)
			writeSpansHTML(b, span.Children)
			b.WriteString("</a>")
		default:
			b.WriteString(html.EscapeString(span.Text))
		}
	}
}
