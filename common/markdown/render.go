// Package markdown renders the constrained text syntax used by ticket
// messages and reply templates. It supports bold, italic, inline code,
// links and simple lists; anything malformed falls through as literal
// text. It is intentionally not a general Markdown implementation.
package markdown

import (
	"regexp"
	"strings"
)

type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockBulletList
	BlockOrderedList
)

type SpanKind int

const (
	SpanText SpanKind = iota
	SpanBold
	SpanItalic
	SpanCode
	SpanLink
)

// Span is one inline element. Text carries the literal content for
// SpanText and SpanCode; Children carry the recursively parsed inner
// spans for SpanBold, SpanItalic and SpanLink; URL is set on SpanLink.
type Span struct {
	Kind     SpanKind
	Text     string
	URL      string
	Children []Span
}

// Block is one paragraph or list. Paragraphs keep their source lines
// (single newlines render as hard breaks); lists keep one span slice
// per item.
type Block struct {
	Kind  BlockKind
	Lines [][]Span
	Items [][]Span
}

type Document struct {
	Blocks []Block
}

var (
	bulletPrefix  = regexp.MustCompile(`^[-*] `)
	orderedPrefix = regexp.MustCompile(`^\d+\. `)

	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
	italicPattern = regexp.MustCompile(`\*([^*\n]+)\*|_([^_\n]+)_`)
	codePattern   = regexp.MustCompile("`([^`\n]+)`")
	linkPattern   = regexp.MustCompile(`\[([^\]\n]+)\]\(([^)\n]+)\)`)
)

// Render parses text into a Document. Empty or blank input yields a
// Document with no blocks; Render never fails.
func Render(text string) Document {
	if strings.TrimSpace(text) == "" {
		return Document{}
	}

	var doc Document
	for _, chunk := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		chunk = strings.Trim(chunk, "\n")
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		doc.Blocks = append(doc.Blocks, parseBlock(chunk))
	}

	return doc
}

func parseBlock(chunk string) Block {
	lines := strings.Split(chunk, "\n")

	if allMatch(lines, bulletPrefix) {
		return listBlock(BlockBulletList, lines, bulletPrefix)
	}
	if allMatch(lines, orderedPrefix) {
		return listBlock(BlockOrderedList, lines, orderedPrefix)
	}

	block := Block{Kind: BlockParagraph}
	for _, line := range lines {
		block.Lines = append(block.Lines, parseInline(line))
	}

	return block
}

func allMatch(lines []string, prefix *regexp.Regexp) bool {
	for _, line := range lines {
		if !prefix.MatchString(line) {
			return false
		}
	}
	return true
}

func listBlock(kind BlockKind, lines []string, prefix *regexp.Regexp) Block {
	block := Block{Kind: kind}
	for _, line := range lines {
		item := prefix.ReplaceAllString(line, "")
		block.Items = append(block.Items, parseInline(item))
	}
	return block
}

// inlinePatterns in resolution priority order: bold before italic so
// "**x**" is never read as an empty italic, then code, then link.
var inlinePatterns = []struct {
	kind    SpanKind
	pattern *regexp.Regexp
}{
	{SpanBold, boldPattern},
	{SpanItalic, italicPattern},
	{SpanCode, codePattern},
	{SpanLink, linkPattern},
}

// parseInline tokenizes one line into spans. The earliest match wins;
// on equal start offsets the higher-priority pattern wins. Inner text
// of bold, italic and link spans is parsed recursively; code spans stay
// literal.
func parseInline(text string) []Span {
	var spans []Span

	for text != "" {
		bestKind := SpanText
		var bestLoc []int

		for _, candidate := range inlinePatterns {
			loc := candidate.pattern.FindStringSubmatchIndex(text)
			if loc == nil {
				continue
			}
			if bestLoc == nil || loc[0] < bestLoc[0] {
				bestKind = candidate.kind
				bestLoc = loc
			}
		}

		if bestLoc == nil {
			spans = append(spans, Span{Kind: SpanText, Text: text})
			break
		}

		if bestLoc[0] > 0 {
			spans = append(spans, Span{Kind: SpanText, Text: text[:bestLoc[0]]})
		}

		spans = append(spans, buildSpan(bestKind, text, bestLoc))
		text = text[bestLoc[1]:]
	}

	return spans
}

func buildSpan(kind SpanKind, text string, loc []int) Span {
	switch kind {
	case SpanCode:
		return Span{Kind: SpanCode, Text: group(text, loc, 1)}
	case SpanLink:
		return Span{
			Kind:     SpanLink,
			URL:      group(text, loc, 2),
			Children: parseInline(group(text, loc, 1)),
		}
	default:
		// bold and italic have two alternative capture groups, one per
		// marker style; exactly one of them matched.
		inner := group(text, loc, 1)
		if inner == "" {
			inner = group(text, loc, 2)
		}
		return Span{Kind: kind, Children: parseInline(inner)}
	}
}

func group(text string, loc []int, n int) string {
	start, end := loc[2*n], loc[2*n+1]
	if start < 0 {
		return ""
	}
	return text[start:end]
}
