package markdown

// Insert applies a formatting action to text at the composer's current
// selection. A non-empty selection [start,end) is wrapped with before and
// after; a collapsed cursor gets before+placeholder+after inserted. Text
// outside the selection is returned byte for byte, and offsets outside
// the text are clamped rather than rejected. The returned offsets select
// the wrapped text (or the placeholder) so the editor can re-highlight it.
func Insert(text string, start, end int, before, after, placeholder string) (string, int, int) {
	if start < 0 {
		start = 0
	}
	if start > len(text) {
		start = len(text)
	}
	if end < start {
		end = start
	}
	if end > len(text) {
		end = len(text)
	}

	if start < end {
		out := text[:start] + before + text[start:end] + after + text[end:]
		return out, start + len(before), end + len(before)
	}

	out := text[:start] + before + placeholder + after + text[start:]
	return out, start + len(before), start + len(before) + len(placeholder)
}
