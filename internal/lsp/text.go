package lsp

import (
	"strings"
	"unicode/utf16"
)

// applyChanges folds full and ranged content changes into text in order.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := byteOffset(text, change.Range.Start)
		end := max(byteOffset(text, change.Range.End), start)
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// byteOffset maps an LSP position to a byte offset in text. Positions past
// the end of a line clamp to the line end, past the last line to len(text).
func byteOffset(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	off := 0
	for range pos.Line {
		i := strings.IndexByte(text[off:], '\n')
		if i < 0 {
			return len(text)
		}
		off += i + 1
	}
	units := 0
	for i, r := range text[off:] {
		if r == '\n' || units >= pos.Character {
			return off + i
		}
		if n := utf16.RuneLen(r); n > 0 {
			units += n
		} else {
			units++
		}
	}
	return len(text)
}
