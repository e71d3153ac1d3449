package source

import "strings"

// Document is the read-only, line addressable view a validator scans.
// Line indices are zero-based.
type Document interface {
	LineCount() int
	Line(i int) string
	FileID() FileID
}

// Lines adapts a plain slice of lines into a Document with FileID 0.
type Lines []string

// SplitLines splits text on '\n' (dropping a preceding '\r') into Lines.
func SplitLines(text string) Lines {
	parts := strings.Split(text, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return Lines(parts)
}

func (l Lines) LineCount() int { return len(l) }

func (l Lines) Line(i int) string {
	if i < 0 || i >= len(l) {
		return ""
	}
	return l[i]
}

func (Lines) FileID() FileID { return 0 }
