package source

import (
	"fmt"
)

// Span is a line/column range inside one file. End is exclusive.
type Span struct {
	File  FileID
	Start Pos
	End   Pos
}

// LineSpan returns a single-line span covering columns [startCol, endCol).
func LineSpan(file FileID, line, startCol, endCol int) Span {
	l := toUint32(line)
	return Span{
		File:  file,
		Start: Pos{Line: l, Col: toUint32(startCol)},
		End:   Pos{Line: l, Col: toUint32(endCol)},
	}
}

// Len returns the column width of a single-line span, or 0 for multi-line spans.
func (s Span) Len() uint32 {
	if s.Start.Line != s.End.Line || s.End.Col < s.Start.Col {
		return 0
	}
	return s.End.Col - s.Start.Col
}

// Before reports whether s starts before other (file, then position).
func (s Span) Before(other Span) bool {
	if s.File != other.File {
		return s.File < other.File
	}
	if s.Start != other.Start {
		return s.Start.Before(other.Start)
	}
	return s.End.Before(other.End)
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d:%d-%d:%d", s.File, s.Start.Line, s.Start.Col, s.End.Line, s.End.Col)
}

// Before reports whether p precedes other.
func (p Pos) Before(other Pos) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}

// OneBased converts the position into the 1-based form shown to humans.
func (p Pos) OneBased() (line, col uint32) {
	return p.Line + 1, p.Col + 1
}
