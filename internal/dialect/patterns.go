package dialect

import (
	"regexp"
	"strings"

	"mbaalint/internal/line"
	"mbaalint/internal/source"
)

// Document is the part of source.Document the sniffer needs.
type Document interface {
	LineCount() int
	Line(i int) string
	FileID() source.FileID
}

var (
	vecDefLine   = regexp.MustCompile(`^Vec_\d{3}\s*=`)
	vecSlotLine  = regexp.MustCompile(`^Vec\d{2}\s*=`)
	seEntryLine  = regexp.MustCompile(`^\d{1,3}\s*=\s*\S+\.(?i:wav|ogg)\b`)
	seBareEntry  = regexp.MustCompile(`^\d{3}\s*=`)
	numericRow   = regexp.MustCompile(`^\d+(?:\s+[+-]?\d+){4,5}(?:\s*//.*)?$`)
	commandRow   = regexp.MustCompile(`^\d+\s+[^\d\s=]`)
	boundHeaders = regexp.MustCompile(`^\[(?:BoundList|BoundSample|Sample)_\d+\]$`)
)

// sniffLimit bounds how many lines Sniff reads.
const sniffLimit = 2000

// Sniff collects evidence from the first lines of doc.
func Sniff(doc Document) *Evidence {
	e := NewEvidence()
	n := min(doc.LineCount(), sniffLimit)
	for i := range n {
		ObserveLine(e, doc.FileID(), i, doc.Line(i))
	}
	return e
}

// ObserveLine records content evidence for a single raw line.
func ObserveLine(e *Evidence, file source.FileID, idx int, raw string) {
	if e == nil {
		return
	}
	l := line.Classify(raw)
	sp := source.LineSpan(file, idx, l.Indent, l.Indent+line.Width(l.Text))
	add := func(k Kind, score int, reason string) {
		e.Add(Hint{Dialect: k, Score: score, Reason: reason, Span: sp})
	}

	switch l.Kind {
	case line.KindHeader:
		switch {
		case l.Header == "VectorList":
			add(Vector, 10, "[VectorList] section")
		case l.Header == "HitStop":
			add(Vector, 6, "[HitStop] section")
		case boundHeaders.MatchString(l.Text):
			add(Vector, 6, "bound/sample section")
		}
		return
	case line.KindComment:
		if line.IsIgnoreMarker(l.Comment()) {
			add(Vector, 3, "hit-stop marker comment")
		}
		return
	case line.KindData:
	default:
		return
	}

	switch {
	case vecDefLine.MatchString(l.Text):
		add(Vector, 5, "Vec_### definition")
	case vecSlotLine.MatchString(l.Text):
		add(Vector, 4, "VecNN slot assignment")
	case seEntryLine.MatchString(l.Text):
		add(SeList, 5, "numbered sound file entry")
	case seBareEntry.MatchString(l.Text):
		add(SeList, 2, "ddd = entry")
	case numericRow.MatchString(l.Text):
		add(Vector, 2, "fixed-arity numeric row")
	case commandRow.MatchString(l.Text) && !strings.Contains(l.Text, "="):
		add(Command, 2, "numbered command row")
	}
}
