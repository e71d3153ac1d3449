package line

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the lexical role of a line.
type Kind uint8

const (
	KindBlank Kind = iota
	KindComment
	KindHeader
	KindTerminator
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindComment:
		return "comment"
	case KindHeader:
		return "header"
	case KindTerminator:
		return "terminator"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

// Line is a classified line.
type Line struct {
	Kind Kind
	// Text is the trimmed line.
	Text string
	// Indent is the column of Text inside the raw line, in UTF-16 code units.
	Indent int
	// Header is the captured section name for well-formed headers
	// ([Word_12], [VectorList], [HitStop], [Etc]); empty otherwise.
	Header string
	// Bracketed is set for every trimmed line starting with '['. Such lines
	// close the current section even when Header is empty.
	Bracketed bool
}

// Terminator is the literal that ends a block.
const Terminator = "END"

var (
	headerNumbered = regexp.MustCompile(`^\[(\w+_\d+)\]$`)
	headerFixed    = regexp.MustCompile(`^\[(VectorList|HitStop|Etc)\]$`)
)

// Classify determines the role of a raw line.
func Classify(raw string) Line {
	text, off := Trim(raw)
	l := Line{Text: text, Indent: Width(raw[:off])}
	switch {
	case text == "":
		l.Kind = KindBlank
	case strings.HasPrefix(text, "//"):
		l.Kind = KindComment
	case text == Terminator:
		l.Kind = KindTerminator
	case strings.HasPrefix(text, "["):
		l.Kind = KindHeader
		l.Bracketed = true
		l.Header = HeaderName(text)
	default:
		l.Kind = KindData
	}
	return l
}

// HeaderName returns the section name of a well-formed header, or "".
func HeaderName(text string) string {
	if m := headerNumbered.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := headerFixed.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// Trim strips surrounding Unicode whitespace and reports the byte offset of
// the result inside raw.
func Trim(raw string) (string, int) {
	left := strings.TrimLeftFunc(raw, unicode.IsSpace)
	indent := len(raw) - len(left)
	return strings.TrimRightFunc(left, unicode.IsSpace), indent
}

// Comment returns the comment body of a comment line ("// foo" → "foo").
func (l Line) Comment() string {
	if l.Kind != KindComment {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(l.Text, "//"))
}

// Width returns the length of s in UTF-16 code units, the unit editors use
// for columns.
func Width(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
		s = s[size:]
	}
	return n
}
