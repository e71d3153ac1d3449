package dialect

import (
	"fmt"
	"strings"
)

// Kind is a data-file dialect.
type Kind uint8

const (
	Unknown Kind = iota
	Command
	Vector
	SeList

	kindCount
)

// Host language tags.
const (
	TagCommand = "mbaa-cmd"
	TagVector  = "mbaa-vector"
	TagSeList  = "mbaa-selist"
)

func (k Kind) String() string {
	switch k {
	case Command:
		return "command"
	case Vector:
		return "vector"
	case SeList:
		return "selist"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}

// Tag returns the host language tag, or "" for Unknown.
func (k Kind) Tag() string {
	switch k {
	case Command:
		return TagCommand
	case Vector:
		return TagVector
	case SeList:
		return TagSeList
	default:
		return ""
	}
}

// Kinds lists every known dialect in a stable order.
func Kinds() []Kind {
	return []Kind{Command, Vector, SeList}
}

// ParseTag maps a host language tag to a Kind.
func ParseTag(tag string) Kind {
	switch tag {
	case TagCommand:
		return Command
	case TagVector:
		return Vector
	case TagSeList:
		return SeList
	default:
		return Unknown
	}
}

// Parse accepts a tag or a short name ("cmd", "command", "vector", "selist").
func Parse(s string) (Kind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if k := ParseTag(v); k != Unknown {
		return k, nil
	}
	switch v {
	case "cmd", "command":
		return Command, nil
	case "vec", "vector":
		return Vector, nil
	case "se", "selist":
		return SeList, nil
	case "", "auto":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("unknown dialect %q (want cmd|vector|selist|auto)", s)
}
