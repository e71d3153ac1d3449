package source

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Encoding selects how raw file bytes are turned into UTF-8 text.
type Encoding uint8

const (
	// EncodingAuto keeps valid UTF-8 and falls back to Shift_JIS otherwise.
	EncodingAuto Encoding = iota
	EncodingUTF8
	EncodingShiftJIS
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf-8"
	case EncodingShiftJIS:
		return "shift-jis"
	default:
		return "auto"
	}
}

// ParseEncoding maps a user supplied name onto an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "shift-jis", "shift_jis", "sjis", "cp932":
		return EncodingShiftJIS, nil
	default:
		return EncodingAuto, fmt.Errorf("unknown encoding %q (expected auto|utf-8|shift-jis)", name)
	}
}

// decode converts content to UTF-8. The flag reports whether a Shift_JIS
// transcoding took place.
func decode(content []byte, enc Encoding) ([]byte, bool, error) {
	switch enc {
	case EncodingUTF8:
		return content, false, nil
	case EncodingAuto:
		if utf8.Valid(content) {
			return content, false, nil
		}
	}
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), content)
	if err != nil {
		return nil, false, fmt.Errorf("shift_jis decode: %w", err)
	}
	return out, true, nil
}
