package source

import "strings"

// FileID indexes a File inside its FileSet.
type FileID uint32

// FileFlags records what loading did to the raw bytes.
type FileFlags uint8

const (
	FileVirtual FileFlags = 1 << iota // из памяти: тест, stdin, буфер редактора
	FileHadBOM
	FileNormalizedCRLF
	FileDecodedShiftJIS
)

var flagNames = []struct {
	f    FileFlags
	name string
}{
	{FileVirtual, "virtual"},
	{FileHadBOM, "bom"},
	{FileNormalizedCRLF, "crlf"},
	{FileDecodedShiftJIS, "sjis"},
}

func (f FileFlags) Has(flag FileFlags) bool { return f&flag == flag }

// String lists the set flags as "bom|crlf", or "-" when none are set.
func (f FileFlags) String() string {
	var parts []string
	for _, n := range flagNames {
		if f.Has(n.f) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "|")
}

// File is one loaded document. Content is UTF-8 with LF line endings.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of each '\n' in Content
	Hash    [32]byte // sha256 of Content
	Flags   FileFlags
}

// Pos is a zero-based line and UTF-16 column.
type Pos struct {
	Line uint32
	Col  uint32
}
