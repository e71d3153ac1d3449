package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Command table
	CmdInfo        Code = 1000
	CmdDuplicateID Code = 1001

	// Vector table
	VecInfo              Code = 2000
	VecDuplicateSection  Code = 2001
	VecDuplicateVector   Code = 2002
	VecDuplicateDefID    Code = 2003
	VecDuplicateSimpleID Code = 2004
	VecDanglingReference Code = 2005

	// SeList
	SelInfo        Code = 3000
	SelDuplicateID Code = 3001

	// IO
	IOLoadFileError Code = 4001

	// Configuration
	CfgInvalid Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:          "Unknown error",
		CmdInfo:              "Command table information",
		CmdDuplicateID:       "Duplicate command ID",
		VecInfo:              "Vector table information",
		VecDuplicateSection:  "Duplicate section header",
		VecDuplicateVector:   "Duplicate vector definition",
		VecDuplicateDefID:    "Duplicate vector definition ID",
		VecDuplicateSimpleID: "Duplicate simple vector ID",
		VecDanglingReference: "Undefined vector reference",
		SelInfo:              "SeList information",
		SelDuplicateID:       "Duplicate SeList ID",
		IOLoadFileError:      "I/O load file error",
		CfgInvalid:           "Invalid configuration",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CMD%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("VEC%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

// ParseCode looks up a known code by its ID, e.g. "VEC2005".
func ParseCode(id string) (Code, bool) {
	for c := range codeDescription {
		if c != UnknownCode && c.ID() == id {
			return c, true
		}
	}
	return UnknownCode, false
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
