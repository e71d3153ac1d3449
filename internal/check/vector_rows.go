package check

import (
	"regexp"

	"mbaalint/internal/line"
)

var (
	vecDefinition = regexp.MustCompile(`^Vec_(\d{3})\s*=`)
	vecSlot       = regexp.MustCompile(`^Vec(\d{2})\s*=`)
	vecSlotRef    = regexp.MustCompile(`^Vec\d{2}\s*=\s*(\d+)`)

	// ID Name Count Ukemi Priority Ani [Ko]; the name never starts with a digit.
	mainDefinition = regexp.MustCompile(`^(\d+)\s+([^\d\s]\S*(?:\s+\S+)*?)\s+\d+\s+\d+\s+\d+\s+\d+(?:\s+\d+)?`)
	// ID x y addx addy [// comment]
	mainSimple    = regexp.MustCompile(`^(\d+)\s+([+-]?\d+)\s+([+-]?\d+)\s+([+-]?\d+)\s+([+-]?\d+)(?:\s*//.*)?$`)
	mainReference = regexp.MustCompile(`^(\d+)\s+\d+\s+\d+`)
)

// VectorRow is one fact recognized on a vector document line. A line can
// yield several facts in the main region.
type VectorRow interface {
	vectorRow()
}

// VectorDef is a "Vec_### = ..." line inside [VectorList].
type VectorDef struct {
	ID  string
	Col int
	// Prefix is the matched "Vec_### =" text.
	Prefix string
}

// SlotRow is a "VecNN = ..." line inside a bound or sample section.
type SlotRow struct {
	Slot string
	Col  int
	// Ref is the leading digit run of the right-hand side, "" if none.
	Ref string
}

// DefinitionRow is a named header row in the main region.
type DefinitionRow struct {
	ID  string
	Col int
}

// SimpleVectorRow is a four-integer row in the main region.
type SimpleVectorRow struct {
	ID  string
	Col int
}

// ReferenceRow is a main-region row whose first column cites a base vector.
type ReferenceRow struct {
	Ref string
}

func (VectorDef) vectorRow()       {}
func (SlotRow) vectorRow()         {}
func (DefinitionRow) vectorRow()   {}
func (SimpleVectorRow) vectorRow() {}
func (ReferenceRow) vectorRow()    {}

// ParseVectorRows returns the facts a data line carries in scope s.
// Non-data lines and the ignore and other scopes yield nothing.
func ParseVectorRows(s Scope, l line.Line) []VectorRow {
	if l.Kind != line.KindData {
		return nil
	}
	switch s {
	case ScopeVectorList:
		if m := vecDefinition.FindStringSubmatch(l.Text); m != nil {
			return []VectorRow{VectorDef{ID: m[1], Col: l.Indent, Prefix: m[0]}}
		}
	case ScopeBoundList, ScopeSample:
		if m := vecSlot.FindStringSubmatch(l.Text); m != nil {
			row := SlotRow{Slot: m[1], Col: l.Indent}
			if r := vecSlotRef.FindStringSubmatch(l.Text); r != nil {
				row.Ref = r[1]
			}
			return []VectorRow{row}
		}
	case ScopeMain:
		var rows []VectorRow
		if m := mainDefinition.FindStringSubmatch(l.Text); m != nil {
			rows = append(rows, DefinitionRow{ID: m[1], Col: l.Indent})
		}
		if m := mainSimple.FindStringSubmatch(l.Text); m != nil {
			rows = append(rows, SimpleVectorRow{ID: m[1], Col: l.Indent})
		}
		if m := mainReference.FindStringSubmatch(l.Text); m != nil {
			rows = append(rows, ReferenceRow{Ref: m[1]})
		}
		return rows
	}
	return nil
}
