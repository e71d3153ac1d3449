package check

import (
	"regexp"
	"strings"

	"mbaalint/internal/diag"
	"mbaalint/internal/line"
	"mbaalint/internal/registry"
	"mbaalint/internal/source"
)

var commandRow = regexp.MustCompile(`^(\d+)\s+`)

// CommandRow is a numbered row of the command table.
type CommandRow struct {
	ID  string
	Col int
}

// ParseCommandRow recognizes a command row. Lines containing '=' are
// assignments, not rows.
func ParseCommandRow(l line.Line) (CommandRow, bool) {
	if l.Kind != line.KindData || strings.Contains(l.Text, "=") {
		return CommandRow{}, false
	}
	m := commandRow.FindStringSubmatch(l.Text)
	if m == nil {
		return CommandRow{}, false
	}
	return CommandRow{ID: m[1], Col: l.Indent}, true
}

// CheckCommand reports command IDs defined more than once.
func CheckCommand(doc source.Document) []diag.Diagnostic {
	ids := registry.New[string]()
	file := doc.FileID()
	for i := range doc.LineCount() {
		row, ok := ParseCommandRow(line.Classify(doc.Line(i)))
		if !ok {
			continue
		}
		ids.Add(line.NormalizeID(row.ID), tokenAt(file, i, row.Col, row.ID))
	}

	var out diag.Collector
	reportDuplicates(&out, ids, diag.CmdDuplicateID, "command ID")
	return out.Items
}
