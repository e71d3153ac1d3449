package check

import (
	"regexp"

	"mbaalint/internal/diag"
	"mbaalint/internal/line"
	"mbaalint/internal/registry"
	"mbaalint/internal/source"
)

// Entries are written as three digits; shorter tokens are accepted so that
// "01" still collides with "001".
var seEntry = regexp.MustCompile(`^(\d{1,3})\s*=`)

// SeEntry is one "ddd = name" line of a sound-effect list.
type SeEntry struct {
	ID  string
	Col int
}

// ParseSeEntry extracts the numbered entry of a data line; other lines and
// malformed entries report false.
func ParseSeEntry(l line.Line) (SeEntry, bool) {
	if l.Kind != line.KindData {
		return SeEntry{}, false
	}
	m := seEntry.FindStringSubmatch(l.Text)
	if m == nil {
		return SeEntry{}, false
	}
	return SeEntry{ID: m[1], Col: l.Indent}, true
}

// CheckSeList reports SeList IDs defined more than once.
func CheckSeList(doc source.Document) []diag.Diagnostic {
	ids := registry.New[string]()
	file := doc.FileID()
	for i := range doc.LineCount() {
		e, ok := ParseSeEntry(line.Classify(doc.Line(i)))
		if !ok {
			continue
		}
		ids.Add(line.NormalizeID(e.ID), tokenAt(file, i, e.Col, e.ID))
	}

	var out diag.Collector
	reportDuplicates(&out, ids, diag.SelDuplicateID, "SeList ID")
	return out.Items
}
