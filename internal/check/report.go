package check

import (
	"fmt"
	"strconv"
	"strings"

	"mbaalint/internal/diag"
	"mbaalint/internal/line"
	"mbaalint/internal/registry"
	"mbaalint/internal/source"
)

// idRegistry is the registry shape every duplicate scan uses: normalized ID
// to occurrences.
type idRegistry = registry.Registry[string]

// tokenAt locates tok starting at column col of line lineIdx.
func tokenAt(file source.FileID, lineIdx, col int, tok string) registry.Occurrence {
	return registry.Occurrence{
		Line: lineIdx,
		Span: source.LineSpan(file, lineIdx, col, col+line.Width(tok)),
	}
}

// reportDuplicates emits one error per occurrence of every key seen twice or
// more. Each diagnostic cites the full line list and points notes at the
// other occurrences.
func reportDuplicates(r diag.Reporter, reg *idRegistry, code diag.Code, what string) {
	for _, e := range reg.Duplicates() {
		msg := duplicateMessage(what, e.Key, e.Lines())
		for i, o := range e.Occurrences {
			b := diag.ReportError(r, code, o.Span, msg)
			for j, other := range e.Occurrences {
				if j != i {
					b.WithNote(other.Span, "also defined here")
				}
			}
			b.Emit()
		}
	}
}

func duplicateMessage(what, key string, lines []int) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = strconv.Itoa(l)
	}
	return fmt.Sprintf("duplicate %s %q (%d occurrences, lines %s)", what, key, len(lines), strings.Join(parts, ", "))
}
