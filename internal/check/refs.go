package check

import (
	"mbaalint/internal/line"
	"mbaalint/internal/registry"
	"mbaalint/internal/source"
)

// refResolver collects vector references keyed by their padded form.
type refResolver struct {
	refs *idRegistry
}

func newRefResolver() *refResolver {
	return &refResolver{refs: registry.New[string]()}
}

// cite records that line idx references tok. The span starts at column 0 and
// is as wide as the padded reference, whatever the token's real position.
func (r *refResolver) cite(file source.FileID, idx int, tok string) {
	ref := line.PadRef(tok)
	r.refs.Add(ref, registry.Occurrence{
		Line: idx,
		Span: source.LineSpan(file, idx, 0, line.Width(ref)),
	})
}

// unresolved returns references with no matching definition. An empty
// definition set resolves everything.
func (r *refResolver) unresolved(defs *idRegistry) []registry.Entry[string] {
	if defs.Len() == 0 {
		return nil
	}
	var out []registry.Entry[string]
	for _, e := range r.refs.Entries() {
		if !defs.Has(line.NormalizeID(e.Key)) {
			out = append(out, e)
		}
	}
	return out
}
