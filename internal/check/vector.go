package check

import (
	"fmt"

	"mbaalint/internal/diag"
	"mbaalint/internal/line"
	"mbaalint/internal/registry"
	"mbaalint/internal/source"
)

// VectorReport is the full outcome of one vector pass.
type VectorReport struct {
	Diagnostics []diag.Diagnostic

	// Headers holds section names of well-formed headers.
	Headers *registry.Registry[string]
	// Definitions holds Vec_### IDs from [VectorList], normalized.
	Definitions *registry.Registry[string]
	// MainIDs and SimpleIDs hold main-region row IDs, normalized.
	MainIDs   *registry.Registry[string]
	SimpleIDs *registry.Registry[string]
	// References holds cited vector IDs, padded to three digits.
	References *registry.Registry[string]
	// SlotDuplicates lists slot IDs repeated within one section instance.
	// They are not reported as diagnostics.
	SlotDuplicates []SlotDuplicate
	// Sections lists every section opened, in order.
	Sections []Section
}

// CheckVector reports duplicate headers, vector definitions, main-region IDs
// and dangling vector references.
func CheckVector(doc source.Document) []diag.Diagnostic {
	return AnalyzeVector(doc).Diagnostics
}

// AnalyzeVector runs the vector pass and keeps its registries.
func AnalyzeVector(doc source.Document) *VectorReport {
	rep := &VectorReport{
		Headers:     registry.New[string](),
		Definitions: registry.New[string](),
		MainIDs:     registry.New[string](),
		SimpleIDs:   registry.New[string](),
	}
	refs := newRefResolver()
	sections := newSectionTracker()
	file := doc.FileID()

	for i := range doc.LineCount() {
		l := line.Classify(doc.Line(i))

		switch l.Kind {
		case line.KindBlank, line.KindTerminator:
			continue
		case line.KindComment:
			if sections.comment(l, i) {
				rep.Sections = append(rep.Sections, sections.cur)
			}
			continue
		case line.KindHeader:
			if l.Header != "" {
				rep.Headers.Add(l.Header, tokenAt(file, i, l.Indent, l.Text))
			}
			sections.enter(l, i)
			rep.Sections = append(rep.Sections, sections.cur)
			continue
		}

		for _, row := range ParseVectorRows(sections.scope(), l) {
			switch r := row.(type) {
			case VectorDef:
				rep.Definitions.Add(line.NormalizeID(r.ID), tokenAt(file, i, r.Col, r.Prefix))
			case SlotRow:
				sections.slot(line.NormalizeID(r.Slot), tokenAt(file, i, r.Col, "Vec"+r.Slot))
				if r.Ref != "" {
					refs.cite(file, i, r.Ref)
				}
			case DefinitionRow:
				rep.MainIDs.Add(line.NormalizeID(r.ID), tokenAt(file, i, r.Col, r.ID))
			case SimpleVectorRow:
				rep.SimpleIDs.Add(line.NormalizeID(r.ID), tokenAt(file, i, r.Col, r.ID))
			case ReferenceRow:
				refs.cite(file, i, r.Ref)
			}
		}
	}
	rep.SlotDuplicates = sections.finish()
	rep.References = refs.refs

	var out diag.Collector
	reportDuplicates(&out, rep.Headers, diag.VecDuplicateSection, "section header")
	reportDuplicates(&out, rep.Definitions, diag.VecDuplicateVector, "vector definition")
	reportDuplicates(&out, rep.MainIDs, diag.VecDuplicateDefID, "vector definition ID")
	reportDuplicates(&out, rep.SimpleIDs, diag.VecDuplicateSimpleID, "simple vector ID")
	for _, e := range refs.unresolved(rep.Definitions) {
		msg := fmt.Sprintf("vector reference %q has no definition in VectorList section", e.Key)
		for _, o := range e.Occurrences {
			diag.ReportWarning(&out, diag.VecDanglingReference, o.Span, msg).Emit()
		}
	}
	rep.Diagnostics = out.Items
	return rep
}
