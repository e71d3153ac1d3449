package diag

import "mbaalint/internal/source"

// Reporter получает готовые диагностики от валидаторов.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Collector keeps diagnostics in the order they were reported.
type Collector struct {
	Items []Diagnostic
}

func (c *Collector) Report(d Diagnostic) { c.Items = append(c.Items, d) }

// Report lets a Bag stand in for a Reporter; diagnostics past the limit are
// dropped silently.
func (b *Bag) Report(d Diagnostic) { b.Add(d) }

// ReportBuilder collects notes for one diagnostic and hands it to a Reporter
// on Emit. A nil builder is a no-op.
type ReportBuilder struct {
	to      Reporter
	d       Diagnostic
	emitted bool
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: NewError(code, primary, msg)}
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: NewWarning(code, primary, msg)}
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.d.Notes = append(b.d.Notes, Note{Span: sp, Msg: msg})
	}
	return b
}

// Emit reports the diagnostic; calls after the first do nothing.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.to != nil {
		b.to.Report(b.d)
	}
}

// Diagnostic returns what Emit would report.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.d
}
