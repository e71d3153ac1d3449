package diag

import (
	"testing"

	"mbaalint/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for i := range 3 {
		ok := bag.Add(NewError(CmdDuplicateID, source.LineSpan(0, i, 0, 1), "dup"))
		if want := i < 2; ok != want {
			t.Errorf("Add #%d = %v, want %v", i, ok, want)
		}
	}
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}

	unlimited := NewBag(0)
	dropped := unlimited.AddAll(make([]Diagnostic, 100))
	if dropped != 0 || unlimited.Len() != 100 {
		t.Fatalf("unlimited bag dropped %d, len %d", dropped, unlimited.Len())
	}
}

func TestBagSortIsDeterministic(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewWarning(VecDanglingReference, source.LineSpan(0, 3, 0, 3), "ref"))
	bag.Add(NewError(VecDuplicateSection, source.LineSpan(0, 1, 0, 5), "hdr"))
	bag.Add(NewError(VecDuplicateDefID, source.LineSpan(0, 3, 0, 3), "def"))
	bag.Add(NewError(VecDuplicateSection, source.LineSpan(0, 0, 0, 5), "hdr"))
	bag.Sort()

	want := []Code{VecDuplicateSection, VecDuplicateSection, VecDuplicateDefID, VecDanglingReference}
	for i, d := range bag.Items() {
		if d.Code != want[i] {
			t.Errorf("item %d code = %s, want %s", i, d.Code.ID(), want[i].ID())
		}
	}
}

func TestBagSeverityQueriesAndFilter(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewWarning(VecDanglingReference, source.LineSpan(0, 0, 0, 3), "ref"))
	if bag.HasErrors() {
		t.Error("warning-only bag reports errors")
	}
	if !bag.HasWarnings() {
		t.Error("expected warnings")
	}
	bag.Add(NewError(SelDuplicateID, source.LineSpan(0, 1, 0, 3), "dup"))
	if !bag.HasErrors() {
		t.Error("expected errors")
	}

	bag.Filter(func(d Diagnostic) bool { return d.Severity == SevError })
	if bag.Len() != 1 || bag.Items()[0].Code != SelDuplicateID {
		t.Fatalf("unexpected filtered items: %+v", bag.Items())
	}

	bag.Transform(func(d Diagnostic) Diagnostic {
		d.Message = "changed"
		return d
	})
	if bag.Items()[0].Message != "changed" {
		t.Error("Transform did not apply")
	}
}

func TestBagMergeRaisesLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(CmdDuplicateID, source.LineSpan(0, 0, 0, 1), "a"))
	b := NewBag(1)
	b.Add(NewError(CmdDuplicateID, source.LineSpan(0, 1, 0, 1), "b"))
	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("Len=%d after merge", a.Len())
	}
	// лимит поднят ровно до суммы
	if a.Add(NewError(CmdDuplicateID, source.LineSpan(0, 2, 0, 1), "c")) {
		t.Fatal("Add beyond the merged limit succeeded")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	var r Collector
	b := ReportError(&r, CmdDuplicateID, source.LineSpan(0, 2, 0, 1), "dup").
		WithNote(source.LineSpan(0, 0, 0, 1), "also defined here")
	b.Emit()
	b.Emit()
	if len(r.Items) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(r.Items))
	}
	if len(r.Items[0].Notes) != 1 {
		t.Fatalf("expected note to be carried, got %+v", r.Items[0])
	}
	if got := b.Diagnostic().Severity; got != SevError {
		t.Errorf("severity = %v", got)
	}
}

func TestBagAsReporter(t *testing.T) {
	bag := NewBag(1)
	ReportWarning(bag, VecDanglingReference, source.LineSpan(0, 0, 0, 3), "dangling").Emit()
	ReportWarning(bag, VecDanglingReference, source.LineSpan(0, 1, 0, 3), "dangling").Emit()
	if bag.Len() != 1 {
		t.Fatalf("bag limit ignored: Len=%d", bag.Len())
	}

	var seen []Code
	r := ReporterFunc(func(d Diagnostic) { seen = append(seen, d.Code) })
	ReportError(r, SelDuplicateID, source.Span{}, "dup").Emit()
	if len(seen) != 1 || seen[0] != SelDuplicateID {
		t.Fatalf("ReporterFunc saw %v", seen)
	}
}

func TestWithNoteCopies(t *testing.T) {
	base := NewError(CmdDuplicateID, source.LineSpan(0, 0, 0, 1), "dup").
		WithNote(source.LineSpan(0, 1, 0, 1), "a")
	x := base.WithNote(source.LineSpan(0, 2, 0, 1), "b")
	y := base.WithNote(source.LineSpan(0, 3, 0, 1), "c")
	if len(base.Notes) != 1 || x.Notes[1].Msg != "b" || y.Notes[1].Msg != "c" {
		t.Fatalf("notes aliased: base=%v x=%v y=%v", base.Notes, x.Notes, y.Notes)
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		CmdDuplicateID:       "CMD1001",
		VecDanglingReference: "VEC2005",
		SelDuplicateID:       "SEL3001",
		IOLoadFileError:      "IO4001",
		CfgInvalid:           "CFG5001",
		UnknownCode:          "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %s, want %s", code, got, want)
		}
	}
	if c, ok := ParseCode("VEC2005"); !ok || c != VecDanglingReference {
		t.Errorf("ParseCode(VEC2005) = %v, %v", c, ok)
	}
	if _, ok := ParseCode("E0000"); ok {
		t.Errorf("ParseCode must not resolve the unknown code")
	}
	if VecDuplicateSection.Title() != "Duplicate section header" {
		t.Errorf("unexpected title %q", VecDuplicateSection.Title())
	}
}
