package check

import (
	"testing"

	"mbaalint/internal/diag"
	"mbaalint/internal/dialect"
	"mbaalint/internal/source"
)

type recordingSink struct {
	calls []sinkCall
}

type sinkCall struct {
	uri  string
	kind dialect.Kind
	n    int
	empty bool
}

func (s *recordingSink) Set(uri string, kind dialect.Kind, list []diag.Diagnostic) {
	s.calls = append(s.calls, sinkCall{uri: uri, kind: kind, n: len(list), empty: list == nil})
}

func TestDispatcherRoutes(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)

	if !d.Dispatch("file:///cmd.txt", source.Lines{"7 A", "007 B"}, dialect.Command) {
		t.Fatal("command document not dispatched")
	}
	if !d.Dispatch("file:///se.txt", source.Lines{"001 = a.wav"}, dialect.SeList) {
		t.Fatal("selist document not dispatched")
	}
	if d.Dispatch("file:///readme.md", source.Lines{"7 A", "7 B"}, dialect.Unknown) {
		t.Fatal("unknown dialect must not be dispatched")
	}

	want := []sinkCall{
		{uri: "file:///cmd.txt", kind: dialect.Command, n: 2},
		{uri: "file:///se.txt", kind: dialect.SeList, n: 0},
	}
	if len(sink.calls) != len(want) {
		t.Fatalf("sink calls = %+v", sink.calls)
	}
	for i := range want {
		if sink.calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, sink.calls[i], want[i])
		}
	}
}

func TestValidateRoutesByKind(t *testing.T) {
	doc := source.Lines{"001 = a.wav", "1 = b.wav"}
	if got := Validate(doc, dialect.SeList); len(got) != 2 {
		t.Fatalf("selist: got %d diagnostics", len(got))
	}
	// The same lines hold no command rows and no vector data.
	if got := Validate(doc, dialect.Command); len(got) != 0 {
		t.Fatalf("command: got %s", golden(got))
	}
	if got := Validate(doc, dialect.Vector); len(got) != 0 {
		t.Fatalf("vector: got %s", golden(got))
	}
	if got := Validate(doc, dialect.Unknown); got != nil {
		t.Fatalf("unknown: got %v", got)
	}
}

func TestSinkFunc(t *testing.T) {
	var got dialect.Kind
	d := NewDispatcher(SinkFunc(func(_ string, k dialect.Kind, _ []diag.Diagnostic) { got = k }))
	d.Dispatch("x", source.Lines{"[VectorList]"}, dialect.Vector)
	if got != dialect.Vector {
		t.Fatalf("kind = %v", got)
	}
}
