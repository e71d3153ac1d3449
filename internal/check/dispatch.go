package check

import (
	"mbaalint/internal/diag"
	"mbaalint/internal/dialect"
	"mbaalint/internal/source"
)

// Validate runs the validator for kind over doc. Unknown kinds yield nil.
func Validate(doc source.Document, kind dialect.Kind) []diag.Diagnostic {
	switch kind {
	case dialect.Command:
		return CheckCommand(doc)
	case dialect.Vector:
		return CheckVector(doc)
	case dialect.SeList:
		return CheckSeList(doc)
	default:
		return nil
	}
}

// Sink stores the latest diagnostic list of a document, one collection per
// dialect. Set replaces whatever was stored for uri before.
type Sink interface {
	Set(uri string, kind dialect.Kind, list []diag.Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(uri string, kind dialect.Kind, list []diag.Diagnostic)

func (f SinkFunc) Set(uri string, kind dialect.Kind, list []diag.Diagnostic) {
	f(uri, kind, list)
}

// Dispatcher routes documents to their validator and republishes results.
type Dispatcher struct {
	sink Sink
}

func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{sink: sink}
}

// Dispatch validates doc and hands the result to the sink. It reports false
// and leaves the sink untouched when kind is not a known dialect.
func (d *Dispatcher) Dispatch(uri string, doc source.Document, kind dialect.Kind) bool {
	if kind == dialect.Unknown {
		return false
	}
	list := Validate(doc, kind)
	if list == nil {
		list = []diag.Diagnostic{}
	}
	if d.sink != nil {
		d.sink.Set(uri, kind, list)
	}
	return true
}
