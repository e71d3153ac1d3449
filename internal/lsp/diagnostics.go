package lsp

import (
	"time"

	"mbaalint/internal/check"
	"mbaalint/internal/diag"
	"mbaalint/internal/dialect"
	"mbaalint/internal/source"
)

// scheduleDiagnostics (re)starts the debounce timer of one document. Every
// call bumps the document sequence so that a pass started for older text
// cannot overwrite a newer result.
func (s *Server) scheduleDiagnostics(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return
	}
	doc.seq++
	seq := doc.seq
	if doc.timer != nil {
		doc.timer.Stop()
	}
	doc.timer = time.AfterFunc(s.debounce, func() {
		s.runDiagnostics(uri, seq)
	})
}

// runDiagnostics validates the whole document and republishes its merged
// diagnostics. Stale passes and documents without a dialect are dropped.
func (s *Server) runDiagnostics(uri string, seq uint64) {
	if s.baseCtx.Err() != nil {
		return
	}
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok || doc.seq != seq {
		s.mu.Unlock()
		return
	}
	text, kind := doc.text, doc.kind
	s.mu.Unlock()

	if kind == dialect.Unknown {
		s.logger.Debug("no dialect, skipping", "uri", uri)
		s.mu.Lock()
		for _, coll := range s.collections {
			delete(coll, uri)
		}
		_, had := s.published[uri]
		s.mu.Unlock()
		if had {
			s.publish(uri)
		}
		return
	}

	start := time.Now()
	sink := check.SinkFunc(func(uri string, kind dialect.Kind, list []diag.Diagnostic) {
		if !s.store(uri, kind, seq, list) {
			s.logger.Debug("stale pass dropped", "uri", uri, "seq", seq)
			return
		}
		s.publish(uri)
	})
	check.NewDispatcher(sink).Dispatch(uri, source.SplitLines(text), kind)
	s.logger.Debug("validated", "uri", uri, "dialect", kind.Tag(), "elapsed", time.Since(start))
}

// store replaces the document's entry in the collection of kind and drops
// it from every other collection.
func (s *Server) store(uri string, kind dialect.Kind, seq uint64, list []diag.Diagnostic) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok || doc.seq != seq || doc.kind != kind {
		return false
	}
	for k, coll := range s.collections {
		if k == kind {
			coll[uri] = list
		} else {
			delete(coll, uri)
		}
	}
	return true
}

// publish merges every collection entry of uri, in dialect order, and sends it.
func (s *Server) publish(uri string) {
	s.mu.Lock()
	var out []lspDiagnostic
	for _, k := range dialect.Kinds() {
		for _, d := range s.collections[k][uri] {
			out = append(out, toLSPDiagnostic(uri, k, d))
		}
	}
	if len(out) > s.maxDiagnostics {
		out = out[:s.maxDiagnostics]
	}
	var version *int
	if doc, ok := s.docs[uri]; ok {
		v := doc.version
		version = &v
	}
	s.published[uri] = struct{}{}
	s.mu.Unlock()

	if err := s.sendPublish(uri, version, out); err != nil {
		s.logger.Error("failed to publish diagnostics", "uri", uri, "error", err)
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.published))
	for uri := range s.published {
		uris = append(uris, uri)
	}
	s.published = make(map[string]struct{})
	for _, coll := range s.collections {
		clear(coll)
	}
	s.mu.Unlock()
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logger.Warn("failed to clear diagnostics", "uri", uri, "error", err)
		}
	}
}

func toLSPDiagnostic(uri string, kind dialect.Kind, d diag.Diagnostic) lspDiagnostic {
	out := lspDiagnostic{
		Range:    toRange(d.Primary),
		Severity: d.Severity.LSP(),
		Code:     d.Code.ID(),
		Source:   kind.Tag(),
		Message:  d.Message,
	}
	for _, n := range d.Notes {
		out.RelatedInformation = append(out.RelatedInformation, diagnosticRelatedInformation{
			Location: location{URI: uri, Range: toRange(n.Span)},
			Message:  n.Msg,
		})
	}
	return out
}

func toRange(sp source.Span) lspRange {
	return lspRange{
		Start: position{Line: int(sp.Start.Line), Character: int(sp.Start.Col)},
		End:   position{Line: int(sp.End.Line), Character: int(sp.End.Col)},
	}
}
