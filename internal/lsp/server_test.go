package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"mbaalint/internal/dialect"
)

func newTestServer(in io.Reader, out io.Writer) *Server {
	return NewServer(in, out, ServerOptions{
		Debounce: time.Hour,
		Logger:   log.New(io.Discard),
	})
}

func notify(t *testing.T, s *Server, method string, params any) {
	t.Helper()
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal %s: %v", method, err)
	}
	if err := s.handleMessage(&rpcMessage{Method: method, Params: payload}); err != nil {
		t.Fatalf("%s: %v", method, err)
	}
}

// flush stops the debounce timer and runs the pending pass synchronously.
func flush(t *testing.T, s *Server, uri string) {
	t.Helper()
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		t.Fatalf("document %s is not open", uri)
	}
	if doc.timer != nil {
		doc.timer.Stop()
	}
	seq := doc.seq
	s.mu.Unlock()
	s.runDiagnostics(uri, seq)
}

func readAll(t *testing.T, out *bytes.Buffer) []rpcMessage {
	t.Helper()
	reader := bufio.NewReader(bytes.NewReader(out.Bytes()))
	var msgs []rpcMessage
	for {
		payload, err := readMessage(reader)
		if errors.Is(err, io.EOF) {
			return msgs
		}
		if err != nil {
			t.Fatalf("read message: %v", err)
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		msgs = append(msgs, msg)
	}
}

func publishes(t *testing.T, out *bytes.Buffer) []publishDiagnosticsParams {
	t.Helper()
	var res []publishDiagnosticsParams
	for _, msg := range readAll(t, out) {
		if msg.Method != "textDocument/publishDiagnostics" {
			continue
		}
		var params publishDiagnosticsParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			t.Fatalf("decode params: %v", err)
		}
		res = append(res, params)
	}
	return res
}

func openDoc(t *testing.T, s *Server, uri, languageID, text string) {
	t.Helper()
	notify(t, s, "textDocument/didOpen", didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, LanguageID: languageID, Version: 1, Text: text},
	})
}

func TestPublishDiagnosticsMapping(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(bytes.NewReader(nil), &out)
	uri := "untitled:Untitled-1"

	openDoc(t, s, uri, dialect.TagCommand, "7 A\n007 B\n8 C\n")
	flush(t, s, uri)

	pubs := publishes(t, &out)
	if len(pubs) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(pubs))
	}
	p := pubs[0]
	if p.URI != uri || p.Version == nil || *p.Version != 1 {
		t.Fatalf("unexpected publish header: %+v", p)
	}
	if len(p.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got %+v", p.Diagnostics)
	}
	got := p.Diagnostics[1]
	if got.Source != dialect.TagCommand || got.Code != "CMD1001" || got.Severity != 1 {
		t.Fatalf("unexpected diagnostic: %+v", got)
	}
	if got.Range.Start != (position{Line: 1, Character: 0}) || got.Range.End != (position{Line: 1, Character: 3}) {
		t.Fatalf("unexpected range: %+v", got.Range)
	}
	if len(got.RelatedInformation) != 1 || got.RelatedInformation[0].Location.Range.Start.Line != 0 {
		t.Fatalf("unexpected related information: %+v", got.RelatedInformation)
	}
}

func TestIncrementalChangeRevalidatesWholeDocument(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(bytes.NewReader(nil), &out)
	uri := "untitled:se"

	openDoc(t, s, uri, dialect.TagSeList, "1=a.wav\n2=b.wav\n")
	flush(t, s, uri)

	notify(t, s, "textDocument/didChange", didChangeTextDocumentParams{
		TextDocument: versionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []textDocumentContentChangeEvent{{
			Range: &lspRange{Start: position{Line: 1, Character: 0}, End: position{Line: 1, Character: 1}},
			Text:  "1",
		}},
	})
	flush(t, s, uri)

	pubs := publishes(t, &out)
	if len(pubs) != 2 {
		t.Fatalf("expected 2 publishes, got %d", len(pubs))
	}
	if len(pubs[0].Diagnostics) != 0 {
		t.Fatalf("first pass should be clean: %+v", pubs[0].Diagnostics)
	}
	if len(pubs[1].Diagnostics) != 2 || pubs[1].Diagnostics[0].Code != "SEL3001" {
		t.Fatalf("second pass should report the duplicate: %+v", pubs[1].Diagnostics)
	}
	if *pubs[1].Version != 2 {
		t.Fatalf("version = %d, want 2", *pubs[1].Version)
	}
}

func TestStalePassIsDropped(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(bytes.NewReader(nil), &out)
	uri := "untitled:cmd"

	openDoc(t, s, uri, dialect.TagCommand, "1 A\n1 B\n")
	s.mu.Lock()
	stale := s.docs[uri].seq
	s.mu.Unlock()

	notify(t, s, "textDocument/didChange", didChangeTextDocumentParams{
		TextDocument:   versionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []textDocumentContentChangeEvent{{Text: "1 A\n2 B\n"}},
	})
	s.runDiagnostics(uri, stale)
	if pubs := publishes(t, &out); len(pubs) != 0 {
		t.Fatalf("stale pass published: %+v", pubs)
	}

	flush(t, s, uri)
	pubs := publishes(t, &out)
	if len(pubs) != 1 || len(pubs[0].Diagnostics) != 0 {
		t.Fatalf("expected one clean publish, got %+v", pubs)
	}
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(bytes.NewReader(nil), &out)
	uri := "untitled:cmd"

	openDoc(t, s, uri, dialect.TagCommand, "1 A\n1 B\n")
	flush(t, s, uri)
	notify(t, s, "textDocument/didClose", didCloseTextDocumentParams{
		TextDocument: textDocumentIdentifier{URI: uri},
	})

	pubs := publishes(t, &out)
	if len(pubs) != 2 {
		t.Fatalf("expected publish + clear, got %d", len(pubs))
	}
	if len(pubs[1].Diagnostics) != 0 {
		t.Fatalf("close must clear diagnostics: %+v", pubs[1])
	}
	for k, coll := range s.collections {
		if _, ok := coll[uri]; ok {
			t.Fatalf("collection %v still holds %s", k, uri)
		}
	}
}

func TestDialectFromFileName(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(bytes.NewReader(nil), &out)
	dir := t.TempDir()
	vecURI := canonicalURI(pathToURI(filepath.Join(dir, "SionVector.txt")))
	otherURI := canonicalURI(pathToURI(filepath.Join(dir, "notes.txt")))

	openDoc(t, s, vecURI, "plaintext", "[VectorList]\n005\n")
	openDoc(t, s, otherURI, "plaintext", "1 A\n1 B\n")
	flush(t, s, vecURI)
	flush(t, s, otherURI)

	pubs := publishes(t, &out)
	if len(pubs) != 1 {
		t.Fatalf("expected only the vector file to publish, got %+v", pubs)
	}
	if pubs[0].URI != vecURI {
		t.Fatalf("unexpected uri %s", pubs[0].URI)
	}
	for _, d := range pubs[0].Diagnostics {
		if d.Source != dialect.TagVector {
			t.Fatalf("unexpected source %q", d.Source)
		}
	}
}

func TestDidChangeConfigurationRedetectsDialect(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(bytes.NewReader(nil), &out)
	uri := canonicalURI(pathToURI(filepath.Join(t.TempDir(), "moves.txt")))

	openDoc(t, s, uri, "plaintext", "1 A\n1 B\n")
	flush(t, s, uri)
	if pubs := publishes(t, &out); len(pubs) != 0 {
		t.Fatalf("unmatched file published: %+v", pubs)
	}

	notify(t, s, "workspace/didChangeConfiguration", map[string]any{
		"settings": map[string]any{
			"mbaalint": map[string]any{
				"debounceMs": 3600000,
				"files":      map[string]any{"command": []string{"moves.txt"}},
			},
		},
	})
	if s.debounce != time.Hour {
		t.Fatalf("debounce = %v", s.debounce)
	}
	flush(t, s, uri)

	pubs := publishes(t, &out)
	if len(pubs) != 1 || len(pubs[0].Diagnostics) != 2 {
		t.Fatalf("expected command diagnostics after reconfiguration, got %+v", pubs)
	}
}

func TestSlashPatternAnchoredAtRoot(t *testing.T) {
	var out bytes.Buffer
	dir := t.TempDir()
	m, err := dialect.NewMatcher(map[dialect.Kind][]string{dialect.Vector: {"sion/*.txt"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := NewServer(bytes.NewReader(nil), &out, ServerOptions{
		Debounce: time.Hour,
		Matcher:  m,
		Root:     dir,
		Logger:   log.New(io.Discard),
	})
	uri := canonicalURI(pathToURI(filepath.Join(dir, "sion", "data.txt")))
	// глубже корня тот же паттерн не совпадает
	nested := canonicalURI(pathToURI(filepath.Join(dir, "backup", "sion", "data.txt")))

	text := "10 Jab 1 0 0 0\n10 Jab 1 0 0 0\n"
	openDoc(t, s, uri, "plaintext", text)
	openDoc(t, s, nested, "plaintext", text)
	flush(t, s, uri)
	flush(t, s, nested)

	pubs := publishes(t, &out)
	if len(pubs) != 1 || pubs[0].URI != uri {
		t.Fatalf("expected one publish for %s, got %+v", uri, pubs)
	}
	if len(pubs[0].Diagnostics) == 0 || pubs[0].Diagnostics[0].Source != dialect.TagVector {
		t.Fatalf("expected vector diagnostics, got %+v", pubs[0].Diagnostics)
	}
}

func frame(t *testing.T, msgs ...string) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	for _, m := range msgs {
		if err := writeMessage(&buf, []byte(m)); err != nil {
			t.Fatal(err)
		}
	}
	return &buf
}

func TestRunLifecycle(t *testing.T) {
	in := frame(t,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"rootUri":"file:///tmp"}}`,
		`{"jsonrpc":"2.0","method":"initialized","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"textDocument/hover","params":{}}`,
		`{"jsonrpc":"2.0","id":3,"method":"shutdown"}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	)
	var out bytes.Buffer
	s := newTestServer(in, &out)
	if err := s.Run(context.Background()); !errors.Is(err, ErrExit) {
		t.Fatalf("Run() = %v, want ErrExit", err)
	}

	msgs := readAll(t, &out)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(msgs))
	}
	var init initializeResult
	if err := json.Unmarshal(msgs[0].Result, &init); err != nil {
		t.Fatalf("decode initialize: %v", err)
	}
	if !init.Capabilities.TextDocumentSync.OpenClose || init.Capabilities.TextDocumentSync.Change != 2 {
		t.Fatalf("unexpected capabilities: %+v", init.Capabilities)
	}
	if msgs[1].Error == nil || msgs[1].Error.Code != codeMethodNotFound {
		t.Fatalf("expected method not found, got %+v", msgs[1])
	}
}

func TestExitWithoutShutdown(t *testing.T) {
	in := frame(t, `{"jsonrpc":"2.0","method":"exit"}`)
	var out bytes.Buffer
	s := newTestServer(in, &out)
	if err := s.Run(context.Background()); !errors.Is(err, ErrExitWithoutShutdown) {
		t.Fatalf("Run() = %v, want ErrExitWithoutShutdown", err)
	}
}
