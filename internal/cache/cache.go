// Package cache keeps validation results on disk keyed by file content.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"mbaalint/internal/diag"
	"mbaalint/internal/dialect"
	"mbaalint/internal/source"
)

// Current schema version - increment when Entry format or validator output changes
const SchemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Key derives the cache key for content validated as kind.
func Key(kind dialect.Kind, content []byte) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte{byte(SchemaVersion >> 8), byte(SchemaVersion), byte(kind)})
	_, _ = h.Write(content)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Cache stores entries under one directory. Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Entry is the cached outcome of one validation.
type Entry struct {
	// Schema version for safe invalidation when format changes
	Schema      uint16
	Dialect     uint8
	Diagnostics []Diagnostic
}

// Diagnostic is a file-independent copy of diag.Diagnostic.
type Diagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Span     Span
	Notes    []Note
}

type Note struct {
	Span Span
	Msg  string
}

type Span struct {
	StartLine, StartCol uint32
	EndLine, EndCol     uint32
}

// Open initializes a cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir initializes a cache rooted at dir.
func OpenDir(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) Dir() string { return c.dir }

func (c *Cache) pathFor(key Digest) string {
	hexKey := key.String()
	// Два уровня, чтобы не держать тысячи файлов в одном каталоге.
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes an entry, replacing any previous one atomically.
func (c *Cache) Put(key Digest, e *Entry) (err error) {
	if c == nil || e == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	e.Schema = SchemaVersion
	if err := msgpack.NewEncoder(f).Encode(e); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads an entry. A missing entry or one written by another schema
// version is reported as a miss.
func (c *Cache) Get(key Digest) (*Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var e Entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if e.Schema != SchemaVersion {
		return nil, false, nil
	}
	return &e, true, nil
}

// DropAll invalidates the cache.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// NewEntry captures diagnostics for storage.
func NewEntry(kind dialect.Kind, ds []diag.Diagnostic) *Entry {
	e := &Entry{Schema: SchemaVersion, Dialect: uint8(kind)}
	e.Diagnostics = make([]Diagnostic, len(ds))
	for i, d := range ds {
		cd := Diagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Span:     fromSpan(d.Primary),
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, Note{Span: fromSpan(n.Span), Msg: n.Msg})
		}
		e.Diagnostics[i] = cd
	}
	return e
}

// Restore rebuilds diagnostics attached to file.
func (e *Entry) Restore(file source.FileID) []diag.Diagnostic {
	if e == nil {
		return nil
	}
	out := make([]diag.Diagnostic, len(e.Diagnostics))
	for i, cd := range e.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  cd.Span.toSpan(file),
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: n.Span.toSpan(file), Msg: n.Msg})
		}
		out[i] = d
	}
	return out
}

func fromSpan(s source.Span) Span {
	return Span{StartLine: s.Start.Line, StartCol: s.Start.Col, EndLine: s.End.Line, EndCol: s.End.Col}
}

func (s Span) toSpan(file source.FileID) source.Span {
	return source.Span{
		File:  file,
		Start: source.Pos{Line: s.StartLine, Col: s.StartCol},
		End:   source.Pos{Line: s.EndLine, Col: s.EndCol},
	}
}
