package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mbaalint/internal/cache"
	"mbaalint/internal/diag"
	"mbaalint/internal/dialect"
	"mbaalint/internal/source"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("..", "..", "testdata", "sion"))
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{
		"b/SionCmd.txt",
		"a/SeList.txt",
		"a/notes.md",
		"backup/OldCmd.txt",
		".git/x.txt",
	} {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("1 a\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	m, err := dialect.NewMatcher(dialect.DefaultPatterns(), []string{"backup/**"})
	if err != nil {
		t.Fatal(err)
	}
	explicit := filepath.Join(root, "a", "notes.md")
	got, err := ListFiles([]string{root, explicit}, m, root)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{
		filepath.Join(root, "a", "SeList.txt"),
		explicit,
		filepath.Join(root, "b", "SionCmd.txt"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ListFiles mismatch (-want +got):\n%s", diff)
	}
}

func TestListFilesMissingRoot(t *testing.T) {
	if _, err := ListFiles([]string{filepath.Join(t.TempDir(), "nope")}, nil, ""); err == nil {
		t.Fatal("expected error for missing root")
	}
}

// Шаблон со слешем привязан к корню конфига: и обход, и выбор диалекта
// должны видеть один и тот же относительный путь.
func TestSlashPatternAnchoredAtRoot(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "sion", "data.txt")
	if err := os.MkdirAll(filepath.Dir(data), 0o755); err != nil {
		t.Fatal(err)
	}
	// как командная таблица это два CMD1001, как вектор: два VEC2003
	if err := os.WriteFile(data, []byte("10 Jab 1 0 0 0\n10 Jab 1 0 0 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	m, err := dialect.NewMatcher(map[dialect.Kind][]string{dialect.Vector: {"sion/*.txt"}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// обход начинается ниже корня
	paths, err := ListFiles([]string{filepath.Join(root, "sion")}, m, root)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if diff := cmp.Diff([]string{data}, paths); diff != "" {
		t.Fatalf("ListFiles mismatch (-want +got):\n%s", diff)
	}

	res, err := CheckFiles(context.Background(), paths, Options{Matcher: m, Root: root})
	if err != nil {
		t.Fatalf("CheckFiles: %v", err)
	}
	got := res.Files[0]
	if got.Kind != dialect.Vector || got.Detection != nil {
		t.Fatalf("kind=%v detection=%v, want vector from pattern", got.Kind, got.Detection)
	}
	items := got.Bag.Items()
	if len(items) != 2 || items[0].Code != diag.VecDuplicateDefID {
		t.Fatalf("diagnostics = %+v, want two VEC2003", items)
	}
}

func TestCheckFilesTestdata(t *testing.T) {
	dir := testdataDir(t)
	paths, err := ListFiles([]string{dir}, dialect.DefaultMatcher(), dir)
	if err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	res, err := CheckFiles(context.Background(), paths, Options{
		Matcher:  dialect.DefaultMatcher(),
		BaseDir:  dir,
		Jobs:     2,
		Progress: rec,
	})
	if err != nil {
		t.Fatalf("CheckFiles: %v", err)
	}

	var b strings.Builder
	for _, fr := range res.Files {
		if got := diag.FormatGoldenDiagnostics(fr.Bag.Items(), res.FileSet, false); got != "" {
			b.WriteString(got)
			b.WriteByte('\n')
		}
	}
	want := strings.Join([]string{
		`error SEL3001 SeList.txt:4:1 duplicate SeList ID "2" (2 occurrences, lines 4, 5)`,
		`error SEL3001 SeList.txt:5:1 duplicate SeList ID "2" (2 occurrences, lines 4, 5)`,
		`error CMD1001 SionCmd.txt:7:1 duplicate command ID "11" (2 occurrences, lines 7, 8)`,
		`error CMD1001 SionCmd.txt:8:1 duplicate command ID "11" (2 occurrences, lines 7, 8)`,
		`warning VEC2005 SionVector.txt:16:1 vector reference "005" has no definition in VectorList section`,
		`error VEC2002 SionVector_sjis.txt:3:1 duplicate vector definition "1" (2 occurrences, lines 3, 4)`,
		`error VEC2002 SionVector_sjis.txt:4:1 duplicate vector definition "1" (2 occurrences, lines 3, 4)`,
	}, "\n") + "\n"
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if !res.HasErrors() {
		t.Fatal("HasErrors = false")
	}

	sjis := res.Files[len(res.Files)-1]
	if f := res.FileSet.Get(sjis.FileID); f.Flags&source.FileDecodedShiftJIS == 0 {
		t.Fatal("Shift_JIS file was not decoded")
	}

	done := 0
	for _, e := range rec.events {
		if e.Stage == StageCheck && (e.Status == StatusDone || e.Status == StatusError || e.Status == StatusWarning) && e.File != "" {
			done++
		}
	}
	if done != len(paths) {
		t.Fatalf("finished events = %d, want %d", done, len(paths))
	}
}

func TestCheckFilesDetectsAndSkips(t *testing.T) {
	dir := t.TempDir()
	vec := filepath.Join(dir, "motion.txt")
	unknown := filepath.Join(dir, "readme.txt")
	if err := os.WriteFile(vec, []byte("[VectorList]\nVec_001 = 1\nVec_001 = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(unknown, []byte("hello\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := CheckFiles(context.Background(), []string{vec, unknown}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Files[0]; got.Kind != dialect.Vector || got.Detection == nil || got.Bag.Len() != 2 {
		t.Fatalf("vector file: kind=%v detection=%v len=%d", got.Kind, got.Detection, got.Bag.Len())
	}
	if got := res.Files[1]; !got.Skipped || got.Bag.Len() != 0 {
		t.Fatalf("unknown file: skipped=%v len=%d", got.Skipped, got.Bag.Len())
	}
}

func TestCheckFilesWarningStatus(t *testing.T) {
	p := filepath.Join(t.TempDir(), "motion_vector.txt")
	if err := os.WriteFile(p, []byte("2 0 0 0 0\n[VectorList]\nVec_001 = 0, 0, 0, 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	res, err := CheckFiles(context.Background(), []string{p}, Options{Progress: rec})
	if err != nil {
		t.Fatal(err)
	}
	if res.HasErrors() || res.Files[0].Bag.Len() != 1 {
		t.Fatalf("want a single warning, got %+v", res.Files[0].Bag.Items())
	}
	var last Status
	for _, e := range rec.events {
		if e.File == p && e.Stage == StageCheck {
			last = e.Status
		}
	}
	if last != StatusWarning {
		t.Fatalf("final status = %q, want %q", last, StatusWarning)
	}
}

func TestCheckFilesForcedDialectAndLimit(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "whatever.txt")
	if err := os.WriteFile(p, []byte("1 a\n1 b\n1 c\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := CheckFiles(context.Background(), []string{p}, Options{Dialect: dialect.Command, MaxDiagnostics: 2})
	if err != nil {
		t.Fatal(err)
	}
	fr := res.Files[0]
	if fr.Kind != dialect.Command || fr.Bag.Len() != 2 || fr.Dropped != 1 {
		t.Fatalf("kind=%v len=%d dropped=%d", fr.Kind, fr.Bag.Len(), fr.Dropped)
	}
}

func TestCheckFilesLoadError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone_cmd.txt")
	res, err := CheckFiles(context.Background(), []string{missing}, Options{})
	if err != nil {
		t.Fatalf("load errors must not abort the run: %v", err)
	}
	fr := res.Files[0]
	if fr.LoadErr == nil || fr.Bag.Len() != 1 || fr.Bag.Items()[0].Code != diag.IOLoadFileError {
		t.Fatalf("unexpected result: %+v", fr)
	}
}

func TestCheckFilesUsesCache(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "SeList.txt")
	if err := os.WriteFile(p, []byte("001 = a.wav\n1 = b.wav\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := cache.OpenDir(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Matcher: dialect.DefaultMatcher(), Cache: c}

	first, err := CheckFiles(context.Background(), []string{p}, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := CheckFiles(context.Background(), []string{p}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Files[0].Cached || !second.Files[0].Cached {
		t.Fatalf("cached flags: first=%v second=%v", first.Files[0].Cached, second.Files[0].Cached)
	}
	if diff := cmp.Diff(first.Files[0].Bag.Items(), second.Files[0].Bag.Items()); diff != "" {
		t.Fatalf("cached result differs (-fresh +cached):\n%s", diff)
	}
}

func TestCheckFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a_cmd.txt")
	if err := os.WriteFile(p, []byte("1 a\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CheckFiles(ctx, []string{p}, Options{}); err == nil {
		t.Fatal("expected context error")
	}
}
