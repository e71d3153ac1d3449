package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"mbaalint/internal/diag"
	"mbaalint/internal/source"
)

func duplicateBag(fileID source.FileID) *diag.Bag {
	bag := diag.NewBag(10)
	d := diag.NewError(
		diag.CmdDuplicateID,
		source.LineSpan(fileID, 1, 0, 2),
		`duplicate command ID "11" (2 occurrences, lines 1, 2)`,
	).WithNote(source.LineSpan(fileID, 0, 0, 2), "also defined here")
	bag.Add(d)
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	fileID := fs.AddVirtual("/home/user/project/data/SionCmd.txt", []byte("11 Strong\n11 Weak\n"))
	bag := duplicateBag(fileID)

	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/data/SionCmd.txt:2:1:"},
		{"relative", PathModeRelative, "data/SionCmd.txt:2:1:"},
		{"basename", PathModeBasename, "SionCmd.txt:2:1:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			out := buf.String()
			if !strings.HasPrefix(out, tt.want) {
				t.Fatalf("expected prefix %q, got:\n%s", tt.want, out)
			}
			if !strings.Contains(out, "ERROR CMD1001:") {
				t.Fatalf("expected severity and code, got:\n%s", out)
			}
		})
	}
}

func TestPrettySnippetAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("SionCmd.txt", []byte("11 Strong\n11 Weak\n"))
	bag := duplicateBag(fileID)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowSource: true, ShowNotes: true})

	want := strings.Join([]string{
		`SionCmd.txt:2:1: ERROR CMD1001: duplicate command ID "11" (2 occurrences, lines 1, 2)`,
		" 2 | 11 Weak",
		"   | ^^",
		"  note: SionCmd.txt:1:1: also defined here",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

// Колонки считаются в UTF-16, а подчёркивание выравнивается по ширине на экране.
func TestPrettyCaretWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("vec.txt", []byte("あい 005\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewWarning(diag.VecDanglingReference, source.LineSpan(fileID, 0, 3, 6), "dangling"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowSource: true})

	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected snippet, got:\n%s", buf.String())
	}
	if want := "   |      ^^^"; lines[2] != want {
		t.Fatalf("caret line = %q, want %q", lines[2], want)
	}
}

func TestPrettyCaretPastLineEnd(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("vec.txt", []byte("5\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewWarning(diag.VecDanglingReference, source.LineSpan(fileID, 0, 0, 3), "dangling"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowSource: true})
	if !strings.Contains(buf.String(), " | ^^^\n") {
		t.Fatalf("expected three carets, got:\n%s", buf.String())
	}
}

func TestPrettyColorToggle(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("SionCmd.txt", []byte("11 Strong\n11 Weak\n"))
	bag := duplicateBag(fileID)

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output contains escape codes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escape codes: %q", colored.String())
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("SionCmd.txt", []byte("11 Strong\n11 Weak\n"))
	bag := duplicateBag(fileID)

	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, false); err != nil {
		t.Fatalf("Short: %v", err)
	}
	want := `error CMD1001 SionCmd.txt:2:1 duplicate command ID "11" (2 occurrences, lines 1, 2)` + "\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := Short(&buf, diag.NewBag(1), fs, false); err != nil || buf.Len() != 0 {
		t.Fatalf("empty bag: %q, %v", buf.String(), err)
	}
}
