package dialect

import (
	"path/filepath"
	"testing"

	"mbaalint/internal/source"
)

func TestParseTag(t *testing.T) {
	for _, k := range Kinds() {
		if got := ParseTag(k.Tag()); got != k {
			t.Errorf("ParseTag(%q) = %v, want %v", k.Tag(), got, k)
		}
	}
	if got := ParseTag("plaintext"); got != Unknown {
		t.Errorf("ParseTag(plaintext) = %v", got)
	}
	if Unknown.Tag() != "" {
		t.Errorf("Unknown.Tag() = %q", Unknown.Tag())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "cmd", want: Command},
		{in: "Vector", want: Vector},
		{in: "mbaa-selist", want: SeList},
		{in: "auto", want: Unknown},
		{in: "", want: Unknown},
		{in: "yaml", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("Parse(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Kind
	}{
		{
			name: "vector",
			text: "0 900 0 -70 0 // 頭弱\n[VectorList]\nVec_001 = 0,0,0,0\n[BoundList_1]\nVec00 = 1\n",
			want: Vector,
		},
		{
			name: "selist",
			text: "// se\n001 = attack.wav\n002 = guard.wav\n003 = hit.ogg\n",
			want: SeList,
		},
		{
			name: "command",
			text: "// commands\n1 Jab\n2 Strong\n3 Fierce\nEND\n",
			want: Command,
		},
		{
			name: "empty",
			text: "\n// nothing\n",
			want: Unknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(source.SplitLines(tt.text))
			if got.Kind != tt.want {
				t.Fatalf("Detect() = %v (conf %.2f), want %v", got.Kind, got.Confidence, tt.want)
			}
		})
	}
}

func TestClassifierRunnerUp(t *testing.T) {
	e := NewEvidence()
	e.Add(Hint{Dialect: Vector, Score: 2, Reason: "numeric row"})
	e.Add(Hint{Dialect: Vector, Score: 4, Reason: "slot"})
	e.Add(Hint{Dialect: SeList, Score: 2})
	e.Add(Hint{Dialect: Command, Score: 0})
	c := Classifier{}.Classify(e)
	if c.Kind != Vector || c.RunnerUp != SeList {
		t.Fatalf("got %v / %v", c.Kind, c.RunnerUp)
	}
	if c.Reason != "slot" {
		t.Fatalf("reason = %q, want strongest hint", c.Reason)
	}
	if c.TotalScore != 8 || c.ObservedSignals != 4 {
		t.Fatalf("total=%d observed=%d", c.TotalScore, c.ObservedSignals)
	}
	if c.Confidence != 0.75 {
		t.Fatalf("confidence = %v", c.Confidence)
	}
}

func TestEvidenceNil(t *testing.T) {
	var e *Evidence
	e.Add(Hint{Dialect: Vector, Score: 1})
	if e.Hints() != nil || e.Score(Vector) != 0 {
		t.Fatal("nil evidence must stay empty")
	}
	if _, ok := e.Strongest(Vector); ok {
		t.Fatal("nil evidence has no strongest hint")
	}
	if c := (Classifier{}).Classify(e); c.Kind != Unknown || c.ObservedSignals != 0 {
		t.Fatalf("Classify(nil) = %+v", c)
	}
}

func TestMatcher(t *testing.T) {
	m, err := NewMatcher(map[Kind][]string{
		Command: {"*_cmd.txt"},
		Vector:  {"data/**/vector*.txt"},
		SeList:  {"SeList.txt"},
	}, []string{"backup/**"})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	tests := map[string]Kind{
		"chars/sion_CMD.txt":        Command,
		"data/chars/a/vector01.txt": Vector,
		"vector01.txt":              Unknown,
		"sub/selist.txt":            SeList,
		"readme.md":                 Unknown,
	}
	for p, want := range tests {
		if got := m.Match(p); got != want {
			t.Errorf("Match(%q) = %v, want %v", p, got, want)
		}
	}
	if !m.Excluded("backup/old/sion_cmd.txt") {
		t.Error("backup path not excluded")
	}
	if m.Excluded("chars/sion_cmd.txt") {
		t.Error("unexpected exclusion")
	}
}

func TestRelPath(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(filepath.Dir(root), "elsewhere", "SionVector.txt")
	tests := []struct {
		name string
		root string
		path string
		want string
	}{
		{"inside", root, filepath.Join(root, "sion", "a.txt"), "sion/a.txt"},
		{"root itself", root, root, "."},
		{"outside stays absolute", root, outside, filepath.ToSlash(outside)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelPath(tt.root, tt.path); got != tt.want {
				t.Fatalf("RelPath(%q, %q) = %q, want %q", tt.root, tt.path, got, tt.want)
			}
		})
	}

	m, err := NewMatcher(map[Kind][]string{Vector: {"sion/*.txt"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Match(RelPath(root, filepath.Join(root, "sion", "a.txt"))); got != Vector {
		t.Fatalf("anchored slash pattern = %v, want vector", got)
	}
	// тот же файл относительно другого корня не совпадает
	if got := m.Match(RelPath(filepath.Join(root, "sion"), filepath.Join(root, "sion", "a.txt"))); got != Unknown {
		t.Fatalf("pattern matched relative to the wrong root: %v", got)
	}
}

func TestMatcherInvalidPattern(t *testing.T) {
	if _, err := NewMatcher(map[Kind][]string{Vector: {"[unclosed"}}, nil); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestDefaultMatcher(t *testing.T) {
	m := DefaultMatcher()
	if got := m.Match("Sion/SionCmd.txt"); got != Command {
		t.Errorf("Match cmd = %v", got)
	}
	if got := m.Match("Sion/SionVector.txt"); got != Vector {
		t.Errorf("Match vector = %v", got)
	}
	if got := m.Match("Sion/SeList.txt"); got != SeList {
		t.Errorf("Match selist = %v", got)
	}
}
