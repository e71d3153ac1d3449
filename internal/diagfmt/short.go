package diagfmt

import (
	"io"

	"mbaalint/internal/diag"
	"mbaalint/internal/source"
)

// Short печатает по одной строке на диагностику:
// "<severity> <CODE> <path>:<line>:<col> <message>".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, withNotes bool) error {
	out := diag.FormatGoldenDiagnostics(bag.Items(), fs, withNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
