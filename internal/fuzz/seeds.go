package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addInlineSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.txt файлы
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

func addInlineSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("7 A\n007 B\n8 C\n"))
	f.Add([]byte("001 = foo.wav\r\n01 = bar.wav\r\n"))
	f.Add([]byte("\xef\xbb\xbf[VectorList]\nVec_001 = 1\n[BoundList_1]\nVec00 = 2\n"))
	f.Add([]byte("// \x89\xe6\x96\xca\x92\x5b\n0 1 2 3 4\n")) // 画面端 in Shift_JIS
	f.Add([]byte("[HitStop]\n[\n]\nEND\n　0 0 0 0 0\n"))
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
