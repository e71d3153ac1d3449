package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mbaalint/internal/dialect"
)

// ListFiles expands roots into a sorted, de-duplicated list of files to check.
// Files named explicitly are always kept; directories are walked recursively
// and contribute .txt files and files the matcher recognizes, minus excludes.
// Patterns are matched against paths relative to base, as CheckFiles does.
func ListFiles(roots []string, m *dialect.Matcher, base string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, root := range roots {
		st, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", root, err)
		}
		if !st.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel := dialect.RelPath(base, path)
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				if path != root && m.Excluded(rel+"/") {
					return filepath.SkipDir
				}
				return nil
			}
			if m.Excluded(rel) {
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), ".txt") || m.Match(rel) != dialect.Unknown {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
