package lsp

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// uriToPath returns the absolute local path behind a file: URI. A bare path
// is accepted as is; any other scheme yields "".
func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || uri == "" {
		return ""
	}
	var p string
	switch u.Scheme {
	case "file":
		p = u.Path
		// file:///C:/dir arrives as /C:/dir
		if runtime.GOOS == "windows" && len(p) > 2 && p[0] == '/' && p[2] == ':' {
			p = p[1:]
		}
	case "":
		p = uri
	default:
		return ""
	}
	return absPath(filepath.FromSlash(p))
}

func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	p := filepath.ToSlash(absPath(path))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// canonicalURI gives every spelling of one file: URI the same document key.
// untitled: and other schemes are returned untouched.
func canonicalURI(uri string) string {
	if !strings.HasPrefix(strings.ToLower(uri), "file:") {
		return uri
	}
	if p := uriToPath(uri); p != "" {
		return pathToURI(p)
	}
	return uri
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
