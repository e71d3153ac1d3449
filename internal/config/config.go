// Package config loads mbaalint.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"mbaalint/internal/diag"
	"mbaalint/internal/dialect"
	"mbaalint/internal/source"
)

// FileName is the config file looked up from the working directory upwards.
const FileName = "mbaalint.toml"

// ErrNotFound is returned by Find when no config file exists up to the root.
var ErrNotFound = errors.New("no " + FileName + " found")

// Config mirrors mbaalint.toml.
type Config struct {
	Files FilesConfig `toml:"files"`
	Check CheckConfig `toml:"check"`
	LSP   LSPConfig   `toml:"lsp"`

	// Path is the file the config was read from, "" for defaults.
	Path string `toml:"-"`
}

type FilesConfig struct {
	Command []string `toml:"command"`
	Vector  []string `toml:"vector"`
	SeList  []string `toml:"selist"`
	Exclude []string `toml:"exclude"`
}

type CheckConfig struct {
	Encoding         string `toml:"encoding"`
	NoWarnings       bool   `toml:"no-warnings"`
	WarningsAsErrors bool   `toml:"warnings-as-errors"`
	MaxDiagnostics   int    `toml:"max-diagnostics"`
	Jobs             int    `toml:"jobs"`

	// Severity re-ranks single codes, e.g. SEL3001 = "error".
	Severity map[string]string `toml:"severity,omitempty"`
}

type LSPConfig struct {
	DebounceMS int `toml:"debounce-ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	p := dialect.DefaultPatterns()
	return Config{
		Files: FilesConfig{
			Command: p[dialect.Command],
			Vector:  p[dialect.Vector],
			SeList:  p[dialect.SeList],
		},
		Check: CheckConfig{
			Encoding:       source.EncodingAuto.String(),
			MaxDiagnostics: 200,
		},
		LSP: LSPConfig{DebounceMS: 200},
	}
}

// Find walks from startDir up to the filesystem root looking for FileName.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrNotFound
}

// Discover finds and loads the nearest config, falling back to Default when
// none exists.
func Discover(startDir string) (Config, error) {
	path, err := Find(startDir)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return Load(path)
}

// Load reads path on top of the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and patterns.
func (c Config) Validate() error {
	if _, err := source.ParseEncoding(c.Check.Encoding); err != nil {
		return fmt.Errorf("[check].encoding: %w", err)
	}
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("[check].max-diagnostics must be >= 0")
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must be >= 0")
	}
	if _, err := c.SeverityOverrides(); err != nil {
		return fmt.Errorf("[check.severity]: %w", err)
	}
	if c.LSP.DebounceMS < 0 {
		return fmt.Errorf("[lsp].debounce-ms must be >= 0")
	}
	if _, err := c.Matcher(); err != nil {
		return fmt.Errorf("[files]: %w", err)
	}
	return nil
}

// Matcher builds the file-name matcher from [files].
func (c Config) Matcher() (*dialect.Matcher, error) {
	return dialect.NewMatcher(map[dialect.Kind][]string{
		dialect.Command: c.Files.Command,
		dialect.Vector:  c.Files.Vector,
		dialect.SeList:  c.Files.SeList,
	}, c.Files.Exclude)
}

// SeverityOverrides parses [check.severity].
func (c Config) SeverityOverrides() (map[diag.Code]diag.Severity, error) {
	if len(c.Check.Severity) == 0 {
		return nil, nil
	}
	out := make(map[diag.Code]diag.Severity, len(c.Check.Severity))
	for id, name := range c.Check.Severity {
		code, ok := diag.ParseCode(id)
		if !ok {
			return nil, fmt.Errorf("unknown code %q", id)
		}
		sev, err := diag.ParseSeverity(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		out[code] = sev
	}
	return out, nil
}

// Encoding returns the parsed [check].encoding.
func (c Config) Encoding() source.Encoding {
	enc, err := source.ParseEncoding(c.Check.Encoding)
	if err != nil {
		return source.EncodingAuto
	}
	return enc
}

// Debounce returns [lsp].debounce-ms as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.LSP.DebounceMS) * time.Millisecond
}

// Root is the directory holding the config file, or "".
func (c Config) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
