package lsp

import (
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"mbaalint/internal/dialect"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Warn("invalid didChangeConfiguration params", "error", err)
		return nil
	}
	if s.applySettings(params.Settings) {
		s.revalidateAll()
	}
	return nil
}

// applySettings reads the "mbaalint" section and reports whether the
// dialect of open documents may have changed.
func (s *Server) applySettings(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil || settings.MBAA == nil {
		return false
	}
	cfg := settings.MBAA

	var matcher *dialect.Matcher
	if cfg.Files != nil {
		m, err := dialect.NewMatcher(map[dialect.Kind][]string{
			dialect.Command: cfg.Files.Command,
			dialect.Vector:  cfg.Files.Vector,
			dialect.SeList:  cfg.Files.SeList,
		}, cfg.Files.Exclude)
		if err != nil {
			s.logger.Warn("ignoring invalid file patterns", "error", err)
		} else {
			matcher = m
		}
	}
	if cfg.LogLevel != nil {
		if lvl, err := log.ParseLevel(*cfg.LogLevel); err == nil {
			s.logger.SetLevel(lvl)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.DebounceMS != nil && *cfg.DebounceMS >= 0 {
		s.debounce = time.Duration(*cfg.DebounceMS) * time.Millisecond
	}
	if cfg.MaxDiagnostics != nil && *cfg.MaxDiagnostics > 0 {
		s.maxDiagnostics = *cfg.MaxDiagnostics
	}
	if matcher == nil {
		return false
	}
	s.matcher = matcher
	return true
}

// revalidateAll re-detects the dialect of every open document and
// schedules a fresh pass.
func (s *Server) revalidateAll() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	for uri, doc := range s.docs {
		doc.kind = s.detectKind(uri, doc.langKind)
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	for _, uri := range uris {
		s.scheduleDiagnostics(uri)
	}
}
