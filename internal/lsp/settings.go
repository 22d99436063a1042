package lsp

import (
	"encoding/json"
	"time"

	"todohl/internal/rank"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	if s.applySettings(params.Settings) {
		s.rescheduleAll()
	}
	return nil
}

// applySettings merges the "todohl" settings section and reports whether the
// visible result changed, which requires a new cycle for every document.
func (s *Server) applySettings(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.log.Warn("ignoring malformed settings", "error", err)
		return false
	}
	cfg := settings.Todohl
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.DebounceMS != nil && *cfg.DebounceMS > 0 {
		s.debounce = time.Duration(*cfg.DebounceMS) * time.Millisecond
	}
	if cfg.Trace != nil {
		s.traceLSP = *cfg.Trace
	}
	if cfg.MinBucket != nil {
		b, err := rank.ParseBucket(*cfg.MinBucket)
		if err != nil {
			s.log.Warn("ignoring minBucket", "value", *cfg.MinBucket, "error", err)
			return false
		}
		if b != s.minBucket {
			s.minBucket = b
			return true
		}
	}
	return false
}
