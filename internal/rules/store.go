package rules

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tracklint/pkg/tabular"
)

type store struct {
	mu      sync.RWMutex
	current *RuleSet
	logger  *slog.Logger
}

// New creates an in-memory rule store implementing the System interface.
// A single rule set is active at a time; loading replaces it.
func New(logger *slog.Logger) System {
	return &store{
		logger: logger.With("system", "rules"),
	}
}

func (s *store) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *store) Load(data []byte, filename string) (*RuleSet, error) {
	table, err := tabular.ParseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	if len(table.Rows) == 0 {
		return nil, ErrEmptyRules
	}

	rs := &RuleSet{
		Table:      table,
		Filename:   filename,
		UploadedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.current = rs
	s.mu.Unlock()

	s.logger.Info("rules loaded", "filename", filename, "rules", len(table.Rows))
	return rs, nil
}

func (s *store) Current() (*RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNoRules
	}
	return s.current, nil
}

func (s *store) Context() (string, error) {
	rs, err := s.Current()
	if err != nil {
		return "", err
	}
	return rs.Context(), nil
}

func (s *store) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
