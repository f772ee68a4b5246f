package store

import (
	"github.com/jonathan/resume-editor/internal/notify"
	"github.com/rs/zerolog"
)

// Option configures a Store.
type Option func(*Store)

// WithHistoryLimit bounds the undo and redo stacks. Non-positive values
// fall back to DefaultHistoryLimit.
func WithHistoryLimit(limit int) Option {
	return func(s *Store) {
		s.history = newHistory(limit)
	}
}

// WithNotifier sets where lock warnings are raised.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log.With().Str("component", "store").Logger()
	}
}
