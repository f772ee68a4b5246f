// Package sink delivers committed documents to external systems without
// blocking the editor.
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Event is one committed document.
type Event struct {
	SessionID   string          `json:"session_id"`
	ResumeID    string          `json:"resume_id"`
	Name        string          `json:"name"`
	Data        json.RawMessage `json:"data"`
	CommittedAt time.Time       `json:"committed_at"`
}

// Publisher delivers events to one backend.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, ev Event) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

// Publish implements Publisher.
func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
