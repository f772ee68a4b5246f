package sink

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-editor/internal/types"
)

// ResumeWriter is the storage the Postgres publisher writes through.
type ResumeWriter interface {
	SaveResumeData(ctx context.Context, id, name string, data []byte) error
	AddRevision(ctx context.Context, resumeID, sessionID string, data []byte) error
}

// PostgresPublisher stores every delivered document and appends it to the
// revision log.
type PostgresPublisher struct {
	db        ResumeWriter
	revisions bool
}

// NewPostgresPublisher creates a publisher writing to db. With revisions
// set every delivered document is also kept in the revision log.
func NewPostgresPublisher(db ResumeWriter, revisions bool) *PostgresPublisher {
	return &PostgresPublisher{db: db, revisions: revisions}
}

// Publish implements Publisher. Local documents have no stored record and
// are skipped.
func (p *PostgresPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.ResumeID == "" || ev.ResumeID == types.LocalResumeID {
		return nil
	}
	if err := p.db.SaveResumeData(ctx, ev.ResumeID, ev.Name, ev.Data); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}
	if !p.revisions {
		return nil
	}
	if err := p.db.AddRevision(ctx, ev.ResumeID, ev.SessionID, ev.Data); err != nil {
		return fmt.Errorf("failed to store revision: %w", err)
	}
	return nil
}
