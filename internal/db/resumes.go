package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-editor/internal/normalize"
	"github.com/jonathan/resume-editor/internal/types"
)

// Resume is a stored résumé record. Data holds the document as JSON.
type Resume struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Tags      []string        `json:"tags"`
	IsLocked  bool            `json:"is_locked"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Editable converts the record into the editor's wrapper. The stored
// document goes through the normalizer, so legacy shapes load with defaults.
func (r *Resume) Editable() *types.EditableResume {
	tags := slices.Clone(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &types.EditableResume{
		ID:       r.ID,
		Name:     r.Name,
		Slug:     r.Slug,
		Tags:     tags,
		IsLocked: r.IsLocked,
		Data:     normalize.Normalize(r.Data),
	}
}

// UpsertResume inserts or replaces a full résumé record
func (db *DB) UpsertResume(ctx context.Context, r *Resume) error {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resumes (id, name, slug, tags, is_locked, data)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   name = $2, slug = $3, tags = $4, is_locked = $5, data = $6, updated_at = NOW()`,
		r.ID, r.Name, r.Slug, tags, r.IsLocked, []byte(r.Data),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert resume: %w", err)
	}
	return nil
}

// SaveResumeData stores a committed document for a résumé, creating the
// record when it does not exist yet. The lock flag is never changed here.
func (db *DB) SaveResumeData(ctx context.Context, id, name string, data []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resumes (id, name, data)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = $2, data = $3, updated_at = NOW()`,
		id, name, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save resume data: %w", err)
	}
	return nil
}

// AddRevision records a committed document in the revision log
func (db *DB) AddRevision(ctx context.Context, resumeID, sessionID string, data []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resume_revisions (resume_id, session_id, data) VALUES ($1, $2, $3)`,
		resumeID, sessionID, data,
	)
	if err != nil {
		return fmt.Errorf("failed to add revision: %w", err)
	}
	return nil
}

// GetResume retrieves a résumé by ID. Returns nil, nil when not found.
func (db *DB) GetResume(ctx context.Context, id string) (*Resume, error) {
	var r Resume
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, slug, tags, is_locked, data, updated_at FROM resumes WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Name, &r.Slug, &r.Tags, &r.IsLocked, &data, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	r.Data = data
	return &r, nil
}

// SetLocked sets the host lock flag of a résumé
func (db *DB) SetLocked(ctx context.Context, id string, locked bool) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE resumes SET is_locked = $2, updated_at = NOW() WHERE id = $1`,
		id, locked,
	)
	if err != nil {
		return fmt.Errorf("failed to set lock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to set lock: resume %s not found", id)
	}
	return nil
}

// CountRevisions returns the number of stored revisions for a résumé
func (db *DB) CountRevisions(ctx context.Context, resumeID string) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM resume_revisions WHERE resume_id = $1`, resumeID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count revisions: %w", err)
	}
	return n, nil
}
