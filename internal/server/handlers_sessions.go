package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-editor/internal/editor"
	"github.com/jonathan/resume-editor/internal/sections"
	"github.com/jonathan/resume-editor/internal/server/middleware"
	"github.com/jonathan/resume-editor/internal/sink"
	"github.com/jonathan/resume-editor/internal/store"
	"github.com/jonathan/resume-editor/internal/templates"
	"github.com/jonathan/resume-editor/internal/types"
)

// CreateSessionRequest opens an editor session. With ResumeID the stored
// resume is loaded; otherwise Value is normalized and loaded as a local
// resume. Both empty loads the default document.
type CreateSessionRequest struct {
	ResumeID string          `json:"resume_id" validate:"omitempty,max=128"`
	Value    json.RawMessage `json:"value,omitempty"`
}

// SessionResponse describes one session.
type SessionResponse struct {
	ID       string      `json:"id"`
	ResumeID string      `json:"resume_id"`
	OpenedAt time.Time   `json:"opened_at"`
	State    editor.View `json:"state"`
}

// PatchDataRequest replaces the value at a dotted document path.
type PatchDataRequest struct {
	Path  string          `json:"path" validate:"required"`
	Value json.RawMessage `json:"value" validate:"required"`
}

// LockRequest sets the host lock flag.
type LockRequest struct {
	Locked *bool `json:"locked" validate:"required"`
}

// MoveItemRequest moves an item to a new position.
type MoveItemRequest struct {
	To *int `json:"to" validate:"required"`
}

// CommitResponse reports the outcome of an edit.
type CommitResponse struct {
	Result string      `json:"result"`
	State  editor.View `json:"state"`
}

// HistoryResponse reports the outcome of an undo or redo.
type HistoryResponse struct {
	Applied bool        `json:"applied"`
	State   editor.View `json:"state"`
}

func (s *Server) owner(r *http.Request) uuid.UUID {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil
	}
	return userID
}

// entry resolves the {id} path value to a session of the caller.
func (s *Server) entry(w http.ResponseWriter, r *http.Request) (*sessionEntry, bool) {
	e, err := s.sessions.get(r.PathValue("id"), s.owner(r))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return e, true
}

func (e *sessionEntry) response() SessionResponse {
	return SessionResponse{
		ID:       e.session.ID(),
		ResumeID: e.resumeID,
		OpenedAt: e.opened,
		State:    e.session.View(),
	}
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	entries := s.sessions.list(s.owner(r))
	out := make([]SessionResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.response())
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"sessions": out})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength != 0 {
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}

	resumeID := req.ResumeID
	var stored *types.EditableResume
	if resumeID != "" {
		resume, err := s.loadResume(r.Context(), resumeID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		stored = resume
	} else {
		resumeID = types.LocalResumeID
	}

	sess := editor.NewSession(editor.Config{
		ResumeID:     resumeID,
		HistoryLimit: s.cfg.HistoryLimit,
		Logger:       s.cfg.Logger,
	})
	e := &sessionEntry{
		session:  sess,
		owner:    s.owner(r),
		resumeID: resumeID,
		stored:   stored != nil,
		opened:   time.Now().UTC(),
		done:     make(chan struct{}),
	}

	switch {
	case stored != nil:
		sess.Load(stored)
	case len(req.Value) > 0:
		if _, err := sess.SetValueJSON(req.Value); err != nil {
			sess.Close()
			s.writeError(w, err)
			return
		}
	default:
		sess.SetValue(nil)
	}

	sess.SetOnChange(s.changeSink(sess.ID(), resumeID))
	s.sessions.add(e)

	s.log.Info().Str("session_id", sess.ID()).Str("resume_id", resumeID).Msg("Session opened")
	s.jsonResponse(w, http.StatusCreated, e.response())
}

func (s *Server) loadResume(ctx context.Context, id string) (*types.EditableResume, error) {
	if s.cfg.Resumes == nil {
		return nil, &ErrUnavailable{Feature: "resume storage"}
	}
	resume, err := s.cfg.Resumes.GetResume(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}
	if resume == nil {
		return nil, &ErrResumeNotFound{ID: id}
	}
	return resume.Editable(), nil
}

// changeSink forwards committed documents to the change queue. It runs
// while the store is held and must not block.
func (s *Server) changeSink(sessionID, resumeID string) store.ChangeSink {
	if s.cfg.Changes == nil {
		return nil
	}
	return func(snap store.Snapshot) {
		data := snap.Data()
		ev := sink.Event{
			SessionID:   sessionID,
			ResumeID:    resumeID,
			Name:        types.DeriveName(&data),
			Data:        snap.JSON(),
			CommittedAt: time.Now().UTC(),
		}
		if err := s.cfg.Changes.Enqueue(ev); err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to enqueue change")
		}
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, e.response())
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.remove(r.PathValue("id"), s.owner(r)); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info().Str("session_id", r.PathValue("id")).Msg("Session closed")
	w.WriteHeader(http.StatusNoContent)
}

// handleSetValue hands a new document to the session. The request body is
// the document itself. A locked resume refuses replacement like any other
// edit; the lock itself only changes through PUT /lock.
func (s *Server) handleSetValue(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	if e.session.Store().IsLocked() {
		s.writeError(w, &ErrLocked{})
		return
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	reloaded, err := e.session.SetValueJSON(raw)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"reinitialized": reloaded,
		"state":         e.session.View(),
	})
}

func (s *Server) handleSetLock(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	var req LockRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if !e.session.Store().Ready() {
		s.writeError(w, &ErrNotLoaded{})
		return
	}

	if e.stored && s.cfg.Resumes != nil {
		if err := s.cfg.Resumes.SetLocked(r.Context(), e.resumeID, *req.Locked); err != nil {
			s.writeError(w, fmt.Errorf("failed to store lock: %w", err))
			return
		}
	}
	e.session.Store().SetLocked(*req.Locked)
	s.jsonResponse(w, http.StatusOK, e.session.View())
}

// commit runs fn against the session document and writes the outcome.
func (s *Server) commit(w http.ResponseWriter, e *sessionEntry, fn func(*types.ResumeData) error) {
	result, err := e.session.Store().TryUpdateData(fn)
	switch result {
	case store.CommitLocked:
		s.writeError(w, &ErrLocked{})
	case store.CommitNotLoaded:
		s.writeError(w, &ErrNotLoaded{})
	case store.CommitInvalid:
		s.writeError(w, err)
	default:
		s.jsonResponse(w, http.StatusOK, CommitResponse{Result: result.String(), State: e.session.View()})
	}
}

func (s *Server) handlePatchData(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	var req PatchDataRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.commit(w, e, store.SetPath(req.Path, req.Value))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.history(w, r, (*editor.Session).Undo)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.history(w, r, (*editor.Session).Redo)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request, step func(*editor.Session) bool) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	st := e.session.Store()
	if !st.Ready() {
		s.writeError(w, &ErrNotLoaded{})
		return
	}
	applied := step(e.session)
	if !applied && st.IsLocked() {
		s.writeError(w, &ErrLocked{})
		return
	}
	s.jsonResponse(w, http.StatusOK, HistoryResponse{Applied: applied, State: e.session.View()})
}

func (s *Server) sectionKind(r *http.Request) (sections.Kind, error) {
	kind, err := sections.ParseKind(r.PathValue("kind"))
	if err != nil {
		return "", &ErrValidation{Field: "kind", Message: err.Error()}
	}
	return kind, nil
}

func (s *Server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	kind, err := s.sectionKind(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req MoveItemRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	itemID := r.PathValue("item_id")
	s.commit(w, e, func(d *types.ResumeData) error {
		return sections.MoveItem(d, kind, itemID, *req.To)
	})
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	kind, err := s.sectionKind(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	itemID := r.PathValue("item_id")
	s.commit(w, e, func(d *types.ResumeData) error {
		return sections.RemoveItem(d, kind, itemID)
	})
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"notifications": e.session.View().Notifications})
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	e.session.DismissNotice(r.PathValue("notice_id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"templates": templates.All(),
		"default":   templates.Default,
	})
}
