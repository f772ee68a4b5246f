package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/resume-editor/internal/dialog"
)

// DialogRequest opens the editor for an intent.
type DialogRequest struct {
	Type dialog.IntentType `json:"type" validate:"required"`
	Data json.RawMessage   `json:"data,omitempty"`
}

// DialogResponse describes the open dialog. Initial is the value the form
// starts from; it is absent when no view is registered for the intent.
type DialogResponse struct {
	Open    bool           `json:"open"`
	Intent  *dialog.Intent `json:"intent,omitempty"`
	Initial any            `json:"initial,omitempty"`
}

func (e *sessionEntry) dialogResponse() DialogResponse {
	m := e.session.Dialogs()
	intent, open := m.Orchestrator().Active()
	resp := DialogResponse{Open: open}
	if !open {
		return resp
	}
	resp.Intent = &intent
	if v := m.Current(); v != nil {
		resp.Initial = v.Initial()
	}
	return resp
}

func (s *Server) handleGetDialog(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, e.dialogResponse())
}

func (s *Server) handleRequestDialog(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	var req DialogRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := e.session.Dialogs().RequestJSON(req.Type, req.Data); err != nil {
		s.writeError(w, &ErrValidation{Field: "data", Message: err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, e.dialogResponse())
}

func (s *Server) handleDismissDialog(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	e.session.Dialogs().Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// handleSubmitDialog submits the request body as the form of the open
// editor. Validation errors keep the dialog open.
func (s *Server) handleSubmitDialog(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	form, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	if !json.Valid(form) {
		s.writeError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := e.session.Dialogs().Submit(form); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, e.session.View())
}

// handleEvents streams the session view as "state" events: one on connect
// and one after every change. Changes that arrive while a write is in
// flight are collapsed into the next event.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	changed := make(chan struct{}, 1)
	unsubscribe := e.session.Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	log := s.log.With().Str("session_id", e.session.ID()).Logger()
	log.Debug().Msg("Event stream opened")
	defer log.Debug().Msg("Event stream closed")

	if err := sse.WriteEvent("state", e.session.View()); err != nil {
		return
	}

	ticker := time.NewTicker(s.cfg.KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-e.done:
			sse.WriteClosed(e.session.ID())
			return
		case <-changed:
			if err := sse.WriteEvent("state", e.session.View()); err != nil {
				log.Debug().Err(err).Msg("Failed to write event")
				return
			}
		case <-ticker.C:
			if err := sse.WriteComment("keep-alive"); err != nil {
				return
			}
		}
	}
}
