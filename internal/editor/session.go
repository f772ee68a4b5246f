// Package editor composes the document store, the dialog manager and the
// notification center of one editing session.
package editor

import (
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/resume-editor/internal/dialog"
	"github.com/jonathan/resume-editor/internal/normalize"
	"github.com/jonathan/resume-editor/internal/notify"
	"github.com/jonathan/resume-editor/internal/store"
	"github.com/jonathan/resume-editor/internal/types"
	"github.com/rs/zerolog"
)

// View is the full observable state of a session.
type View struct {
	store.State
	Dialog        *dialog.Intent         `json:"dialog"`
	Notifications []notify.Notification `json:"notifications"`
}

// Config configures a Session.
type Config struct {
	// ID identifies the session. A random one is used when empty.
	ID string
	// ResumeID is used for documents handed in through SetValue.
	ResumeID     string
	HistoryLimit int
	Logger       zerolog.Logger
	DialogOpts   []dialog.ManagerOption
}

// Session is one open editor.
type Session struct {
	id       string
	resumeID string

	store   *store.Store
	dialogs *dialog.Manager
	notices *notify.Center
	log     zerolog.Logger

	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
	unsub     []func()
}

// NewSession creates an empty session. Nothing is loaded until SetValue or
// Load is called.
func NewSession(cfg Config) *Session {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.ResumeID == "" {
		cfg.ResumeID = types.LocalResumeID
	}
	log := cfg.Logger.With().Str("session_id", cfg.ID).Logger()

	var s *Session
	notices := notify.NewCenter()
	st := store.New(
		store.WithHistoryLimit(cfg.HistoryLimit),
		store.WithNotifier(notify.NotifierFunc(func(n notify.Notification) string {
			id := notices.Notify(n)
			s.changed()
			return id
		})),
		store.WithLogger(log),
	)
	opts := append([]dialog.ManagerOption{dialog.WithManagerLogger(log)}, cfg.DialogOpts...)

	s = &Session{
		id:        cfg.ID,
		resumeID:  cfg.ResumeID,
		store:     st,
		dialogs:   dialog.NewManager(st, opts...),
		notices:   notices,
		log:       log,
		listeners: make(map[int]func()),
	}
	s.unsub = append(s.unsub,
		st.Subscribe(func(store.State) { s.changed() }),
		s.dialogs.Orchestrator().Subscribe(func(*dialog.Intent) { s.changed() }),
	)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Store returns the session's document store.
func (s *Session) Store() *store.Store { return s.store }

// Dialogs returns the session's dialog manager.
func (s *Session) Dialogs() *dialog.Manager { return s.dialogs }

// Notices returns the session's notification center.
func (s *Session) Notices() *notify.Center { return s.notices }

// DismissNotice removes an active notification.
func (s *Session) DismissNotice(id string) {
	s.notices.Dismiss(id)
	s.changed()
}

// SetValue hands an arbitrary document to the editor. Only the document is
// replaced: the id, slug, tags and lock flag of the loaded resume are kept,
// so the lock can change only through the store or a Load of a host
// record. With nothing loaded the document becomes an unlocked local
// resume. A document structurally equal to the current one is ignored and
// local history survives. It reports whether the store was re-initialized.
func (s *Session) SetValue(candidate any) bool {
	data := normalize.Normalize(candidate)
	resume := &types.EditableResume{
		ID:   s.resumeID,
		Tags: []string{},
	}
	if current, ok := s.store.Resume(); ok {
		resume = &current
	}
	resume.Name = types.DeriveName(&data)
	resume.Data = data
	return s.Load(resume)
}

// SetValueJSON is SetValue for raw host input. Invalid JSON is ignored and
// reported.
func (s *Session) SetValueJSON(raw []byte) (bool, error) {
	candidate, err := normalize.ParseCandidate(raw)
	if err != nil {
		s.log.Debug().Err(err).Msg("Ignoring invalid value")
		return false, err
	}
	return s.SetValue(candidate), nil
}

// Load replaces the resume when its document differs from the current one.
// When only the lock flag differs the flag is applied without touching
// history.
func (s *Session) Load(resume *types.EditableResume) bool {
	if resume == nil {
		s.store.Initialize(nil)
		return true
	}

	var candidate any = resume.Data
	if reflect.ValueOf(resume.Data).IsZero() {
		candidate = nil
	}
	data := normalize.Normalize(candidate)
	if current, ok := s.store.Snapshot(); ok {
		next, err := store.NewSnapshot(&data)
		if err == nil && next.Equal(current) {
			if s.store.IsLocked() != resume.IsLocked {
				s.store.SetLocked(resume.IsLocked)
			}
			s.log.Debug().Msg("Incoming document unchanged, keeping history")
			return false
		}
	}

	loaded := *resume
	loaded.Data = data
	s.store.Initialize(&loaded)
	s.log.Info().Str("resume_id", loaded.ID).Msg("Resume loaded")
	return true
}

// SetOnChange registers the consumer of committed snapshots.
func (s *Session) SetOnChange(sink store.ChangeSink) {
	s.store.SetChangeSink(sink)
}

// Undo steps back one committed change.
func (s *Session) Undo() bool { return s.store.Undo() }

// Redo re-applies the last undone change.
func (s *Session) Redo() bool { return s.store.Redo() }

// View returns the current state of the session.
func (s *Session) View() View {
	v := View{
		State:         s.store.State(),
		Notifications: s.notices.Active(),
	}
	if intent, ok := s.dialogs.Orchestrator().Active(); ok {
		v.Dialog = &intent
	}
	if v.Notifications == nil {
		v.Notifications = []notify.Notification{}
	}
	return v
}

// Subscribe registers fn to be called after any change to the session.
// fn runs while the originating component is held, so it must only signal
// and must not call back into the session.
func (s *Session) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) changed() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Close tears the editor down: it drops the change sink, clears history
// and closes any dialog.
func (s *Session) Close() {
	s.store.SetChangeSink(nil)
	s.dialogs.Dismiss()
	s.store.Initialize(nil)
	s.notices.Clear()
	s.changed()

	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.listeners = make(map[int]func())
	s.mu.Unlock()

	for _, u := range unsub {
		u()
	}
	s.log.Info().Msg("Session closed")
}
