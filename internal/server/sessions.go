package server

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-editor/internal/editor"
)

// sessionEntry is one open editor and the user that opened it.
type sessionEntry struct {
	session  *editor.Session
	owner    uuid.UUID
	resumeID string
	stored   bool // loaded from the database
	opened   time.Time

	// done is closed when the session is closed so event streams end.
	done      chan struct{}
	closeOnce sync.Once
}

func (e *sessionEntry) close() {
	e.closeOnce.Do(func() {
		e.session.Close()
		close(e.done)
	})
}

// sessionRegistry holds the open sessions of the server.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*sessionEntry)}
}

func (r *sessionRegistry) add(e *sessionEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[e.session.ID()] = e
}

// get returns the session if it exists and owner opened it.
func (r *sessionRegistry) get(id string, owner uuid.UUID) (*sessionEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok || e.owner != owner {
		return nil, &ErrSessionNotFound{ID: id}
	}
	return e, nil
}

// remove deletes the session from the registry and closes it.
func (r *sessionRegistry) remove(id string, owner uuid.UUID) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if !ok || e.owner != owner {
		r.mu.Unlock()
		return &ErrSessionNotFound{ID: id}
	}
	delete(r.sessions, id)
	r.mu.Unlock()

	e.close()
	return nil
}

// list returns the ids of the sessions owned by owner, oldest first.
func (r *sessionRegistry) list(owner uuid.UUID) []*sessionEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*sessionEntry, 0)
	for _, e := range r.sessions {
		if e.owner == owner {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b *sessionEntry) int { return a.opened.Compare(b.opened) })
	return out
}

func (r *sessionRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// closeAll closes every session.
func (r *sessionRegistry) closeAll() {
	r.mu.Lock()
	entries := make([]*sessionEntry, 0, len(r.sessions))
	for id, e := range r.sessions {
		entries = append(entries, e)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, e := range entries {
		e.close()
	}
}
