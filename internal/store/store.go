// Package store owns the canonical résumé document of an editor session and
// its undo/redo history.
//
// A Store is created per editor session and passed to whatever needs it.
// All operations are serialized; they run to completion and never block on
// the change sink's side effects. The change sink and subscribers are called
// while the store is held and must not call back into it.
package store

import (
	"reflect"
	"slices"
	"sync"

	"github.com/jonathan/resume-editor/internal/normalize"
	"github.com/jonathan/resume-editor/internal/notify"
	"github.com/jonathan/resume-editor/internal/types"
	"github.com/rs/zerolog"
)

// LockedMessage is shown when a mutation is refused because the resume is locked.
const LockedMessage = "This resume is locked and cannot be updated."

// Mutator edits the draft document in place.
type Mutator func(draft *types.ResumeData)

// ChangeSink receives the full document after every committed change.
type ChangeSink func(Snapshot)

// CommitResult describes what UpdateData did.
type CommitResult int

const (
	// CommitNotLoaded means no resume is loaded.
	CommitNotLoaded CommitResult = iota
	// CommitLocked means the resume is locked and the draft was discarded.
	CommitLocked
	// CommitUnchanged means the mutator made no structural change.
	CommitUnchanged
	// CommitInvalid means the mutator failed and the draft was discarded.
	CommitInvalid
	// Committed means the change was applied and the sink notified.
	Committed
)

func (r CommitResult) String() string {
	switch r {
	case CommitNotLoaded:
		return "not_loaded"
	case CommitLocked:
		return "locked"
	case CommitUnchanged:
		return "unchanged"
	case CommitInvalid:
		return "invalid"
	case Committed:
		return "committed"
	default:
		return "unknown"
	}
}

// State is the observable state of a Store.
type State struct {
	Resume  *types.EditableResume `json:"resume"`
	Ready   bool                  `json:"ready"`
	CanUndo bool                  `json:"canUndo"`
	CanRedo bool                  `json:"canRedo"`
}

// Store holds the editable resume. The document lives only as a Snapshot;
// mutators work on a decoded draft that is swapped in after it is encoded.
type Store struct {
	mu sync.Mutex

	meta    *types.EditableResume // nil when torn down; Data is unused
	current Snapshot
	ready   bool
	history *history

	sink        ChangeSink
	subscribers map[int]func(State)
	nextSubID   int

	notifier     notify.Notifier
	lockNoticeID string
	log          zerolog.Logger
}

// New creates an empty, not-ready Store.
func New(opts ...Option) *Store {
	s := &Store{
		history:     newHistory(DefaultHistoryLimit),
		subscribers: make(map[int]func(State)),
		notifier:    notify.Discard,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize replaces the resume wholesale and clears the history. The
// document is normalized first. A nil resume tears the store down.
func (s *Store) Initialize(resume *types.EditableResume) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if resume == nil {
		s.meta = nil
		s.current = Snapshot{}
		s.ready = false
		s.history.reset(false)
		s.log.Debug().Msg("Resume store torn down")
		s.emit()
		return
	}

	var candidate any = resume.Data
	if reflect.ValueOf(resume.Data).IsZero() {
		candidate = nil
	}
	data := normalize.Normalize(candidate)
	snap, err := NewSnapshot(&data)
	if err != nil {
		s.log.Error().Err(err).Str("resume_id", resume.ID).Msg("Failed to encode initial document, using default")
		data = normalize.DefaultResumeData()
		snap, _ = NewSnapshot(&data)
	}

	meta := *resume
	meta.Tags = slices.Clone(resume.Tags)
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	meta.Data = types.ResumeData{}
	meta.Name = types.DeriveName(&data)

	s.meta = &meta
	s.current = snap
	s.ready = true
	s.history.reset(true)

	s.log.Debug().Str("resume_id", meta.ID).Int("bytes", snap.Size()).Msg("Resume store initialized")
	s.emit()
}

// SetChangeSink registers the single consumer notified after each commit,
// replacing any previous one. nil removes it.
func (s *Store) SetChangeSink(sink ChangeSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// SetLocked sets the host-controlled lock flag. It does not touch history
// and does not notify the change sink.
func (s *Store) SetLocked(locked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.meta == nil || s.meta.IsLocked == locked {
		return
	}
	s.meta.IsLocked = locked
	s.emit()
}

// UpdateData applies fn to a copy of the document and commits the result.
func (s *Store) UpdateData(fn Mutator) CommitResult {
	result, _ := s.TryUpdateData(func(draft *types.ResumeData) error {
		fn(draft)
		return nil
	})
	return result
}

// TryUpdateData is UpdateData for mutators that can fail. When fn returns an
// error the draft is discarded and nothing is committed.
func (s *Store) TryUpdateData(fn func(draft *types.ResumeData) error) (CommitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.meta == nil {
		return CommitNotLoaded, nil
	}
	if s.meta.IsLocked {
		s.warnLocked()
		return CommitLocked, nil
	}

	draft := s.current.Data()
	if err := fn(&draft); err != nil {
		return CommitInvalid, err
	}

	next, err := NewSnapshot(&draft)
	if err != nil {
		s.log.Warn().Err(err).Str("resume_id", s.meta.ID).Msg("Discarding draft that cannot be encoded")
		return CommitInvalid, err
	}
	if next.Equal(s.current) {
		return CommitUnchanged, nil
	}

	s.history.record(s.current)
	s.swap(next, &draft)
	return Committed, nil
}

// Undo restores the previous snapshot. It reports false when there is
// nothing to undo, no resume is loaded, or the resume is locked.
func (s *Store) Undo() bool {
	return s.step((*history).undo)
}

// Redo re-applies the last undone snapshot. It reports false when there is
// nothing to redo, no resume is loaded, or the resume is locked.
func (s *Store) Redo() bool {
	return s.step((*history).redo)
}

func (s *Store) step(move func(*history, Snapshot) (Snapshot, bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.meta == nil {
		return false
	}
	if s.meta.IsLocked {
		s.warnLocked()
		return false
	}

	target, ok := move(s.history, s.current)
	if !ok {
		return false
	}
	data := target.Data()
	s.swap(target, &data)
	return true
}

// swap installs next as the current document and notifies observers.
func (s *Store) swap(next Snapshot, data *types.ResumeData) {
	s.current = next
	s.meta.Name = types.DeriveName(data)
	s.notifySink(next)
	s.emit()
}

func (s *Store) notifySink(snap Snapshot) {
	if s.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("resume_id", s.meta.ID).Msg("Change sink panicked")
		}
	}()
	s.sink(snap)
}

func (s *Store) warnLocked() {
	s.lockNoticeID = s.notifier.Notify(notify.Notification{
		ID:      s.lockNoticeID,
		Level:   notify.LevelWarning,
		Message: LockedMessage,
	})
	s.log.Debug().Str("resume_id", s.meta.ID).Msg("Mutation refused, resume is locked")
}

// Subscribe registers fn to receive the full state after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) emit() {
	if len(s.subscribers) == 0 {
		return
	}
	state := s.stateLocked()
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		s.subscribers[id](state)
	}
}

// State returns a copy of the observable state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	state := State{
		Ready:   s.ready,
		CanUndo: s.meta != nil && s.history.canUndo(),
		CanRedo: s.meta != nil && s.history.canRedo(),
	}
	if s.meta != nil {
		state.Resume = s.resumeLocked()
	}
	return state
}

func (s *Store) resumeLocked() *types.EditableResume {
	r := *s.meta
	r.Tags = slices.Clone(s.meta.Tags)
	r.Data = s.current.Data()
	return &r
}

// Resume returns a copy of the loaded resume.
func (s *Store) Resume() (types.EditableResume, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.meta == nil {
		return types.EditableResume{}, false
	}
	return *s.resumeLocked(), true
}

// Data returns a copy of the current document.
func (s *Store) Data() (types.ResumeData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.meta == nil {
		return types.ResumeData{}, false
	}
	return s.current.Data(), true
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.meta != nil
}

// Ready reports whether a resume is loaded.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// IsLocked reports whether the loaded resume is locked.
func (s *Store) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta != nil && s.meta.IsLocked
}

// CanUndo reports whether Undo would change the document.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta != nil && s.history.canUndo()
}

// CanRedo reports whether Redo would change the document.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta != nil && s.history.canRedo()
}

// PastLen returns the depth of the undo stack, baseline included.
func (s *Store) PastLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history.past)
}

// FutureLen returns the depth of the redo stack.
func (s *Store) FutureLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history.future)
}
