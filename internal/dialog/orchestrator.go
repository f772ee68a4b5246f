package dialog

import (
	"slices"
	"sync"
)

// Orchestrator holds the active intent. It is the only component allowed to
// open or close a dialog.
type Orchestrator struct {
	mu          sync.Mutex
	active      *Intent
	gen         uint64 // bumped by every Request
	subscribers map[int]func(*Intent)
	nextID      int
}

// NewOrchestrator returns a closed orchestrator.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{subscribers: make(map[int]func(*Intent))}
}

// Request opens the editor for intent, replacing any open one.
func (o *Orchestrator) Request(intent Intent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = &intent
	o.gen++
	o.emit()
}

// Dismiss closes the open dialog, if any.
func (o *Orchestrator) Dismiss() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil {
		return
	}
	o.active = nil
	o.emit()
}

// DismissIf closes the dialog only while gen still identifies the open
// one. It reports whether it closed anything.
func (o *Orchestrator) DismissIf(gen uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil || o.gen != gen {
		return false
	}
	o.active = nil
	o.emit()
	return true
}

// opened returns the open intent with its generation.
func (o *Orchestrator) opened() (Intent, uint64, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil {
		return Intent{}, 0, false
	}
	return *o.active, o.gen, true
}

// openDialog dismisses one specific opening of a dialog. Once another
// intent has been requested it does nothing.
type openDialog struct {
	o   *Orchestrator
	gen uint64
}

func (d openDialog) Dismiss() { d.o.DismissIf(d.gen) }

// OnOpenChange receives the modal surface's open state. A close signal is
// handled exactly like Dismiss.
func (o *Orchestrator) OnOpenChange(open bool) {
	if !open {
		o.Dismiss()
	}
}

// Active returns the open intent.
func (o *Orchestrator) Active() (Intent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil {
		return Intent{}, false
	}
	return *o.active, true
}

// IsOpen reports whether a dialog is open.
func (o *Orchestrator) IsOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active != nil
}

// Subscribe registers fn to receive the active intent (nil when closed) on
// every transition.
func (o *Orchestrator) Subscribe(fn func(*Intent)) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextID
	o.nextID++
	o.subscribers[id] = fn
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subscribers, id)
	}
}

func (o *Orchestrator) emit() {
	ids := make([]int, 0, len(o.subscribers))
	for id := range o.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		var snapshot *Intent
		if o.active != nil {
			intent := *o.active
			snapshot = &intent
		}
		o.subscribers[id](snapshot)
	}
}
